// Package offer computes discounted purchase-offer ranges from parcel
// valuation snapshots. Compute is a pure function of its inputs; missing data
// produces a degraded-but-valid result, never an error.
package offer

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/callprep/internal/model"
)

// Confidence rates how reliable a computed range is given the data behind it.
type Confidence string

const (
	ConfidenceHigh          Confidence = "high"
	ConfidenceMedium        Confidence = "medium"
	ConfidenceLow           Confidence = "low"
	ConfidenceCannotCompute Confidence = "cannot_compute"
)

// Warning flags a data caveat surfaced verbatim to the caller.
type Warning string

const (
	WarnMissingAcreage       Warning = "missing_acreage"
	WarnAdjudicatedTitleRisk Warning = "adjudicated_title_risk"
	WarnTaxDelinquent        Warning = "tax_delinquent"
	WarnEstimateOnly         Warning = "estimate_only"
)

// Reasons a price cannot be quoted at all.
const (
	ReasonMissingLandValue = "missing_land_value"
	ReasonZeroLandValue    = "zero_land_value"
)

// Impact classifies how a justification factor moves the offer.
type Impact string

const (
	ImpactIncrease Impact = "increase"
	ImpactDecrease Impact = "decrease"
	ImpactNeutral  Impact = "neutral"
)

// Justification is one spoken-rationale bullet behind the numbers.
type Justification struct {
	Factor      string `json:"factor"`
	Description string `json:"description"`
	Impact      Impact `json:"impact"`
}

// perAcreUnknown is shown whenever acreage is unusable.
const perAcreUnknown = "acreage unknown — cannot compute per-acre price"

// Params holds the named calculator constants. The delinquency cutoff is the
// number of delinquent years at which confidence drops from high to medium.
type Params struct {
	DefaultDiscountLow        float64 `yaml:"default_discount_low" mapstructure:"default_discount_low"`
	DefaultDiscountHigh       float64 `yaml:"default_discount_high" mapstructure:"default_discount_high"`
	DelinquencyYearsThreshold int     `yaml:"delinquency_years_threshold" mapstructure:"delinquency_years_threshold"`
}

// DefaultParams returns the stock configuration.
func DefaultParams() Params {
	return Params{
		DefaultDiscountLow:        0.55,
		DefaultDiscountHigh:       0.70,
		DelinquencyYearsThreshold: 3,
	}
}

// Calculator computes offer ranges. It holds configuration only; it is safe
// for concurrent use.
type Calculator struct {
	params Params
}

// New creates a Calculator, filling zero-valued params from the defaults.
func New(p Params) *Calculator {
	def := DefaultParams()
	if p.DefaultDiscountLow == 0 {
		p.DefaultDiscountLow = def.DefaultDiscountLow
	}
	if p.DefaultDiscountHigh == 0 {
		p.DefaultDiscountHigh = def.DefaultDiscountHigh
	}
	if p.DelinquencyYearsThreshold == 0 {
		p.DelinquencyYearsThreshold = def.DelinquencyYearsThreshold
	}
	return &Calculator{params: p}
}

// Params returns the calculator's effective configuration.
func (c *Calculator) Params() Params { return c.params }

// Range is the full offer computation result. Low <= High always holds.
type Range struct {
	Low                float64         `json:"low"`
	High               float64         `json:"high"`
	Midpoint           float64         `json:"midpoint"`
	DiscountLow        float64         `json:"discount_low"`
	DiscountHigh       float64         `json:"discount_high"`
	PricePerAcreLow    *float64        `json:"price_per_acre_low,omitempty"`
	PricePerAcreHigh   *float64        `json:"price_per_acre_high,omitempty"`
	PerAcreDisplay     string          `json:"per_acre_display,omitempty"`
	RangeDisplay       string          `json:"range_display,omitempty"`
	Confidence         Confidence      `json:"confidence"`
	Warnings           []Warning       `json:"warnings,omitempty"`
	Justifications     []Justification `json:"justifications"`
	CanMakeOffer       bool            `json:"can_make_offer"`
	CannotOfferReason  string          `json:"cannot_offer_reason,omitempty"`
	MissingDataSummary string          `json:"missing_data_summary,omitempty"`
}

// Compute derives an offer range from the valuation and the two discount
// fractions. Out-of-range discounts are clamped into [0,1] and swapped when
// inverted, so Low <= High is an unconditional invariant. Non-numeric (NaN)
// discounts fall back to the configured defaults.
func (c *Calculator) Compute(v model.ParcelValuation, discountLow, discountHigh float64) Range {
	dl, dh := c.normalizeDiscounts(discountLow, discountHigh)

	r := Range{
		DiscountLow:  dl,
		DiscountHigh: dh,
	}

	switch {
	case v.LandValue.IsMissing():
		r.CannotOfferReason = ReasonMissingLandValue
	case v.LandValue.IsInvalid():
		r.CannotOfferReason = ReasonZeroLandValue
	default:
		r.CanMakeOffer = true
		lv := v.LandValue.Float64()
		r.Low = lv * dl
		r.High = lv * dh
		r.Midpoint = (r.Low + r.High) / 2
		r.RangeDisplay = FormatMoney(r.Low) + " to " + FormatMoney(r.High)
	}

	if v.Acreage.Usable() && r.CanMakeOffer {
		acres := v.Acreage.Float64()
		ppaLow := r.Low / acres
		ppaHigh := r.High / acres
		r.PricePerAcreLow = &ppaLow
		r.PricePerAcreHigh = &ppaHigh
		r.PerAcreDisplay = FormatMoney(ppaLow) + " to " + FormatMoney(ppaHigh) + " per acre"
	} else if !v.Acreage.Usable() {
		r.PerAcreDisplay = perAcreUnknown
	}

	r.Confidence = c.confidence(v)
	r.Warnings = warnings(v, r.Confidence)
	r.Justifications = justifications(v, r)
	r.MissingDataSummary = missingDataSummary(v)

	zap.L().Debug("offer: range computed",
		zap.String("parcel_id", v.ParcelID),
		zap.Float64("low", r.Low),
		zap.Float64("high", r.High),
		zap.String("confidence", string(r.Confidence)),
		zap.Bool("can_make_offer", r.CanMakeOffer),
	)

	return r
}

// normalizeDiscounts applies the clamp-then-swap policy: each fraction is
// clamped into [0,1], then the pair is swapped if inverted. NaN means the
// caller sent something non-numeric that survived parsing; substitute the
// configured default rather than guessing.
func (c *Calculator) normalizeDiscounts(low, high float64) (float64, float64) {
	if math.IsNaN(low) {
		low = c.params.DefaultDiscountLow
	}
	if math.IsNaN(high) {
		high = c.params.DefaultDiscountHigh
	}
	low = clamp01(low)
	high = clamp01(high)
	if low > high {
		low, high = high, low
	}
	return low, high
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// confidence rates the computation given which inputs were usable.
func (c *Calculator) confidence(v model.ParcelValuation) Confidence {
	landOK := v.LandValue.Usable()
	acresOK := v.Acreage.Usable()
	risky := v.IsAdjudicated || v.YearsTaxDelinquent >= c.params.DelinquencyYearsThreshold

	switch {
	case !landOK:
		return ConfidenceCannotCompute
	case acresOK && !risky:
		return ConfidenceHigh
	case acresOK:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// warnings accumulate independently of the confidence tier.
func warnings(v model.ParcelValuation, conf Confidence) []Warning {
	var ws []Warning
	if !v.Acreage.Usable() {
		ws = append(ws, WarnMissingAcreage)
	}
	if v.IsAdjudicated {
		ws = append(ws, WarnAdjudicatedTitleRisk)
	}
	if v.YearsTaxDelinquent > 0 {
		ws = append(ws, WarnTaxDelinquent)
	}
	if conf != ConfidenceHigh {
		ws = append(ws, WarnEstimateOnly)
	}
	return ws
}

// justifications produce the ordered spoken-rationale bullets. They are
// computed even when no price can be quoted so the caller still gets context.
func justifications(v model.ParcelValuation, r Range) []Justification {
	var js []Justification

	if v.Acreage.Usable() {
		js = append(js, Justification{
			Factor:      "acreage",
			Description: fmt.Sprintf("Offer reflects the recorded %.2f acres.", v.Acreage.Float64()),
			Impact:      ImpactNeutral,
		})
	}
	if v.LandValue.Usable() {
		js = append(js, Justification{
			Factor:      "land_value",
			Description: fmt.Sprintf("Based on the assessed land value of %s.", FormatMoney(v.LandValue.Float64())),
			Impact:      ImpactNeutral,
		})
	}
	if v.IsAdjudicated {
		js = append(js, Justification{
			Factor:      "adjudication",
			Description: "Adjudicated title adds clearing cost and closing time, which lowers what we can pay.",
			Impact:      ImpactDecrease,
		})
	}
	if v.YearsTaxDelinquent > 0 {
		js = append(js, Justification{
			Factor:      "tax_delinquency",
			Description: fmt.Sprintf("Property taxes are %d year(s) behind; a cash sale stops penalties from growing.", v.YearsTaxDelinquent),
			Impact:      ImpactIncrease,
		})
	}
	if !v.LandValue.Usable() {
		js = append(js, Justification{
			Factor:      "missing_land_value",
			Description: "No usable assessed land value is on record for this parcel.",
			Impact:      ImpactNeutral,
		})
	}
	if !v.Acreage.Usable() {
		js = append(js, Justification{
			Factor:      "missing_acreage",
			Description: "Acreage is not on record, so per-acre pricing is unavailable.",
			Impact:      ImpactNeutral,
		})
	}

	return js
}

// missingDataSummary builds one human-readable sentence of missing-field
// callouts, or an empty string when nothing is missing.
func missingDataSummary(v model.ParcelValuation) string {
	var parts []string
	switch {
	case v.LandValue.IsMissing():
		parts = append(parts, "assessed land value is not on record")
	case v.LandValue.IsInvalid():
		parts = append(parts, "assessed land value is recorded as zero")
	}
	if !v.Acreage.Usable() {
		parts = append(parts, "acreage is not on record")
	}
	if !v.HasCoordinates() {
		parts = append(parts, "no verified coordinates are available")
	}
	if len(parts) == 0 {
		return ""
	}
	s := strings.Join(parts, "; ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}
