// Package script renders the multi-section call script a salesperson reads
// from. Every section is recomputed per request from live offer numbers and
// the resolved location, so the text can never drift from the figures on
// screen.
package script

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/callprep/internal/location"
	"github.com/sells-group/callprep/internal/model"
	"github.com/sells-group/callprep/internal/offer"
)

// Script is the assembled call script.
type Script struct {
	Opening           string             `json:"opening"`
	Discovery         []string           `json:"discovery"`
	PriceDiscussion   string             `json:"price_discussion"`
	ObjectionHandlers []ObjectionHandler `json:"objection_handlers"`
	Closing           string             `json:"closing"`
}

// ObjectionHandler pairs an anticipated objection with its counter.
type ObjectionHandler struct {
	Objection string `json:"objection"`
	Response  string `json:"response"`
}

// Assembler renders scripts from the embedded catalog. Safe for concurrent
// use; Assemble is deterministic given identical inputs.
type Assembler struct {
	cat   *catalog
	title cases.Caser
}

// NewAssembler loads the embedded catalog.
func NewAssembler() (*Assembler, error) {
	cat, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	return &Assembler{cat: cat, title: cases.Title(language.AmericanEnglish)}, nil
}

// Assemble builds the script for one call. The opening and price sections use
// the resolved property location only; the owner's mailing address is never
// spoken.
func (a *Assembler) Assemble(owner model.Owner, loc location.Descriptor, parcel model.ParcelValuation, off offer.Range) Script {
	return Script{
		Opening:           a.opening(owner, loc),
		Discovery:         append([]string(nil), a.cat.Discovery...),
		PriceDiscussion:   a.priceDiscussion(off),
		ObjectionHandlers: a.objections(parcel, off),
		Closing:           a.closing(parcel),
	}
}

func (a *Assembler) opening(owner model.Owner, loc location.Descriptor) string {
	name := a.greetingName(owner.Name)
	return fmt.Sprintf(
		"Hi %s, I'm calling about the land you own at %s. We buy vacant land in the parish for cash, and I wanted to see if you'd be open to an offer. Do you have a couple of minutes?",
		name, loc.FullAddress,
	)
}

// greetingName picks a natural spoken form of the owner's name. Entity names
// (estates, LLCs) are kept whole; personal names are reduced to a
// title-cased first name.
func (a *Assembler) greetingName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "there"
	}
	upper := strings.ToUpper(name)
	for _, marker := range []string{"LLC", "L.L.C", "INC", "TRUST", "ESTATE", "SUCCESSION", "PROPERTIES", "HOLDINGS"} {
		if strings.Contains(upper, marker) {
			return name
		}
	}
	first := strings.Fields(name)[0]
	return a.title.String(strings.ToLower(first))
}

func (a *Assembler) priceDiscussion(off offer.Range) string {
	if !off.CanMakeOffer {
		return a.noOfferBranch(off)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on what the parish has on record, I can offer between %s for the parcel, cash, as-is.", off.RangeDisplay)
	if off.PerAcreDisplay != "" && off.PricePerAcreLow != nil {
		fmt.Fprintf(&b, " That works out to roughly %s.", off.PerAcreDisplay)
	}
	for _, j := range off.Justifications {
		b.WriteString(" ")
		b.WriteString(j.Description)
	}
	return b.String()
}

// noOfferBranch is spoken when no price can be quoted: instead of a number,
// the salesperson asks for the missing information.
func (a *Assembler) noOfferBranch(off offer.Range) string {
	var b strings.Builder
	b.WriteString("I'd like to put a real number in front of you today, but I'm missing a piece of information.")
	if off.MissingDataSummary != "" {
		fmt.Fprintf(&b, " %s", off.MissingDataSummary)
	}
	switch off.CannotOfferReason {
	case offer.ReasonMissingLandValue, offer.ReasonZeroLandValue:
		b.WriteString(" Do you happen to know what the parish assessed the land at, or roughly what you'd expect it to appraise for?")
	default:
		b.WriteString(" Could you help me fill in what the records are missing?")
	}
	b.WriteString(" Once I have that, I can usually turn an offer around the same day.")
	return b.String()
}

// objections selects and orders handlers from the catalog. Catalog order is
// preserved; flag-specific counters are appended when the parcel carries the
// matching risk, and offer-dependent handlers are dropped when there is no
// number to defend.
func (a *Assembler) objections(parcel model.ParcelValuation, off offer.Range) []ObjectionHandler {
	handlers := make([]ObjectionHandler, 0, len(a.cat.Objections))
	for _, entry := range a.cat.Objections {
		if entry.RequiresOffer && !off.CanMakeOffer {
			continue
		}
		resp := entry.Response
		if parcel.IsAdjudicated && entry.Adjudicated != "" {
			resp += " " + entry.Adjudicated
		}
		if parcel.YearsTaxDelinquent > 0 && entry.Delinquent != "" {
			resp += " " + entry.Delinquent
		}
		handlers = append(handlers, ObjectionHandler{Objection: entry.Objection, Response: resp})
	}
	return handlers
}

// closing injects an urgency cue only when the parcel's own flags justify it.
func (a *Assembler) closing(parcel model.ParcelValuation) string {
	switch {
	case parcel.YearsTaxDelinquent > 0:
		return fmt.Sprintf(a.cat.Closing.Delinquent, parcel.YearsTaxDelinquent)
	case parcel.IsAdjudicated:
		return a.cat.Closing.Adjudicated
	default:
		return a.cat.Closing.Generic
	}
}
