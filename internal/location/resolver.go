package location

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sells-group/callprep/internal/model"
)

// trustRule is one tier of the ladder. apply returns false when the tier does
// not match, in which case evaluation falls through to the next rule. Keeping
// the ladder as an ordered table makes each tier independently testable and
// enforces the precedence order structurally.
type trustRule struct {
	level TrustLevel
	apply func(p model.ParcelValuation) (Descriptor, bool)
}

// ladder is evaluated top-down; the first matching rule wins. The final rule
// always matches, so Resolve is total.
var ladder = []trustRule{
	{TrustVerifiedGIS, applyVerifiedGIS},
	{TrustParcelRecord, applyParcelRecord},
	{TrustDerived, applyDerived},
	{TrustMissing, applyMissing},
}

// Resolve derives a trust-ranked location descriptor from raw parcel fields.
// It is deterministic and total: malformed input degrades the trust level, it
// never produces an error.
func Resolve(p model.ParcelValuation) Descriptor {
	for _, rule := range ladder {
		if d, ok := rule.apply(p); ok {
			d.TrustLevel = rule.level
			d.AssessorSearchQuery = assessorSearchQuery(p)
			return d
		}
	}
	// Unreachable: applyMissing always matches.
	return Descriptor{TrustLevel: TrustMissing}
}

// applyVerifiedGIS matches when a verified point location is present.
func applyVerifiedGIS(p model.ParcelValuation) (Descriptor, bool) {
	if !p.HasCoordinates() {
		return Descriptor{}, false
	}
	lat, lng := *p.Latitude, *p.Longitude
	return Descriptor{
		FullAddress:  fullAddress(p),
		ShortAddress: shortAddress(p),
		MapQuery:     formatPoint(lat, lng),
		CanShowMap:   true,
		Latitude:     &lat,
		Longitude:    &lng,
	}, true
}

// applyParcelRecord matches when the parcel geometry parses to a usable
// polygon. The centroid stands in for the display point and map center.
func applyParcelRecord(p model.ParcelValuation) (Descriptor, bool) {
	lat, lng, ok := polygonCentroid(p.WKTPolygon)
	if !ok {
		return Descriptor{}, false
	}
	d := Descriptor{
		FullAddress:  fullAddress(p),
		ShortAddress: shortAddress(p),
		MapQuery:     formatPoint(lat, lng),
		CanShowMap:   true,
		Latitude:     &lat,
		Longitude:    &lng,
	}
	if !p.HasSitusAddress() {
		d.Warnings = append(d.Warnings, WarnUnverifiedLocation)
	}
	return d, true
}

// applyDerived matches when only the assessor-recorded situs text is present.
func applyDerived(p model.ParcelValuation) (Descriptor, bool) {
	if !p.HasSitusAddress() {
		return Descriptor{}, false
	}
	return Descriptor{
		Warnings:     []Warning{WarnGeocodeNeeded},
		FullAddress:  fullAddress(p),
		ShortAddress: shortAddress(p),
		MapQuery:     fullAddress(p),
		CanShowMap:   false,
	}, true
}

// applyMissing is the terminal rule; it always matches.
func applyMissing(p model.ParcelValuation) (Descriptor, bool) {
	d := Descriptor{
		Warnings:     []Warning{WarnNoSitusAddress, WarnNoCoordinates, WarnNoGeometry},
		FullAddress:  parcelFallbackAddress(p),
		ShortAddress: parcelShortFallback(p),
		MapQuery:     parishSearchQuery(p),
		CanShowMap:   false,
	}
	if strings.TrimSpace(p.ParcelID) == "" {
		d.Warnings = append(d.Warnings, WarnNoParcel)
	}
	return d, true
}

// fullAddress renders the situs address when present, falling back to the
// parcel/parish identifier otherwise. Mailing-address fields are not reachable
// from here by construction.
func fullAddress(p model.ParcelValuation) string {
	if !p.HasSitusAddress() {
		return parcelFallbackAddress(p)
	}
	addr := strings.TrimSpace(p.SitusAddress)
	if city := strings.TrimSpace(p.SitusCity); city != "" && !strings.Contains(strings.ToLower(addr), strings.ToLower(city)) {
		addr += ", " + city
	}
	return addr
}

func shortAddress(p model.ParcelValuation) string {
	if !p.HasSitusAddress() {
		return parcelShortFallback(p)
	}
	addr := strings.TrimSpace(p.SitusAddress)
	if i := strings.Index(addr, ","); i > 0 {
		return strings.TrimSpace(addr[:i])
	}
	return addr
}

func parcelFallbackAddress(p model.ParcelValuation) string {
	return fmt.Sprintf("Parcel %s, %s Parish", orUnknown(p.ParcelID), orUnknown(p.Parish))
}

func parcelShortFallback(p model.ParcelValuation) string {
	return "Parcel " + orUnknown(p.ParcelID)
}

// parishSearchQuery is the explicit low-trust map search string used when no
// coordinates or situs text exist.
func parishSearchQuery(p model.ParcelValuation) string {
	return fmt.Sprintf("%s parish parcel %s", orUnknown(p.Parish), orUnknown(p.ParcelID))
}

// assessorSearchQuery builds the assessor lookup string. It needs no trust
// decision, only the parish and parcel id, so it is set on every tier.
func assessorSearchQuery(p model.ParcelValuation) string {
	return fmt.Sprintf("%s parish assessor parcel %s", orUnknown(p.Parish), orUnknown(p.ParcelID))
}

func formatPoint(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}
