// Package location derives a trust-ranked description of where a parcel
// physically sits. It reads parcel fields only; owner mailing data never
// enters this package.
package location

// TrustLevel ranks how authoritative the source of a location is.
type TrustLevel string

const (
	TrustVerifiedGIS   TrustLevel = "verified_gis"
	TrustParcelRecord  TrustLevel = "parcel_record"
	TrustDerived       TrustLevel = "derived"
	TrustOwnerProvided TrustLevel = "owner_provided"
	TrustMissing       TrustLevel = "missing"
)

// trustRanks orders levels from least to most authoritative. owner_provided
// sits above missing in the ranking but Resolve never emits it: the resolver
// only sees parcel fields, so an owner-supplied location cannot leak in.
var trustRanks = map[TrustLevel]int{
	TrustMissing:       0,
	TrustOwnerProvided: 1,
	TrustDerived:       2,
	TrustParcelRecord:  3,
	TrustVerifiedGIS:   4,
}

// Rank returns the numeric rank of the trust level, higher meaning more
// authoritative. Unknown levels rank lowest.
func (t TrustLevel) Rank() int {
	return trustRanks[t]
}

// Warning flags a caveat the caller should surface verbatim to the user.
type Warning string

const (
	WarnUnverifiedLocation Warning = "unverified_location"
	WarnGeocodeNeeded      Warning = "geocode_needed"
	WarnNoSitusAddress     Warning = "no_situs_address"
	WarnNoCoordinates      Warning = "no_coordinates"
	WarnNoGeometry         Warning = "no_geometry"
	WarnNoParcel           Warning = "no_parcel"
)

// Descriptor is the resolved location for one parcel. All address text is
// situs-derived; mailing-address fields never appear here.
type Descriptor struct {
	TrustLevel          TrustLevel `json:"trust_level"`
	Warnings            []Warning  `json:"warnings,omitempty"`
	FullAddress         string     `json:"full_address"`
	ShortAddress        string     `json:"short_address,omitempty"`
	MapQuery            string     `json:"map_query,omitempty"`
	CanShowMap          bool       `json:"can_show_map"`
	Latitude            *float64   `json:"latitude,omitempty"`
	Longitude           *float64   `json:"longitude,omitempty"`
	AssessorSearchQuery string     `json:"assessor_search_query,omitempty"`
}

// HasWarning reports whether the descriptor carries the given warning tag.
func (d Descriptor) HasWarning(w Warning) bool {
	for _, got := range d.Warnings {
		if got == w {
			return true
		}
	}
	return false
}
