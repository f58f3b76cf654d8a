package model

import "strings"

// ParcelValuation is the read-only valuation snapshot for a single parcel as
// delivered by the upstream parcel store. The engine never writes it back.
type ParcelValuation struct {
	ParcelID           string   `json:"parcel_id"`
	Parish             string   `json:"parish"`
	LandValue          Amount   `json:"land_value"`
	Acreage            Amount   `json:"acreage"`
	IsAdjudicated      bool     `json:"is_adjudicated"`
	YearsTaxDelinquent int      `json:"years_tax_delinquent"`
	SitusAddress       string   `json:"situs_address,omitempty"`
	SitusCity          string   `json:"situs_city,omitempty"`
	Latitude           *float64 `json:"latitude,omitempty"`
	Longitude          *float64 `json:"longitude,omitempty"`
	WKTPolygon         string   `json:"wkt_polygon,omitempty"`
}

// HasSitusAddress reports whether the assessor recorded a physical address.
func (p ParcelValuation) HasSitusAddress() bool {
	return strings.TrimSpace(p.SitusAddress) != ""
}

// HasCoordinates reports whether a verified point location is present.
func (p ParcelValuation) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// HasGeometry reports whether any parcel geometry text is present. The text
// may still fail to parse; callers treat unparsable geometry as absent.
func (p ParcelValuation) HasGeometry() bool {
	return strings.TrimSpace(p.WKTPolygon) != ""
}
