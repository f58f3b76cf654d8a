package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

// Seed inserts a small demo dataset covering each trust tier and offer edge
// case, for local development against the SQLite backend.
func (s *SQLiteStore) Seed(ctx context.Context) error {
	now := time.Now().UTC()

	owners := []struct {
		id, name, phone, line1, city, state, zip string
	}{
		{"own-001", "Mary Thibodeaux", "+1-337-555-0101", "41 Oak Grove Rd", "Opelousas", "LA", "70570"},
		{"own-002", "Landry Family Trust", "+1-225-555-0144", "PO Box 88", "Baton Rouge", "LA", "70801"},
		{"own-003", "James Fontenot", "", "", "", "", ""},
	}
	for _, o := range owners {
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO owners (id, name, phone, mailing_line1, mailing_city, mailing_state, mailing_postal_code)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			o.id, o.name, o.phone, o.line1, o.city, o.state, o.zip,
		); err != nil {
			return eris.Wrapf(err, "sqlite: seed owner %s", o.id)
		}
	}

	parcels := []struct {
		id, parish          string
		landValue, acreage  *float64
		adjudicated         bool
		yearsDelinquent     int
		situs, wkt          string
		latitude, longitude *float64
	}{
		{
			id: "par-100", parish: "St. Landry",
			landValue: f(100000), acreage: f(10),
			situs:    "1042 Bayou Teche Rd, Arnaudville",
			latitude: f(30.3988), longitude: f(-91.9310),
		},
		{
			id: "par-200", parish: "East Baton Rouge",
			landValue: f(48000), acreage: f(3.2),
			adjudicated: true, yearsDelinquent: 4,
			wkt: "POLYGON((-91.14 30.45, -91.13 30.45, -91.13 30.46, -91.14 30.46, -91.14 30.45))",
		},
		{
			id: "par-300", parish: "Evangeline",
			yearsDelinquent: 1,
			situs:           "Hwy 13, Mamou",
		},
	}
	for _, p := range parcels {
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO parcel_valuations
				(parcel_id, parish, land_value, acreage, is_adjudicated, years_tax_delinquent,
				 situs_address, wkt_polygon, latitude, longitude)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.id, p.parish, p.landValue, p.acreage, p.adjudicated, p.yearsDelinquent,
			p.situs, p.wkt, p.latitude, p.longitude,
		); err != nil {
			return eris.Wrapf(err, "sqlite: seed parcel %s", p.id)
		}
	}

	leads := []struct {
		id, ownerID, parcelID, parish, stage string
	}{
		{"lead-001", "own-001", "par-100", "St. Landry", "new"},
		{"lead-002", "own-002", "par-200", "East Baton Rouge", "contacted"},
		{"lead-003", "own-003", "par-300", "Evangeline", "new"},
	}
	for _, l := range leads {
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO leads (id, owner_id, parcel_id, parish, stage, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			l.id, l.ownerID, l.parcelID, l.parish, l.stage, now, now,
		); err != nil {
			return eris.Wrapf(err, "sqlite: seed lead %s", l.id)
		}
	}

	return nil
}

func f(v float64) *float64 { return &v }
