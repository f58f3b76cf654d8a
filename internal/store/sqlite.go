package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/callprep/internal/model"
)

// SQLiteStore implements SnapshotStore using modernc.org/sqlite. It exists
// for local development and demos; production reads go through Postgres.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: sqlDB}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id         TEXT PRIMARY KEY,
	owner_id   TEXT NOT NULL,
	parcel_id  TEXT NOT NULL,
	parish     TEXT NOT NULL DEFAULT '',
	stage      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS owners (
	id                  TEXT PRIMARY KEY,
	name                TEXT NOT NULL DEFAULT '',
	phone               TEXT NOT NULL DEFAULT '',
	mailing_line1       TEXT NOT NULL DEFAULT '',
	mailing_line2       TEXT NOT NULL DEFAULT '',
	mailing_city        TEXT NOT NULL DEFAULT '',
	mailing_state       TEXT NOT NULL DEFAULT '',
	mailing_postal_code TEXT NOT NULL DEFAULT '',
	mailing_raw         TEXT NOT NULL DEFAULT '',
	mailing_data_trust  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS parcel_valuations (
	parcel_id            TEXT PRIMARY KEY,
	parish               TEXT NOT NULL DEFAULT '',
	land_value           REAL,
	acreage              REAL,
	is_adjudicated       INTEGER NOT NULL DEFAULT 0,
	years_tax_delinquent INTEGER NOT NULL DEFAULT 0,
	situs_address        TEXT NOT NULL DEFAULT '',
	situs_city           TEXT NOT NULL DEFAULT '',
	latitude             REAL,
	longitude            REAL,
	wkt_polygon          TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_leads_owner_id ON leads(owner_id);
CREATE INDEX IF NOT EXISTS idx_leads_parcel_id ON leads(parcel_id);
`

// Migrate creates the snapshot schema.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) GetLead(ctx context.Context, leadID string) (*model.Lead, error) {
	var l model.Lead
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, parcel_id, parish, stage, created_at, updated_at FROM leads WHERE id = ?`,
		leadID,
	).Scan(&l.ID, &l.OwnerID, &l.ParcelID, &l.Parish, &l.Stage, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "lead", ID: leadID}
		}
		return nil, &UpstreamError{Op: "get lead", Err: err}
	}
	return &l, nil
}

func (s *SQLiteStore) GetOwner(ctx context.Context, ownerID string) (*model.Owner, error) {
	var o model.Owner
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, phone, mailing_line1, mailing_line2, mailing_city,
			mailing_state, mailing_postal_code, mailing_raw, mailing_data_trust
		FROM owners WHERE id = ?`,
		ownerID,
	).Scan(
		&o.ID, &o.Name, &o.Phone,
		&o.Mailing.Line1, &o.Mailing.Line2, &o.Mailing.City,
		&o.Mailing.State, &o.Mailing.PostalCode, &o.Mailing.RawAddress,
		&o.Mailing.DataTrust,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "owner", ID: ownerID}
		}
		return nil, &UpstreamError{Op: "get owner", Err: err}
	}
	o.Mailing.IsAvailable = mailingAvailable(o.Mailing)
	return &o, nil
}

func (s *SQLiteStore) GetParcelValuation(ctx context.Context, parcelID string) (*model.ParcelValuation, error) {
	var (
		p         model.ParcelValuation
		landValue *float64
		acreage   *float64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT parcel_id, parish, land_value, acreage, is_adjudicated, years_tax_delinquent,
			situs_address, situs_city, latitude, longitude, wkt_polygon
		FROM parcel_valuations WHERE parcel_id = ?`,
		parcelID,
	).Scan(
		&p.ParcelID, &p.Parish, &landValue, &acreage,
		&p.IsAdjudicated, &p.YearsTaxDelinquent,
		&p.SitusAddress, &p.SitusCity,
		&p.Latitude, &p.Longitude, &p.WKTPolygon,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "parcel", ID: parcelID}
		}
		return nil, &UpstreamError{Op: "get parcel valuation", Err: err}
	}
	p.LandValue = model.NullableAmount(landValue)
	p.Acreage = model.NullableAmount(acreage)
	return &p, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &UpstreamError{Op: "ping", Err: err}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
