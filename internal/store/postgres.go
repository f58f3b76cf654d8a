package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/callprep/internal/db"
	"github.com/sells-group/callprep/internal/model"
)

// PostgresStore implements SnapshotStore against the acquisition database.
type PostgresStore struct {
	pool db.Pool
}

const (
	sqlGetLead = `SELECT id, owner_id, parcel_id, COALESCE(parish, ''), COALESCE(stage, ''), created_at, updated_at
		FROM leads WHERE id = $1`

	sqlGetOwner = `SELECT id, COALESCE(name, ''), COALESCE(phone, ''),
		COALESCE(mailing_line1, ''), COALESCE(mailing_line2, ''), COALESCE(mailing_city, ''),
		COALESCE(mailing_state, ''), COALESCE(mailing_postal_code, ''), COALESCE(mailing_raw, ''),
		COALESCE(mailing_data_trust, '')
		FROM owners WHERE id = $1`

	sqlGetParcel = `SELECT parcel_id, COALESCE(parish, ''), land_value, acreage,
		is_adjudicated, years_tax_delinquent,
		COALESCE(situs_address, ''), COALESCE(situs_city, ''),
		latitude, longitude, COALESCE(wkt_polygon, '')
		FROM parcel_valuations WHERE parcel_id = $1`
)

// NewPostgres opens a pgx pool and verifies connectivity.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests with pgxmock.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) GetLead(ctx context.Context, leadID string) (*model.Lead, error) {
	var l model.Lead
	err := s.pool.QueryRow(ctx, sqlGetLead, leadID).Scan(
		&l.ID, &l.OwnerID, &l.ParcelID, &l.Parish, &l.Stage, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "lead", ID: leadID}
		}
		return nil, &UpstreamError{Op: "get lead", Err: err}
	}
	return &l, nil
}

func (s *PostgresStore) GetOwner(ctx context.Context, ownerID string) (*model.Owner, error) {
	var o model.Owner
	err := s.pool.QueryRow(ctx, sqlGetOwner, ownerID).Scan(
		&o.ID, &o.Name, &o.Phone,
		&o.Mailing.Line1, &o.Mailing.Line2, &o.Mailing.City,
		&o.Mailing.State, &o.Mailing.PostalCode, &o.Mailing.RawAddress,
		&o.Mailing.DataTrust,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "owner", ID: ownerID}
		}
		return nil, &UpstreamError{Op: "get owner", Err: err}
	}
	o.Mailing.IsAvailable = mailingAvailable(o.Mailing)
	return &o, nil
}

func (s *PostgresStore) GetParcelValuation(ctx context.Context, parcelID string) (*model.ParcelValuation, error) {
	var (
		p         model.ParcelValuation
		landValue *float64
		acreage   *float64
	)
	err := s.pool.QueryRow(ctx, sqlGetParcel, parcelID).Scan(
		&p.ParcelID, &p.Parish, &landValue, &acreage,
		&p.IsAdjudicated, &p.YearsTaxDelinquent,
		&p.SitusAddress, &p.SitusCity,
		&p.Latitude, &p.Longitude, &p.WKTPolygon,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "parcel", ID: parcelID}
		}
		return nil, &UpstreamError{Op: "get parcel valuation", Err: err}
	}
	p.LandValue = model.NullableAmount(landValue)
	p.Acreage = model.NullableAmount(acreage)
	return &p, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return &UpstreamError{Op: "ping", Err: err}
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// mailingAvailable reports whether the owner record carries any usable
// mailing data at all.
func mailingAvailable(m model.MailingAddress) bool {
	return m.Line1 != "" || m.RawAddress != "" || m.City != "" || m.PostalCode != ""
}
