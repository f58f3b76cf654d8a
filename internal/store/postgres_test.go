package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresFromPool(mock), mock
}

func fp(v float64) *float64 { return &v }

func TestPostgresGetLead(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery("SELECT id, owner_id, parcel_id").
		WithArgs("lead-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "owner_id", "parcel_id", "parish", "stage", "created_at", "updated_at",
		}).AddRow("lead-1", "own-1", "par-1", "St. Landry", "new", now, now))

	l, err := s.GetLead(context.Background(), "lead-1")
	require.NoError(t, err)
	assert.Equal(t, "own-1", l.OwnerID)
	assert.Equal(t, "par-1", l.ParcelID)
	assert.Equal(t, "St. Landry", l.Parish)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetLead_NotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, owner_id, parcel_id").
		WithArgs("lead-x").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetLead(context.Background(), "lead-x")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUpstream(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetLead_UpstreamError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, owner_id, parcel_id").
		WithArgs("lead-1").
		WillReturnError(assert.AnError)

	_, err := s.GetLead(context.Background(), "lead-1")
	require.Error(t, err)
	assert.True(t, IsUpstream(err))
	assert.False(t, IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetOwner(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("FROM owners").
		WithArgs("own-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "phone",
			"mailing_line1", "mailing_line2", "mailing_city",
			"mailing_state", "mailing_postal_code", "mailing_raw",
			"mailing_data_trust",
		}).AddRow("own-1", "MARY THIBODEAUX", "337-555-0142",
			"PO Box 88", "", "Baton Rouge", "LA", "70801", "", "owner_provided"))

	o, err := s.GetOwner(context.Background(), "own-1")
	require.NoError(t, err)
	assert.Equal(t, "MARY THIBODEAUX", o.Name)
	assert.True(t, o.Mailing.IsAvailable)
	assert.Equal(t, "PO Box 88, Baton Rouge, LA 70801", o.Mailing.Display())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetOwner_NoMailing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("FROM owners").
		WithArgs("own-2").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "phone",
			"mailing_line1", "mailing_line2", "mailing_city",
			"mailing_state", "mailing_postal_code", "mailing_raw",
			"mailing_data_trust",
		}).AddRow("own-2", "J B LANDRY", "", "", "", "", "", "", "", ""))

	o, err := s.GetOwner(context.Background(), "own-2")
	require.NoError(t, err)
	assert.False(t, o.Mailing.IsAvailable)
	assert.Empty(t, o.Mailing.Display())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetParcelValuation(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("FROM parcel_valuations").
		WithArgs("par-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"parcel_id", "parish", "land_value", "acreage",
			"is_adjudicated", "years_tax_delinquent",
			"situs_address", "situs_city",
			"latitude", "longitude", "wkt_polygon",
		}).AddRow("par-1", "St. Landry", fp(100000), fp(10.5),
			false, 0, "1042 Bayou Teche Rd", "Arnaudville",
			fp(30.3988), fp(-91.9310), ""))

	p, err := s.GetParcelValuation(context.Background(), "par-1")
	require.NoError(t, err)
	assert.True(t, p.LandValue.Usable())
	assert.Equal(t, 100000.0, p.LandValue.Float64())
	assert.True(t, p.Acreage.Usable())
	assert.True(t, p.HasCoordinates())
	assert.True(t, p.HasSitusAddress())
	require.NoError(t, mock.ExpectationsWereMet())
}

// Null land_value and acreage must come back as missing amounts, not zeros.
func TestPostgresGetParcelValuation_NullColumns(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("FROM parcel_valuations").
		WithArgs("par-2").
		WillReturnRows(pgxmock.NewRows([]string{
			"parcel_id", "parish", "land_value", "acreage",
			"is_adjudicated", "years_tax_delinquent",
			"situs_address", "situs_city",
			"latitude", "longitude", "wkt_polygon",
		}).AddRow("par-2", "Evangeline", nil, nil,
			true, 4, "", "", nil, nil, ""))

	p, err := s.GetParcelValuation(context.Background(), "par-2")
	require.NoError(t, err)
	assert.True(t, p.LandValue.IsMissing())
	assert.True(t, p.Acreage.IsMissing())
	assert.True(t, p.IsAdjudicated)
	assert.Equal(t, 4, p.YearsTaxDelinquent)
	assert.False(t, p.HasCoordinates())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetParcelValuation_NotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("FROM parcel_valuations").
		WithArgs("par-x").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetParcelValuation(context.Background(), "par-x")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectPing()
	require.NoError(t, s.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(assert.AnError)
	err := s.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, IsUpstream(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
