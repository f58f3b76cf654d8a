package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/callprep/internal/config"
	"github.com/sells-group/callprep/internal/model"
	"github.com/sells-group/callprep/internal/offer"
	"github.com/sells-group/callprep/internal/prep"
	"github.com/sells-group/callprep/internal/script"
	"github.com/sells-group/callprep/internal/store"
)

// stubStore serves one fixed lead/owner/parcel triple.
type stubStore struct {
	pingErr   error
	parcelErr error
	parcel    model.ParcelValuation
}

func (s *stubStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	if id != "lead-1" {
		return nil, &store.NotFoundError{Entity: "lead", ID: id}
	}
	return &model.Lead{ID: "lead-1", OwnerID: "own-1", ParcelID: "par-1", Parish: "St. Landry"}, nil
}

func (s *stubStore) GetOwner(ctx context.Context, id string) (*model.Owner, error) {
	return &model.Owner{
		ID:   "own-1",
		Name: "Mary Thibodeaux",
		Mailing: model.MailingAddress{
			Line1: "PO Box 88", City: "Baton Rouge", State: "LA",
			PostalCode: "70801", IsAvailable: true,
		},
	}, nil
}

func (s *stubStore) GetParcelValuation(ctx context.Context, id string) (*model.ParcelValuation, error) {
	if s.parcelErr != nil {
		return nil, s.parcelErr
	}
	p := s.parcel
	return &p, nil
}

func (s *stubStore) Ping(ctx context.Context) error { return s.pingErr }
func (s *stubStore) Close() error                   { return nil }

func f(v float64) *float64 { return &v }

func defaultParcel() model.ParcelValuation {
	return model.ParcelValuation{
		ParcelID:     "par-1",
		Parish:       "St. Landry",
		LandValue:    model.NullableAmount(f(100000)),
		Acreage:      model.NullableAmount(f(10)),
		SitusAddress: "1042 Bayou Teche Rd",
		Latitude:     f(30.3988),
		Longitude:    f(-91.9310),
	}
}

func newTestServer(t *testing.T, st *stubStore) http.Handler {
	t.Helper()
	assembler, err := script.NewAssembler()
	require.NoError(t, err)
	builder := prep.NewBuilder(st, offer.New(offer.DefaultParams()), assembler)
	srv := New(builder, st, config.ServerConfig{}, 0.55, 0.70)
	return srv.Router()
}

func doGet(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, &stubStore{parcel: defaultParcel()})

	rec := doGet(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealth_Degraded(t *testing.T) {
	st := &stubStore{parcel: defaultParcel(), pingErr: &store.UpstreamError{Op: "ping", Err: assert.AnError}}
	h := newTestServer(t, st)

	rec := doGet(t, h, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded"}`, rec.Body.String())
}

func TestGetPrepPack(t *testing.T) {
	h := newTestServer(t, &stubStore{parcel: defaultParcel()})

	rec := doGet(t, h, "/call-prep/lead-1/prep-pack")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Prep-Generation"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var body struct {
		LeadID   string `json:"lead_id"`
		Location struct {
			TrustLevel string `json:"trust_level"`
		} `json:"location"`
		Offer struct {
			Low          float64 `json:"low"`
			High         float64 `json:"high"`
			CanMakeOffer bool    `json:"can_make_offer"`
		} `json:"offer"`
		Script struct {
			Opening string `json:"opening"`
		} `json:"script"`
		Map struct {
			HasCoordinates bool `json:"has_coordinates"`
		} `json:"map"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "lead-1", body.LeadID)
	assert.Equal(t, "verified_gis", body.Location.TrustLevel)
	assert.True(t, body.Offer.CanMakeOffer)
	assert.InDelta(t, 55000, body.Offer.Low, 1e-6)
	assert.NotEmpty(t, body.Script.Opening)
	assert.True(t, body.Map.HasCoordinates)
}

func TestGetOffer_CustomDiscounts(t *testing.T) {
	h := newTestServer(t, &stubStore{parcel: defaultParcel()})

	rec := doGet(t, h, "/call-prep/lead-1/offer?discount_low=0.50&discount_high=0.60")
	require.Equal(t, http.StatusOK, rec.Code)

	var rng offer.Range
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rng))
	assert.InDelta(t, 50000, rng.Low, 1e-6)
	assert.InDelta(t, 60000, rng.High, 1e-6)
}

func TestGetOffer_InvalidDiscountParam(t *testing.T) {
	h := newTestServer(t, &stubStore{parcel: defaultParcel()})

	rec := doGet(t, h, "/call-prep/lead-1/offer?discount_low=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_parameter")
}

// Out-of-range numeric discounts are not a client error; the calculator
// clamps them.
func TestGetOffer_OutOfRangeDiscountClamped(t *testing.T) {
	h := newTestServer(t, &stubStore{parcel: defaultParcel()})

	rec := doGet(t, h, "/call-prep/lead-1/offer?discount_low=-3&discount_high=9")
	require.Equal(t, http.StatusOK, rec.Code)

	var rng offer.Range
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rng))
	assert.Equal(t, 0.0, rng.DiscountLow)
	assert.Equal(t, 1.0, rng.DiscountHigh)
}

func TestGetPrepPack_NotFound(t *testing.T) {
	h := newTestServer(t, &stubStore{parcel: defaultParcel()})

	rec := doGet(t, h, "/call-prep/lead-x/prep-pack")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestGetPrepPack_UpstreamUnavailable(t *testing.T) {
	st := &stubStore{
		parcel:    defaultParcel(),
		parcelErr: &store.UpstreamError{Op: "get parcel valuation", Err: assert.AnError},
	}
	h := newTestServer(t, st)

	rec := doGet(t, h, "/call-prep/lead-1/prep-pack")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream_unavailable")
}

// Degraded computation is a 200, never an error status.
func TestGetPrepPack_DegradedDataStill200(t *testing.T) {
	st := &stubStore{parcel: model.ParcelValuation{ParcelID: "par-1", Parish: "St. Landry"}}
	h := newTestServer(t, st)

	rec := doGet(t, h, "/call-prep/lead-1/prep-pack")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Location struct {
			TrustLevel string `json:"trust_level"`
		} `json:"location"`
		Offer struct {
			CanMakeOffer      bool   `json:"can_make_offer"`
			CannotOfferReason string `json:"cannot_offer_reason"`
			Confidence        string `json:"confidence"`
		} `json:"offer"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "missing", body.Location.TrustLevel)
	assert.False(t, body.Offer.CanMakeOffer)
	assert.Equal(t, "missing_land_value", body.Offer.CannotOfferReason)
	assert.Equal(t, "cannot_compute", body.Offer.Confidence)
}

func TestGenerationHeaderIncreases(t *testing.T) {
	h := newTestServer(t, &stubStore{parcel: defaultParcel()})

	var last uint64
	for i := 0; i < 3; i++ {
		rec := doGet(t, h, "/call-prep/lead-1/offer")
		require.Equal(t, http.StatusOK, rec.Code)
		gen, err := strconv.ParseUint(rec.Header().Get("X-Prep-Generation"), 10, 64)
		require.NoError(t, err)
		assert.Greater(t, gen, last)
		last = gen
	}
}

func TestGetLocation_MailingSeparateFromProperty(t *testing.T) {
	h := newTestServer(t, &stubStore{parcel: defaultParcel()})

	rec := doGet(t, h, "/call-prep/lead-1/location")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		PropertyLocation struct {
			FullAddress string `json:"full_address"`
		} `json:"property_location"`
		MailingAddress struct {
			Line1 string `json:"line1"`
		} `json:"mailing_address"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "1042 Bayou Teche Rd", body.PropertyLocation.FullAddress)
	assert.Equal(t, "PO Box 88", body.MailingAddress.Line1)
	assert.NotContains(t, body.PropertyLocation.FullAddress, "PO Box")
}

func TestGetScript(t *testing.T) {
	h := newTestServer(t, &stubStore{parcel: defaultParcel()})

	rec := doGet(t, h, "/call-prep/lead-1/script")
	require.Equal(t, http.StatusOK, rec.Code)

	var scr script.Script
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scr))
	assert.Contains(t, scr.Opening, "Hi Mary,")
	assert.NotEmpty(t, scr.Discovery)
	assert.NotEmpty(t, scr.ObjectionHandlers)
	assert.NotEmpty(t, scr.Closing)
}

func TestRateLimit(t *testing.T) {
	assembler, err := script.NewAssembler()
	require.NoError(t, err)
	st := &stubStore{parcel: defaultParcel()}
	builder := prep.NewBuilder(st, offer.New(offer.DefaultParams()), assembler)
	srv := New(builder, st, config.ServerConfig{RateLimitRPS: 1, RateBurst: 2}, 0.55, 0.70)
	h := srv.Router()

	codes := make(map[int]int)
	for i := 0; i < 10; i++ {
		rec := doGet(t, h, "/health")
		codes[rec.Code]++
	}
	assert.Positive(t, codes[http.StatusOK])
	assert.Positive(t, codes[http.StatusTooManyRequests])
}
