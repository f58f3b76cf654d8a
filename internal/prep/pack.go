// Package prep composes the full Call Prep Pack: location, offer, script, and
// map data for one lead, fetched and computed per request. Nothing in this
// package writes anywhere; it is a pure read-and-compute path.
package prep

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/callprep/internal/location"
	"github.com/sells-group/callprep/internal/model"
	"github.com/sells-group/callprep/internal/offer"
	"github.com/sells-group/callprep/internal/script"
	"github.com/sells-group/callprep/internal/store"
)

// MapData is what the map widget needs: coordinate presence only. It is
// derived straight from the parcel, not from the location descriptor, so the
// widget is not coupled to location-text formatting.
type MapData struct {
	HasCoordinates bool     `json:"has_coordinates"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	GeocodeNeeded  bool     `json:"geocode_needed"`
}

// LocationSummary pairs the resolved property location with the owner's
// mailing address as two separate, clearly labeled blocks. They are never
// merged.
type LocationSummary struct {
	PropertyLocation location.Descriptor  `json:"property_location"`
	MailingAddress   model.MailingAddress `json:"mailing_address"`
}

// Pack is the aggregate response for one lead. It is built per request and
// never stored.
type Pack struct {
	Generation     uint64                `json:"generation"`
	LeadID         string                `json:"lead_id"`
	Owner          model.Owner           `json:"owner"`
	Location       location.Descriptor   `json:"location"`
	MailingAddress model.MailingAddress  `json:"mailing_address"`
	Parcel         model.ParcelValuation `json:"parcel"`
	Offer          offer.Range           `json:"offer"`
	Script         script.Script         `json:"script"`
	Map            MapData               `json:"map"`
	GeneratedAt    time.Time             `json:"generated_at"`
}

// Builder orchestrates snapshot fetch and the three compute stages. The only
// state it carries besides its collaborators is the atomic generation
// counter, so builders are safe for any degree of request concurrency.
type Builder struct {
	store   store.SnapshotStore
	calc    *offer.Calculator
	scripts *script.Assembler
	gen     atomic.Uint64
}

// NewBuilder wires a Builder from its collaborators.
func NewBuilder(st store.SnapshotStore, calc *offer.Calculator, scripts *script.Assembler) *Builder {
	return &Builder{store: st, calc: calc, scripts: scripts}
}

// snapshot fetches the lead, then its owner and parcel concurrently. A
// cancelled context aborts both in-flight fetches, which is how a superseded
// slider request stops spending upstream capacity.
type snapshot struct {
	Lead   model.Lead
	Owner  model.Owner
	Parcel model.ParcelValuation
}

func (b *Builder) fetchSnapshot(ctx context.Context, leadID string) (*snapshot, error) {
	lead, err := b.store.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	var (
		owner  *model.Owner
		parcel *model.ParcelValuation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		owner, err = b.store.GetOwner(gctx, lead.OwnerID)
		return err
	})
	g.Go(func() error {
		var err error
		parcel, err = b.store.GetParcelValuation(gctx, lead.ParcelID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &snapshot{Lead: *lead, Owner: *owner, Parcel: *parcel}, nil
}

// BuildPack assembles the complete prep pack for one lead.
func (b *Builder) BuildPack(ctx context.Context, leadID string, discountLow, discountHigh float64) (*Pack, error) {
	gen := b.gen.Add(1)

	snap, err := b.fetchSnapshot(ctx, leadID)
	if err != nil {
		return nil, err
	}

	loc := location.Resolve(snap.Parcel)
	rng := b.calc.Compute(snap.Parcel, discountLow, discountHigh)
	scr := b.scripts.Assemble(snap.Owner, loc, snap.Parcel, rng)

	pack := &Pack{
		Generation:     gen,
		LeadID:         snap.Lead.ID,
		Owner:          snap.Owner,
		Location:       loc,
		MailingAddress: snap.Owner.Mailing,
		Parcel:         snap.Parcel,
		Offer:          rng,
		Script:         scr,
		Map:            mapData(snap.Parcel),
		GeneratedAt:    time.Now().UTC(),
	}

	zap.L().Info("prep: pack built",
		zap.String("lead_id", leadID),
		zap.Uint64("generation", gen),
		zap.String("trust_level", string(loc.TrustLevel)),
		zap.String("confidence", string(rng.Confidence)),
		zap.Bool("can_make_offer", rng.CanMakeOffer),
	)

	return pack, nil
}

// BuildLocation serves the location-only endpoint.
func (b *Builder) BuildLocation(ctx context.Context, leadID string) (*LocationSummary, uint64, error) {
	gen := b.gen.Add(1)
	snap, err := b.fetchSnapshot(ctx, leadID)
	if err != nil {
		return nil, 0, err
	}
	return &LocationSummary{
		PropertyLocation: location.Resolve(snap.Parcel),
		MailingAddress:   snap.Owner.Mailing,
	}, gen, nil
}

// BuildOffer serves the offer-only endpoint.
func (b *Builder) BuildOffer(ctx context.Context, leadID string, discountLow, discountHigh float64) (*offer.Range, uint64, error) {
	gen := b.gen.Add(1)
	snap, err := b.fetchSnapshot(ctx, leadID)
	if err != nil {
		return nil, 0, err
	}
	rng := b.calc.Compute(snap.Parcel, discountLow, discountHigh)
	return &rng, gen, nil
}

// BuildScript serves the script-only endpoint. The script depends on the
// offer and location, so both are recomputed from the same snapshot; script
// text is never rendered against stale numbers.
func (b *Builder) BuildScript(ctx context.Context, leadID string, discountLow, discountHigh float64) (*script.Script, uint64, error) {
	gen := b.gen.Add(1)
	snap, err := b.fetchSnapshot(ctx, leadID)
	if err != nil {
		return nil, 0, err
	}
	loc := location.Resolve(snap.Parcel)
	rng := b.calc.Compute(snap.Parcel, discountLow, discountHigh)
	scr := b.scripts.Assemble(snap.Owner, loc, snap.Parcel, rng)
	return &scr, gen, nil
}

func mapData(p model.ParcelValuation) MapData {
	md := MapData{
		HasCoordinates: p.HasCoordinates(),
		GeocodeNeeded:  !p.HasCoordinates(),
	}
	if md.HasCoordinates {
		lat, lng := *p.Latitude, *p.Longitude
		md.Latitude = &lat
		md.Longitude = &lng
	}
	return md
}
