// Package store is the read-only boundary to the lead/owner/parcel snapshot
// service. The call-prep engine only ever reads through it; nothing here can
// mutate pipeline state.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/callprep/internal/config"
	"github.com/sells-group/callprep/internal/model"
)

// SnapshotStore fetches the records the prep-pack aggregator composes.
type SnapshotStore interface {
	GetLead(ctx context.Context, leadID string) (*model.Lead, error)
	GetOwner(ctx context.Context, ownerID string) (*model.Owner, error)
	GetParcelValuation(ctx context.Context, parcelID string) (*model.ParcelValuation, error)
	Ping(ctx context.Context) error
	Close() error
}

// New selects a driver from config. Postgres is the production backend;
// SQLite backs local development and demos.
func New(ctx context.Context, cfg config.StoreConfig) (SnapshotStore, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	case "sqlite":
		return NewSQLite(cfg.SQLitePath)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
