// Package store persists resolved lead profiles. Two backends implement
// the same interface: Postgres for deployments, SQLite for local runs.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// ProfileQuery selects cached profiles. Company matches exactly
// (case-insensitive) when set; CompanyLike and TitleLike match as
// substrings. Zero-value fields are ignored.
type ProfileQuery struct {
	Company     string
	CompanyLike string
	TitleLike   string
	Limit       int
}

// Store defines the persistence interface for resolved profiles.
type Store interface {
	// FindProfiles returns rows matching the query, newest verification
	// first. Both fresh and stale rows come back; freshness is the
	// caller's call.
	FindProfiles(ctx context.Context, q ProfileQuery) ([]model.Profile, error)
	// UpsertProfiles writes profiles keyed by unique_key. Existing rows
	// are overwritten with the newer data.
	UpsertProfiles(ctx context.Context, profiles []model.Profile) error
	// FlagMissing marks the given keys as no longer discoverable. Rows
	// are retained for history.
	FlagMissing(ctx context.Context, keys []string) error
	// ListRecent returns the most recently verified active profiles.
	ListRecent(ctx context.Context, limit int) ([]model.Profile, error)

	Migrate(ctx context.Context) error
	Close() error
}

// New creates the store named by config.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, nil)
	case "sqlite", "":
		path := cfg.SQLitePath
		if path == "" {
			path = "leadgen.db"
		}
		return NewSQLite(path)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
