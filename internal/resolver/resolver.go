// Package resolver orchestrates lead resolution: cache gate, source
// engine fallback, contact discovery, and persistence. It is the only
// package that sees the whole pipeline.
package resolver

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/engine"
	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

// Result detail strings reported to callers.
const (
	DetailCached     = "Cached Result"
	DetailDiscovered = "Recently Discovered"
)

// EmailVerifier classifies a candidate address.
type EmailVerifier interface {
	Verify(ctx context.Context, email string) model.VerificationResult
}

// ContactEnricher fills contact gaps through third-party providers.
type ContactEnricher interface {
	Enrich(ctx context.Context, rec model.ScrapedRecord, company string) enrich.Enrichment
	BackfillPhones(ctx context.Context, records []model.ScrapedRecord, company string)
}

// Result is a completed resolution.
type Result struct {
	Profiles []model.EnrichedProfile `json:"profiles"`
	Source   string                  `json:"source"`
	Details  string                  `json:"details"`
}

// Resolver runs the resolution pipeline.
type Resolver struct {
	store     store.Store
	corpChain *engine.Chain
	smbChain  *engine.Chain
	verifier  EmailVerifier
	enricher  ContactEnricher

	freshness   time.Duration
	topProfiles int
	now         func() time.Time
}

// New creates a Resolver.
func New(st store.Store, corp, smb *engine.Chain, verifier EmailVerifier, enricher ContactEnricher, cfg config.SearchConfig) *Resolver {
	freshnessDays := cfg.FreshnessDays
	if freshnessDays <= 0 {
		freshnessDays = 30
	}
	top := cfg.TopProfiles
	if top <= 0 {
		top = 5
	}
	return &Resolver{
		store:       st,
		corpChain:   corp,
		smbChain:    smb,
		verifier:    verifier,
		enricher:    enricher,
		freshness:   time.Duration(freshnessDays) * 24 * time.Hour,
		topProfiles: top,
		now:         time.Now,
	}
}

// Resolve runs one request through the pipeline. Degraded subsystems
// (cache lookup, persistence) are logged and skipped; only request
// validation and a dead context are fatal.
func (r *Resolver) Resolve(ctx context.Context, req model.SearchRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	fresh, stale := r.lookupCache(ctx, req)
	if len(fresh) > 0 {
		zap.L().Info("resolver: cache hit",
			zap.Int("profiles", len(fresh)))
		return &Result{
			Profiles: r.fromCache(fresh),
			Source:   "cache",
			Details:  DetailCached,
		}, nil
	}

	chain := r.corpChain
	if req.IsSMB() {
		chain = r.smbChain
	}
	records, winner, err := chain.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		zap.L().Info("resolver: all engines exhausted without results")
		return &Result{Profiles: []model.EnrichedProfile{}}, nil
	}

	var profiles []model.EnrichedProfile
	if req.IsSMB() {
		profiles = r.mapBusinesses(records)
	} else {
		profiles = r.discoverContacts(ctx, records, req.Company)
	}
	r.sync(ctx, req, profiles, stale)

	return &Result{
		Profiles: profiles,
		Source:   winner,
		Details:  DetailDiscovered,
	}, nil
}

// Recent returns the latest persisted profiles, mapped for display.
func (r *Resolver) Recent(ctx context.Context, limit int) ([]model.EnrichedProfile, error) {
	rows, err := r.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	profiles := r.fromCache(rows)
	for i := range profiles {
		profiles[i].VerificationDetails = DetailDiscovered
	}
	return profiles, nil
}
