package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/engine"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// sync persists resolved profiles and reconciles stale rows the search
// matched but the engines no longer returned. Persistence failures are
// logged; a resolution that found leads is never failed by the database.
func (r *Resolver) sync(ctx context.Context, req model.SearchRequest, profiles []model.EnrichedProfile, stale []model.Profile) {
	now := r.now()
	rows := make([]model.Profile, 0, len(profiles))
	seen := make(map[string]bool, len(profiles))

	for _, p := range profiles {
		key := p.IdentifierURL
		if key == "" {
			key = model.SyntheticKey(p.Name, p.Address)
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		row := model.Profile{
			UniqueKey:      key,
			Name:           p.Name,
			Website:        p.Website,
			LastVerifiedAt: now,
			Status:         model.ProfileActive,
			RawData: &model.RawData{
				Email:       p.Email,
				Status:      string(p.EmailStatus),
				Details:     p.VerificationDetails,
				Address:     p.Address,
				Phone:       p.Phone,
				Website:     p.Website,
				ImageURL:    p.ImageURL,
				Education:   p.Education,
				WorkHistory: p.WorkHistory,
				Source:      p.Source,
			},
		}
		if req.IsSMB() {
			row.NormalizedTitle = engine.NormalizeBusinessType(req.BusinessType)
			row.Company = req.Location
		} else {
			row.NormalizedTitle = p.Headline
			row.Company = req.Company
		}
		rows = append(rows, row)
	}

	if err := r.store.UpsertProfiles(ctx, rows); err != nil {
		zap.L().Warn("resolver: persist failed, results returned unsaved", zap.Error(err))
		return
	}

	var missing []string
	for _, old := range stale {
		if !seen[old.UniqueKey] && old.Status == model.ProfileActive {
			missing = append(missing, old.UniqueKey)
		}
	}
	if len(missing) > 0 {
		if err := r.store.FlagMissing(ctx, missing); err != nil {
			zap.L().Warn("resolver: flag missing failed", zap.Error(err))
			return
		}
		zap.L().Info("resolver: flagged stale profiles no longer discoverable",
			zap.Int("count", len(missing)))
	}
}
