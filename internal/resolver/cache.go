package resolver

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/engine"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

// lookupCache queries persisted profiles for the request and splits fresh
// rows from stale ones. A failed lookup degrades to a miss: resolution
// proceeds against live sources.
func (r *Resolver) lookupCache(ctx context.Context, req model.SearchRequest) (fresh, stale []model.Profile) {
	var q store.ProfileQuery
	if req.IsSMB() {
		q = store.ProfileQuery{
			CompanyLike: req.Location,
			TitleLike:   engine.NormalizeBusinessType(req.BusinessType),
		}
	} else {
		q = store.ProfileQuery{
			Company:   req.Company,
			TitleLike: req.Role,
		}
	}

	rows, err := r.store.FindProfiles(ctx, q)
	if err != nil {
		zap.L().Warn("resolver: cache lookup failed, continuing uncached", zap.Error(err))
		return nil, nil
	}

	now := r.now()
	for _, row := range rows {
		if row.Status == model.ProfileActive && row.Fresh(now, r.freshness) {
			fresh = append(fresh, row)
		} else {
			stale = append(stale, row)
		}
	}
	return fresh, stale
}

// fromCache maps persisted rows back into response profiles.
func (r *Resolver) fromCache(rows []model.Profile) []model.EnrichedProfile {
	profiles := make([]model.EnrichedProfile, 0, len(rows))
	for _, row := range rows {
		p := model.EnrichedProfile{
			ScrapedRecord: model.ScrapedRecord{
				Name:     row.Name,
				Headline: row.NormalizedTitle,
				Website:  row.Website,
			},
			VerificationDetails: DetailCached,
			Status:              row.Status,
			RawData:             row.RawData,
		}
		if !strings.HasPrefix(row.UniqueKey, "smb:") {
			p.IdentifierURL = row.UniqueKey
		}
		if raw := row.RawData; raw != nil {
			p.Email = raw.Email
			p.EmailStatus = model.EmailStatus(raw.Status)
			if p.EmailStatus == "" {
				p.EmailStatus = model.EmailValid
			}
			p.Address = raw.Address
			p.Phone = raw.Phone
			p.ImageURL = raw.ImageURL
			p.Education = raw.Education
			p.WorkHistory = raw.WorkHistory
			p.Source = raw.Source
			if raw.Website != "" {
				p.Website = raw.Website
			}
		}
		profiles = append(profiles, p)
	}
	return profiles
}
