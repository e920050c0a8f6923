package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/permute"
)

// discoverContacts turns scraped people into profiles with verified
// contact details. Only the top records get the full treatment; the rest
// pass through as-is.
func (r *Resolver) discoverContacts(ctx context.Context, records []model.ScrapedRecord, company string) []model.EnrichedProfile {
	top := r.topProfiles
	if len(records) < top {
		top = len(records)
	}

	r.enricher.BackfillPhones(ctx, records[:top], company)

	profiles := make([]model.EnrichedProfile, 0, len(records))
	for i, rec := range records {
		p := model.EnrichedProfile{ScrapedRecord: rec}
		if i < top {
			p.Email, p.EmailStatus, p.VerificationDetails = r.findEmail(ctx, rec, company)
		}
		profiles = append(profiles, p)
	}
	return profiles
}

// findEmail generates candidate addresses for a person and verifies them
// in order, stopping at the first confirmed mailbox. When nothing
// confirms, the first risky candidate is better than none; enrichment
// providers get the final word before giving up.
func (r *Resolver) findEmail(ctx context.Context, rec model.ScrapedRecord, company string) (string, model.EmailStatus, string) {
	first, last, ok := permute.SplitName(rec.Name)
	if !ok {
		return r.enrichedEmail(ctx, rec, company)
	}

	domain := permute.CompanyDomain(company)
	var riskyEmail, riskyDetails string

	for _, candidate := range permute.Candidates(first, last, domain) {
		if ctx.Err() != nil {
			break
		}
		result := r.verifier.Verify(ctx, candidate)
		switch result.Status {
		case model.EmailValid:
			return candidate, model.EmailValid, result.Reason
		case model.EmailRisky:
			if riskyEmail == "" {
				riskyEmail = candidate
				riskyDetails = result.Reason
			}
		case model.EmailInvalid:
			// keep going
		default:
			// Inconclusive for this candidate; the next permutation may
			// still land.
		}
	}

	if riskyEmail != "" {
		return riskyEmail, model.EmailRisky, riskyDetails
	}
	return r.enrichedEmail(ctx, rec, company)
}

// enrichedEmail asks the enrichment providers for an address when
// permutation found nothing usable.
func (r *Resolver) enrichedEmail(ctx context.Context, rec model.ScrapedRecord, company string) (string, model.EmailStatus, string) {
	enrichment := r.enricher.Enrich(ctx, rec, company)
	if enrichment.Email == "" {
		return "", model.EmailNotFound, "no deliverable address found"
	}

	result := r.verifier.Verify(ctx, enrichment.Email)
	if result.Status == model.EmailInvalid {
		zap.L().Debug("resolver: provider email failed verification",
			zap.String("email", enrichment.Email))
		return "", model.EmailNotFound, "no deliverable address found"
	}
	return enrichment.Email, result.Status, result.Reason
}
