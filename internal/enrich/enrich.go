// Package enrich fills gaps in scraped lead records through third-party
// contact-data providers. Enrichment is strictly additive: a provider can
// fill an empty field, never overwrite one the source engines populated.
package enrich

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/permute"
	"github.com/sells-group/leadgen-cli/pkg/clearbit"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
	"github.com/sells-group/leadgen-cli/pkg/rocketreach"
)

// Enrichment is what the providers contributed for one record.
type Enrichment struct {
	Email    string
	Phone    string
	LinkedIn string
	Twitter  string
	ImageURL string
	Website  string
}

// Provider contributes contact data for a person at a company.
type Provider interface {
	Name() string
	Enrich(ctx context.Context, rec model.ScrapedRecord, company string) (Enrichment, error)
}

// Enricher runs providers in order and merges their contributions.
type Enricher struct {
	providers   []Provider
	parallelism int
	pause       time.Duration
}

// New creates an Enricher from config. Providers with missing keys are
// simply not added.
func New(cfg config.EnrichConfig) *Enricher {
	var providers []Provider
	if cfg.HunterKey != "" {
		providers = append(providers, NewHunterProvider(hunter.NewClient(cfg.HunterKey)))
	}
	if cfg.ClearbitKey != "" {
		providers = append(providers, NewClearbitProvider(clearbit.NewClient(cfg.ClearbitKey)))
	}
	if cfg.RocketReachKey != "" {
		providers = append(providers, NewRocketReachProvider(rocketreach.NewClient(cfg.RocketReachKey)))
	}
	return NewWithProviders(cfg, providers...)
}

// NewWithProviders creates an Enricher around explicit providers.
func NewWithProviders(cfg config.EnrichConfig, providers ...Provider) *Enricher {
	e := &Enricher{
		providers:   providers,
		parallelism: cfg.Parallelism,
		pause:       time.Duration(cfg.PauseMs) * time.Millisecond,
	}
	if e.parallelism <= 0 {
		e.parallelism = 2
	}
	return e
}

// Enrich runs every provider for one record, pausing between providers to
// stay inside their rate limits. First contribution per field wins.
func (e *Enricher) Enrich(ctx context.Context, rec model.ScrapedRecord, company string) Enrichment {
	var merged Enrichment
	for i, p := range e.providers {
		if i > 0 && e.pause > 0 {
			select {
			case <-ctx.Done():
				return merged
			case <-time.After(e.pause):
			}
		}

		contribution, err := p.Enrich(ctx, rec, company)
		if err != nil {
			zap.L().Debug("enrich: provider failed",
				zap.String("provider", p.Name()),
				zap.String("name", rec.Name),
				zap.Error(err))
			continue
		}
		merge(&merged, contribution)
	}
	return merged
}

// BackfillPhones enriches records missing a phone number, bounded-parallel.
// Records are updated in place; the slice returns when every lookup has
// finished.
func (e *Enricher) BackfillPhones(ctx context.Context, records []model.ScrapedRecord, company string) {
	if len(e.providers) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)

	for i := range records {
		if records[i].Phone != "" || records[i].Name == "" {
			continue
		}
		g.Go(func() error {
			enrichment := e.Enrich(gctx, records[i], company)
			if enrichment.Phone != "" {
				records[i].Phone = enrichment.Phone
			}
			if records[i].ImageURL == "" && enrichment.ImageURL != "" {
				records[i].ImageURL = enrichment.ImageURL
			}
			return nil
		})
	}
	_ = g.Wait()
}

func merge(dst *Enrichment, src Enrichment) {
	if dst.Email == "" {
		dst.Email = src.Email
	}
	if dst.Phone == "" {
		dst.Phone = src.Phone
	}
	if dst.LinkedIn == "" {
		dst.LinkedIn = src.LinkedIn
	}
	if dst.Twitter == "" {
		dst.Twitter = src.Twitter
	}
	if dst.ImageURL == "" {
		dst.ImageURL = src.ImageURL
	}
	if dst.Website == "" {
		dst.Website = src.Website
	}
}

type hunterProvider struct {
	client hunter.Client
}

// NewHunterProvider enriches through the Hunter.io email-finder endpoint.
func NewHunterProvider(client hunter.Client) Provider {
	return &hunterProvider{client: client}
}

func (p *hunterProvider) Name() string { return "hunter" }

func (p *hunterProvider) Enrich(ctx context.Context, rec model.ScrapedRecord, company string) (Enrichment, error) {
	first, last, ok := permute.SplitName(rec.Name)
	if !ok {
		return Enrichment{}, nil
	}
	data, err := p.client.EmailFinder(ctx, permute.CompanyDomain(company), first, last)
	if err != nil {
		return Enrichment{}, err
	}
	return Enrichment{
		Email:    data.Email,
		Phone:    data.PhoneValue,
		LinkedIn: data.LinkedIn,
		Twitter:  data.Twitter,
	}, nil
}

type clearbitProvider struct {
	client clearbit.Client
}

// NewClearbitProvider enriches with company-level data from Clearbit.
func NewClearbitProvider(client clearbit.Client) Provider {
	return &clearbitProvider{client: client}
}

func (p *clearbitProvider) Name() string { return "clearbit" }

func (p *clearbitProvider) Enrich(ctx context.Context, _ model.ScrapedRecord, company string) (Enrichment, error) {
	data, err := p.client.FindCompany(ctx, permute.CompanyDomain(company))
	if err != nil {
		return Enrichment{}, err
	}
	website := data.Domain
	if website != "" && !strings.HasPrefix(website, "http") {
		website = "https://" + website
	}
	return Enrichment{
		Phone:    data.Phone,
		ImageURL: data.Logo,
		Website:  website,
	}, nil
}

type rocketReachProvider struct {
	client rocketreach.Client
}

// NewRocketReachProvider enriches through RocketReach person lookup.
func NewRocketReachProvider(client rocketreach.Client) Provider {
	return &rocketReachProvider{client: client}
}

func (p *rocketReachProvider) Name() string { return "rocketreach" }

func (p *rocketReachProvider) Enrich(ctx context.Context, rec model.ScrapedRecord, company string) (Enrichment, error) {
	person, err := p.client.LookupPerson(ctx, rec.Name, company)
	if err != nil {
		return Enrichment{}, err
	}
	return Enrichment{
		Email:    person.BestEmail(),
		Phone:    person.BestPhone(),
		LinkedIn: person.LinkedInURL,
		Twitter:  person.TwitterURL,
	}, nil
}
