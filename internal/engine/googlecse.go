package engine

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/googlecse"
)

// phoneLookupLimit caps how many top results get a follow-up phone query.
const phoneLookupLimit = 5

// GoogleCSE searches professional profiles through the Custom Search API.
// It is the primary corporate engine: structured responses, no scraping,
// and pagemap metadata rich enough to fill headlines and images.
type GoogleCSE struct {
	client     googlecse.Client
	configured bool
	maxResults int
}

// NewGoogleCSE creates the Custom Search engine. Empty credentials leave
// it unconfigured and the chain skips it.
func NewGoogleCSE(apiKey, engineID string, maxResults int) *GoogleCSE {
	e := &GoogleCSE{
		configured: apiKey != "" && engineID != "",
		maxResults: maxResults,
	}
	if e.configured {
		e.client = googlecse.NewClient(apiKey, engineID)
	}
	return e
}

// NewGoogleCSEWithClient creates the engine around an existing client.
func NewGoogleCSEWithClient(client googlecse.Client, maxResults int) *GoogleCSE {
	return &GoogleCSE{client: client, configured: client != nil, maxResults: maxResults}
}

func (e *GoogleCSE) Name() string { return "google_cse" }

func (e *GoogleCSE) Configured() bool { return e.configured }

func (e *GoogleCSE) Search(ctx context.Context, req model.SearchRequest) ([]model.ScrapedRecord, error) {
	resp, err := e.client.Search(ctx, Dork(req.Role, req.Company), e.maxResults)
	if err != nil {
		return nil, err
	}

	var records []model.ScrapedRecord
	for _, item := range resp.Items {
		if !isProfileURL(item.Link) {
			continue
		}
		name, headline := ParseResultTitle(item.Title)
		if headline == "" {
			headline = item.Snippet
		}
		var workHistory, education string
		if og := item.OGDescription(); og != "" {
			headline = og
			workHistory, education = ParseRichSnippet(og)
		}
		records = append(records, model.ScrapedRecord{
			Name:          name,
			Headline:      headline,
			IdentifierURL: item.Link,
			Phone:         ExtractPhone(item.Snippet),
			ImageURL:      item.ImageURL(),
			Education:     education,
			WorkHistory:   workHistory,
			Source:        e.Name(),
		})
	}

	e.backfillPhones(ctx, req.Company, records)
	return records, nil
}

// backfillPhones issues a follow-up query per top result looking for a
// published phone number. Failures are ignored; a missing phone is normal.
func (e *GoogleCSE) backfillPhones(ctx context.Context, company string, records []model.ScrapedRecord) {
	limit := phoneLookupLimit
	if len(records) < limit {
		limit = len(records)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2)

	for i := 0; i < limit; i++ {
		if records[i].Phone != "" {
			continue
		}
		g.Go(func() error {
			resp, err := e.client.Search(gctx, phoneDork(records[i].Name, company), 3)
			if err != nil {
				zap.L().Debug("engine: phone lookup failed",
					zap.String("name", records[i].Name),
					zap.Error(err))
				return nil
			}
			for _, item := range resp.Items {
				if phone := ExtractPhone(item.Snippet); phone != "" {
					mu.Lock()
					records[i].Phone = phone
					mu.Unlock()
					return nil
				}
			}
			return nil
		})
	}
	_ = g.Wait()
}
