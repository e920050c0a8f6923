package engine

import (
	"context"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/serpapi"
)

// SerpAPI searches professional profiles through the SerpAPI hosted
// Google endpoint. Same dork as the Custom Search engine, used when the
// CSE quota is exhausted or unconfigured.
type SerpAPI struct {
	client     serpapi.Client
	configured bool
	maxResults int
}

// NewSerpAPI creates the SerpAPI engine.
func NewSerpAPI(apiKey string, maxResults int) *SerpAPI {
	e := &SerpAPI{
		configured: apiKey != "",
		maxResults: maxResults,
	}
	if e.configured {
		e.client = serpapi.NewClient(apiKey)
	}
	return e
}

// NewSerpAPIWithClient creates the engine around an existing client.
func NewSerpAPIWithClient(client serpapi.Client, maxResults int) *SerpAPI {
	return &SerpAPI{client: client, configured: client != nil, maxResults: maxResults}
}

func (e *SerpAPI) Name() string { return "serpapi" }

func (e *SerpAPI) Configured() bool { return e.configured }

func (e *SerpAPI) Search(ctx context.Context, req model.SearchRequest) ([]model.ScrapedRecord, error) {
	resp, err := e.client.Search(ctx, Dork(req.Role, req.Company), e.maxResults)
	if err != nil {
		return nil, err
	}

	var records []model.ScrapedRecord
	for _, result := range resp.OrganicResults {
		if !isProfileURL(result.Link) {
			continue
		}
		name, headline := ParseResultTitle(result.Title)
		if headline == "" {
			headline = result.Snippet
		}
		records = append(records, model.ScrapedRecord{
			Name:          name,
			Headline:      headline,
			IdentifierURL: result.Link,
			ImageURL:      result.Thumbnail,
			Source:        e.Name(),
		})
	}

	return records, nil
}
