package engine

import (
	"context"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/yelp"
)

// Yelp finds small businesses through the Fusion API. Primary engine for
// local searches: structured listings with address and phone attached.
type Yelp struct {
	client     yelp.Client
	configured bool
	maxResults int
}

// NewYelp creates the Yelp engine.
func NewYelp(apiKey string, maxResults int) *Yelp {
	e := &Yelp{
		configured: apiKey != "",
		maxResults: maxResults,
	}
	if e.configured {
		e.client = yelp.NewClient(apiKey)
	}
	return e
}

// NewYelpWithClient creates the engine around an existing client.
func NewYelpWithClient(client yelp.Client, maxResults int) *Yelp {
	return &Yelp{client: client, configured: client != nil, maxResults: maxResults}
}

func (e *Yelp) Name() string { return "yelp" }

func (e *Yelp) Configured() bool { return e.configured }

func (e *Yelp) Search(ctx context.Context, req model.SearchRequest) ([]model.ScrapedRecord, error) {
	term := NormalizeBusinessType(req.BusinessType)
	resp, err := e.client.SearchBusinesses(ctx, term, req.Location, e.maxResults)
	if err != nil {
		return nil, err
	}

	var records []model.ScrapedRecord
	for _, b := range resp.Businesses {
		address := b.Location.FullAddress()
		records = append(records, model.ScrapedRecord{
			Name:     b.Name,
			Headline: address,
			Address:  address,
			Phone:    b.DisplayPhone,
			Website:  b.URL,
			ImageURL: b.ImageURL,
			Source:   e.Name(),
		})
	}

	return records, nil
}
