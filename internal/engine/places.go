package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/places"
)

// detailLookupLimit caps how many places get a details call for contact
// fields.
const detailLookupLimit = 10

// GooglePlaces finds small businesses through the Places API. Text search
// returns the listing; a bounded details pass fills phone and website.
type GooglePlaces struct {
	client     places.Client
	configured bool
	maxResults int
}

// NewGooglePlaces creates the Places engine.
func NewGooglePlaces(apiKey string, maxResults int) *GooglePlaces {
	e := &GooglePlaces{
		configured: apiKey != "",
		maxResults: maxResults,
	}
	if e.configured {
		e.client = places.NewClient(apiKey)
	}
	return e
}

// NewGooglePlacesWithClient creates the engine around an existing client.
func NewGooglePlacesWithClient(client places.Client, maxResults int) *GooglePlaces {
	return &GooglePlaces{client: client, configured: client != nil, maxResults: maxResults}
}

func (e *GooglePlaces) Name() string { return "google_places" }

func (e *GooglePlaces) Configured() bool { return e.configured }

func (e *GooglePlaces) Search(ctx context.Context, req model.SearchRequest) ([]model.ScrapedRecord, error) {
	query := fmt.Sprintf("%s in %s", NormalizeBusinessType(req.BusinessType), req.Location)
	resp, err := e.client.TextSearch(ctx, query)
	if err != nil {
		return nil, err
	}

	found := resp.Places
	if len(found) > e.maxResults && e.maxResults > 0 {
		found = found[:e.maxResults]
	}

	records := make([]model.ScrapedRecord, len(found))
	for i, p := range found {
		records[i] = model.ScrapedRecord{
			Name:     p.DisplayName.Text,
			Headline: p.FormattedAddress,
			Address:  p.FormattedAddress,
			Source:   e.Name(),
		}
	}

	e.backfillDetails(ctx, found, records)
	return records, nil
}

// backfillDetails fetches phone and website for the top places. A failed
// details call leaves the listing fields as-is.
func (e *GooglePlaces) backfillDetails(ctx context.Context, found []places.Place, records []model.ScrapedRecord) {
	limit := detailLookupLimit
	if len(found) < limit {
		limit = len(found)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i := 0; i < limit; i++ {
		g.Go(func() error {
			detail, err := e.client.Details(gctx, found[i].ID)
			if err != nil {
				zap.L().Debug("engine: place details failed",
					zap.String("place_id", found[i].ID),
					zap.Error(err))
				return nil
			}
			records[i].Phone = detail.NationalPhoneNumber
			records[i].Website = detail.WebsiteURI
			return nil
		})
	}
	_ = g.Wait()
}
