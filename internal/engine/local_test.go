package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/scrape"
	"github.com/sells-group/leadgen-cli/pkg/places"
	"github.com/sells-group/leadgen-cli/pkg/yelp"
)

func smbRequest() model.SearchRequest {
	return model.SearchRequest{
		Type:         model.RequestSmallBusiness,
		BusinessType: "plumber",
		Location:     "Austin, TX",
	}
}

func TestYelp_MapsBusinesses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "plumber", r.URL.Query().Get("term"))
		assert.Equal(t, "Austin, TX", r.URL.Query().Get("location"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"total": 1,
			"businesses": [{
				"name": "Radiant Plumbing",
				"url": "https://www.yelp.com/biz/radiant-plumbing",
				"display_phone": "(512) 555-0134",
				"image_url": "https://s3-media0.fl.yelpcdn.com/radiant.jpg",
				"location": {"display_address": ["901 Reinli St", "Austin, TX 78751"]}
			}]
		}`))
	}))
	defer srv.Close()

	client := yelp.NewClient("key", yelp.WithBaseURL(srv.URL))
	engine := NewYelpWithClient(client, 20)

	records, err := engine.Search(context.Background(), smbRequest())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Radiant Plumbing", rec.Name)
	assert.Equal(t, "901 Reinli St, Austin, TX 78751", rec.Address)
	assert.Equal(t, rec.Address, rec.Headline, "listing headline is the address")
	assert.Equal(t, "(512) 555-0134", rec.Phone)
	assert.Equal(t, "yelp", rec.Source)
}

func TestYelp_ExpandsAliases(t *testing.T) {
	var gotTerm string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTerm = r.URL.Query().Get("term")
		_, _ = w.Write([]byte(`{"businesses": [], "total": 0}`))
	}))
	defer srv.Close()

	client := yelp.NewClient("key", yelp.WithBaseURL(srv.URL))
	engine := NewYelpWithClient(client, 20)

	req := smbRequest()
	req.BusinessType = "agency"
	_, err := engine.Search(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Marketing Agency", gotTerm)
}

func TestGooglePlaces_SearchAndDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/places:searchText":
			_, _ = w.Write([]byte(`{"places": [
				{"id": "p1", "displayName": {"text": "Radiant Plumbing"}, "formattedAddress": "901 Reinli St, Austin, TX 78751"}
			]}`))
		case strings.HasPrefix(r.URL.Path, "/places/p1"):
			_, _ = w.Write([]byte(`{
				"id": "p1",
				"nationalPhoneNumber": "(512) 555-0134",
				"websiteUri": "https://radiantplumbing.com"
			}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := places.NewClient("key", places.WithBaseURL(srv.URL))
	engine := NewGooglePlacesWithClient(client, 20)

	records, err := engine.Search(context.Background(), smbRequest())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Radiant Plumbing", rec.Name)
	assert.Equal(t, "901 Reinli St, Austin, TX 78751", rec.Address)
	assert.Equal(t, "(512) 555-0134", rec.Phone)
	assert.Equal(t, "https://radiantplumbing.com", rec.Website)
	assert.Equal(t, "google_places", rec.Source)
}

const yellowPagesHTML = `
<html><body>
<div class="search-results">
  <div class="result">
    <a class="business-name"><span>Radiant Plumbing</span></a>
    <div class="street-address">901 Reinli St</div>
    <div class="locality">Austin, TX 78751</div>
    <div class="phones phone primary">(512) 555-0134</div>
    <a class="track-visit-website" href="https://radiantplumbing.com">Website</a>
  </div>
  <div class="result">
    <a class="business-name"><span>ABC Drains</span></a>
    <div class="street-address">12 Main St</div>
    <div class="locality">Austin, TX 78702</div>
    <div class="phones phone primary">(512) 555-0190</div>
  </div>
</div>
</body></html>`

func TestYellowPages_ParsesListings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "plumber", r.URL.Query().Get("search_terms"))
		assert.Equal(t, "Austin, TX", r.URL.Query().Get("geo_location_terms"))
		_, _ = w.Write([]byte(yellowPagesHTML))
	}))
	defer srv.Close()

	engine := NewYellowPages(scrape.NewFetcher(scrape.WithHostRate(100)), 10)
	engine.baseURL = srv.URL

	records, err := engine.Search(context.Background(), smbRequest())
	require.NoError(t, err)
	require.Len(t, records, 2)

	rec := records[0]
	assert.Equal(t, "Radiant Plumbing", rec.Name)
	assert.Equal(t, "901 Reinli St, Austin, TX 78751", rec.Address)
	assert.Equal(t, "(512) 555-0134", rec.Phone)
	assert.Equal(t, "https://radiantplumbing.com", rec.Website)
	assert.Equal(t, "yellowpages", rec.Source)

	assert.Equal(t, "ABC Drains", records[1].Name)
	assert.Empty(t, records[1].Website)
}

func TestYellowPages_HonorsResultCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(yellowPagesHTML))
	}))
	defer srv.Close()

	engine := NewYellowPages(scrape.NewFetcher(scrape.WithHostRate(100)), 1)
	engine.baseURL = srv.URL

	records, err := engine.Search(context.Background(), smbRequest())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

const bingLocalHTML = `
<html><body>
<ol id="b_results">
  <li class="b_algo">
    <h2><a href="https://radiantplumbing.com">Radiant Plumbing - Austin's Plumber</a></h2>
    <div class="b_caption"><p>Emergency plumbing in Austin. Call (512) 555-0134 for a free estimate.</p></div>
  </li>
  <li class="b_algo">
    <h2><a href="https://www.yelp.com/biz/abc-drains">ABC Drains | Yelp</a></h2>
    <div class="b_caption"><p>Drain cleaning in East Austin.</p></div>
  </li>
</ol>
</body></html>`

func TestBingLocal_ParsesListings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(bingLocalHTML))
	}))
	defer srv.Close()

	engine := NewBingLocal(scrape.NewFetcher(scrape.WithHostRate(100)), 10)
	engine.baseURL = srv.URL

	records, err := engine.Search(context.Background(), smbRequest())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Radiant Plumbing", records[0].Name)
	assert.Equal(t, "(512) 555-0134", records[0].Phone)
	assert.Equal(t, "https://radiantplumbing.com", records[0].Website)
	assert.Equal(t, "bing_local", records[0].Source)

	assert.Equal(t, "ABC Drains", records[1].Name)
}

const bingCorpHTML = `
<html><body>
<ol id="b_results">
  <li class="b_algo">
    <h2><a href="https://www.linkedin.com/in/janesmith">Jane Smith - CMO - Nike | LinkedIn</a></h2>
    <div class="b_caption"><p>Jane Smith. CMO at Nike.</p></div>
  </li>
  <li class="b_algo">
    <h2><a href="https://nike.com/about">About Nike</a></h2>
  </li>
</ol>
</body></html>`

func TestBing_ParsesProfileResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Edg/")
		_, _ = w.Write([]byte(bingCorpHTML))
	}))
	defer srv.Close()

	engine := NewBing(scrape.NewFetcher(scrape.WithHostRate(100)))
	engine.baseURL = srv.URL

	records, err := engine.Search(context.Background(), corpRequest())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Jane Smith", records[0].Name)
	assert.Equal(t, "CMO - Nike", records[0].Headline)
	assert.Equal(t, "bing", records[0].Source)
}
