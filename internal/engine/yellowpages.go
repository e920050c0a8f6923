package engine

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/scrape"
)

// YellowPages scrapes the YellowPages directory. Listings carry street
// addresses and phone numbers in stable, classed markup.
type YellowPages struct {
	fetcher    *scrape.Fetcher
	baseURL    string
	maxResults int
}

// NewYellowPages creates the YellowPages scraping engine.
func NewYellowPages(fetcher *scrape.Fetcher, maxResults int) *YellowPages {
	return &YellowPages{fetcher: fetcher, baseURL: "https://www.yellowpages.com", maxResults: maxResults}
}

func (e *YellowPages) Name() string { return "yellowpages" }

func (e *YellowPages) Configured() bool { return e.fetcher != nil }

func (e *YellowPages) Search(ctx context.Context, req model.SearchRequest) ([]model.ScrapedRecord, error) {
	params := url.Values{}
	params.Set("search_terms", NormalizeBusinessType(req.BusinessType))
	params.Set("geo_location_terms", req.Location)
	searchURL := e.baseURL + "/search?" + params.Encode()

	body, err := e.fetcher.Fetch(ctx, searchURL, nil)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "engine: parse result page")
	}

	var records []model.ScrapedRecord
	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		name := strings.TrimSpace(sel.Find(".business-name span").First().Text())
		if name == "" {
			name = strings.TrimSpace(sel.Find(".business-name").First().Text())
		}
		if name == "" {
			return true
		}

		street := strings.TrimSpace(sel.Find(".street-address").First().Text())
		locality := strings.TrimSpace(sel.Find(".locality").First().Text())
		address := strings.TrimSpace(strings.Join(nonEmpty(street, locality), ", "))

		phone := strings.TrimSpace(sel.Find(".phones").First().Text())
		if phone == "" {
			phone = ExtractPhone(sel.Text())
		}

		website, _ := sel.Find("a.track-visit-website").First().Attr("href")

		records = append(records, model.ScrapedRecord{
			Name:     name,
			Headline: address,
			Address:  address,
			Phone:    phone,
			Website:  website,
			Source:   e.Name(),
		})
		return e.maxResults <= 0 || len(records) < e.maxResults
	})

	return records, nil
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
