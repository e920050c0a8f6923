package engine

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/scrape"
)

// BingLocal scrapes Bing's result page for local business listings. Last
// engine in the local chain; results are sparser than the directories but
// Bing rarely blocks.
type BingLocal struct {
	fetcher    *scrape.Fetcher
	baseURL    string
	maxResults int
}

// NewBingLocal creates the Bing local scraping engine.
func NewBingLocal(fetcher *scrape.Fetcher, maxResults int) *BingLocal {
	return &BingLocal{fetcher: fetcher, baseURL: "https://www.bing.com", maxResults: maxResults}
}

func (e *BingLocal) Name() string { return "bing_local" }

func (e *BingLocal) Configured() bool { return e.fetcher != nil }

func (e *BingLocal) Search(ctx context.Context, req model.SearchRequest) ([]model.ScrapedRecord, error) {
	query := fmt.Sprintf(`"%s" near %s`, NormalizeBusinessType(req.BusinessType), req.Location)
	searchURL := e.baseURL + "/search?q=" + url.QueryEscape(query)

	body, err := e.fetcher.Fetch(ctx, searchURL, edgeHeaders)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "engine: parse result page")
	}

	seen := make(map[string]bool)
	var records []model.ScrapedRecord

	doc.Find("li.b_algo").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		anchor := sel.Find("h2 a").First()
		name := strings.TrimSpace(anchor.Text())
		if name == "" || seen[name] {
			return true
		}
		// Directory aggregators dominate these results; strip their site
		// suffixes so the business name stands alone.
		if i := strings.Index(name, " - "); i > 0 {
			name = name[:i]
		}
		if i := strings.Index(name, " | "); i > 0 {
			name = name[:i]
		}

		caption := strings.TrimSpace(sel.Find(".b_caption p").First().Text())
		website, _ := anchor.Attr("href")

		seen[name] = true
		records = append(records, model.ScrapedRecord{
			Name:     name,
			Headline: caption,
			Phone:    ExtractPhone(sel.Text()),
			Website:  website,
			Source:   e.Name(),
		})
		return e.maxResults <= 0 || len(records) < e.maxResults
	})

	return records, nil
}
