package engine

import (
	"bytes"
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/scrape"
)

// edgeHeaders present an Edge-on-Windows profile. Bing serves the plain
// result markup to its own browser without a challenge far more reliably
// than to a generic client.
var edgeHeaders = map[string]string{
	"User-Agent":     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36 Edg/126.0.0.0",
	"Sec-Fetch-Mode": "navigate",
	"Sec-Fetch-Site": "none",
	"Sec-Ch-Ua":      `"Not/A)Brand";v="8", "Chromium";v="126", "Microsoft Edge";v="126"`,
}

// Bing scrapes Bing's result page. Last corporate engine in the chain.
type Bing struct {
	fetcher *scrape.Fetcher
	baseURL string
}

// NewBing creates the Bing scraping engine over the shared fetcher.
func NewBing(fetcher *scrape.Fetcher) *Bing {
	return &Bing{fetcher: fetcher, baseURL: "https://www.bing.com"}
}

func (e *Bing) Name() string { return "bing" }

func (e *Bing) Configured() bool { return e.fetcher != nil }

func (e *Bing) Search(ctx context.Context, req model.SearchRequest) ([]model.ScrapedRecord, error) {
	searchURL := e.baseURL + "/search?q=" + url.QueryEscape(Dork(req.Role, req.Company))
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

	doc.Find("li.b_algo").Each(func(_ int, sel *goquery.Selection) {
		anchor := sel.Find("h2 a").First()
		href, _ := anchor.Attr("href")
		if !isProfileURL(href) || seen[href] {
			return
		}
		title := anchor.Text()
		if title == "" {
			return
		}

		seen[href] = true
		name, headline := ParseResultTitle(title)
		if headline == "" {
			headline = sel.Find(".b_caption p").First().Text()
		}
		records = append(records, model.ScrapedRecord{
			Name:          name,
			Headline:      headline,
			IdentifierURL: href,
			Source:        e.Name(),
		})
	})

	return records, nil
}
