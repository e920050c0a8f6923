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

// Renderer produces the HTML of a search result page. The default
// renderer is a plain fetch; a headless-browser renderer satisfies the
// same interface when the plain fetch gets blocked too often.
type Renderer interface {
	Render(ctx context.Context, targetURL string) ([]byte, error)
}

type fetchRenderer struct {
	fetcher *scrape.Fetcher
	headers map[string]string
}

func (r *fetchRenderer) Render(ctx context.Context, targetURL string) ([]byte, error) {
	return r.fetcher.Fetch(ctx, targetURL, r.headers)
}

// StealthGoogle scrapes Google's result page directly with a browser
// profile. It sits behind the API engines in the chain: free, but the
// first to get blocked.
type StealthGoogle struct {
	renderer Renderer
}

// NewStealthGoogle creates the scraping engine over the shared fetcher.
func NewStealthGoogle(fetcher *scrape.Fetcher) *StealthGoogle {
	return &StealthGoogle{
		renderer: &fetchRenderer{
			fetcher: fetcher,
			headers: map[string]string{
				"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
				"Sec-Fetch-Mode":            "navigate",
				"Sec-Fetch-Site":            "none",
				"Upgrade-Insecure-Requests": "1",
			},
		},
	}
}

// NewStealthGoogleWithRenderer creates the engine around a custom renderer.
func NewStealthGoogleWithRenderer(r Renderer) *StealthGoogle {
	return &StealthGoogle{renderer: r}
}

func (e *StealthGoogle) Name() string { return "stealth_google" }

func (e *StealthGoogle) Configured() bool { return e.renderer != nil }

func (e *StealthGoogle) Search(ctx context.Context, req model.SearchRequest) ([]model.ScrapedRecord, error) {
	searchURL := "https://www.google.com/search?num=20&q=" + url.QueryEscape(Dork(req.Role, req.Company))
	body, err := e.renderer.Render(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "engine: parse result page")
	}

	seen := make(map[string]bool)
	var records []model.ScrapedRecord

	doc.Find(`a[href*="linkedin.com/in/"]`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		link := cleanResultLink(href)
		if link == "" || seen[link] {
			return
		}

		title := sel.Find("h3").First().Text()
		if title == "" {
			// The anchor may sit inside the result block rather than
			// around the heading.
			title = sel.Closest("div").Find("h3").First().Text()
		}
		if title == "" {
			return
		}

		seen[link] = true
		name, headline := ParseResultTitle(title)
		records = append(records, model.ScrapedRecord{
			Name:          name,
			Headline:      headline,
			IdentifierURL: link,
			Source:        e.Name(),
		})
	})

	return records, nil
}

// cleanResultLink unwraps Google's /url?q= redirect and rejects non-profile
// links.
func cleanResultLink(href string) string {
	if strings.HasPrefix(href, "/url?") {
		if u, err := url.Parse(href); err == nil {
			href = u.Query().Get("q")
		}
	}
	if !isProfileURL(href) {
		return ""
	}
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	return href
}
