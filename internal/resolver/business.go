package resolver

import (
	"net/url"
	"strings"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// sourceLabels prettify engine names for provenance strings.
var sourceLabels = map[string]string{
	"yelp":           "Yelp",
	"google_places":  "Google Places",
	"yellowpages":    "YellowPages",
	"bing_local":     "Bing",
	"google_cse":     "Google",
	"serpapi":        "Google",
	"stealth_google": "Google",
	"bing":           "Bing",
}

// directoryHosts are listing sites whose URLs identify the listing, not
// the business. No inbox lives there.
var directoryHosts = map[string]bool{
	"yelp.com":        true,
	"yellowpages.com": true,
	"bing.com":        true,
	"google.com":      true,
}

// mapBusinesses turns business listings into profiles. Listings carry no
// personal mailbox, so the contact address is a guess at the business's
// catch-all inbox and always lands as risky.
func (r *Resolver) mapBusinesses(records []model.ScrapedRecord) []model.EnrichedProfile {
	profiles := make([]model.EnrichedProfile, 0, len(records))
	for _, rec := range records {
		profiles = append(profiles, model.EnrichedProfile{
			ScrapedRecord:       rec,
			Email:               businessEmail(rec.Website),
			EmailStatus:         model.EmailRisky,
			VerificationDetails: "Scraped from " + sourceLabel(rec.Source),
		})
	}
	return profiles
}

func sourceLabel(source string) string {
	if label, ok := sourceLabels[source]; ok {
		return label
	}
	return source
}

// businessEmail guesses the business's contact inbox from its website.
// Directory links and missing websites fall back to a free-mail guess.
func businessEmail(website string) string {
	domain := websiteDomain(website)
	if domain == "" {
		return "contact@gmail.com"
	}
	return "contact@" + domain
}

func websiteDomain(website string) string {
	if website == "" {
		return ""
	}
	u, err := url.Parse(website)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if directoryHosts[host] {
		return ""
	}
	return host
}
