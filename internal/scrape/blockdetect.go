package scrape

import (
	"net/http"
	"strings"
)

// BlockType describes the kind of block detected.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockConsent    BlockType = "consent"
	BlockChallenge  BlockType = "challenge"
)

// DetectBlock checks an HTTP response for signs of anti-bot protection.
// Search engines and listing sites block datacenter IPs routinely; a block
// is an ordinary operating condition that sends the caller to the next
// engine in its chain.
func DetectBlock(resp *http.Response, body []byte) (bool, BlockType) {
	if resp == nil {
		return false, BlockNone
	}

	// Cloudflare: 403/503 with cf-* headers.
	if resp.StatusCode == 403 || resp.StatusCode == 503 {
		if resp.Header.Get("cf-ray") != "" || resp.Header.Get("cf-cache-status") != "" {
			return true, BlockCloudflare
		}
		if resp.Header.Get("server") == "cloudflare" {
			return true, BlockCloudflare
		}
	}

	// Bing challenge redirects land on a /challenge path.
	if resp.Request != nil && resp.Request.URL != nil &&
		strings.Contains(resp.Request.URL.Path, "challenge") {
		return true, BlockChallenge
	}

	lower := strings.ToLower(string(body))

	// Cloudflare challenge page markers.
	if strings.Contains(lower, "checking your browser") ||
		strings.Contains(lower, "cf-browser-verification") {
		return true, BlockCloudflare
	}

	// Captcha markers.
	if strings.Contains(lower, "google.com/recaptcha") ||
		strings.Contains(lower, "g-recaptcha") ||
		strings.Contains(lower, "hcaptcha") ||
		strings.Contains(lower, "unusual traffic from your computer") {
		return true, BlockCaptcha
	}

	// Google consent interstitial served to cookie-less clients.
	if strings.Contains(lower, "consent.google.com") ||
		strings.Contains(lower, "before you continue to google") {
		return true, BlockConsent
	}

	return false, BlockNone
}
