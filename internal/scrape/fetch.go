// Package scrape provides the shared HTTP fetcher used by scrape-based
// source engines, with per-host rate limiting and anti-bot block detection.
package scrape

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/resilience"
)

// maxBodyBytes caps how much of a page is read. Search result pages are
// small; anything larger is not a result page.
const maxBodyBytes = 1 << 20 // 1 MiB

// Fetcher fetches HTML pages on behalf of scrape engines.
type Fetcher struct {
	client    *http.Client
	userAgent string
	retry     resilience.RetryConfig

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perHost  rate.Limit
	burst    int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent sets the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithTimeout sets the overall per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.client.Timeout = d }
}

// WithRetries sets the total attempt count for transient failures.
func WithRetries(attempts int) Option {
	return func(f *Fetcher) { f.retry.MaxAttempts = attempts }
}

// WithHostRate sets the sustained per-host request rate.
func WithHostRate(perSec float64) Option {
	return func(f *Fetcher) { f.perHost = rate.Limit(perSec) }
}

// NewFetcher creates a Fetcher with sensible defaults.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		userAgent: "Mozilla/5.0 (compatible; LeadgenBot/1.0)",
		retry:     resilience.DefaultRetryConfig(),
		limiters:  make(map[string]*rate.Limiter),
		perHost:   rate.Limit(1),
		burst:     2,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// limiterFor returns the rate limiter for a host, creating it on first use.
func (f *Fetcher) limiterFor(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if lim, ok := f.limiters[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(f.perHost, f.burst)
	f.limiters[host] = lim
	return lim
}

// Fetch GETs a URL and returns the body. Blocks (CAPTCHA, Cloudflare,
// consent walls) and HTTP errors are returned as errors so callers can
// advance their fallback chain. Extra headers override the defaults,
// letting engines present a full browser profile where the target
// requires one.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string, headers map[string]string) ([]byte, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, eris.Wrapf(err, "scrape: parse url %s", targetURL)
	}
	if err := f.limiterFor(u.Host).Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "scrape: rate limit wait")
	}

	retry := f.retry
	retry.Name = u.Host
	return resilience.DoVal(ctx, retry, func(ctx context.Context) ([]byte, error) {
		return f.fetchOnce(ctx, targetURL, headers)
	})
}

func (f *Fetcher) fetchOnce(ctx context.Context, targetURL string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: create request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "scrape: read body")
	}

	if blocked, blockType := DetectBlock(resp, body); blocked {
		return nil, eris.Errorf("scrape: blocked (%s) fetching %s", blockType, targetURL)
	}

	if resp.StatusCode >= 400 {
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(
				eris.Errorf("scrape: status %d", resp.StatusCode), resp.StatusCode)
		}
		return nil, eris.Errorf("scrape: status %d fetching %s", resp.StatusCode, targetURL)
	}

	if len(body) < 100 {
		return nil, eris.New("scrape: empty page")
	}

	return body, nil
}
