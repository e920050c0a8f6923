// Package hunter provides a client for the Hunter.io email API.
package hunter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.hunter.io/v2"

// Client performs Hunter.io API operations.
type Client interface {
	DomainSearch(ctx context.Context, domain string) (*DomainSearchData, error)
	EmailFinder(ctx context.Context, domain, firstName, lastName string) (*EmailFinderData, error)
	VerifyEmail(ctx context.Context, email string) (*VerifyData, error)
}

// DomainSearchData lists addresses known for a domain.
type DomainSearchData struct {
	Domain  string        `json:"domain"`
	Pattern string        `json:"pattern"`
	Emails  []DomainEmail `json:"emails"`
}

// DomainEmail is one address from a domain search.
type DomainEmail struct {
	Value      string `json:"value"`
	Type       string `json:"type"`
	Confidence int    `json:"confidence"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Position   string `json:"position"`
}

// EmailFinderData is the most likely address for a person at a domain.
type EmailFinderData struct {
	Email      string `json:"email"`
	Score      int    `json:"score"`
	Position   string `json:"position"`
	LinkedIn   string `json:"linkedin_url"`
	Twitter    string `json:"twitter"`
	PhoneValue string `json:"phone_number"`
}

// VerifyData is the deliverability verdict for an address.
type VerifyData struct {
	Status     string `json:"status"`
	Result     string `json:"result"`
	Score      int    `json:"score"`
	Email      string `json:"email"`
	SMTPServer bool   `json:"smtp_server"`
	SMTPCheck  bool   `json:"smtp_check"`
	AcceptAll  bool   `json:"accept_all"`
	Disposable bool   `json:"disposable"`
}

type envelope[T any] struct {
	Data T `json:"data"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Hunter.io API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) DomainSearch(ctx context.Context, domain string) (*DomainSearchData, error) {
	params := url.Values{}
	params.Set("domain", domain)
	params.Set("api_key", c.apiKey)

	var out envelope[DomainSearchData]
	if err := c.get(ctx, "/domain-search", params, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *httpClient) EmailFinder(ctx context.Context, domain, firstName, lastName string) (*EmailFinderData, error) {
	params := url.Values{}
	params.Set("domain", domain)
	params.Set("first_name", firstName)
	params.Set("last_name", lastName)
	params.Set("api_key", c.apiKey)

	var out envelope[EmailFinderData]
	if err := c.get(ctx, "/email-finder", params, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *httpClient) VerifyEmail(ctx context.Context, email string) (*VerifyData, error) {
	params := url.Values{}
	params.Set("email", email)
	params.Set("api_key", c.apiKey)

	var out envelope[VerifyData]
	if err := c.get(ctx, "/email-verifier", params, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "hunter: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "hunter: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "hunter: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("hunter: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "hunter: unmarshal response")
	}

	return nil
}
