// Package clearbit provides a client for the Clearbit Company API.
package clearbit

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://company.clearbit.com/v2"

// Client performs Clearbit Company API operations.
type Client interface {
	FindCompany(ctx context.Context, domain string) (*Company, error)
}

// Company is a Clearbit company record.
type Company struct {
	Name        string   `json:"name"`
	Domain      string   `json:"domain"`
	Logo        string   `json:"logo"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Phone       string   `json:"phone"`
	LinkedIn    Handle   `json:"linkedin"`
	Twitter     Handle   `json:"twitter"`
	Tags        []string `json:"tags"`
}

// Handle is a social profile handle.
type Handle struct {
	Handle string `json:"handle"`
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

// NewClient creates a Clearbit Company API client.
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

func (c *httpClient) FindCompany(ctx context.Context, domain string) (*Company, error) {
	params := url.Values{}
	params.Set("domain", domain)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/companies/find?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "clearbit: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "clearbit: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "clearbit: read response")
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, eris.Errorf("clearbit: company not found for domain %s", domain)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("clearbit: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result Company
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "clearbit: unmarshal response")
	}

	return &result, nil
}
