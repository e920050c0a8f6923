// Package abstractapi provides a client for the AbstractAPI email
// validation endpoint.
package abstractapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://emailvalidation.abstractapi.com/v1"

// Client performs AbstractAPI email validation.
type Client interface {
	ValidateEmail(ctx context.Context, email string) (*ValidationResult, error)
}

// ValidationResult is the validation verdict for one address.
type ValidationResult struct {
	Email             string   `json:"email"`
	Deliverability    string   `json:"deliverability"`
	QualityScore      string   `json:"quality_score"`
	IsValidFormat     BoolFlag `json:"is_valid_format"`
	IsFreeEmail       BoolFlag `json:"is_free_email"`
	IsDisposableEmail BoolFlag `json:"is_disposable_email"`
	IsCatchallEmail   BoolFlag `json:"is_catchall_email"`
	IsMXFound         BoolFlag `json:"is_mx_found"`
	IsSMTPValid       BoolFlag `json:"is_smtp_valid"`
}

// BoolFlag is AbstractAPI's {"value": bool, "text": "TRUE"} wrapper.
type BoolFlag struct {
	Value bool   `json:"value"`
	Text  string `json:"text"`
}

// Deliverability values returned by the API.
const (
	Deliverable   = "DELIVERABLE"
	Undeliverable = "UNDELIVERABLE"
	Unknown       = "UNKNOWN"
)

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

// NewClient creates an AbstractAPI email validation client.
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

func (c *httpClient) ValidateEmail(ctx context.Context, email string) (*ValidationResult, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("email", email)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "abstractapi: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "abstractapi: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "abstractapi: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("abstractapi: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result ValidationResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "abstractapi: unmarshal response")
	}

	return &result, nil
}
