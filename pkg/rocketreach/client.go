// Package rocketreach provides a client for the RocketReach person
// lookup API.
package rocketreach

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.rocketreach.co/api/v2"

// Client performs RocketReach API operations.
type Client interface {
	LookupPerson(ctx context.Context, name, employer string) (*Person, error)
}

// Person is a RocketReach person record.
type Person struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	CurrentTitle string  `json:"current_title"`
	LinkedInURL  string  `json:"linkedin_url"`
	TwitterURL   string  `json:"twitter_url"`
	Emails       []Email `json:"emails"`
	Phones       []Phone `json:"phones"`
}

// Email is one address attached to a person.
type Email struct {
	Email     string `json:"email"`
	Type      string `json:"type"`
	SMTPValid string `json:"smtp_valid"`
}

// Phone is one phone number attached to a person.
type Phone struct {
	Number string `json:"number"`
	Type   string `json:"type"`
}

// BestEmail returns the first address RocketReach marked smtp-valid,
// falling back to the first address of any status.
func (p *Person) BestEmail() string {
	for _, e := range p.Emails {
		if e.SMTPValid == "valid" {
			return e.Email
		}
	}
	if len(p.Emails) > 0 {
		return p.Emails[0].Email
	}
	return ""
}

// BestPhone returns the first phone number, if any.
func (p *Person) BestPhone() string {
	if len(p.Phones) > 0 {
		return p.Phones[0].Number
	}
	return ""
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

// NewClient creates a RocketReach API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) LookupPerson(ctx context.Context, name, employer string) (*Person, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("current_employer", employer)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/person/lookup?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "rocketreach: create request")
	}
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "rocketreach: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "rocketreach: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("rocketreach: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result Person
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "rocketreach: unmarshal response")
	}

	return &result, nil
}
