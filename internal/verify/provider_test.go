package verify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/abstractapi"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
)

func TestHunterProvider_StatusMapping(t *testing.T) {
	tests := []struct {
		hunterStatus string
		want         model.EmailStatus
	}{
		{"valid", model.EmailValid},
		{"invalid", model.EmailInvalid},
		{"accept_all", model.EmailRisky},
		{"webmail", model.EmailRisky},
		{"unknown", model.EmailUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.hunterStatus, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = fmt.Fprintf(w, `{"data": {"status": %q, "email": "x@nike.com"}}`, tt.hunterStatus)
			}))
			defer srv.Close()

			p := NewHunterProvider(hunter.NewClient("key", hunter.WithBaseURL(srv.URL)))
			result, err := p.Verify(context.Background(), "x@nike.com")
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Status)
		})
	}
}

func TestHunterProvider_DisposableIsRisky(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"status": "valid", "disposable": true}}`))
	}))
	defer srv.Close()

	p := NewHunterProvider(hunter.NewClient("key", hunter.WithBaseURL(srv.URL)))
	result, err := p.Verify(context.Background(), "x@mailinator.com")
	require.NoError(t, err)
	assert.Equal(t, model.EmailRisky, result.Status)
}

func TestAbstractProvider_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		body string
		want model.EmailStatus
	}{
		{
			"deliverable",
			`{"deliverability": "DELIVERABLE", "is_catchall_email": {"value": false}}`,
			model.EmailValid,
		},
		{
			"deliverable catchall",
			`{"deliverability": "DELIVERABLE", "is_catchall_email": {"value": true}}`,
			model.EmailRisky,
		},
		{
			"undeliverable",
			`{"deliverability": "UNDELIVERABLE"}`,
			model.EmailInvalid,
		},
		{
			"unknown",
			`{"deliverability": "UNKNOWN"}`,
			model.EmailUnknown,
		},
		{
			"disposable",
			`{"deliverability": "DELIVERABLE", "is_disposable_email": {"value": true}}`,
			model.EmailRisky,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewAbstractProvider(abstractapi.NewClient("key", abstractapi.WithBaseURL(srv.URL)))
			result, err := p.Verify(context.Background(), "x@nike.com")
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Status)
		})
	}
}

func TestProviderErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewHunterProvider(hunter.NewClient("key", hunter.WithBaseURL(srv.URL)))
	_, err := p.Verify(context.Background(), "x@nike.com")
	assert.Error(t, err)
}
