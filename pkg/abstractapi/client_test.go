package abstractapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail_Deliverable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "jane.smith@nike.com", r.URL.Query().Get("email"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"email": "jane.smith@nike.com",
			"deliverability": "DELIVERABLE",
			"quality_score": "0.95",
			"is_valid_format": {"value": true, "text": "TRUE"},
			"is_catchall_email": {"value": false, "text": "FALSE"},
			"is_mx_found": {"value": true, "text": "TRUE"},
			"is_smtp_valid": {"value": true, "text": "TRUE"}
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	result, err := client.ValidateEmail(context.Background(), "jane.smith@nike.com")

	require.NoError(t, err)
	assert.Equal(t, Deliverable, result.Deliverability)
	assert.True(t, result.IsSMTPValid.Value)
	assert.False(t, result.IsCatchallEmail.Value)
}

func TestValidateEmail_Undeliverable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"email": "nobody@nike.com",
			"deliverability": "UNDELIVERABLE",
			"is_valid_format": {"value": true, "text": "TRUE"},
			"is_smtp_valid": {"value": false, "text": "FALSE"}
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	result, err := client.ValidateEmail(context.Background(), "nobody@nike.com")

	require.NoError(t, err)
	assert.Equal(t, Undeliverable, result.Deliverability)
}

func TestValidateEmail_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Invalid API key provided."}}`))
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))
	result, err := client.ValidateEmail(context.Background(), "jane.smith@nike.com")

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "401")
}
