package rocketreach

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupPerson_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/person/lookup", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Api-Key"))
		assert.Equal(t, "Jane Smith", r.URL.Query().Get("name"))
		assert.Equal(t, "Nike", r.URL.Query().Get("current_employer"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 12345,
			"name": "Jane Smith",
			"current_title": "CMO",
			"linkedin_url": "https://www.linkedin.com/in/janesmith",
			"emails": [
				{"email": "jsmith@old-employer.com", "type": "professional", "smtp_valid": "invalid"},
				{"email": "jane.smith@nike.com", "type": "professional", "smtp_valid": "valid"}
			],
			"phones": [{"number": "+1 503-555-0142", "type": "mobile"}]
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	person, err := client.LookupPerson(context.Background(), "Jane Smith", "Nike")

	require.NoError(t, err)
	assert.Equal(t, "CMO", person.CurrentTitle)
	assert.Equal(t, "jane.smith@nike.com", person.BestEmail())
	assert.Equal(t, "+1 503-555-0142", person.BestPhone())
}

func TestBestEmail_FallsBackToFirst(t *testing.T) {
	p := &Person{Emails: []Email{
		{Email: "a@example.com", SMTPValid: "inconclusive"},
		{Email: "b@example.com", SMTPValid: "inconclusive"},
	}}
	assert.Equal(t, "a@example.com", p.BestEmail())

	empty := &Person{}
	assert.Empty(t, empty.BestEmail())
	assert.Empty(t, empty.BestPhone())
}

func TestLookupPerson_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail": "Invalid API key"}`))
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))
	person, err := client.LookupPerson(context.Background(), "Jane Smith", "Nike")

	assert.Error(t, err)
	assert.Nil(t, person)
	assert.Contains(t, err.Error(), "403")
}
