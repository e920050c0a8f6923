package enrich

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/model"
)

type fakeProvider struct {
	name   string
	result Enrichment
	err    error
	calls  int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Enrich(_ context.Context, _ model.ScrapedRecord, _ string) (Enrichment, error) {
	f.calls++
	return f.result, f.err
}

func testRecord() model.ScrapedRecord {
	return model.ScrapedRecord{Name: "Jane Smith", IdentifierURL: "https://www.linkedin.com/in/janesmith"}
}

func TestEnrich_FirstContributionWins(t *testing.T) {
	first := &fakeProvider{name: "first", result: Enrichment{Email: "jane@nike.com"}}
	second := &fakeProvider{name: "second", result: Enrichment{
		Email: "other@nike.com",
		Phone: "(503) 555-0142",
	}}

	e := NewWithProviders(config.EnrichConfig{}, first, second)
	merged := e.Enrich(context.Background(), testRecord(), "Nike")

	assert.Equal(t, "jane@nike.com", merged.Email, "earlier provider's email wins")
	assert.Equal(t, "(503) 555-0142", merged.Phone, "later provider still fills empty fields")
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestEnrich_ProviderErrorIsSkipped(t *testing.T) {
	broken := &fakeProvider{name: "broken", err: fmt.Errorf("quota exceeded")}
	working := &fakeProvider{name: "working", result: Enrichment{Email: "jane@nike.com"}}

	e := NewWithProviders(config.EnrichConfig{}, broken, working)
	merged := e.Enrich(context.Background(), testRecord(), "Nike")

	assert.Equal(t, "jane@nike.com", merged.Email)
}

func TestEnrich_NoProviders(t *testing.T) {
	e := NewWithProviders(config.EnrichConfig{})
	merged := e.Enrich(context.Background(), testRecord(), "Nike")
	assert.Equal(t, Enrichment{}, merged)
}

func TestBackfillPhones_FillsOnlyMissing(t *testing.T) {
	provider := &fakeProvider{name: "p", result: Enrichment{Phone: "(503) 555-0142"}}
	e := NewWithProviders(config.EnrichConfig{Parallelism: 2}, provider)

	records := []model.ScrapedRecord{
		{Name: "Jane Smith"},
		{Name: "John Doe", Phone: "(503) 555-0001"},
		{Name: ""},
	}
	e.BackfillPhones(context.Background(), records, "Nike")

	assert.Equal(t, "(503) 555-0142", records[0].Phone)
	assert.Equal(t, "(503) 555-0001", records[1].Phone, "existing phone untouched")
	assert.Empty(t, records[2].Phone, "nameless records are not looked up")
	assert.Equal(t, 1, provider.calls)
}

func TestNew_SkipsUnkeyedProviders(t *testing.T) {
	e := New(config.EnrichConfig{HunterKey: "hk"})
	assert.Len(t, e.providers, 1)

	e = New(config.EnrichConfig{HunterKey: "hk", ClearbitKey: "ck", RocketReachKey: "rk"})
	assert.Len(t, e.providers, 3)

	e = New(config.EnrichConfig{})
	assert.Empty(t, e.providers)
}
