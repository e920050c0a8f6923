package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleProfile(key string) model.Profile {
	return model.Profile{
		UniqueKey:       key,
		Name:            "Jane Smith",
		NormalizedTitle: "CMO at Nike",
		Company:         "Nike",
		Website:         "https://nike.com",
		LastVerifiedAt:  time.Now().UTC(),
		Status:          model.ProfileActive,
		RawData: &model.RawData{
			Email:  "jane.smith@nike.com",
			Status: "valid",
			Source: "google_cse",
		},
	}
}

func TestSQLite_UpsertAndFind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertProfiles(ctx, []model.Profile{
		sampleProfile("https://www.linkedin.com/in/janesmith"),
	}))

	found, err := s.FindProfiles(ctx, ProfileQuery{Company: "nike", TitleLike: "CMO"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	p := found[0]
	assert.Equal(t, "Jane Smith", p.Name)
	assert.NotEmpty(t, p.ID, "an id is assigned on insert")
	require.NotNil(t, p.RawData)
	assert.Equal(t, "jane.smith@nike.com", p.RawData.Email)
}

func TestSQLite_UpsertIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	key := "https://www.linkedin.com/in/janesmith"
	first := sampleProfile(key)
	require.NoError(t, s.UpsertProfiles(ctx, []model.Profile{first}))

	second := sampleProfile(key)
	second.NormalizedTitle = "VP Marketing at Nike"
	second.LastVerifiedAt = first.LastVerifiedAt.Add(time.Hour)
	require.NoError(t, s.UpsertProfiles(ctx, []model.Profile{second}))

	found, err := s.FindProfiles(ctx, ProfileQuery{Company: "Nike"})
	require.NoError(t, err)
	require.Len(t, found, 1, "same key must not create a second row")
	assert.Equal(t, "VP Marketing at Nike", found[0].NormalizedTitle, "later write wins")
}

func TestSQLite_FindIsCaseInsensitiveSubstring(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	smb := model.Profile{
		UniqueKey:       model.SyntheticKey("Radiant Plumbing", "901 Reinli St, Austin, TX 78751"),
		Name:            "Radiant Plumbing",
		NormalizedTitle: "Plumber",
		Company:         "Austin, TX",
		LastVerifiedAt:  time.Now().UTC(),
		Status:          model.ProfileActive,
	}
	require.NoError(t, s.UpsertProfiles(ctx, []model.Profile{smb}))

	found, err := s.FindProfiles(ctx, ProfileQuery{CompanyLike: "austin", TitleLike: "plumber"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Radiant Plumbing", found[0].Name)

	none, err := s.FindProfiles(ctx, ProfileQuery{CompanyLike: "denver", TitleLike: "plumber"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLite_FlagMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	keep := sampleProfile("key-keep")
	gone := sampleProfile("key-gone")
	require.NoError(t, s.UpsertProfiles(ctx, []model.Profile{keep, gone}))

	require.NoError(t, s.FlagMissing(ctx, []string{"key-gone"}))

	found, err := s.FindProfiles(ctx, ProfileQuery{Company: "Nike"})
	require.NoError(t, err)
	require.Len(t, found, 2, "flagged rows are retained")

	statuses := map[string]string{}
	for _, p := range found {
		statuses[p.UniqueKey] = p.Status
	}
	assert.Equal(t, model.ProfileActive, statuses["key-keep"])
	assert.Equal(t, model.ProfileMissing, statuses["key-gone"])

	require.NoError(t, s.FlagMissing(ctx, nil), "empty key list is a no-op")
}

func TestSQLite_ListRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	older := sampleProfile("key-older")
	older.LastVerifiedAt = now.Add(-2 * time.Hour)
	newer := sampleProfile("key-newer")
	newer.LastVerifiedAt = now
	missing := sampleProfile("key-missing")
	missing.Status = model.ProfileMissing

	require.NoError(t, s.UpsertProfiles(ctx, []model.Profile{older, newer, missing}))

	recent, err := s.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2, "missing rows are excluded")
	assert.Equal(t, "key-newer", recent[0].UniqueKey, "newest verification first")
	assert.Equal(t, "key-older", recent[1].UniqueKey)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), configStore("mysql"))
	assert.Error(t, err)
}

func TestNew_SQLiteDefault(t *testing.T) {
	cfg := configStore("sqlite")
	cfg.SQLitePath = filepath.Join(t.TempDir(), "x.db")
	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}
