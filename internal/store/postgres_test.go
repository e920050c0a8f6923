package store

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/model"
)

func configStore(driver string) config.StoreConfig {
	return config.StoreConfig{Driver: driver}
}

func profileColumns() []string {
	return []string{
		"id", "unique_key", "name", "normalized_title", "company", "website",
		"last_verified_at", "status", "raw_data", "created_at", "updated_at",
	}
}

func TestPostgres_FindProfiles(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("find_profiles").
		WithArgs("Nike", "%CMO%", 50).
		WillReturnRows(pgxmock.NewRows(profileColumns()).AddRow(
			"id-1", "https://www.linkedin.com/in/janesmith", "Jane Smith",
			"CMO at Nike", "Nike", "https://nike.com",
			now, "active", []byte(`{"email":"jane.smith@nike.com"}`), now, now,
		))

	s := NewPostgresWithPool(mock)
	found, err := s.FindProfiles(context.Background(), ProfileQuery{Company: "Nike", TitleLike: "CMO"})

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Jane Smith", found[0].Name)
	require.NotNil(t, found[0].RawData)
	assert.Equal(t, "jane.smith@nike.com", found[0].RawData.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpsertProfiles(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("upsert_profile").
		WithArgs(pgxmock.AnyArg(), "key-1", "Jane Smith", "CMO at Nike", "Nike", "",
			pgxmock.AnyArg(), "active", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	s := NewPostgresWithPool(mock)
	err = s.UpsertProfiles(context.Background(), []model.Profile{{
		UniqueKey:       "key-1",
		Name:            "Jane Smith",
		NormalizedTitle: "CMO at Nike",
		Company:         "Nike",
		LastVerifiedAt:  time.Now().UTC(),
		Status:          model.ProfileActive,
		RawData:         &model.RawData{Email: "jane.smith@nike.com"},
	}})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpsertProfiles_Empty(t *testing.T) {
	s := NewPostgresWithPool(nil)
	assert.NoError(t, s.UpsertProfiles(context.Background(), nil))
}

func TestPostgres_FlagMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("flag_missing").
		WithArgs("missing", pgxmock.AnyArg(), []string{"key-1", "key-2"}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	s := NewPostgresWithPool(mock)
	assert.NoError(t, s.FlagMissing(context.Background(), []string{"key-1", "key-2"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListRecent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("list_recent").
		WithArgs(20).
		WillReturnRows(pgxmock.NewRows(profileColumns()).
			AddRow("id-1", "key-1", "Jane Smith", "CMO at Nike", "Nike", "",
				now, "active", nil, now, now).
			AddRow("id-2", "key-2", "John Doe", "VP Sales at Acme", "Acme", "",
				now.Add(-time.Hour), "active", nil, now, now))

	s := NewPostgresWithPool(mock)
	recent, err := s.ListRecent(context.Background(), 20)

	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "key-1", recent[0].UniqueKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("find_profiles").
		WillReturnError(assert.AnError)

	s := NewPostgresWithPool(mock)
	_, err = s.FindProfiles(context.Background(), ProfileQuery{Company: "Nike"})
	assert.Error(t, err)
}
