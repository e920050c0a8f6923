package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS profiles (
	id               TEXT PRIMARY KEY,
	unique_key       TEXT NOT NULL UNIQUE,
	name             TEXT NOT NULL,
	normalized_title TEXT NOT NULL DEFAULT '',
	company          TEXT NOT NULL DEFAULT '',
	website          TEXT NOT NULL DEFAULT '',
	last_verified_at DATETIME NOT NULL,
	status           TEXT NOT NULL DEFAULT 'active',
	raw_data         TEXT,
	created_at       DATETIME NOT NULL,
	updated_at       DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_profiles_company ON profiles(company);
CREATE INDEX IF NOT EXISTS idx_profiles_last_verified_at ON profiles(last_verified_at);
CREATE INDEX IF NOT EXISTS idx_profiles_status ON profiles(status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) FindProfiles(ctx context.Context, q ProfileQuery) ([]model.Profile, error) {
	companyPattern := "%"
	switch {
	case q.Company != "":
		companyPattern = strings.ToLower(q.Company)
	case q.CompanyLike != "":
		companyPattern = "%" + strings.ToLower(q.CompanyLike) + "%"
	}
	titlePattern := "%"
	if q.TitleLike != "" {
		titlePattern = "%" + strings.ToLower(q.TitleLike) + "%"
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, unique_key, name, normalized_title, company, website, last_verified_at, status, raw_data, created_at, updated_at
		FROM profiles
		WHERE LOWER(company) LIKE ? AND LOWER(normalized_title) LIKE ?
		ORDER BY last_verified_at DESC LIMIT ?`,
		companyPattern, titlePattern, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: find profiles")
	}
	defer rows.Close()

	return scanSQLiteProfiles(rows)
}

func (s *SQLiteStore) UpsertProfiles(ctx context.Context, profiles []model.Profile) error {
	if len(profiles) == 0 {
		return nil
	}

	now := time.Now().UTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin upsert")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO profiles (id, unique_key, name, normalized_title, company, website, last_verified_at, status, raw_data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (unique_key) DO UPDATE SET
			name = excluded.name,
			normalized_title = excluded.normalized_title,
			company = excluded.company,
			website = excluded.website,
			last_verified_at = excluded.last_verified_at,
			status = excluded.status,
			raw_data = excluded.raw_data,
			updated_at = excluded.updated_at`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare upsert")
	}
	defer stmt.Close()

	for _, p := range profiles {
		var raw any
		if p.RawData != nil {
			b, err := json.Marshal(p.RawData)
			if err != nil {
				return eris.Wrap(err, "sqlite: marshal raw_data")
			}
			raw = string(b)
		}
		id := p.ID
		if id == "" {
			id = uuid.New().String()
		}
		createdAt := p.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		if _, err := stmt.ExecContext(ctx,
			id, p.UniqueKey, p.Name, p.NormalizedTitle, p.Company, p.Website,
			p.LastVerifiedAt, p.Status, raw, createdAt, now,
		); err != nil {
			return eris.Wrapf(err, "sqlite: upsert profile %s", p.UniqueKey)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit upsert")
}

func (s *SQLiteStore) FlagMissing(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(keys))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(keys)+2)
	args = append(args, model.ProfileMissing, time.Now().UTC())
	for _, k := range keys {
		args = append(args, k)
	}

	_, err := s.db.ExecContext(ctx,
		"UPDATE profiles SET status = ?, updated_at = ? WHERE unique_key IN ("+placeholders+")",
		args...)
	return eris.Wrap(err, "sqlite: flag missing")
}

func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]model.Profile, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, unique_key, name, normalized_title, company, website, last_verified_at, status, raw_data, created_at, updated_at
		FROM profiles WHERE status = 'active'
		ORDER BY last_verified_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list recent")
	}
	defer rows.Close()

	return scanSQLiteProfiles(rows)
}

func scanSQLiteProfiles(rows *sql.Rows) ([]model.Profile, error) {
	var profiles []model.Profile
	for rows.Next() {
		var (
			p   model.Profile
			raw sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.UniqueKey, &p.Name, &p.NormalizedTitle,
			&p.Company, &p.Website, &p.LastVerifiedAt, &p.Status, &raw,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan profile")
		}
		if raw.Valid && raw.String != "" {
			p.RawData = &model.RawData{}
			if err := json.Unmarshal([]byte(raw.String), p.RawData); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal raw_data")
			}
		}
		profiles = append(profiles, p)
	}
	return profiles, eris.Wrap(rows.Err(), "sqlite: iterate profiles")
}
