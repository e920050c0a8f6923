package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/db"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// bulkUpsertThreshold is the batch size past which UpsertProfiles goes
// through the COPY-based bulk path instead of per-row statements.
const bulkUpsertThreshold = 50

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the hot store operations.
var preparedStatements = map[string]string{
	"find_profiles": `SELECT id, unique_key, name, normalized_title, company, website, last_verified_at, status, raw_data, created_at, updated_at
		FROM profiles WHERE company ILIKE $1 AND normalized_title ILIKE $2 ORDER BY last_verified_at DESC LIMIT $3`,
	"upsert_profile": `INSERT INTO profiles (id, unique_key, name, normalized_title, company, website, last_verified_at, status, raw_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (unique_key) DO UPDATE SET
			name = EXCLUDED.name,
			normalized_title = EXCLUDED.normalized_title,
			company = EXCLUDED.company,
			website = EXCLUDED.website,
			last_verified_at = EXCLUDED.last_verified_at,
			status = EXCLUDED.status,
			raw_data = EXCLUDED.raw_data,
			updated_at = EXCLUDED.updated_at`,
	"flag_missing": `UPDATE profiles SET status = $1, updated_at = $2 WHERE unique_key = ANY($3)`,
	"list_recent": `SELECT id, unique_key, name, normalized_title, company, website, last_verified_at, status, raw_data, created_at, updated_at
		FROM profiles WHERE status = 'active' ORDER BY last_verified_at DESC LIMIT $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool creates a PostgresStore around an existing pool.
// Used by tests to substitute pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS profiles (
	id               TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	unique_key       TEXT NOT NULL UNIQUE,
	name             TEXT NOT NULL,
	normalized_title TEXT NOT NULL DEFAULT '',
	company          TEXT NOT NULL DEFAULT '',
	website          TEXT NOT NULL DEFAULT '',
	last_verified_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	status           TEXT NOT NULL DEFAULT 'active',
	raw_data         JSONB,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_profiles_company ON profiles(company);
CREATE INDEX IF NOT EXISTS idx_profiles_last_verified_at ON profiles(last_verified_at);
CREATE INDEX IF NOT EXISTS idx_profiles_status ON profiles(status);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) FindProfiles(ctx context.Context, q ProfileQuery) ([]model.Profile, error) {
	companyPattern := "%"
	switch {
	case q.Company != "":
		companyPattern = q.Company
	case q.CompanyLike != "":
		companyPattern = "%" + q.CompanyLike + "%"
	}
	titlePattern := "%"
	if q.TitleLike != "" {
		titlePattern = "%" + q.TitleLike + "%"
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, "find_profiles", companyPattern, titlePattern, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: find profiles")
	}
	defer rows.Close()

	return scanProfiles(rows)
}

func (s *PostgresStore) UpsertProfiles(ctx context.Context, profiles []model.Profile) error {
	if len(profiles) == 0 {
		return nil
	}
	if len(profiles) >= bulkUpsertThreshold {
		return s.bulkUpsert(ctx, profiles)
	}

	now := time.Now().UTC()
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin upsert")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, p := range profiles {
		raw, err := marshalRawData(p.RawData)
		if err != nil {
			return err
		}
		id := p.ID
		if id == "" {
			id = uuid.New().String()
		}
		createdAt := p.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		if _, err := tx.Exec(ctx, "upsert_profile",
			id, p.UniqueKey, p.Name, p.NormalizedTitle, p.Company, p.Website,
			p.LastVerifiedAt, p.Status, raw, createdAt, now,
		); err != nil {
			return eris.Wrapf(err, "postgres: upsert profile %s", p.UniqueKey)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit upsert")
}

func (s *PostgresStore) bulkUpsert(ctx context.Context, profiles []model.Profile) error {
	now := time.Now().UTC()
	rows := make([][]any, 0, len(profiles))
	for _, p := range profiles {
		raw, err := marshalRawData(p.RawData)
		if err != nil {
			return err
		}
		id := p.ID
		if id == "" {
			id = uuid.New().String()
		}
		createdAt := p.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		rows = append(rows, []any{
			id, p.UniqueKey, p.Name, p.NormalizedTitle, p.Company, p.Website,
			p.LastVerifiedAt, p.Status, raw, createdAt, now,
		})
	}

	_, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table: "profiles",
		Columns: []string{
			"id", "unique_key", "name", "normalized_title", "company", "website",
			"last_verified_at", "status", "raw_data", "created_at", "updated_at",
		},
		ConflictKeys: []string{"unique_key"},
		UpdateCols: []string{
			"name", "normalized_title", "company", "website",
			"last_verified_at", "status", "raw_data", "updated_at",
		},
	}, rows)
	return err
}

func (s *PostgresStore) FlagMissing(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, "flag_missing", model.ProfileMissing, time.Now().UTC(), keys)
	return eris.Wrap(err, "postgres: flag missing")
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]model.Profile, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, "list_recent", limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list recent")
	}
	defer rows.Close()

	return scanProfiles(rows)
}

func scanProfiles(rows pgx.Rows) ([]model.Profile, error) {
	var profiles []model.Profile
	for rows.Next() {
		var (
			p   model.Profile
			raw []byte
		)
		if err := rows.Scan(&p.ID, &p.UniqueKey, &p.Name, &p.NormalizedTitle,
			&p.Company, &p.Website, &p.LastVerifiedAt, &p.Status, &raw,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan profile")
		}
		if len(raw) > 0 {
			p.RawData = &model.RawData{}
			if err := json.Unmarshal(raw, p.RawData); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal raw_data")
			}
		}
		profiles = append(profiles, p)
	}
	return profiles, eris.Wrap(rows.Err(), "postgres: iterate profiles")
}

func marshalRawData(raw *model.RawData) ([]byte, error) {
	if raw == nil {
		return nil, nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal raw_data")
	}
	return b, nil
}
