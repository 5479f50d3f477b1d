// Package postgres is the PostgreSQL journal.Repository and analysis cache,
// built on pgx connection pools.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied on every Open; each statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS dogs (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		breed       TEXT NOT NULL DEFAULT '',
		birth_date  TIMESTAMPTZ,
		gender      TEXT NOT NULL DEFAULT '',
		notes       TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id            TEXT PRIMARY KEY,
		dog_id        TEXT NOT NULL REFERENCES dogs(id) ON DELETE CASCADE,
		date          TIMESTAMPTZ NOT NULL,
		activity_type TEXT NOT NULL,
		outcome       TEXT NOT NULL,
		notes         TEXT NOT NULL DEFAULT '',
		seq           BIGSERIAL
	)`,
	`CREATE TABLE IF NOT EXISTS daily_ratings (
		id      TEXT PRIMARY KEY,
		dog_id  TEXT NOT NULL REFERENCES dogs(id) ON DELETE CASCADE,
		date    TIMESTAMPTZ NOT NULL,
		rating  TEXT NOT NULL DEFAULT '',
		notes   TEXT NOT NULL DEFAULT '',
		seq     BIGSERIAL
	)`,
	`CREATE TABLE IF NOT EXISTS custom_activities (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS analysis_cache (
		cache_key   TEXT PRIMARY KEY,
		payload     BYTEA NOT NULL,
		stored_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_dog_date ON activities(dog_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_ratings_dog_date ON daily_ratings(dog_id, date)`,
}

// DB owns the connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Open connects to dsn, verifies the connection and bootstraps the schema.
func Open(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("bootstrapping schema: %w", err)
		}
	}
	return &DB{pool: pool}, nil
}

// Close releases the pool.
func (db *DB) Close() error {
	db.pool.Close()
	return nil
}

// Journal returns the journal repository backed by db.
func (db *DB) Journal() *Repository {
	return &Repository{pool: db.pool}
}

// AnalysisCache returns the analysis cache backed by db.
func (db *DB) AnalysisCache() *AnalysisCache {
	return &AnalysisCache{pool: db.pool}
}
