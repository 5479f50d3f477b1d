package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// AnalysisCache keeps cached remote analyses in the analysis_cache table.
// Freshness is decided by the caller from the payload itself.
type AnalysisCache struct {
	db  *DB
	now func() time.Time
}

// AnalysisCache returns the cache backed by db.
func (db *DB) AnalysisCache() *AnalysisCache {
	return &AnalysisCache{db: db, now: time.Now}
}

func (c *AnalysisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := c.db.conn.QueryRowContext(ctx,
		"SELECT payload FROM analysis_cache WHERE cache_key = ?", key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (c *AnalysisCache) Set(ctx context.Context, key string, value []byte) error {
	_, err := c.db.conn.ExecContext(ctx,
		`INSERT INTO analysis_cache (cache_key, payload, stored_at) VALUES (?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET payload = excluded.payload, stored_at = excluded.stored_at`,
		key, value, formatTime(c.now()),
	)
	return err
}

func (c *AnalysisCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.conn.ExecContext(ctx, "DELETE FROM analysis_cache WHERE cache_key = ?", key)
	return err
}

// DeletePrefix removes every key starting with prefix. substr avoids LIKE,
// whose '_' wildcard appears in the keys.
func (c *AnalysisCache) DeletePrefix(ctx context.Context, prefix string) error {
	_, err := c.db.conn.ExecContext(ctx,
		"DELETE FROM analysis_cache WHERE substr(cache_key, 1, ?) = ?", len(prefix), prefix,
	)
	return err
}

// Clear empties the cache and returns how many entries were removed.
func (c *AnalysisCache) Clear(ctx context.Context) (int64, error) {
	res, err := c.db.conn.ExecContext(ctx, "DELETE FROM analysis_cache")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
