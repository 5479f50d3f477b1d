package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalysisCache keeps cached analyses in the analysis_cache table.
type AnalysisCache struct {
	pool *pgxpool.Pool
}

func (c *AnalysisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := c.pool.QueryRow(ctx, "SELECT payload FROM analysis_cache WHERE cache_key = $1", key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (c *AnalysisCache) Set(ctx context.Context, key string, value []byte) error {
	_, err := c.pool.Exec(ctx, `
		INSERT INTO analysis_cache (cache_key, payload, stored_at) VALUES ($1, $2, now())
		ON CONFLICT (cache_key) DO UPDATE SET payload = EXCLUDED.payload, stored_at = EXCLUDED.stored_at
	`, key, value)
	return err
}

func (c *AnalysisCache) Delete(ctx context.Context, key string) error {
	_, err := c.pool.Exec(ctx, "DELETE FROM analysis_cache WHERE cache_key = $1", key)
	return err
}

func (c *AnalysisCache) DeletePrefix(ctx context.Context, prefix string) error {
	_, err := c.pool.Exec(ctx, "DELETE FROM analysis_cache WHERE starts_with(cache_key, $1)", prefix)
	return err
}

// Clear empties the cache and returns how many entries were removed.
func (c *AnalysisCache) Clear(ctx context.Context) (int64, error) {
	tag, err := c.pool.Exec(ctx, "DELETE FROM analysis_cache")
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
