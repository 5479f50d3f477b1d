package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const snapshotColumns = "id, dog_id, time_range, taken_at, version"

// CreateSnapshot stores a snapshot of the given metrics and returns it.
func (db *DB) CreateSnapshot(ctx context.Context, dogID, timeRange, version string, metrics map[string]float64) (*Snapshot, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	takenAt := time.Now()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO snapshots (dog_id, time_range, taken_at, version) VALUES (?, ?, ?, ?)",
		dogID, timeRange, formatTime(takenAt), version,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	for name, value := range metrics {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO aggregate_metrics (snapshot_id, metric_name, metric_value, detail) VALUES (?, ?, ?, ?)",
			id, name, value, "",
		); err != nil {
			return nil, fmt.Errorf("inserting metric %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &Snapshot{ID: id, DogID: dogID, TimeRange: timeRange, TakenAt: takenAt, Version: version}, nil
}

// GetSnapshotN returns the Nth most recent snapshot of the dog and range
// (1 = latest, 2 = previous, etc.), or nil if there is none.
func (db *DB) GetSnapshotN(ctx context.Context, dogID, timeRange string, n int) (*Snapshot, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+snapshotColumns+` FROM snapshots WHERE dog_id = ? AND time_range = ?
		 ORDER BY id DESC LIMIT 1 OFFSET ?`,
		dogID, timeRange, n-1,
	)
	return scanSnapshot(row)
}

// ListSnapshots returns up to limit of the dog's most recent snapshots for
// the range, oldest first.
func (db *DB) ListSnapshots(ctx context.Context, dogID, timeRange string, limit int) ([]Snapshot, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+snapshotColumns+` FROM snapshots WHERE dog_id = ? AND time_range = ?
		 ORDER BY id DESC LIMIT ?`,
		dogID, timeRange, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var snaps []Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(snaps)-1; i < j; i, j = i+1, j-1 {
		snaps[i], snaps[j] = snaps[j], snaps[i]
	}
	return snaps, nil
}

func scanSnapshot(row rowScanner) (*Snapshot, error) {
	var s Snapshot
	var takenAt string
	err := row.Scan(&s.ID, &s.DogID, &s.TimeRange, &takenAt, &s.Version)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if s.TakenAt, err = parseTime(takenAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetAggregateMetrics returns all aggregate metrics for a snapshot.
func (db *DB) GetAggregateMetrics(ctx context.Context, snapshotID int64) ([]AggregateMetric, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, snapshot_id, metric_name, metric_value, detail FROM aggregate_metrics
		 WHERE snapshot_id = ? ORDER BY metric_name`,
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var metrics []AggregateMetric
	for rows.Next() {
		var m AggregateMetric
		var detail sql.NullString
		if err := rows.Scan(&m.ID, &m.SnapshotID, &m.MetricName, &m.MetricValue, &detail); err != nil {
			return nil, err
		}
		m.Detail = detail.String
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// MetricMap returns a snapshot's metrics keyed by name.
func (db *DB) MetricMap(ctx context.Context, snapshotID int64) (map[string]float64, error) {
	metrics, err := db.GetAggregateMetrics(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(metrics))
	for _, m := range metrics {
		out[m.MetricName] = m.MetricValue
	}
	return out, nil
}
