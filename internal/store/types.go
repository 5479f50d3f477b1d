// Package store provides SQLite persistence for dog journals, cached
// analyses and insight snapshots.
package store

import "time"

// Snapshot is a point-in-time capture of a dog's insight metrics for one
// time range.
type Snapshot struct {
	ID        int64     `json:"id"`
	DogID     string    `json:"dog_id"`
	TimeRange string    `json:"time_range"`
	TakenAt   time.Time `json:"taken_at"`
	Version   string    `json:"version"`
}

// AggregateMetric represents a named metric value within a snapshot.
type AggregateMetric struct {
	ID          int64   `json:"id"`
	SnapshotID  int64   `json:"snapshot_id"`
	MetricName  string  `json:"metric_name"`
	MetricValue float64 `json:"metric_value"`
	Detail      string  `json:"detail,omitempty"`
}

// SnapshotDiff represents the comparison between two snapshots.
type SnapshotDiff struct {
	Previous *Snapshot     `json:"previous"`
	Current  *Snapshot     `json:"current"`
	Deltas   []MetricDelta `json:"deltas"`
}

// MetricDelta represents the change in a single metric between snapshots.
type MetricDelta struct {
	Name      string  `json:"name"`
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"` // "improved", "regressed", "unchanged"
}
