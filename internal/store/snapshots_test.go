package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshots(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	for i, conf := range []float64{0.3, 0.5, 0.7} {
		s, err := db.CreateSnapshot(ctx, "d1", "alltime", "test", map[string]float64{
			"confidence":    conf,
			"pattern_count": float64(i),
		})
		require.NoError(t, err)
		require.NotZero(t, s.ID)
	}
	_, err := db.CreateSnapshot(ctx, "d1", "2024-03", "test", map[string]float64{"confidence": 0.9})
	require.NoError(t, err)

	latest, err := db.GetSnapshotN(ctx, "d1", "alltime", 1)
	require.NoError(t, err)
	require.NotNil(t, latest)
	m, err := db.MetricMap(ctx, latest.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.7, m["confidence"])
	assert.Equal(t, 2.0, m["pattern_count"])

	prev, err := db.GetSnapshotN(ctx, "d1", "alltime", 2)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Less(t, prev.ID, latest.ID)

	none, err := db.GetSnapshotN(ctx, "d1", "alltime", 4)
	require.NoError(t, err)
	assert.Nil(t, none, "only three alltime snapshots exist")

	list, err := db.ListSnapshots(ctx, "d1", "alltime", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, prev.ID, list[0].ID)
	assert.Equal(t, latest.ID, list[1].ID)

	other, err := db.ListSnapshots(ctx, "d2", "alltime", 10)
	require.NoError(t, err)
	assert.Empty(t, other)
}
