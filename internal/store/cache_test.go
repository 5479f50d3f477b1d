package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisCache(t *testing.T) {
	ctx := context.Background()
	c := openTestDB(t).AnalysisCache()

	_, ok, err := c.Get(ctx, "analysis_d1_alltime")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "analysis_d1_alltime", []byte(`{"summary":"a"}`)))
	require.NoError(t, c.Set(ctx, "analysis_d1_alltime", []byte(`{"summary":"b"}`)))
	got, ok, err := c.Get(ctx, "analysis_d1_alltime")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"summary":"b"}`, string(got))

	require.NoError(t, c.Delete(ctx, "analysis_d1_alltime"))
	_, ok, _ = c.Get(ctx, "analysis_d1_alltime")
	assert.False(t, ok)
}

func TestAnalysisCache_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	c := openTestDB(t).AnalysisCache()

	for _, k := range []string{"analysis_d1_alltime", "analysis_d1_2024-03", "analysis_d10_alltime", "analysisXd1_alltime"} {
		require.NoError(t, c.Set(ctx, k, []byte("{}")))
	}
	require.NoError(t, c.DeletePrefix(ctx, "analysis_d1_"))

	for k, want := range map[string]bool{
		"analysis_d1_alltime":  false,
		"analysis_d1_2024-03":  false,
		"analysis_d10_alltime": true,
		"analysisXd1_alltime":  true,
	} {
		_, ok, err := c.Get(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, want, ok, k)
	}

	n, err := c.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
