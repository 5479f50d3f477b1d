package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doglog-app/doglog/internal/journal"
)

// openTestDB connects to DOGLOG_TEST_POSTGRES_DSN and skips without it.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("DOGLOG_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("DOGLOG_TEST_POSTGRES_DSN not set")
	}
	db, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := db.Journal()

	now := time.Now().Truncate(time.Microsecond)
	dog := journal.Dog{ID: uuid.NewString(), Name: "Rex", Breed: "Beagle", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateDog(ctx, dog))
	t.Cleanup(func() { _ = repo.DeleteDog(context.Background(), dog.ID) })

	from := journal.StartOfDay(now)
	to := from.AddDate(0, 0, 1)
	act := journal.Activity{ID: uuid.NewString(), Date: from.Add(time.Hour), ActivityType: "Walk", Outcome: journal.OutcomeGood}
	rating := &journal.DailyRating{ID: uuid.NewString(), Date: from.Add(time.Hour), Rating: journal.OutcomeOkay}
	require.NoError(t, repo.ReplaceDay(ctx, dog.ID, from, to, []journal.Activity{act}, rating))
	require.NoError(t, repo.ReplaceDay(ctx, dog.ID, from, to, []journal.Activity{act}, rating))

	acts, err := repo.ListActivities(ctx, dog.ID)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.True(t, acts[0].Date.Equal(act.Date))

	ratings, err := repo.ListRatings(ctx, dog.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 1)

	require.NoError(t, repo.DeleteDog(ctx, dog.ID))
	_, err = repo.GetDog(ctx, dog.ID)
	assert.ErrorIs(t, err, journal.ErrNotFound)
	acts, err = repo.ListActivities(ctx, dog.ID)
	require.NoError(t, err)
	assert.Empty(t, acts)
}

func TestAnalysisCache_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	c := openTestDB(t).AnalysisCache()
	id := uuid.NewString()

	require.NoError(t, c.Set(ctx, "analysis_"+id+"_alltime", []byte("{}")))
	require.NoError(t, c.Set(ctx, "analysis_"+id+"_2024-03", []byte("{}")))
	require.NoError(t, c.DeletePrefix(ctx, "analysis_"+id+"_"))

	_, ok, err := c.Get(ctx, "analysis_"+id+"_alltime")
	require.NoError(t, err)
	assert.False(t, ok)
}
