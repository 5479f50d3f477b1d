package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doglog-app/doglog/internal/journal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

var day = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.Local)

func testDog(id, name string) journal.Dog {
	birth := time.Date(2021, 5, 1, 0, 0, 0, 0, time.Local)
	return journal.Dog{
		ID: id, Name: name, Breed: "Beagle", BirthDate: &birth, Gender: "female",
		CreatedAt: day, UpdatedAt: day,
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Migrate())

	var version int
	require.NoError(t, db.Conn().QueryRow("SELECT version FROM schema_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "doglog.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Journal().CreateDog(context.Background(), testDog("d1", "Rex")))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	d, err := db.Journal().GetDog(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "Rex", d.Name)
}

func TestDogCRUD(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t).Journal()

	require.NoError(t, repo.CreateDog(ctx, testDog("d2", "Zelda")))
	require.NoError(t, repo.CreateDog(ctx, testDog("d1", "Alfie")))

	got, err := repo.GetDog(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "Alfie", got.Name)
	require.NotNil(t, got.BirthDate)
	assert.True(t, got.BirthDate.Equal(time.Date(2021, 5, 1, 0, 0, 0, 0, time.Local)))
	assert.True(t, got.CreatedAt.Equal(day))

	dogs, err := repo.ListDogs(ctx)
	require.NoError(t, err)
	require.Len(t, dogs, 2)
	assert.Equal(t, "Alfie", dogs[0].Name)

	got.Name = "Alfred"
	got.BirthDate = nil
	require.NoError(t, repo.UpdateDog(ctx, got))
	got, err = repo.GetDog(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "Alfred", got.Name)
	assert.Nil(t, got.BirthDate)

	assert.ErrorIs(t, repo.UpdateDog(ctx, testDog("missing", "X")), journal.ErrNotFound)
	_, err = repo.GetDog(ctx, "missing")
	assert.ErrorIs(t, err, journal.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteDog(ctx, "missing"), journal.ErrNotFound)
}

func TestReplaceDay(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t).Journal()
	require.NoError(t, repo.CreateDog(ctx, testDog("d1", "Rex")))

	next := day.AddDate(0, 0, 1)
	morning := day.Add(8 * time.Hour)

	require.NoError(t, repo.ReplaceDay(ctx, "d1", next, next.AddDate(0, 0, 1),
		[]journal.Activity{{ID: "other", Date: next.Add(9 * time.Hour), ActivityType: "Walk", Outcome: journal.OutcomeGood}}, nil))

	require.NoError(t, repo.ReplaceDay(ctx, "d1", day, next,
		[]journal.Activity{
			{ID: "a1", Date: morning, ActivityType: "Walk", Outcome: journal.OutcomeGood, Notes: "sniffy"},
			{ID: "a2", Date: morning.Add(time.Hour), ActivityType: "Bath", Outcome: journal.OutcomeBad},
		},
		&journal.DailyRating{ID: "r1", Date: morning, Rating: journal.OutcomeOkay, Notes: "meh"},
	))

	// Saving the day again replaces, not appends.
	require.NoError(t, repo.ReplaceDay(ctx, "d1", day, next,
		[]journal.Activity{{ID: "a3", Date: morning, ActivityType: "Fetch", Outcome: journal.OutcomeGood}},
		nil,
	))

	acts, err := repo.ListActivities(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, acts, 2)
	assert.Equal(t, "a3", acts[0].ID)
	assert.Equal(t, "d1", acts[0].DogID)
	assert.True(t, acts[0].Date.Equal(morning))
	assert.Equal(t, "other", acts[1].ID)

	ratings, err := repo.ListRatings(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, ratings)

	err = repo.ReplaceDay(ctx, "missing", day, next, nil, nil)
	assert.ErrorIs(t, err, journal.ErrNotFound)
}

func TestDeleteDog_Cascades(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := db.Journal()
	require.NoError(t, repo.CreateDog(ctx, testDog("d1", "Rex")))
	require.NoError(t, repo.ReplaceDay(ctx, "d1", day, day.AddDate(0, 0, 1),
		[]journal.Activity{{ID: "a1", Date: day, ActivityType: "Walk", Outcome: journal.OutcomeGood}},
		&journal.DailyRating{ID: "r1", Date: day, Rating: journal.OutcomeGood}))
	_, err := db.CreateSnapshot(ctx, "d1", "alltime", "test", map[string]float64{"confidence": 0.3})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteDog(ctx, "d1"))

	for _, table := range []string{"activities", "daily_ratings", "snapshots", "aggregate_metrics", "dogs"} {
		var n int
		require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		assert.Zero(t, n, table)
	}
}

func TestCustomActivities(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t).Journal()

	require.NoError(t, repo.AddCustomActivity(ctx, journal.CustomActivity{ID: "c1", Name: "Agility", CreatedAt: day}))
	require.NoError(t, repo.AddCustomActivity(ctx, journal.CustomActivity{ID: "c2", Name: "Nosework", CreatedAt: day.Add(time.Minute)}))

	got, err := repo.ListCustomActivities(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Agility", got[0].Name)
	assert.Equal(t, "Nosework", got[1].Name)
}

func TestServiceOverSQLite(t *testing.T) {
	ctx := context.Background()
	svc := journal.NewService(openTestDB(t).Journal())

	d, err := svc.CreateDog(ctx, journal.DogInput{Name: "Rex"})
	require.NoError(t, err)
	_, err = svc.SaveDay(ctx, d.ID, day.Add(10*time.Hour), journal.DayInput{
		Activities: []journal.ActivityInput{{ActivityType: "Walk", Outcome: "good"}},
		Rating:     "good",
	})
	require.NoError(t, err)

	j, err := svc.Journal(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, j.Activities, 1)
	assert.Len(t, j.Ratings, 1)
}
