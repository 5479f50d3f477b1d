package app

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doglog-app/doglog/internal/insights"
	"github.com/doglog-app/doglog/internal/journal"
	"github.com/doglog-app/doglog/internal/llm"
	"github.com/doglog-app/doglog/internal/store"
	"github.com/doglog-app/doglog/internal/suggest"
)

var testNow = time.Date(2024, time.March, 20, 18, 0, 0, 0, time.UTC)

func fixClock(t *testing.T) {
	t.Helper()
	prev := nowFunc
	nowFunc = func() time.Time { return testNow }
	t.Cleanup(func() { nowFunc = prev })
}

func TestParseDayFlag(t *testing.T) {
	fixClock(t)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"", testNow},
		{"today", testNow},
		{"2024-03-20", testNow},
		{"yesterday", time.Date(2024, 3, 19, 12, 0, 0, 0, time.UTC)},
		{"2024-02-29", time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseDayFlag(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "%q: got %v want %v", tt.in, got, tt.want)
	}

	_, err := parseDayFlag("20-03-2024")
	assert.ErrorContains(t, err, "invalid date")
}

func TestParseActivityFlags(t *testing.T) {
	got, err := parseActivityFlags([]string{"Walk=Good", "Bath = bad: hated it ", "Fetch=okay"})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, journal.ActivityInput{ActivityType: "Walk", Outcome: "good"}, got[0])
	assert.Equal(t, "Bath", got[1].ActivityType)
	assert.Equal(t, "bad", got[1].Outcome)
	assert.Equal(t, "hated it", got[1].Notes)
	assert.Equal(t, "okay", got[2].Outcome)

	for _, bad := range []string{"Walk", "=good", "Walk=great"} {
		_, err := parseActivityFlags([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestMergeDay_KeepsExistingRecords(t *testing.T) {
	at := time.Date(2024, 3, 19, 8, 30, 0, 0, time.UTC)
	current := journal.Day{
		Date: "2024-03-19",
		Activities: []journal.Activity{
			{ActivityType: "Walk", Outcome: journal.OutcomeGood, Date: at, Notes: "park"},
		},
		Rating: &journal.DailyRating{Rating: journal.OutcomeOkay, Notes: "tired"},
	}

	merged := mergeDay(current, journal.DayInput{
		Activities: []journal.ActivityInput{{ActivityType: "Fetch", Outcome: "good"}},
	})

	require.Len(t, merged.Activities, 2)
	assert.Equal(t, "Walk", merged.Activities[0].ActivityType)
	require.NotNil(t, merged.Activities[0].Time)
	assert.True(t, at.Equal(*merged.Activities[0].Time))
	assert.Equal(t, "Fetch", merged.Activities[1].ActivityType)
	assert.Equal(t, "okay", merged.Rating)
	assert.Equal(t, "tired", merged.RatingNotes)
}

func TestMergeDay_NewRatingWins(t *testing.T) {
	current := journal.Day{Rating: &journal.DailyRating{Rating: journal.OutcomeBad, Notes: "old"}}

	merged := mergeDay(current, journal.DayInput{Rating: "good", RatingNotes: "better"})

	assert.Equal(t, "good", merged.Rating)
	assert.Equal(t, "better", merged.RatingNotes)
	assert.Empty(t, merged.Activities)
}

func TestAgeString(t *testing.T) {
	now := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	date := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}

	assert.Equal(t, "-", ageString(nil, now))
	assert.Equal(t, "5m", ageString(date(2023, 10, 1), now))
	assert.Equal(t, "4m", ageString(date(2023, 10, 25), now))
	assert.Equal(t, "2y", ageString(date(2022, 3, 20), now))
	assert.Equal(t, "3y 2m", ageString(date(2021, 1, 5), now))
	assert.Equal(t, "-", ageString(date(2025, 1, 1), now))
}

func TestResolveTimeRange(t *testing.T) {
	fixClock(t)

	r, err := resolveTimeRange("all", "")
	require.NoError(t, err)
	assert.True(t, r.IsAllTime())

	r, err = resolveTimeRange("all", "2024-01")
	require.NoError(t, err)
	assert.False(t, r.IsAllTime())
	assert.Equal(t, journal.ThisMonth(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)).Tag(), r.Tag())

	_, err = resolveTimeRange("fortnight", "")
	assert.Error(t, err)
}

func TestComputeDeltas(t *testing.T) {
	prev := []store.AggregateMetric{
		{MetricName: "confidence", MetricValue: 0.5},
		{MetricName: "recommendation_count", MetricValue: 3},
		{MetricName: "rating_count", MetricValue: 6},
	}
	curr := []store.AggregateMetric{
		{MetricName: "confidence", MetricValue: 0.7},
		{MetricName: "recommendation_count", MetricValue: 4},
		{MetricName: "rating_count", MetricValue: 6},
		{MetricName: "pattern_count", MetricValue: 2},
	}

	deltas := computeDeltas(prev, curr)
	byName := make(map[string]store.MetricDelta)
	for _, d := range deltas {
		byName[d.Name] = d
	}

	require.Len(t, deltas, 4)
	assert.Equal(t, "improved", byName["confidence"].Direction)
	assert.InDelta(t, 0.2, byName["confidence"].Delta, 1e-9)
	assert.Equal(t, "regressed", byName["recommendation_count"].Direction)
	assert.Equal(t, "unchanged", byName["rating_count"].Direction)
	assert.Equal(t, 0.0, byName["pattern_count"].Previous)
	assert.Equal(t, "improved", byName["pattern_count"].Direction)
}

func TestBuildAggregateMetrics_CoversDisplayOrder(t *testing.T) {
	m := buildAggregateMetrics(insights.Insufficient())
	for _, name := range metricDisplayOrder {
		_, ok := m[name]
		assert.True(t, ok, "missing metric %s", name)
	}
	assert.Len(t, m, len(metricDisplayOrder))
	assert.Equal(t, 0.5, m["current_mood_score"])
}

func TestRankAcrossDogs(t *testing.T) {
	reports := []dogReport{
		{
			Dog: journal.Dog{Name: "Rex"},
			Insights: insights.DogInsights{Recommendations: []suggest.Recommendation{
				{Title: "rex-low", Priority: suggest.PriorityLow},
				{Title: "rex-high", Priority: suggest.PriorityHigh},
			}},
		},
		{
			Dog: journal.Dog{Name: "Luna"},
			Insights: insights.DogInsights{Recommendations: []suggest.Recommendation{
				{Title: "luna-medium", Priority: suggest.PriorityMedium},
				{Title: "luna-high", Priority: suggest.PriorityHigh},
			}},
		},
	}

	ranked := rankAcrossDogs(reports, 0)
	var titles []string
	for _, r := range ranked {
		titles = append(titles, r.Title)
	}
	assert.Equal(t, []string{"rex-high", "luna-high", "luna-medium", "rex-low"}, titles)
	assert.Equal(t, "Luna", ranked[1].DogName)

	assert.Len(t, rankAcrossDogs(reports, 2), 2)
	assert.Empty(t, rankAcrossDogs(nil, 5))
}

func TestCheckCredential(t *testing.T) {
	var stderr bytes.Buffer

	err := checkCredential(&stderr, "  ")
	assert.ErrorIs(t, err, llm.ErrMissingCredential)

	require.NoError(t, checkCredential(&stderr, "sk-abcdefghijklmnopqrstuvwxyz0123456789"))
	assert.Empty(t, stderr.String())

	require.NoError(t, checkCredential(&stderr, "not-a-key"))
	assert.Contains(t, stderr.String(), "does not look like")
}

func TestDescribeLLMError(t *testing.T) {
	err := describeLLMError(llm.ErrRateLimited)
	assert.ErrorIs(t, err, llm.ErrRateLimited)
	assert.Contains(t, err.Error(), "try again")

	remote := &llm.RemoteError{StatusCode: 503}
	err = describeLLMError(remote)
	var re *llm.RemoteError
	assert.True(t, errors.As(err, &re))

	plain := errors.New("boom")
	assert.Equal(t, plain, describeLLMError(plain))
}

func TestJoinNonEmpty(t *testing.T) {
	assert.Equal(t, "10 min · daily", joinNonEmpty(" · ", "10 min", " ", "daily"))
	assert.Equal(t, "", joinNonEmpty(", "))
}
