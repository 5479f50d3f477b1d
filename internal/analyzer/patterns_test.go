package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doglog-app/doglog/internal/journal"
)

// series builds one activity of the given type per day from base.
func series(activityType string, outcomes ...string) []journal.Activity {
	acts := make([]journal.Activity, len(outcomes))
	for i, o := range outcomes {
		acts[i] = act(activityType, o, base.AddDate(0, 0, i))
	}
	return acts
}

func TestAnalyzePatterns_Empty(t *testing.T) {
	got := AnalyzePatterns(nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAnalyzePatterns_WeekOfWalks(t *testing.T) {
	// Four good walks and one bad one over exactly seven days.
	var acts []journal.Activity
	outcomes := []string{"good", "good", "bad", "good", "good"}
	offsets := []int{0, 2, 4, 6, 7}
	for i, o := range outcomes {
		acts = append(acts, act("Walk", o, base.AddDate(0, 0, offsets[i])))
	}

	got := AnalyzePatterns(acts)
	require.Len(t, got, 1)
	p := got[0]
	assert.Equal(t, "Walk", p.ActivityType)
	assert.Equal(t, 5, p.Frequency)
	assert.InDelta(t, 0.8, p.SuccessRate, 1e-9)
	assert.Equal(t, journal.OutcomeGood, p.AverageOutcome, "mean 0.8")
	// The bad walk is the middle record and belongs to neither half.
	assert.Equal(t, TrendStable, p.Trend)
}

func TestAnalyzePatterns_MixedWalks(t *testing.T) {
	var acts []journal.Activity
	outcomes := []string{"good", "good", "good", "okay", "bad"}
	offsets := []int{0, 2, 4, 6, 7}
	for i, o := range outcomes {
		acts = append(acts, act("Walk", o, base.AddDate(0, 0, offsets[i])))
	}

	got := AnalyzePatterns(acts)
	require.Len(t, got, 1)
	p := got[0]
	assert.Equal(t, 5, p.Frequency)
	assert.InDelta(t, 0.6, p.SuccessRate, 1e-9)
	// mean = (1+1+1+0.5+0)/5 = 0.7
	assert.Equal(t, journal.OutcomeOkay, p.AverageOutcome)
	// halves [1,1] vs [0.5,0] => -75%
	assert.Equal(t, TrendDeclining, p.Trend)
	assert.Empty(t, p.BestTimeOfDay)
}

func TestAnalyzePatterns_SortedByFrequency(t *testing.T) {
	var acts []journal.Activity
	acts = append(acts, act("Bath", "good", base))
	acts = append(acts, series("Walk", "good", "good", "good")...)
	acts = append(acts, series("Training", "bad", "bad")...)

	got := AnalyzePatterns(acts)
	var names []string
	for _, p := range got {
		names = append(names, p.ActivityType)
	}
	assert.Equal(t, []string{"Walk", "Training", "Bath"}, names)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i].Frequency, got[i-1].Frequency)
	}
}

func TestAnalyzePatterns_TypeIsCaseSensitive(t *testing.T) {
	got := AnalyzePatterns([]journal.Activity{act("Walk", "good", base), act("walk", "good", base)})
	assert.Len(t, got, 2)
}

func TestAnalyzePatterns_Trend(t *testing.T) {
	tests := map[string]struct {
		outcomes []string
		want     PatternTrend
	}{
		"fewer than four":   {[]string{"good", "bad", "good"}, TrendInsufficientData},
		"improving from 0":  {[]string{"bad", "bad", "okay", "good"}, TrendImproving},
		"steady":            {[]string{"okay", "okay", "okay", "okay"}, TrendStable},
		"large improvement": {[]string{"good", "okay", "okay", "okay", "good", "good", "good", "good"}, TrendImproving},
		// 0.875 -> 1.0 is +14%
		"small rise is stable": {[]string{"okay", "good", "good", "good", "good", "good", "good", "good"}, TrendStable},
		// 0.625 -> 0.75 is exactly +20%
		"rise of a fifth is stable": {[]string{"good", "okay", "okay", "okay", "good", "good", "okay", "okay"}, TrendStable},
		// 0.625 -> 0.5 is exactly -20%
		"drop of a fifth is stable": {[]string{"good", "okay", "okay", "okay", "okay", "okay", "okay", "okay"}, TrendStable},
		// 0.625 -> 0.375 is -40%
		"large drop": {[]string{"good", "okay", "okay", "okay", "okay", "okay", "bad", "okay"}, TrendDeclining},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := AnalyzePatterns(series("Walk", tt.outcomes...))
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Trend)
		})
	}
}

func TestAnalyzePatterns_FrequencyOverLongSpan(t *testing.T) {
	var acts []journal.Activity
	for i := 0; i <= 4; i++ {
		acts = append(acts, act("Vet Visit", "okay", base.AddDate(0, 0, 7*i)))
	}
	// five events over 28 days = 5/4 weeks = 1.25 -> 1
	assert.Equal(t, 1, AnalyzePatterns(acts)[0].Frequency)
}

func TestAnalyzePatterns_SuccessRateBounds(t *testing.T) {
	got := AnalyzePatterns([]journal.Activity{
		act("A", "good", base), act("A", "good", base),
		act("B", "bad", base), act("B", "weird", base),
	})
	for _, p := range got {
		assert.GreaterOrEqual(t, p.SuccessRate, 0.0, p.ActivityType)
		assert.LessOrEqual(t, p.SuccessRate, 1.0, p.ActivityType)
	}
}

func TestAnalyzePatterns_RecentNotes(t *testing.T) {
	var acts []journal.Activity
	for i, n := range []string{"one", "", "two", "three", "four"} {
		a := act("Walk", "good", base.AddDate(0, 0, i))
		a.Notes = n
		acts = append(acts, a)
	}
	assert.Equal(t, []string{"two", "three", "four"}, AnalyzePatterns(acts)[0].RecentNotes)
}
