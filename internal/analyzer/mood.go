package analyzer

import "github.com/doglog-app/doglog/internal/journal"

// moodWindow is how many recent ratings feed the consistency figure.
const moodWindow = 7

// directionWindow is the size of each block compared by moodDirection.
const directionWindow = 3

// directionThreshold is the mean-score gap needed to call a direction.
const directionThreshold = 0.3

// AnalyzeMood derives the current mood, its short-term direction, its
// consistency and its overall improvement from daily ratings in any order.
// Empty input yields okay/stable with zero consistency and improvement.
func AnalyzeMood(ratings []journal.DailyRating) MoodTrend {
	if len(ratings) == 0 {
		return MoodTrend{
			Current:   journal.OutcomeOkay,
			Direction: DirectionStable,
		}
	}

	sorted := journal.SortRatings(ratings)
	scores := make([]float64, len(sorted))
	for i, r := range sorted {
		scores[i] = r.Rating.Score()
	}

	current := sorted[len(sorted)-1].Rating
	if current == "" {
		current = journal.OutcomeOkay
	}

	return MoodTrend{
		Current:     current,
		Direction:   moodDirection(scores),
		Consistency: consistency(lastN(scores, moodWindow)),
		Improvement: moodImprovement(scores),
	}
}

// moodDirection compares the mean of the last three scores with the mean of
// up to three scores right before them.
func moodDirection(scores []float64) TrendDirection {
	n := len(scores)
	if n < directionWindow {
		return DirectionStable
	}
	recent := scores[n-directionWindow:]
	older := scores[max(0, n-2*directionWindow) : n-directionWindow]
	if len(older) == 0 {
		return DirectionStable
	}

	diff := mean(recent) - mean(older)
	switch {
	case diff > directionThreshold:
		return DirectionUp
	case diff < -directionThreshold:
		return DirectionDown
	default:
		return DirectionStable
	}
}

// moodImprovement is the percent change between the older and newer half.
// Fewer than four scores give 0.
func moodImprovement(scores []float64) float64 {
	if len(scores) < 4 {
		return 0
	}
	first, second := halves(scores)
	return relativeChange(mean(first), mean(second)) * 100
}

// MoodConsistency exposes the consistency measure used for the mood trend
// and weekly stability.
func MoodConsistency(ratings []journal.DailyRating) float64 {
	scores := make([]float64, len(ratings))
	for i, r := range ratings {
		scores[i] = r.Rating.Score()
	}
	return consistency(scores)
}
