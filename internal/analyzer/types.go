// Package analyzer computes mood, activity and weekday statistics from a
// dog's journal. Every function is pure: the same records always yield the
// same result and nothing is retained between calls.
package analyzer

import "github.com/doglog-app/doglog/internal/journal"

// TrendDirection is the short-term direction of the daily mood.
type TrendDirection string

const (
	DirectionUp     TrendDirection = "up"
	DirectionDown   TrendDirection = "down"
	DirectionStable TrendDirection = "stable"
)

// PatternTrend is the long-term direction of one activity's outcomes.
type PatternTrend string

const (
	TrendImproving        PatternTrend = "improving"
	TrendDeclining        PatternTrend = "declining"
	TrendStable           PatternTrend = "stable"
	TrendInsufficientData PatternTrend = "insufficient_data"
)

// MoodTrend summarizes the daily ratings.
type MoodTrend struct {
	// Current is the rating of the latest-dated record.
	Current journal.Outcome `json:"current_mood" yaml:"current_mood"`

	// Direction compares the three latest ratings with the three before.
	Direction TrendDirection `json:"trend_direction" yaml:"trend_direction"`

	// Consistency is 1 minus the score variance of the last seven
	// ratings, in [0,1].
	Consistency float64 `json:"mood_consistency" yaml:"mood_consistency"`

	// Improvement is the percent change between the mean score of the
	// older and the newer half of the ratings.
	Improvement float64 `json:"improvement_percentage" yaml:"improvement_percentage"`
}

// ActivityPattern summarizes every logged occurrence of one activity type.
type ActivityPattern struct {
	ActivityType   string          `json:"activity_type" yaml:"activity_type"`
	Frequency      int             `json:"frequency" yaml:"frequency"` // per week over the observed span
	AverageOutcome journal.Outcome `json:"average_outcome" yaml:"average_outcome"`
	SuccessRate    float64         `json:"success_rate" yaml:"success_rate"`
	BestTimeOfDay  string          `json:"best_time_of_day,omitempty" yaml:"best_time_of_day,omitempty"`
	Trend          PatternTrend    `json:"trend" yaml:"trend"`
	RecentNotes    []string        `json:"recent_notes,omitempty" yaml:"recent_notes,omitempty"`
}

// WeeklyTrend groups ratings by weekday.
type WeeklyTrend struct {
	BestDays            []string `json:"best_days" yaml:"best_days"`
	WorstDays           []string `json:"worst_days" yaml:"worst_days"`
	AvgActivitiesPerDay float64  `json:"average_activities_per_day" yaml:"average_activities_per_day"`
	MoodStability       float64  `json:"mood_stability" yaml:"mood_stability"`
}
