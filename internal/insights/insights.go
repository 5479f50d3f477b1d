// Package insights is the entry point of the local analysis pipeline: it
// filters a dog's journal to a time range and assembles every analyzer and
// rule output into one DogInsights value.
package insights

import (
	"github.com/doglog-app/doglog/internal/analyzer"
	"github.com/doglog-app/doglog/internal/journal"
	"github.com/doglog-app/doglog/internal/suggest"
)

// Minimum record counts below which analysis returns the fixed
// insufficient-data bundle. Either threshold being met is enough.
const (
	MinActivities = 5
	MinRatings    = 3
)

// insufficientConfidence is reported alongside the insufficient-data bundle.
const insufficientConfidence = 0.1

// DogInsights is the derived view of one dog over one time range. It is
// recomputed on demand and never persisted.
type DogInsights struct {
	TimeRange       string                     `json:"time_range" yaml:"time_range"`
	Mood            analyzer.MoodTrend         `json:"mood_trend" yaml:"mood_trend"`
	Patterns        []analyzer.ActivityPattern `json:"activity_patterns" yaml:"activity_patterns"`
	Weekly          analyzer.WeeklyTrend       `json:"weekly_trends" yaml:"weekly_trends"`
	Insights        []suggest.Insight          `json:"behavior_insights" yaml:"behavior_insights"`
	Recommendations []suggest.Recommendation   `json:"recommendations" yaml:"recommendations"`
	Confidence      float64                    `json:"confidence" yaml:"confidence"`

	// ActivityCount and RatingCount are the record counts the analysis saw
	// after filtering and per-day deduplication.
	ActivityCount int `json:"activity_count" yaml:"activity_count"`
	RatingCount   int `json:"rating_count" yaml:"rating_count"`
}

// Sufficient reports whether the bundle came from a real analysis rather
// than the insufficient-data short-circuit.
func (d DogInsights) Sufficient() bool {
	return d.ActivityCount >= MinActivities || d.RatingCount >= MinRatings
}

var engine = suggest.NewEngine()

// Analyze runs the local pipeline over j restricted to r. It never fails:
// sparse journals yield the insufficient-data bundle.
func Analyze(j journal.Journal, r journal.TimeRange) DogInsights {
	activities := journal.Filter(j.Activities, r)
	ratings := journal.DedupeRatingsByDay(journal.Filter(j.Ratings, r))

	if len(activities) < MinActivities && len(ratings) < MinRatings {
		out := Insufficient()
		out.TimeRange = r.Tag()
		out.ActivityCount = len(activities)
		out.RatingCount = len(ratings)
		return out
	}

	mood := analyzer.AnalyzeMood(ratings)
	patterns := analyzer.AnalyzePatterns(activities)
	ctx := &suggest.AnalysisContext{
		DogName:  j.Dog.Name,
		Mood:     mood,
		Patterns: patterns,
		Ratings:  ratings,
	}

	return DogInsights{
		TimeRange:       r.Tag(),
		Mood:            mood,
		Patterns:        patterns,
		Weekly:          analyzer.AnalyzeWeekly(activities, ratings),
		Insights:        engine.Insights(ctx),
		Recommendations: engine.Recommendations(ctx),
		Confidence:      analyzer.Confidence(len(activities) + len(ratings)),
		ActivityCount:   len(activities),
		RatingCount:     len(ratings),
	}
}

// Insufficient returns the fixed bundle used when there is too little data
// to analyze.
func Insufficient() DogInsights {
	return DogInsights{
		Mood: analyzer.MoodTrend{
			Current:     journal.OutcomeOkay,
			Direction:   analyzer.DirectionStable,
			Consistency: 0.5,
		},
		Patterns: []analyzer.ActivityPattern{},
		Weekly: analyzer.WeeklyTrend{
			BestDays:  []string{},
			WorstDays: []string{},
		},
		Insights: []suggest.Insight{{
			Title:       "Building Your Profile",
			Description: "Keep logging activities and daily ratings to unlock personalized insights about your dog's behavior and mood.",
			Confidence:  1.0,
			Category:    suggest.InsightRoutine,
		}},
		Recommendations: []suggest.Recommendation{{
			Title:       "Start Logging Activities",
			Description: "Log at least 5 activities or 3 daily ratings to receive personalized insights and recommendations.",
			Priority:    suggest.PriorityHigh,
			Category:    suggest.CategoryRoutine,
			Actionable:  true,
		}},
		Confidence: insufficientConfidence,
	}
}
