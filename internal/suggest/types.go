// Package suggest turns analyzer output into human-readable insights and
// prioritized recommendations through an ordered list of rules.
package suggest

import (
	"github.com/doglog-app/doglog/internal/analyzer"
	"github.com/doglog-app/doglog/internal/journal"
)

// InsightCategory groups insights for presentation.
type InsightCategory string

const (
	InsightBehavior InsightCategory = "behavior"
	InsightHealth   InsightCategory = "health"
	InsightActivity InsightCategory = "activity"
	InsightMood     InsightCategory = "mood"
	InsightRoutine  InsightCategory = "routine"
)

// Priority ranks recommendations.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities: high is 1, low is 3, unknown sorts last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// RecommendationCategory groups recommendations by the kind of change they
// ask for.
type RecommendationCategory string

const (
	CategoryExercise      RecommendationCategory = "exercise"
	CategoryTraining      RecommendationCategory = "training"
	CategoryHealth        RecommendationCategory = "health"
	CategoryRoutine       RecommendationCategory = "routine"
	CategorySocialization RecommendationCategory = "socialization"
)

// Insight is an observation about the dog's recent behavior.
type Insight struct {
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"description" yaml:"description"`
	Confidence  float64         `json:"confidence" yaml:"confidence"`
	Category    InsightCategory `json:"category" yaml:"category"`
}

// Recommendation is a suggested change to the dog's routine.
type Recommendation struct {
	Title       string                 `json:"title" yaml:"title"`
	Description string                 `json:"description" yaml:"description"`
	Priority    Priority               `json:"priority" yaml:"priority"`
	Category    RecommendationCategory `json:"category" yaml:"category"`
	Actionable  bool                   `json:"actionable" yaml:"actionable"`
}

// AnalysisContext carries the analyzer output the rules inspect. Ratings
// must already be filtered to the analysis range.
type AnalysisContext struct {
	DogName  string
	Mood     analyzer.MoodTrend
	Patterns []analyzer.ActivityPattern
	Ratings  []journal.DailyRating
}

// InsightRule examines the context and emits zero or more insights.
type InsightRule func(ctx *AnalysisContext) []Insight

// RecommendationRule examines the context and emits zero or more
// recommendations.
type RecommendationRule func(ctx *AnalysisContext) []Recommendation
