package suggest

import (
	"fmt"
	"math"
	"strings"

	"github.com/doglog-app/doglog/internal/analyzer"
	"github.com/doglog-app/doglog/internal/journal"
)

const (
	greatWeekWindow    = 7
	greatWeekGoodDays  = 5
	highSuccessRate    = 0.8
	lowSuccessRate     = 0.5
	minExercisePerWeek = 3
)

// exerciseKeywords mark an activity label as exercise, case-insensitively.
var exerciseKeywords = []string{"walk", "exercise", "play"}

// FavoriteActivity names the most frequent activity and its success rate.
func FavoriteActivity(ctx *AnalysisContext) []Insight {
	if len(ctx.Patterns) == 0 {
		return nil
	}
	top := ctx.Patterns[0]
	return []Insight{{
		Title: "Favorite Activity",
		Description: fmt.Sprintf("%s is %s most frequent activity with a %d%% success rate.",
			top.ActivityType, possessive(ctx.DogName), percent(top.SuccessRate)),
		Confidence: 0.8,
		Category:   InsightActivity,
	}}
}

// GreatWeek fires when at least five of the seven latest-dated ratings are
// good.
func GreatWeek(ctx *AnalysisContext) []Insight {
	recent := journal.SortRatings(ctx.Ratings)
	if len(recent) > greatWeekWindow {
		recent = recent[len(recent)-greatWeekWindow:]
	}
	good := 0
	for _, r := range recent {
		if r.Rating == journal.OutcomeGood {
			good++
		}
	}
	if good < greatWeekGoodDays {
		return nil
	}
	return []Insight{{
		Title:       "Great Week!",
		Description: fmt.Sprintf("%s had %d good days this week. Keep up the great routine!", subjectName(ctx.DogName), good),
		Confidence:  0.9,
		Category:    InsightMood,
	}}
}

// HighSuccessActivity highlights the first pattern whose success rate is
// above 80%.
func HighSuccessActivity(ctx *AnalysisContext) []Insight {
	for _, p := range ctx.Patterns {
		if p.SuccessRate > highSuccessRate {
			return []Insight{{
				Title:       "High Success Activity",
				Description: fmt.Sprintf("%s consistently goes well - consider doing it more often!", p.ActivityType),
				Confidence:  0.85,
				Category:    InsightBehavior,
			}}
		}
	}
	return nil
}

// BoostMood asks for more of the activities that go well when the mood is
// trending down.
func BoostMood(ctx *AnalysisContext) []Recommendation {
	if ctx.Mood.Direction != analyzer.DirectionDown {
		return nil
	}
	return []Recommendation{{
		Title:       "Boost Mood Activities",
		Description: "Try increasing activities that usually go well to improve overall mood.",
		Priority:    PriorityHigh,
		Category:    CategoryRoutine,
		Actionable:  true,
	}}
}

// ImproveWeakestActivity targets the first pattern with a success rate
// below 50%.
func ImproveWeakestActivity(ctx *AnalysisContext) []Recommendation {
	for _, p := range ctx.Patterns {
		if p.SuccessRate < lowSuccessRate {
			return []Recommendation{{
				Title:       fmt.Sprintf("Improve %s", p.ActivityType),
				Description: fmt.Sprintf("Consider breaking down %s into smaller steps or trying different approaches.", p.ActivityType),
				Priority:    PriorityMedium,
				Category:    CategoryTraining,
				Actionable:  true,
			}}
		}
	}
	return nil
}

// IncreaseExercise fires when no exercise-like activity reaches three
// sessions a week.
func IncreaseExercise(ctx *AnalysisContext) []Recommendation {
	for _, p := range ctx.Patterns {
		if isExercise(p.ActivityType) && p.Frequency >= minExercisePerWeek {
			return nil
		}
	}
	return []Recommendation{{
		Title:       "Increase Exercise",
		Description: "Regular exercise can improve mood and behavior. Aim for daily walks or play sessions.",
		Priority:    PriorityHigh,
		Category:    CategoryExercise,
		Actionable:  true,
	}}
}

func isExercise(activityType string) bool {
	lower := strings.ToLower(activityType)
	for _, kw := range exerciseKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func percent(rate float64) int {
	return int(math.Round(rate * 100))
}

func possessive(name string) string {
	if name == "" {
		return "your dog's"
	}
	if strings.HasSuffix(name, "s") {
		return name + "'"
	}
	return name + "'s"
}

func subjectName(name string) string {
	if name == "" {
		return "Your dog"
	}
	return name
}
