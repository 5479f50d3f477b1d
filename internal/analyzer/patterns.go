package analyzer

import (
	"sort"
	"time"

	"github.com/doglog-app/doglog/internal/journal"
)

const week = 7 * 24 * time.Hour

// patternTrendThreshold is the relative change needed to call an activity
// improving or declining.
const patternTrendThreshold = 0.2

// recentNotesPerPattern caps how many notes are kept per activity type.
const recentNotesPerPattern = 3

// AnalyzePatterns groups activities by their exact type label and returns
// one pattern per type, most frequent first. Types with equal frequency keep
// the order in which they first appear in the input.
func AnalyzePatterns(activities []journal.Activity) []ActivityPattern {
	if len(activities) == 0 {
		return []ActivityPattern{}
	}

	groups := make(map[string][]journal.Activity)
	var order []string
	for _, a := range activities {
		if _, ok := groups[a.ActivityType]; !ok {
			order = append(order, a.ActivityType)
		}
		groups[a.ActivityType] = append(groups[a.ActivityType], a)
	}

	patterns := make([]ActivityPattern, 0, len(order))
	for _, activityType := range order {
		patterns = append(patterns, buildPattern(activityType, groups[activityType]))
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Frequency > patterns[j].Frequency
	})
	return patterns
}

func buildPattern(activityType string, group []journal.Activity) ActivityPattern {
	sorted := journal.SortActivities(group)

	scores := make([]float64, len(sorted))
	good := 0
	var notes []string
	for i, a := range sorted {
		scores[i] = a.Outcome.Score()
		if a.Outcome == journal.OutcomeGood {
			good++
		}
		if a.Notes != "" {
			notes = append(notes, a.Notes)
		}
	}

	return ActivityPattern{
		ActivityType:   activityType,
		Frequency:      weeklyFrequency(sorted),
		AverageOutcome: journal.LabelFor(mean(scores)),
		SuccessRate:    float64(good) / float64(len(sorted)),
		Trend:          patternTrend(scores),
		RecentNotes:    lastN(notes, recentNotesPerPattern),
	}
}

// weeklyFrequency is count / max(1, span in weeks), truncated. sorted must
// be in date order.
func weeklyFrequency(sorted []journal.Activity) int {
	span := sorted[len(sorted)-1].Date.Sub(sorted[0].Date)
	weeks := max(1.0, span.Hours()/week.Hours())
	return int(float64(len(sorted)) / weeks)
}

func patternTrend(scores []float64) PatternTrend {
	if len(scores) < 4 {
		return TrendInsufficientData
	}
	first, second := halves(scores)
	change := relativeChange(mean(first), mean(second))
	switch {
	case change > patternTrendThreshold:
		return TrendImproving
	case change < -patternTrendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}
