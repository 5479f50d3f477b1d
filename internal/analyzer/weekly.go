package analyzer

import (
	"sort"
	"time"

	"github.com/doglog-app/doglog/internal/journal"
)

// weekdayPicks is how many best and worst weekdays are reported.
const weekdayPicks = 2

// AnalyzeWeekly ranks weekdays by mean rating score and measures how many
// activities are logged per active day. Weekday names are English
// (time.Weekday.String) in each record's own location.
func AnalyzeWeekly(activities []journal.Activity, ratings []journal.DailyRating) WeeklyTrend {
	ranked := rankWeekdays(ratings)

	names := make([]string, len(ranked))
	for i, d := range ranked {
		names[i] = d.String()
	}

	return WeeklyTrend{
		BestDays:            names[:min(weekdayPicks, len(names))],
		WorstDays:           lastN(names, weekdayPicks),
		AvgActivitiesPerDay: activitiesPerActiveDay(activities),
		MoodStability:       MoodConsistency(ratings),
	}
}

// rankWeekdays orders the weekdays present in ratings by mean score
// descending. Ties keep calendar order starting on Sunday.
func rankWeekdays(ratings []journal.DailyRating) []time.Weekday {
	var sums, counts [7]float64
	for _, r := range ratings {
		d := r.Date.Weekday()
		sums[d] += r.Rating.Score()
		counts[d]++
	}

	var days []time.Weekday
	var means [7]float64
	for d := time.Sunday; d <= time.Saturday; d++ {
		if counts[d] == 0 {
			continue
		}
		means[d] = sums[d] / counts[d]
		days = append(days, d)
	}

	sort.SliceStable(days, func(i, j int) bool {
		return means[days[i]] > means[days[j]]
	})
	return days
}

// activitiesPerActiveDay divides the activity count by the number of
// distinct calendar days that have at least one activity.
func activitiesPerActiveDay(activities []journal.Activity) float64 {
	if len(activities) == 0 {
		return 0
	}
	days := make(map[string]struct{})
	for _, a := range activities {
		days[journal.DayKey(a.Date)] = struct{}{}
	}
	return float64(len(activities)) / float64(len(days))
}
