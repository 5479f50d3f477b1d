package analyzer

import (
	"time"

	"github.com/doglog-app/doglog/internal/journal"
)

var base = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC) // a Monday

// ratingsFrom builds one rating per consecutive day starting at base.
func ratingsFrom(labels ...string) []journal.DailyRating {
	out := make([]journal.DailyRating, len(labels))
	for i, l := range labels {
		out[i] = journal.DailyRating{
			ID:     string(rune('a' + i)),
			Date:   base.AddDate(0, 0, i),
			Rating: journal.Outcome(l),
		}
	}
	return out
}

func act(activityType string, outcome string, at time.Time) journal.Activity {
	return journal.Activity{ActivityType: activityType, Outcome: journal.Outcome(outcome), Date: at}
}
