package journal

import "sort"

// DedupeRatingsByDay keeps one rating per calendar day: the one with the
// latest timestamp, with later slice entries winning ties. Retained ratings
// keep their relative input order.
func DedupeRatingsByDay(ratings []DailyRating) []DailyRating {
	if len(ratings) < 2 {
		return ratings
	}

	winner := make(map[string]int, len(ratings))
	for i, r := range ratings {
		key := DayKey(r.Date)
		cur, ok := winner[key]
		if !ok || !r.Date.Before(ratings[cur].Date) {
			winner[key] = i
		}
	}

	keep := make([]int, 0, len(winner))
	for _, i := range winner {
		keep = append(keep, i)
	}
	sort.Ints(keep)

	out := make([]DailyRating, 0, len(keep))
	for _, i := range keep {
		out = append(out, ratings[i])
	}
	return out
}

// SortRatings returns a copy of ratings ordered by date ascending. The sort
// is stable so same-timestamp entries keep their input order.
func SortRatings(ratings []DailyRating) []DailyRating {
	sorted := make([]DailyRating, len(ratings))
	copy(sorted, ratings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// SortActivities returns a copy of activities ordered by date ascending.
func SortActivities(activities []Activity) []Activity {
	sorted := make([]Activity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}
