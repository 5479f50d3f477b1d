package suggest

import "sort"

// RankRecommendations returns a copy ordered by priority, high first. The
// sort is stable, so rule emission order survives within a priority.
func RankRecommendations(recs []Recommendation) []Recommendation {
	sorted := make([]Recommendation, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority.Rank() < sorted[j].Priority.Rank()
	})
	return sorted
}
