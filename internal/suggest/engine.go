package suggest

// Engine runs the registered rules in order. Rules are independent; none
// suppresses another.
type Engine struct {
	insightRules        []InsightRule
	recommendationRules []RecommendationRule
}

// NewEngine creates an engine with the built-in rules registered in their
// documented emission order.
func NewEngine() *Engine {
	return &Engine{
		insightRules: []InsightRule{
			FavoriteActivity,
			GreatWeek,
			HighSuccessActivity,
		},
		recommendationRules: []RecommendationRule{
			BoostMood,
			ImproveWeakestActivity,
			IncreaseExercise,
		},
	}
}

// Insights returns every insight in rule order.
func (e *Engine) Insights(ctx *AnalysisContext) []Insight {
	all := []Insight{}
	for _, rule := range e.insightRules {
		all = append(all, rule(ctx)...)
	}
	return all
}

// Recommendations returns every recommendation in rule order.
func (e *Engine) Recommendations(ctx *AnalysisContext) []Recommendation {
	all := []Recommendation{}
	for _, rule := range e.recommendationRules {
		all = append(all, rule(ctx)...)
	}
	return all
}
