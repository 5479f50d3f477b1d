package llm

import "time"

// Analysis is the structured behaviorist assessment returned by the remote
// model. JSON keys follow the schema the model is instructed to produce.
type Analysis struct {
	Summary                 string                   `json:"summary" yaml:"summary"`
	BreedAnalysis           BreedAnalysis            `json:"breedAnalysis" yaml:"breed_analysis"`
	AgeConsiderations       AgeConsiderations        `json:"ageConsiderations" yaml:"age_considerations"`
	BehaviorAssessment      BehaviorAssessment       `json:"behaviorAssessment" yaml:"behavior_assessment"`
	TrainingRecommendations []TrainingRecommendation `json:"trainingRecommendations" yaml:"training_recommendations"`
	KeyInsights             []string                 `json:"keyInsights" yaml:"key_insights"`
	HealthIndicators        HealthIndicators         `json:"healthIndicators" yaml:"health_indicators"`

	// GeneratedAt is stamped locally when the reply is parsed. It drives
	// cache expiry.
	GeneratedAt time.Time `json:"generatedAt" yaml:"generated_at"`
}

// BreedAnalysis describes breed traits and needs.
type BreedAnalysis struct {
	BreedTraits            []string `json:"breedTraits" yaml:"breed_traits"`
	ExerciseNeeds          string   `json:"exerciseNeeds" yaml:"exercise_needs"`
	MentalStimulationNeeds string   `json:"mentalStimulationNeeds" yaml:"mental_stimulation_needs"`
	CommonIssues           []string `json:"commonIssues" yaml:"common_issues"`
}

// AgeConsiderations describes what to expect at the dog's age.
type AgeConsiderations struct {
	DevelopmentalStage         string `json:"developmentalStage" yaml:"developmental_stage"`
	AgeAppropriateExpectations string `json:"ageAppropriateExpectations" yaml:"age_appropriate_expectations"`
	TrainingReadiness          string `json:"trainingReadiness" yaml:"training_readiness"`
}

// BehaviorAssessment scores overall behavior (0-100).
type BehaviorAssessment struct {
	Strengths     []string `json:"strengths" yaml:"strengths"`
	Concerns      []string `json:"concerns" yaml:"concerns"`
	OverallScore  int      `json:"overallScore" yaml:"overall_score"`
	ProgressTrend string   `json:"progressTrend" yaml:"progress_trend"`
}

// TrainingRecommendation is one technique with concrete steps.
type TrainingRecommendation struct {
	Issue     string   `json:"issue" yaml:"issue"`
	Technique string   `json:"technique" yaml:"technique"`
	Steps     []string `json:"steps" yaml:"steps"`
	Duration  string   `json:"duration" yaml:"duration"`
	Frequency string   `json:"frequency" yaml:"frequency"`
	Priority  string   `json:"priority" yaml:"priority"`
}

// HealthIndicators grade exercise, stimulation and routine
// (excellent|good|fair|poor).
type HealthIndicators struct {
	ExerciseLevel      string `json:"exerciseLevel" yaml:"exercise_level"`
	MentalStimulation  string `json:"mentalStimulation" yaml:"mental_stimulation"`
	RoutineConsistency string `json:"routineConsistency" yaml:"routine_consistency"`
}

// TrainingPlan is a seven-day schedule built from a prior analysis.
type TrainingPlan struct {
	WeekTitle       string          `json:"weekTitle" yaml:"week_title"`
	WeekGoal        string          `json:"weekGoal" yaml:"week_goal"`
	Days            []PlanDay       `json:"days" yaml:"days"`
	WeeklyTips      []string        `json:"weeklyTips" yaml:"weekly_tips"`
	Troubleshooting Troubleshooting `json:"troubleshooting" yaml:"troubleshooting"`
}

// PlanDay is one day of a TrainingPlan.
type PlanDay struct {
	DayName        string         `json:"dayName" yaml:"day_name"`
	Theme          string         `json:"theme" yaml:"theme"`
	Activities     []PlanActivity `json:"activities" yaml:"activities"`
	DailyGoal      string         `json:"dailyGoal" yaml:"daily_goal"`
	SuccessMetrics []string       `json:"successMetrics" yaml:"success_metrics"`
}

// PlanActivity is one scheduled block within a PlanDay.
type PlanActivity struct {
	Time         string `json:"time" yaml:"time"`
	Activity     string `json:"activity" yaml:"activity"`
	Duration     string `json:"duration" yaml:"duration"`
	Focus        string `json:"focus" yaml:"focus"`
	Instructions string `json:"instructions" yaml:"instructions"`
	TrainingGoal string `json:"trainingGoal" yaml:"training_goal"`
}

// Troubleshooting pairs common issues with solutions.
type Troubleshooting struct {
	CommonIssues []string `json:"commonIssues" yaml:"common_issues"`
	Solutions    []string `json:"solutions" yaml:"solutions"`
}
