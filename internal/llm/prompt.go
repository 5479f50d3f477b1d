package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/doglog-app/doglog/internal/analyzer"
	"github.com/doglog-app/doglog/internal/insights"
	"github.com/doglog-app/doglog/internal/journal"
)

// analysisSystemPrompt sets the behaviorist persona and pins the reply
// schema decoded into Analysis.
const analysisSystemPrompt = `You are Dr. Sarah Chen, a veterinary behaviorist with more than twenty-five years of clinical practice. You specialize in breed-specific behavior, age-appropriate training and behavior modification, and you favor practical, evidence-based methods built on positive reinforcement.

When you assess a dog:
- Weigh breed instincts and typical breed problems.
- Set expectations that fit the dog's developmental stage.
- Judge whether the logged activities meet the breed's exercise and enrichment needs.
- Give concrete techniques with step-by-step instructions.
- Treat the individual dog's history as more important than breed stereotypes.

Reply with a single JSON object in exactly this shape and nothing else:
{
  "summary": "Your professional assessment",
  "breedAnalysis": {
    "breedTraits": ["trait"],
    "exerciseNeeds": "Breed-specific exercise requirements",
    "mentalStimulationNeeds": "Breed-specific enrichment requirements",
    "commonIssues": ["issue"]
  },
  "ageConsiderations": {
    "developmentalStage": "puppy|adolescent|adult|senior",
    "ageAppropriateExpectations": "What is normal at this age",
    "trainingReadiness": "What training this dog is ready for"
  },
  "behaviorAssessment": {
    "strengths": ["strength"],
    "concerns": ["concern"],
    "overallScore": 85,
    "progressTrend": "improving|stable|declining"
  },
  "trainingRecommendations": [
    {
      "issue": "Behavior to work on",
      "technique": "Name of the technique",
      "steps": ["step"],
      "duration": "Expected timeline",
      "frequency": "How often to practice",
      "priority": "high|medium|low"
    }
  ],
  "keyInsights": ["insight"],
  "healthIndicators": {
    "exerciseLevel": "excellent|good|fair|poor",
    "mentalStimulation": "excellent|good|fair|poor",
    "routineConsistency": "excellent|good|fair|poor"
  }
}`

// planSystemPrompt asks for a seven-day schedule decoded into TrainingPlan.
const planSystemPrompt = `You are Dr. Sarah Chen, and you are turning your earlier assessment of this dog into a concrete seven-day training plan.

The plan must:
- Work through the training recommendations from your assessment.
- Fit the dog's breed, age and current behavior.
- Give every day timed activities that balance training, exercise and rest.
- Build in difficulty over the week.
- Offer a fallback for busy days.

Reply with a single JSON object in exactly this shape and nothing else:
{
  "weekTitle": "Training week for <dog name>",
  "weekGoal": "The main goal of the week",
  "days": [
    {
      "dayName": "Monday",
      "theme": "Theme of the day",
      "activities": [
        {
          "time": "7:00 AM",
          "activity": "Morning Walk",
          "duration": "20 minutes",
          "focus": "Physical exercise",
          "instructions": "Step-by-step instructions",
          "trainingGoal": "Skill or behavior being practiced"
        }
      ],
      "dailyGoal": "What to achieve today",
      "successMetrics": ["How to tell it worked", "What to do if it did not"]
    }
  ],
  "weeklyTips": ["tip"],
  "troubleshooting": {
    "commonIssues": ["issue"],
    "solutions": ["solution"]
  }
}`

const (
	notesPerActivity = 3
	ratingNotesShown = 5
)

// buildAnalysisPrompt renders the data summary sent with an analysis
// request: profile, activity patterns with recent notes, mood, owner notes,
// weekday trends and the local insights.
func buildAnalysisPrompt(j journal.Journal, r journal.TimeRange, local insights.DogInsights, now time.Time) string {
	var b strings.Builder

	name := orDefault(j.Dog.Name, "Dog")
	breed := orDefault(j.Dog.Breed, "Unknown breed")

	b.WriteString("## Dog Profile\n\n")
	fmt.Fprintf(&b, "- Name: %s\n", name)
	fmt.Fprintf(&b, "- Breed: %s (consider breed-specific traits and needs)\n", breed)
	fmt.Fprintf(&b, "- Age: %s (consider age-appropriate expectations)\n", describeAge(j.Dog.BirthDate, now))
	fmt.Fprintf(&b, "- Gender: %s\n", orDefault(j.Dog.Gender, "Unknown"))
	fmt.Fprintf(&b, "- Analysis period: %s\n\n", r.DisplayName())

	b.WriteString("## Activity Patterns\n\n")
	if len(local.Patterns) == 0 {
		b.WriteString("No activities logged.\n")
	}
	for _, p := range local.Patterns {
		fmt.Fprintf(&b, "- %s: %dx/week, %d%% success rate", p.ActivityType, p.Frequency, int(p.SuccessRate*100))
		if len(p.RecentNotes) > 0 {
			fmt.Fprintf(&b, " | Recent notes: %s", strings.Join(lastStrings(p.RecentNotes, notesPerActivity), "; "))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("## Mood and Behavior Trends\n\n")
	fmt.Fprintf(&b, "- Current mood: %s\n", local.Mood.Current)
	fmt.Fprintf(&b, "- Trend: %s\n", directionLabel(local.Mood.Direction))
	fmt.Fprintf(&b, "- Improvement: %d%%\n", int(local.Mood.Improvement))
	fmt.Fprintf(&b, "- Consistency: %d%%\n\n", int(local.Mood.Consistency*100))

	b.WriteString("## Recent Owner Observations\n\n")
	notes := ratingNotes(journal.Filter(j.Ratings, r))
	if len(notes) == 0 {
		b.WriteString("No recent notes recorded.\n")
	}
	for _, n := range notes {
		fmt.Fprintf(&b, "- %s\n", n)
	}
	b.WriteString("\n")

	b.WriteString("## Weekly Patterns\n\n")
	fmt.Fprintf(&b, "- Best days: %s\n", strings.Join(local.Weekly.BestDays, ", "))
	fmt.Fprintf(&b, "- Average activities per day: %.1f\n\n", local.Weekly.AvgActivitiesPerDay)

	b.WriteString("## Local Insights\n\n")
	for _, in := range local.Insights {
		fmt.Fprintf(&b, "- %s\n", in.Description)
	}
	fmt.Fprintf(&b, "\nData confidence: %d%%\n\n", int(local.Confidence*100))

	b.WriteString("## Request\n\n")
	fmt.Fprintf(&b, "Please give your professional assessment of %s, a %s. Cover:\n", name, breed)
	b.WriteString("1. Breed-specific behavior and training needs\n")
	b.WriteString("2. Age-appropriate expectations and developmental stage\n")
	b.WriteString("3. Techniques for any issues you identify\n")
	b.WriteString("4. Step-by-step training protocols\n")
	b.WriteString("5. Exercise and mental stimulation recommendations\n")

	return b.String()
}

// buildPlanPrompt summarizes a prior analysis for the training-plan request.
func buildPlanPrompt(d journal.Dog, a *Analysis) string {
	var b strings.Builder
	name := orDefault(d.Name, "Dog")
	breed := orDefault(d.Breed, "Unknown breed")

	fmt.Fprintf(&b, "Create a training week for %s, a %s.\n\n", name, breed)

	b.WriteString("## Training Priorities\n\n")
	if len(a.TrainingRecommendations) == 0 {
		b.WriteString("General training and enrichment.\n")
	}
	for _, rec := range a.TrainingRecommendations {
		fmt.Fprintf(&b, "- %s: use %s (%s)\n", rec.Issue, rec.Technique, strings.Join(rec.Steps, ", "))
	}
	b.WriteString("\n")

	b.WriteString("## Breed Considerations\n\n")
	fmt.Fprintf(&b, "- Exercise needs: %s\n", a.BreedAnalysis.ExerciseNeeds)
	fmt.Fprintf(&b, "- Mental stimulation: %s\n", a.BreedAnalysis.MentalStimulationNeeds)
	fmt.Fprintf(&b, "- Common breed issues: %s\n\n", strings.Join(a.BreedAnalysis.CommonIssues, ", "))

	b.WriteString("## Age Stage\n\n")
	fmt.Fprintf(&b, "- Stage: %s\n", a.AgeConsiderations.DevelopmentalStage)
	fmt.Fprintf(&b, "- Training readiness: %s\n\n", a.AgeConsiderations.TrainingReadiness)

	fmt.Fprintf(&b, "Current behavior score: %d/100, progress trend: %s.\n\n",
		a.BehaviorAssessment.OverallScore, a.BehaviorAssessment.ProgressTrend)
	b.WriteString("Keep the plan practical for a busy owner while still making steady training progress.\n")

	return b.String()
}

// describeAge renders the dog's age with a life-stage label.
func describeAge(birth *time.Time, now time.Time) string {
	if birth == nil || birth.After(now) {
		return "Age unknown"
	}
	months := (now.Year()-birth.Year())*12 + int(now.Month()-birth.Month())
	if now.Day() < birth.Day() {
		months--
	}
	years, rem := months/12, months%12
	switch {
	case years == 0:
		return fmt.Sprintf("%d months old (Puppy)", months)
	case years < 2:
		return fmt.Sprintf("%d year(s) %d month(s) old (Young Adult)", years, rem)
	case years < 7:
		return fmt.Sprintf("%d years old (Adult)", years)
	default:
		return fmt.Sprintf("%d years old (Senior)", years)
	}
}

func directionLabel(d analyzer.TrendDirection) string {
	switch d {
	case analyzer.DirectionUp:
		return "Improving"
	case analyzer.DirectionDown:
		return "Declining"
	default:
		return "Stable"
	}
}

// ratingNotes returns the non-empty notes of the latest ratings.
func ratingNotes(ratings []journal.DailyRating) []string {
	var notes []string
	for _, r := range journal.SortRatings(ratings) {
		if n := strings.TrimSpace(r.Notes); n != "" {
			notes = append(notes, n)
		}
	}
	return lastStrings(notes, ratingNotesShown)
}

func lastStrings(xs []string, n int) []string {
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
