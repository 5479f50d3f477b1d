package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doglog-app/doglog/internal/insights"
	"github.com/doglog-app/doglog/internal/journal"
	"github.com/doglog-app/doglog/internal/llm"
	"github.com/doglog-app/doglog/internal/output"
)

var (
	analyzeRange   string
	analyzeMonth   string
	analyzeRefresh bool
	analyzeCached  bool
	analyzeYAML    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <dog>",
	Short: "Ask the remote model for a behaviorist analysis",
	Long: `Send a summary of the dog's journal and local insights to the configured
chat-completion API and show the behaviorist analysis it returns.

Analyses are cached for 24 hours per dog and range; logging anything for the
dog drops its cached analyses. Set the API key with DOGLOG_LLM_API_KEY,
OPENAI_API_KEY or llm.api_key in the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeRange, "range", "all", "Time range: all or month")
	analyzeCmd.Flags().StringVar(&analyzeMonth, "month", "", "Analyze a specific month (YYYY-MM); overrides --range")
	analyzeCmd.Flags().BoolVar(&analyzeRefresh, "refresh", false, "Drop the dog's cached analyses first")
	analyzeCmd.Flags().BoolVar(&analyzeCached, "cached", false, "Only show a cached analysis; never call the API")
	analyzeCmd.Flags().BoolVar(&analyzeYAML, "yaml", false, "Output as YAML")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	r, err := resolveTimeRange(analyzeRange, analyzeMonth)
	if err != nil {
		return err
	}

	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	d, err := e.svc.ResolveDog(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var a *llm.Analysis
	if analyzeCached {
		cached, ok, err := e.gateway.CachedAnalysis(cmd.Context(), d.ID, r)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no cached analysis for %s (%s); run 'doglog analyze %s' to request one", d.Name, r.DisplayName(), args[0])
		}
		a = cached
	} else {
		if err := checkCredential(cmd.ErrOrStderr(), e.cfg.LLM.APIKey); err != nil {
			return err
		}
		if analyzeRefresh {
			if err := e.gateway.InvalidateCache(cmd.Context(), d.ID); err != nil {
				return err
			}
		}
		if a, err = requestAnalysis(cmd.Context(), e, d, r, cmd.ErrOrStderr()); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	switch {
	case analyzeYAML:
		return writeYAML(w, a)
	case flagJSON:
		return writeJSON(w, a)
	}
	renderAnalysis(w, d, r, a)
	return nil
}

// checkCredential fails without an API key and warns when the key does not
// look like an OpenAI key.
func checkCredential(stderr io.Writer, key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: set DOGLOG_LLM_API_KEY or OPENAI_API_KEY", llm.ErrMissingCredential)
	}
	if !llm.LooksLikeAPIKey(key) {
		fmt.Fprintln(stderr, output.StyleWarning.Render(" warning: the API key does not look like an OpenAI key (sk-...); the request may be rejected"))
	}
	return nil
}

// requestAnalysis runs the local pipeline and asks the gateway for an
// analysis of it.
func requestAnalysis(ctx context.Context, e *env, d journal.Dog, r journal.TimeRange, stderr io.Writer) (*llm.Analysis, error) {
	j, err := e.svc.Journal(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	local := insights.Analyze(j, r)
	if !local.Sufficient() {
		fmt.Fprintln(stderr, output.StyleWarning.Render(" note: little data in this range; the analysis will be generic"))
	}
	a, err := e.gateway.RequestAnalysis(ctx, j, r, local)
	if err != nil {
		return nil, describeLLMError(err)
	}
	return a, nil
}

// describeLLMError adds a hint to the gateway errors a user can act on.
func describeLLMError(err error) error {
	var remote *llm.RemoteError
	switch {
	case errors.Is(err, llm.ErrInvalidCredential):
		return fmt.Errorf("%w: check llm.api_key", err)
	case errors.Is(err, llm.ErrRateLimited):
		return fmt.Errorf("%w: try again in a minute", err)
	case errors.As(err, &remote) && remote.StatusCode >= 500:
		return fmt.Errorf("%w: the API is having trouble, try again later", err)
	default:
		return err
	}
}

func renderAnalysis(w io.Writer, d journal.Dog, r journal.TimeRange, a *llm.Analysis) {
	fmt.Fprintln(w, output.Section(fmt.Sprintf("Behavior Analysis: %s (%s)", d.Name, r.DisplayName())))
	fmt.Fprintln(w)
	fmt.Fprintf(w, " %s\n\n", a.Summary)
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Overall score"), output.ScoreBar(float64(a.BehaviorAssessment.OverallScore), 20))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Progress"), orDash(a.BehaviorAssessment.ProgressTrend))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Generated"), a.GeneratedAt.Local().Format("2006-01-02 15:04"))

	bulletSection(w, "Strengths", a.BehaviorAssessment.Strengths)
	bulletSection(w, "Concerns", a.BehaviorAssessment.Concerns)

	fmt.Fprintln(w, output.Section("Breed"))
	bullets(w, a.BreedAnalysis.BreedTraits)
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Exercise needs"), a.BreedAnalysis.ExerciseNeeds)
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Mental stimulation"), a.BreedAnalysis.MentalStimulationNeeds)
	if len(a.BreedAnalysis.CommonIssues) > 0 {
		fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Common issues"), strings.Join(a.BreedAnalysis.CommonIssues, ", "))
	}

	fmt.Fprintln(w, output.Section("Age"))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Stage"), a.AgeConsiderations.DevelopmentalStage)
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Expectations"), a.AgeConsiderations.AgeAppropriateExpectations)
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Training readiness"), a.AgeConsiderations.TrainingReadiness)

	if len(a.TrainingRecommendations) > 0 {
		fmt.Fprintln(w, output.Section("Training"))
		for _, rec := range a.TrainingRecommendations {
			fmt.Fprintf(w, " %s %s: %s\n", priorityLabel(rec.Priority), output.StyleBold.Render(rec.Issue), rec.Technique)
			for i, step := range rec.Steps {
				fmt.Fprintf(w, "   %d. %s\n", i+1, step)
			}
			if when := joinNonEmpty(" · ", rec.Duration, rec.Frequency); when != "" {
				fmt.Fprintf(w, "   %s\n", output.StyleMuted.Render(when))
			}
		}
	}

	bulletSection(w, "Key Insights", a.KeyInsights)

	fmt.Fprintln(w, output.Section("Health"))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Exercise"), grade(a.HealthIndicators.ExerciseLevel))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Mental stimulation"), grade(a.HealthIndicators.MentalStimulation))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Routine"), grade(a.HealthIndicators.RoutineConsistency))
}

func bulletSection(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, output.Section(title))
	bullets(w, items)
}

func bullets(w io.Writer, items []string) {
	for _, it := range items {
		fmt.Fprintf(w, " • %s\n", it)
	}
}

// priorityLabel styles the free-text priority the model returns.
func priorityLabel(p string) string {
	label := "[" + strings.ToUpper(orDash(p)) + "]"
	switch strings.ToLower(p) {
	case "high":
		return output.StyleError.Render(label)
	case "medium":
		return output.StyleWarning.Render(label)
	default:
		return output.StyleMuted.Render(label)
	}
}

// grade colors an excellent/good/fair/poor health grade.
func grade(g string) string {
	switch strings.ToLower(g) {
	case "excellent", "good":
		return output.StyleSuccess.Render(g)
	case "fair":
		return output.StyleWarning.Render(g)
	case "poor":
		return output.StyleError.Render(g)
	default:
		return output.StyleMuted.Render(orDash(g))
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
