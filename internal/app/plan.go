package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doglog-app/doglog/internal/journal"
	"github.com/doglog-app/doglog/internal/llm"
	"github.com/doglog-app/doglog/internal/output"
)

var (
	planRange string
	planMonth string
	planYAML  bool
)

var planCmd = &cobra.Command{
	Use:   "plan <dog>",
	Short: "Ask the remote model for a seven-day training plan",
	Long: `Build a seven-day training plan from the dog's behaviorist analysis.
The cached analysis for the range is used when there is one; otherwise a new
analysis is requested first. Plans are not cached.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planRange, "range", "all", "Time range of the analysis: all or month")
	planCmd.Flags().StringVar(&planMonth, "month", "", "Use the analysis of a specific month (YYYY-MM); overrides --range")
	planCmd.Flags().BoolVar(&planYAML, "yaml", false, "Output as YAML")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	r, err := resolveTimeRange(planRange, planMonth)
	if err != nil {
		return err
	}

	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	if err := checkCredential(cmd.ErrOrStderr(), e.cfg.LLM.APIKey); err != nil {
		return err
	}

	d, err := e.svc.ResolveDog(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	prior, ok, err := e.gateway.CachedAnalysis(cmd.Context(), d.ID, r)
	if err != nil {
		return err
	}
	if !ok {
		e.logger.Debug("no cached analysis, requesting one", "dog_id", d.ID, "range", r.Tag())
		if prior, err = requestAnalysis(cmd.Context(), e, d, r, cmd.ErrOrStderr()); err != nil {
			return err
		}
	}

	plan, err := e.gateway.RequestTrainingPlan(cmd.Context(), d, prior)
	if err != nil {
		return describeLLMError(err)
	}

	w := cmd.OutOrStdout()
	switch {
	case planYAML:
		return writeYAML(w, plan)
	case flagJSON:
		return writeJSON(w, plan)
	}
	renderPlan(w, d, plan)
	return nil
}

func renderPlan(w io.Writer, d journal.Dog, p *llm.TrainingPlan) {
	fmt.Fprintln(w, output.Section(fmt.Sprintf("%s: %s", d.Name, p.WeekTitle)))
	fmt.Fprintln(w)
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Goal"), p.WeekGoal)

	for _, day := range p.Days {
		fmt.Fprintln(w, output.Section(fmt.Sprintf("%s · %s", day.DayName, day.Theme)))
		tbl := output.NewTable("Time", "Activity", "Duration", "Focus")
		for _, a := range day.Activities {
			tbl.AddRow(a.Time, a.Activity, a.Duration, a.Focus)
		}
		if tbl.Len() > 0 {
			tbl.Fprint(w)
		}
		for _, a := range day.Activities {
			if a.Instructions != "" {
				fmt.Fprintf(w, " %s %s\n", output.StyleBold.Render(a.Activity+":"), a.Instructions)
			}
		}
		if day.DailyGoal != "" {
			fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Daily goal"), day.DailyGoal)
		}
		for _, m := range day.SuccessMetrics {
			fmt.Fprintf(w, " %s %s\n", output.StyleSuccess.Render("✓"), m)
		}
	}

	bulletSection(w, "Weekly Tips", p.WeeklyTips)

	issues, fixes := p.Troubleshooting.CommonIssues, p.Troubleshooting.Solutions
	if len(issues) == 0 {
		return
	}
	fmt.Fprintln(w, output.Section("Troubleshooting"))
	for i, issue := range issues {
		fmt.Fprintf(w, " • %s\n", issue)
		if i < len(fixes) {
			fmt.Fprintf(w, "   %s %s\n", output.StyleMuted.Render("→"), fixes[i])
		}
	}
}
