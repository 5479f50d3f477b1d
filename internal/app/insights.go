package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doglog-app/doglog/internal/analyzer"
	"github.com/doglog-app/doglog/internal/insights"
	"github.com/doglog-app/doglog/internal/journal"
	"github.com/doglog-app/doglog/internal/output"
	"github.com/doglog-app/doglog/internal/suggest"
)

var (
	insightsRange string
	insightsMonth string
	insightsYAML  bool
)

var insightsCmd = &cobra.Command{
	Use:   "insights <dog>",
	Short: "Show local insights for a dog",
	Long: `Analyze a dog's journal locally: mood trend, activity patterns, weekday
trends, behavior insights and recommendations. Nothing leaves your machine.

At least 5 activities or 3 rated days in the range are needed for a full
analysis.`,
	Args: cobra.ExactArgs(1),
	RunE: runInsights,
}

func init() {
	insightsCmd.Flags().StringVar(&insightsRange, "range", "all", "Time range: all or month")
	insightsCmd.Flags().StringVar(&insightsMonth, "month", "", "Analyze a specific month (YYYY-MM); overrides --range")
	insightsCmd.Flags().BoolVar(&insightsYAML, "yaml", false, "Output as YAML")
	rootCmd.AddCommand(insightsCmd)
}

// insightsOutput is the JSON/YAML shape of the insights command.
type insightsOutput struct {
	Dog       journal.Dog          `json:"dog" yaml:"dog"`
	RangeName string               `json:"range_name" yaml:"range_name"`
	Insights  insights.DogInsights `json:"insights" yaml:"insights"`
}

func runInsights(cmd *cobra.Command, args []string) error {
	r, err := resolveTimeRange(insightsRange, insightsMonth)
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
	j, err := e.svc.Journal(cmd.Context(), d.ID)
	if err != nil {
		return err
	}
	di := insights.Analyze(j, r)

	w := cmd.OutOrStdout()
	out := insightsOutput{Dog: d, RangeName: r.DisplayName(), Insights: di}
	switch {
	case insightsYAML:
		return writeYAML(w, out)
	case flagJSON:
		return writeJSON(w, out)
	}
	renderInsights(w, d, r, di)
	return nil
}

func renderInsights(w io.Writer, d journal.Dog, r journal.TimeRange, di insights.DogInsights) {
	title := fmt.Sprintf("%s: %s", d.Name, r.DisplayName())
	if !r.IsAllTime() {
		title += " (" + r.Tag() + ")"
	}
	fmt.Fprintln(w, output.Section(title))
	fmt.Fprintln(w)
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Confidence"), output.RatioBar(di.Confidence, 20))
	fmt.Fprintf(w, " %s %d activities, %d rated days\n", output.StyleLabel.Render("Data"), di.ActivityCount, di.RatingCount)

	if di.Sufficient() {
		renderMood(w, di.Mood)
		renderPatterns(w, di.Patterns)
		renderWeekly(w, di.Weekly)
	}
	renderInsightList(w, di.Insights)
	renderRecommendations(w, di.Recommendations)
}

func renderMood(w io.Writer, m analyzer.MoodTrend) {
	fmt.Fprintln(w, output.Section("Mood"))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Current mood"), output.Outcome(string(m.Current)))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Short-term trend"), directionLabel(m.Direction))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Consistency"), output.RatioBar(m.Consistency, 20))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Improvement"), output.TrendArrowPercent(m.Improvement, true))
}

func directionLabel(d analyzer.TrendDirection) string {
	switch d {
	case analyzer.DirectionUp:
		return output.StyleSuccess.Render("▲ up")
	case analyzer.DirectionDown:
		return output.StyleError.Render("▼ down")
	default:
		return output.StyleMuted.Render("─ stable")
	}
}

func renderPatterns(w io.Writer, patterns []analyzer.ActivityPattern) {
	if len(patterns) == 0 {
		return
	}
	fmt.Fprintln(w, output.Section("Activities"))
	tbl := output.NewTable("Activity", "Per Week", "Usually", "Success", "Trend")
	for _, p := range patterns {
		tbl.AddRow(
			p.ActivityType,
			fmt.Sprintf("%d", p.Frequency),
			output.Outcome(string(p.AverageOutcome)),
			output.Percent(p.SuccessRate),
			strings.ReplaceAll(string(p.Trend), "_", " "),
		)
	}
	tbl.Fprint(w)
}

func renderWeekly(w io.Writer, wt analyzer.WeeklyTrend) {
	fmt.Fprintln(w, output.Section("Week"))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Best days"), orDash(strings.Join(wt.BestDays, ", ")))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Hardest days"), orDash(strings.Join(wt.WorstDays, ", ")))
	fmt.Fprintf(w, " %s %.1f\n", output.StyleLabel.Render("Activities per day"), wt.AvgActivitiesPerDay)
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Mood stability"), output.RatioBar(wt.MoodStability, 20))
}

func renderInsightList(w io.Writer, list []suggest.Insight) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintln(w, output.Section("Insights"))
	for _, in := range list {
		fmt.Fprintf(w, " %s %s\n", output.StyleBold.Render(in.Title), output.StyleMuted.Render("("+output.Percent(in.Confidence)+")"))
		fmt.Fprintf(w, "   %s\n", in.Description)
	}
}

func renderRecommendations(w io.Writer, recs []suggest.Recommendation) {
	if len(recs) == 0 {
		return
	}
	fmt.Fprintln(w, output.Section("Recommendations"))
	for _, rec := range recs {
		fmt.Fprintf(w, " %s %s\n", priorityBadge(rec.Priority), output.StyleBold.Render(rec.Title))
		fmt.Fprintf(w, "   %s\n", rec.Description)
	}
}

func priorityBadge(p suggest.Priority) string {
	label := "[" + strings.ToUpper(string(p)) + "]"
	switch p {
	case suggest.PriorityHigh:
		return output.StyleError.Render(label)
	case suggest.PriorityMedium:
		return output.StyleWarning.Render(label)
	default:
		return output.StyleMuted.Render(label)
	}
}
