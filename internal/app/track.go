package app

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doglog-app/doglog/internal/insights"
	"github.com/doglog-app/doglog/internal/journal"
	"github.com/doglog-app/doglog/internal/output"
	"github.com/doglog-app/doglog/internal/store"
)

var (
	trackRange   string
	trackMonth   string
	trackCompare int
	trackHistory int
)

var trackCmd = &cobra.Command{
	Use:   "track <dog>",
	Short: "Snapshot a dog's insight metrics and compare over time",
	Long: `Run the local analysis, store its metrics as a new snapshot, and compare
against the previous snapshot of the same dog and range to show deltas with
trend arrows. Use --history to see how the metrics moved across snapshots.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().StringVar(&trackRange, "range", "all", "Time range: all or month")
	trackCmd.Flags().StringVar(&trackMonth, "month", "", "Track a specific month (YYYY-MM); overrides --range")
	trackCmd.Flags().IntVar(&trackCompare, "compare", 1, "Compare against Nth previous snapshot (1 = most recent)")
	trackCmd.Flags().IntVar(&trackHistory, "history", 0, "Show metric trends across N most recent snapshots")
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
	r, err := resolveTimeRange(trackRange, trackMonth)
	if err != nil {
		return err
	}
	if trackCompare < 1 {
		return fmt.Errorf("--compare must be at least 1")
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

	db, err := e.snapshotDB()
	if err != nil {
		return err
	}

	current, err := db.CreateSnapshot(cmd.Context(), d.ID, r.Tag(), appVersion, buildAggregateMetrics(insights.Analyze(j, r)))
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}

	w := cmd.OutOrStdout()
	if trackHistory > 0 {
		timeline, err := loadHistory(cmd.Context(), db, d.ID, r.Tag(), trackHistory)
		if err != nil {
			return err
		}
		if flagJSON {
			return writeJSON(w, map[string]any{"history": timeline})
		}
		renderHistory(w, d, timeline)
		return nil
	}

	// trackCompare=1 means the immediate predecessor, which is offset 2 from
	// the newest.
	prev, err := db.GetSnapshotN(cmd.Context(), d.ID, r.Tag(), trackCompare+1)
	if err != nil {
		return fmt.Errorf("loading previous snapshot: %w", err)
	}

	var diff *store.SnapshotDiff
	if prev != nil {
		prevMetrics, err := db.GetAggregateMetrics(cmd.Context(), prev.ID)
		if err != nil {
			return fmt.Errorf("loading previous metrics: %w", err)
		}
		currMetrics, err := db.GetAggregateMetrics(cmd.Context(), current.ID)
		if err != nil {
			return fmt.Errorf("loading current metrics: %w", err)
		}
		diff = &store.SnapshotDiff{
			Previous: prev,
			Current:  current,
			Deltas:   computeDeltas(prevMetrics, currMetrics),
		}
	}

	if flagJSON {
		result := map[string]any{"snapshot": current}
		if diff != nil {
			result["diff"] = diff
		}
		return writeJSON(w, result)
	}
	renderTrackOutput(w, d, current, diff)
	return nil
}

// buildAggregateMetrics flattens insights into the metrics stored per
// snapshot.
func buildAggregateMetrics(di insights.DogInsights) map[string]float64 {
	var success float64
	for _, p := range di.Patterns {
		success += p.SuccessRate
	}
	if len(di.Patterns) > 0 {
		success /= float64(len(di.Patterns))
	}

	return map[string]float64{
		"confidence":             di.Confidence,
		"current_mood_score":     di.Mood.Current.Score(),
		"mood_consistency":       di.Mood.Consistency,
		"mood_improvement":       di.Mood.Improvement,
		"mood_stability":         di.Weekly.MoodStability,
		"avg_activities_per_day": di.Weekly.AvgActivitiesPerDay,
		"avg_success_rate":       success,
		"activity_count":         float64(di.ActivityCount),
		"rating_count":           float64(di.RatingCount),
		"pattern_count":          float64(len(di.Patterns)),
		"recommendation_count":   float64(len(di.Recommendations)),
	}
}

// metricDirection maps metric names to whether higher values are better.
var metricDirection = map[string]bool{
	"confidence":             true,
	"current_mood_score":     true,
	"mood_consistency":       true,
	"mood_improvement":       true,
	"mood_stability":         true,
	"avg_activities_per_day": true,
	"avg_success_rate":       true,
	"activity_count":         true,
	"rating_count":           true,
	"pattern_count":          true,
	"recommendation_count":   false, // fewer open recommendations is better
}

func higherIsBetter(name string) bool {
	better, known := metricDirection[name]
	return better || !known
}

// computeDeltas compares two sets of aggregate metrics. Metrics missing from
// prev compare against zero.
func computeDeltas(prev, curr []store.AggregateMetric) []store.MetricDelta {
	prevMap := make(map[string]float64, len(prev))
	for _, m := range prev {
		prevMap[m.MetricName] = m.MetricValue
	}

	deltas := make([]store.MetricDelta, 0, len(curr))
	for _, m := range curr {
		prevVal := prevMap[m.MetricName]
		delta := m.MetricValue - prevVal

		direction := "unchanged"
		if delta != 0 {
			if (delta > 0) == higherIsBetter(m.MetricName) {
				direction = "improved"
			} else {
				direction = "regressed"
			}
		}

		deltas = append(deltas, store.MetricDelta{
			Name:      m.MetricName,
			Previous:  prevVal,
			Current:   m.MetricValue,
			Delta:     delta,
			Direction: direction,
		})
	}
	return deltas
}

func renderTrackOutput(w io.Writer, d journal.Dog, current *store.Snapshot, diff *store.SnapshotDiff) {
	fmt.Fprintln(w, output.Section(fmt.Sprintf("Track: %s (%s)", d.Name, current.TimeRange)))
	fmt.Fprintln(w)
	fmt.Fprintf(w, " Snapshot #%d taken at %s\n\n", current.ID, current.TakenAt.Format("2006-01-02 15:04:05"))

	if diff == nil {
		fmt.Fprintf(w, " First snapshot recorded. Run 'doglog track %s' again after logging more days to see trends.\n", d.Name)
		return
	}

	fmt.Fprintf(w, " Comparing against snapshot #%d (%s)\n\n",
		diff.Previous.ID, diff.Previous.TakenAt.Format("2006-01-02 15:04:05"))

	byName := make(map[string]store.MetricDelta, len(diff.Deltas))
	for _, dl := range diff.Deltas {
		byName[dl.Name] = dl
	}

	tbl := output.NewTable("Metric", "Previous", "Current", "Delta", "Trend")
	for _, name := range metricDisplayOrder {
		dl, ok := byName[name]
		if !ok {
			continue
		}
		tbl.AddRow(
			metricShortName(name),
			formatMetric(name, dl.Previous),
			formatMetric(name, dl.Current),
			fmt.Sprintf("%+.2f", dl.Delta),
			output.TrendArrow(dl.Delta, higherIsBetter(name)),
		)
	}
	tbl.Fprint(w)
}

// metricDisplayOrder defines the order metrics appear in tables.
var metricDisplayOrder = []string{
	"confidence",
	"current_mood_score",
	"mood_consistency",
	"mood_improvement",
	"mood_stability",
	"avg_activities_per_day",
	"avg_success_rate",
	"activity_count",
	"rating_count",
	"pattern_count",
	"recommendation_count",
}

// metricShortName returns a compact label for display.
func metricShortName(name string) string {
	short := map[string]string{
		"confidence":             "Confidence",
		"current_mood_score":     "Current Mood",
		"mood_consistency":       "Mood Consistency",
		"mood_improvement":       "Mood Improvement %",
		"mood_stability":         "Mood Stability",
		"avg_activities_per_day": "Activities / Day",
		"avg_success_rate":       "Avg Success Rate",
		"activity_count":         "Activities",
		"rating_count":           "Rated Days",
		"pattern_count":          "Activity Types",
		"recommendation_count":   "Recommendations",
	}
	if s, ok := short[name]; ok {
		return s
	}
	return name
}

func formatMetric(name string, v float64) string {
	switch name {
	case "activity_count", "rating_count", "pattern_count", "recommendation_count":
		return fmt.Sprintf("%.0f", v)
	case "mood_improvement":
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// snapshotMetrics is one column of the history table.
type snapshotMetrics struct {
	Snapshot store.Snapshot     `json:"snapshot"`
	Metrics  map[string]float64 `json:"metrics"`
}

// loadHistory returns up to n snapshots of the dog and range, oldest first,
// with their metrics.
func loadHistory(ctx context.Context, db *store.DB, dogID, timeRange string, n int) ([]snapshotMetrics, error) {
	snapshots, err := db.ListSnapshots(ctx, dogID, timeRange, n)
	if err != nil {
		return nil, fmt.Errorf("loading snapshots: %w", err)
	}
	timeline := make([]snapshotMetrics, 0, len(snapshots))
	for _, s := range snapshots {
		m, err := db.MetricMap(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("loading metrics for snapshot #%d: %w", s.ID, err)
		}
		timeline = append(timeline, snapshotMetrics{Snapshot: s, Metrics: m})
	}
	return timeline, nil
}

// renderHistory shows a multi-snapshot timeline table.
func renderHistory(w io.Writer, d journal.Dog, timeline []snapshotMetrics) {
	fmt.Fprintln(w, output.Section("Track: Metric History for "+d.Name))
	fmt.Fprintln(w)
	fmt.Fprintf(w, " Showing %d most recent snapshots\n\n", len(timeline))

	headers := []string{"Metric"}
	for _, sm := range timeline {
		headers = append(headers, fmt.Sprintf("#%d %s", sm.Snapshot.ID, sm.Snapshot.TakenAt.Format("Jan 02")))
	}
	headers = append(headers, "Trend")
	tbl := output.NewTable(headers...)

	for _, name := range metricDisplayOrder {
		row := []string{metricShortName(name)}
		vals := make([]float64, 0, len(timeline))
		for _, sm := range timeline {
			v := sm.Metrics[name]
			vals = append(vals, v)
			row = append(row, formatMetric(name, v))
		}

		// Trend runs from the first to the last snapshot.
		trend := ""
		if len(vals) >= 2 {
			trend = output.TrendArrow(vals[len(vals)-1]-vals[0], higherIsBetter(name))
		}
		tbl.AddRow(append(row, trend)...)
	}
	tbl.Fprint(w)
}
