package app

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/doglog-app/doglog/internal/insights"
	"github.com/doglog-app/doglog/internal/journal"
	"github.com/doglog-app/doglog/internal/output"
	"github.com/doglog-app/doglog/internal/suggest"
)

var (
	reportRange string
	reportMonth string
	reportLimit int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize every dog and rank their recommendations",
	Long: `Analyze every dog's journal and show one summary row per dog, then the
recommendations of all dogs ranked by priority, high first.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportRange, "range", "all", "Time range: all or month")
	reportCmd.Flags().StringVar(&reportMonth, "month", "", "Report on a specific month (YYYY-MM); overrides --range")
	reportCmd.Flags().IntVar(&reportLimit, "limit", 10, "Maximum number of recommendations to show (0 = all)")
	rootCmd.AddCommand(reportCmd)
}

// dogReport pairs a dog with its insights.
type dogReport struct {
	Dog      journal.Dog          `json:"dog"`
	Insights insights.DogInsights `json:"insights"`
}

// rankedRecommendation is a recommendation tagged with the dog it is for.
type rankedRecommendation struct {
	DogName string `json:"dog_name"`
	suggest.Recommendation
}

type reportOutput struct {
	TimeRange       string                 `json:"time_range"`
	Dogs            []dogReport            `json:"dogs"`
	Recommendations []rankedRecommendation `json:"recommendations"`
}

func runReport(cmd *cobra.Command, _ []string) error {
	r, err := resolveTimeRange(reportRange, reportMonth)
	if err != nil {
		return err
	}

	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	reports, err := analyzeAll(cmd.Context(), e.svc, r)
	if err != nil {
		return err
	}

	out := reportOutput{
		TimeRange:       r.Tag(),
		Dogs:            reports,
		Recommendations: rankAcrossDogs(reports, reportLimit),
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, out)
	}
	renderReport(w, r, out)
	return nil
}

// analyzeAll runs the local analysis of every dog concurrently. Results keep
// the repository's dog order.
func analyzeAll(ctx context.Context, svc *journal.Service, r journal.TimeRange) ([]dogReport, error) {
	dogs, err := svc.ListDogs(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]dogReport, len(dogs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, d := range dogs {
		g.Go(func() error {
			j, err := svc.Journal(ctx, d.ID)
			if err != nil {
				return fmt.Errorf("loading %s: %w", d.Name, err)
			}
			reports[i] = dogReport{Dog: d, Insights: insights.Analyze(j, r)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// rankAcrossDogs merges every dog's recommendations and orders them by
// priority. The sort is stable, so within a priority dogs keep report order
// and each dog keeps rule order.
func rankAcrossDogs(reports []dogReport, limit int) []rankedRecommendation {
	ranked := make([]rankedRecommendation, 0)
	for _, rep := range reports {
		for _, rec := range rep.Insights.Recommendations {
			ranked = append(ranked, rankedRecommendation{DogName: rep.Dog.Name, Recommendation: rec})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Priority.Rank() < ranked[j].Priority.Rank()
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func renderReport(w io.Writer, r journal.TimeRange, out reportOutput) {
	fmt.Fprintln(w, output.Section("Report: "+r.DisplayName()))
	if len(out.Dogs) == 0 {
		fmt.Fprintln(w, " No dogs yet. Add one with: doglog dog add <name>")
		return
	}

	tbl := output.NewTable("Dog", "Mood", "Trend", "Activities", "Rated Days", "Confidence")
	for _, rep := range out.Dogs {
		di := rep.Insights
		mood, trend := output.StyleMuted.Render("-"), output.StyleMuted.Render("-")
		if di.Sufficient() {
			mood = output.Outcome(string(di.Mood.Current))
			trend = directionLabel(di.Mood.Direction)
		}
		tbl.AddRow(
			rep.Dog.Name,
			mood,
			trend,
			fmt.Sprintf("%d", di.ActivityCount),
			fmt.Sprintf("%d", di.RatingCount),
			output.Percent(di.Confidence),
		)
	}
	tbl.Fprint(w)

	if len(out.Recommendations) == 0 {
		return
	}
	fmt.Fprintln(w, output.Section("Recommendations"))
	for _, rec := range out.Recommendations {
		fmt.Fprintf(w, " %s %s %s\n", priorityBadge(rec.Priority), output.StyleBold.Render(rec.Title), output.StyleMuted.Render("· "+rec.DogName))
		fmt.Fprintf(w, "   %s\n", rec.Description)
	}
}
