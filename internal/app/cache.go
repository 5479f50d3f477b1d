package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doglog-app/doglog/internal/journal"
	"github.com/doglog-app/doglog/internal/output"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear cached analyses",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status <dog>",
	Short: "Show whether fresh analyses are cached for a dog",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheStatus,
}

var cacheClearAll bool

var cacheClearCmd = &cobra.Command{
	Use:   "clear [dog]",
	Short: "Drop every cached analysis of a dog, or of all dogs with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCacheClear,
}

// clearer is implemented by persistent caches that can be emptied at once.
type clearer interface {
	Clear(ctx context.Context) (int64, error)
}

func init() {
	cacheClearCmd.Flags().BoolVar(&cacheClearAll, "all", false, "Clear the cached analyses of every dog")
	cacheCmd.AddCommand(cacheStatusCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

type cacheStatus struct {
	TimeRange   string `json:"time_range"`
	Cached      bool   `json:"cached"`
	GeneratedAt string `json:"generated_at,omitempty"`
}

func runCacheStatus(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	d, err := e.svc.ResolveDog(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var statuses []cacheStatus
	for _, r := range []journal.TimeRange{journal.AllTime(), journal.ThisMonth(e.now())} {
		a, ok, err := e.gateway.CachedAnalysis(cmd.Context(), d.ID, r)
		if err != nil {
			return err
		}
		st := cacheStatus{TimeRange: r.Tag(), Cached: ok}
		if ok {
			st.GeneratedAt = a.GeneratedAt.Local().Format("2006-01-02 15:04")
		}
		statuses = append(statuses, st)
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, statuses)
	}
	tbl := output.NewTable("Range", "Cached", "Generated")
	for _, st := range statuses {
		cached := output.StyleMuted.Render("no")
		if st.Cached {
			cached = output.StyleSuccess.Render("yes")
		}
		tbl.AddRow(st.TimeRange, cached, orDash(st.GeneratedAt))
	}
	tbl.Fprint(w)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	w := cmd.OutOrStdout()
	if cacheClearAll {
		c, ok := e.cache.(clearer)
		if !ok {
			fmt.Fprintln(w, " The in-memory cache starts empty on every run; nothing to clear.")
			return nil
		}
		n, err := c.Clear(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(w, " %s Cleared %d cached analyses\n", output.StyleSuccess.Render("✓"), n)
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("name a dog or pass --all")
	}

	d, err := e.svc.ResolveDog(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := e.gateway.InvalidateCache(cmd.Context(), d.ID); err != nil {
		return err
	}
	fmt.Fprintf(w, " %s Cleared cached analyses for %s\n", output.StyleSuccess.Render("✓"), d.Name)
	return nil
}
