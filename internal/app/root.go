// Package app contains the Cobra command tree for doglog.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doglog-app/doglog/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "doglog",
	Short: "Activity journal and behavior insights for your dog",
	Long: `doglog keeps a daily journal of your dog's activities and mood, turns
it into local insights and recommendations, and can ask a remote model for a
behaviorist analysis and a seven-day training plan.

Run 'doglog' with no arguments to see a summary of every dog.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDashboard,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/doglog/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	dogs, err := e.svc.ListDogs(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, map[string]any{"version": appVersion, "dogs": dogs})
	}

	fmt.Fprintln(w, "doglog", appVersion)
	if len(dogs) == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, " No dogs yet. Add one with: doglog dog add <name> --breed <breed>")
		return nil
	}

	fmt.Fprintln(w, output.Section("Dogs"))
	tbl := output.NewTable("Name", "Breed", "Age", "ID")
	for _, d := range dogs {
		tbl.AddRow(output.StyleBold.Render(d.Name), orDash(d.Breed), ageString(d.BirthDate, e.now()), d.ID)
	}
	tbl.Fprint(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, " Subcommands: dog, log, insights, report, analyze, plan, track, serve, mcp")
	return nil
}
