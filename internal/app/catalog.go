package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doglog-app/doglog/internal/journal"
	"github.com/doglog-app/doglog/internal/output"
)

var catalogAdd string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List or extend the activity catalog",
	Long: `List the activity types offered when logging: the built-in ones
followed by your custom ones. Activity types are free text, so logging an
unlisted type works too; adding it here just keeps it at hand.`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().StringVar(&catalogAdd, "add", "", "Add a custom activity type")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	w := cmd.OutOrStdout()
	if strings.TrimSpace(catalogAdd) != "" {
		c, err := e.svc.AddCustomActivity(cmd.Context(), catalogAdd)
		if err != nil {
			return err
		}
		if !flagJSON {
			fmt.Fprintf(w, " %s Added %q to the catalog\n", output.StyleSuccess.Render("✓"), c.Name)
		}
	}

	names, err := e.svc.Catalog(cmd.Context())
	if err != nil {
		return err
	}
	if flagJSON {
		return writeJSON(w, map[string][]string{"activities": names})
	}

	predefined := make(map[string]bool, len(journal.PredefinedActivities))
	for _, n := range journal.PredefinedActivities {
		predefined[n] = true
	}

	fmt.Fprintln(w, output.Section("Activity Catalog"))
	for _, n := range names {
		if predefined[n] {
			fmt.Fprintf(w, "  %s\n", n)
			continue
		}
		fmt.Fprintf(w, "  %s %s\n", n, output.StyleMuted.Render("(custom)"))
	}
	return nil
}
