package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/doglog-app/doglog/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP stdio server exposing the journal to assistants",
	Long: `Start a Model Context Protocol stdio server. The server exposes four
read-only tools:

  list_dogs            Every dog with its journal counts
  get_insights         Local insights of one dog for a time range
  get_recommendations  The dog's recommendations ranked by priority
  get_day              Activities and rating of one dog on one date

Tools accept a dog id or a dog name. Logs go to stderr; stdout carries only
JSON-RPC messages.

Example MCP client configuration:
  {"mcpServers":{"doglog":{"command":"doglog","args":["mcp"]}}}`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	srv := mcp.NewServer(e.svc, appVersion, mcp.WithLogger(e.logger), mcp.WithClock(nowFunc))
	return srv.Run(cmd.Context(), os.Stdin, os.Stdout)
}
