package app

import (
	"github.com/spf13/cobra"

	"github.com/doglog-app/doglog/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the journal over an HTTP JSON API",
	Long: `Start the HTTP API used by the web and mobile clients. Routes live under
/api (dogs, days, insights, analysis and training plans) plus /health.

The listen address defaults to server.addr from the config (:3001).`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	addr := e.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	handler := server.NewRouter(server.Options{
		Service:        e.svc,
		Analyst:        e.gateway,
		Logger:         e.logger,
		AllowedOrigins: e.cfg.Server.AllowedOrigins,
		Now:            nowFunc,
	})
	if !e.gateway.HasCredential() {
		e.logger.Warn("no LLM API key configured; analysis routes will return 400")
	}
	return server.Run(cmd.Context(), addr, handler, e.logger)
}
