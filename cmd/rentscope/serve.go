package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rentscope/internal/analyzer"
	"github.com/pdiddy/rentscope/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis HTTP server",
	Long: `Serve exposes the analyzer over HTTP: POST /analyze, POST
/batch-analyze, GET /report/<address>, GET /health and GET /api/examples.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	a, err := analyzer.New(cmd.Context(), cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}

	demoMode := cfg.Geocoding.APIKey == "" || cfg.Geocoding.APIKey == "demo-api-key"
	if demoMode {
		fmt.Fprintln(os.Stderr, "no Google Maps API key configured; serving in demo mode")
	}

	router := web.NewRouter(a, demoMode)
	fmt.Fprintf(os.Stderr, "listening on %s\n", addr)
	return router.Run(addr)
}
