package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rentscope/internal/analyzer"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [address]",
	Short: "Analyze one property for rental investment",
	Long: `Analyze runs the full pipeline for a single address: geocoding,
property resolution, location features, rental comparables, revenue
prediction and quality assessment. The default output is the detailed
text report; --json and --yaml emit the raw analysis instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "output the analysis as JSON")
	analyzeCmd.Flags().Bool("yaml", false, "output the analysis as YAML")
	analyzeCmd.Flags().Bool("validate", false, "reject malformed or unresolvable addresses instead of simulating")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	address := strings.Join(args, " ")

	a, err := analyzer.New(cmd.Context(), pipelineConfig(cmd), os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	validate, _ := cmd.Flags().GetBool("validate")
	analysis, err := a.Analyze(cmd.Context(), address, analyzer.AnalyzeOptions{Validate: validate})
	if err != nil {
		var ae *analyzer.AnalysisError
		if errors.As(err, &ae) {
			fmt.Fprintf(os.Stderr, "error: %s\n", ae.Message)
			for _, s := range ae.Suggestions {
				fmt.Fprintf(os.Stderr, "  suggestion: %s\n", s)
			}
			if ae.Example != "" {
				fmt.Fprintf(os.Stderr, "  example: %s\n", ae.Example)
			}
		}
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}
	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		return analyzer.ExportYAML(os.Stdout, analysis)
	}
	return analyzer.WriteReport(os.Stdout, analysis)
}
