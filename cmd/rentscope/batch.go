package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rentscope/internal/analyzer"
)

var batchCmd = &cobra.Command{
	Use:   "batch [addresses...]",
	Short: "Analyze multiple properties and rank them",
	Long: `Batch analyzes each address in order and prints a comparison table
ranked by gross yield weighted by data quality. Addresses can be given
as arguments or one per line in a file via --file.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().String("file", "", "file with one address per line")
	batchCmd.Flags().Bool("json", false, "output the comparison rows as JSON")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	addresses := args

	if file, _ := cmd.Flags().GetString("file"); file != "" {
		fromFile, err := readAddressFile(file)
		if err != nil {
			return err
		}
		addresses = append(addresses, fromFile...)
	}
	if len(addresses) == 0 {
		return fmt.Errorf("provide one or more addresses (arguments or --file)")
	}

	a, err := analyzer.New(cmd.Context(), pipelineConfig(cmd), os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.Batch(cmd.Context(), addresses)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tADDRESS\tNEIGHBORHOOD\tBR\tRENT\tYIELD\tCASH FLOW\tRISK\tQUALITY\tRECOMMENDATION")
	for i, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t$%.0f\t%.2f%%\t$%.0f\t%s\t%d\t%s\n",
			i+1, e.Address, e.Neighborhood, e.Bedrooms, e.PredictedRent,
			e.GrossYield, e.MonthlyCashFlow, e.OverallRisk, e.DataQualityScore,
			e.Recommendation)
	}
	return w.Flush()
}

func readAddressFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening address file: %w", err)
	}
	defer f.Close()

	var addresses []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		addresses = append(addresses, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading address file: %w", err)
	}
	return addresses, nil
}
