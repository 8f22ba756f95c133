// =============================================================================
// Business Data Validation Toolkit - Report Command
// =============================================================================
//
// This file defines the 'report' command, which builds the value report: a
// weekly trend and the top products by revenue.
//
// COMMAND USAGE:
//   bdv report --input FILE [--outdir DIR] [--top N]
//
// OUTPUT FILES:
//   value_report_weekly.csv, value_report_top_products.csv
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/pipeline"
)

var (
	reportInput  string
	reportOutDir string
	reportTop    int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the weekly trend and top products value report",
	Long: `The report command summarizes revenue per Monday-Sunday week and ranks
(StockCode, Description) pairs by revenue. It does not check data quality:
values that do not parse are simply left out.`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportInput, "input", "", "Path to the transactions CSV/XLSX")
	reportCmd.Flags().StringVar(&reportOutDir, "outdir", "", "Output directory (overrides output.dir)")
	reportCmd.Flags().IntVar(&reportTop, "top", 0, "Number of top products (overrides report.top_products)")

	_ = reportCmd.MarkFlagRequired("input")
}

func runReport(cmd *cobra.Command, args []string) error {
	outDir := appConfig.Output.Dir
	if reportOutDir != "" {
		outDir = reportOutDir
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== Value Report ===")

	result, err := pipeline.NewReporter(appConfig, logger).Run(pipeline.ReportOptions{
		InputPath:   reportInput,
		OutputDir:   outDir,
		TopProducts: reportTop,
	})
	if err != nil {
		return fmt.Errorf("value report failed: %w", err)
	}

	fmt.Fprintf(out, "Weeks:           %d\n", len(result.Weeks))
	fmt.Fprintf(out, "Top products:    %d\n", len(result.Products))
	for _, f := range result.OutputFiles {
		fmt.Fprintf(out, "  ✓ %s\n", f)
	}
	fmt.Fprintf(out, "Time elapsed:    %s\n", result.ProcessingTime)
	return nil
}
