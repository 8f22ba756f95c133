// =============================================================================
// Business Data Validation Toolkit - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which runs the data quality checks
// on a transactions extract.
//
// COMMAND USAGE:
//   bdv validate --input FILE --product-master FILE [flags]
//
// FLAGS:
//   --input           : Transactions extract (.csv or .xlsx)
//   --product-master  : Product master (.csv or .xlsx)
//   --outdir          : Output directory (default from config, "outputs")
//   --sample-size     : Sample rows kept per rule (default from config, 50)
//   --xlsx            : Also write data_quality_report.xlsx
//
// OUTPUT FILES:
//   exception_log.csv, exception_samples.csv, summary_kpis.csv,
//   data_quality_score.json (and data_quality_report.xlsx with --xlsx)
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/pipeline"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	validateInput      string
	validateMaster     string
	validateOutDir     string
	validateSampleSize int
	validateXLSX       bool
)

// =============================================================================
// VALIDATE COMMAND DEFINITION
// =============================================================================

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a transactions extract against the product master",
	Long: `The validate command coerces the transactions extract to the expected
schema, applies the data quality rules and writes the reports.

Data problems never make the command fail: they are reported in the exception
log and lower the quality score. The command fails only when an input file is
missing or structurally broken, in which case no report files are written.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateInput, "input", "", "Path to the transactions CSV/XLSX")
	validateCmd.Flags().StringVar(&validateMaster, "product-master", "", "Path to the product master CSV/XLSX")
	validateCmd.Flags().StringVar(&validateOutDir, "outdir", "", "Output directory (overrides output.dir)")
	validateCmd.Flags().IntVar(&validateSampleSize, "sample-size", 0, "Sample rows kept per rule (overrides validation.sample_size)")
	validateCmd.Flags().BoolVar(&validateXLSX, "xlsx", false, "Also write data_quality_report.xlsx")

	_ = validateCmd.MarkFlagRequired("input")
	_ = validateCmd.MarkFlagRequired("product-master")
}

// =============================================================================
// COMMAND EXECUTION
// =============================================================================

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if validateSampleSize > 0 {
		cfg.Validation.SampleSize = validateSampleSize
	}
	if validateXLSX {
		cfg.Output.XLSXReport = true
	}
	outDir := cfg.Output.Dir
	if validateOutDir != "" {
		outDir = validateOutDir
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== Business Data Validation ===")

	result, err := pipeline.NewValidator(cfg, logger).Run(pipeline.ValidateOptions{
		InputPath:         validateInput,
		ProductMasterPath: validateMaster,
		OutputDir:         outDir,
	})
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	printValidationSummary(out, result)
	return nil
}

// printValidationSummary prints the score, the issue table and the files.
func printValidationSummary(out io.Writer, result *pipeline.ValidationResult) {
	fmt.Fprintf(out, "Rows checked:    %d\n", result.Score.TotalRows)
	fmt.Fprintf(out, "Issues:          %d\n", result.Score.IssueCount)
	fmt.Fprintf(out, "Sample rows:     %d\n", result.SampleRows)

	if len(result.Issues) > 0 {
		fmt.Fprintln(out, "\n=== Exception Log ===")
		for _, issue := range result.Issues {
			fmt.Fprintf(out, "  %-6s %-33s %8d  %s\n", issue.Severity, issue.IssueType, issue.RowCount, issue.Owner)
		}
	}

	fmt.Fprintln(out, "\n=== Data Quality Score ===")
	fmt.Fprintf(out, "Score:           %s\n", result.Score.Score)
	fmt.Fprintf(out, "Grade:           %s\n", result.Score.Grade)

	fmt.Fprintln(out, "\n=== Outputs ===")
	for _, f := range result.OutputFiles {
		fmt.Fprintf(out, "  ✓ %s\n", f)
	}
	fmt.Fprintf(out, "Time elapsed:    %s\n", result.ProcessingTime)
}
