// =============================================================================
// Business Data Validation Toolkit - Main Entry Point
// =============================================================================
//
// This is the main entry point for the bdv CLI. It delegates command
// execution to the cmd package.
//
// USAGE:
//   bdv validate   - Run the data quality checks and write the reports
//   bdv report     - Build the weekly trend and top products value report
//   bdv download   - Download a Kaggle dataset into data/raw
//   bdv version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Loading, validation, scoring, KPIs and report writing
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/olzhaszz/business-data-validation-toolkit/cmd"
)

func main() {
	cmd.Execute()
}
