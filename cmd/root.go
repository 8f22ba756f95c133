// =============================================================================
// Business Data Validation Toolkit - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (bdv)
//   ├── validateCmd (bdv validate)
//   ├── reportCmd   (bdv report)
//   ├── downloadCmd (bdv download)
//   └── versionCmd  (bdv version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration (config.Load)
//   3. Setting up logging (zap) and flushing it when the command ends
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/config"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// appConfig is the loaded configuration, set before any subcommand runs.
var appConfig *config.Config

// logger is the application logger, set before any subcommand runs.
var logger = zap.NewNop()

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bdv",
	Short: "Business Data Validation Toolkit - data quality checks for retail transaction extracts",
	Long: `The Business Data Validation Toolkit checks a retail transactions extract
against a product master before it is used for reporting.

It coerces the extract to a fixed schema, runs a set of data quality rules,
and writes an exception log, sampled offending rows, summary KPIs and a
0-100 quality score with a letter grade.

Example Usage:
  bdv validate --input data/raw/transactions.csv --product-master data/raw/product_master.csv
  bdv report --input data/raw/transactions.csv --top 10
  bdv download --dataset rupakroy/online-retail --out data/raw`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		cfg, err := config.Load(cfgFile, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		appConfig = cfg

		logger, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return err
		}
		logger.Debug("configuration loaded", zap.String("config", cfgFile))
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
