// =============================================================================
// Business Data Validation Toolkit - Download Command
// =============================================================================
//
// This file defines the 'download' command, which fetches a Kaggle dataset
// and unzips it into the raw data directory.
//
// COMMAND USAGE:
//   bdv download [--dataset owner/name] [--out DIR]
//
// CREDENTIALS:
//   KAGGLE_USERNAME and KAGGLE_KEY (environment or .env), or the API token
//   file ~/.kaggle/kaggle.json (Kaggle: Account settings -> Create New API
//   Token).
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/kaggle"
)

var (
	downloadDataset string
	downloadOut     string
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download and unzip a Kaggle dataset",
	Long: `The download command fetches a dataset archive from the Kaggle API and
extracts it into the raw data directory (default data/raw).`,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVar(&downloadDataset, "dataset", "", "Dataset reference owner/name (overrides kaggle.dataset)")
	downloadCmd.Flags().StringVar(&downloadOut, "out", "", "Extraction directory (overrides kaggle.raw_dir)")
}

func runDownload(cmd *cobra.Command, args []string) error {
	settings := appConfig.Kaggle
	if downloadDataset != "" {
		settings.Dataset = downloadDataset
	}
	if downloadOut != "" {
		settings.RawDir = downloadOut
	}

	creds, err := kaggle.ResolveCredentials(settings)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), settings.Timeout)
	defer cancel()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "=== Kaggle Download ===\nDataset:         %s\n", settings.Dataset)

	client := kaggle.NewClient(settings.BaseURL, creds, nil, logger)
	files, err := client.Download(ctx, settings.Dataset, settings.RawDir)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	for _, f := range files {
		fmt.Fprintf(out, "  ✓ %s\n", f)
	}
	fmt.Fprintf(out, "Downloaded into %s\n", settings.RawDir)
	return nil
}
