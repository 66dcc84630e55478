package main

import (
	"github.com/spf13/cobra"

	"github.com/pdfgrid/pdfgrid/internal/api"
	"github.com/pdfgrid/pdfgrid/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "pdfgrid",
	Short: "Structured row extraction from unstructured documents",
	Long: `Pdfgrid extracts tabular rows from unstructured document text using
a user-supplied column schema.

Extraction strategies:
  - Rule-based segmentation with per-column field heuristics
  - Model-assisted extraction via chat completion (falls back to rules)
  - External extraction service with submit-and-poll delivery

Results can be exported as CSV or XLSX, and uploaded PDFs can be
converted to page images or plain text.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.pdfgrid/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}
