package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdfgrid/pdfgrid/internal/export"
	"github.com/pdfgrid/pdfgrid/internal/extract"
	"github.com/pdfgrid/pdfgrid/internal/pdftext"
)

var (
	parseSection string
	parseColumns string
	parseOut     string
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Extract rows from a document locally",
	Long: `Parse a document with the rule-based strategy, without a server.

The input may be a PDF (text is extracted from its pages) or a plain
text file. Columns are given as a JSON array of column specs; with no
columns, each non-blank line of the located section becomes a row.

Examples:
  pdfgrid parse paper.pdf --section "References" --columns '[{"name":"Author","type":"name"}]'
  pdfgrid parse notes.txt --columns '[{"name":"Title","type":"title"}]' --out rows.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		var schema extract.Schema
		if parseColumns != "" {
			var err error
			schema, err = extract.ParseSchema([]byte(parseColumns))
			if err != nil {
				return fmt.Errorf("invalid columns: %w", err)
			}
		}

		var text string
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			extracted, err := pdftext.NewExtractor(pdftext.DefaultMaxFileSize).ExtractText(path)
			if err != nil {
				return err
			}
			text = extracted
		} else {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			text = string(data)
		}

		engine := extract.NewEngine(extract.EngineConfig{})
		result, err := engine.Extract(ctx, extract.Request{
			DocumentText: text,
			SectionHint:  parseSection,
			Schema:       schema,
			Strategy:     extract.StrategyRule,
		})
		if err != nil {
			return err
		}

		csvData, err := export.WriteCSV(result.Rows, schema.Names())
		if err != nil {
			return err
		}

		if parseOut != "" {
			if err := os.WriteFile(parseOut, csvData, 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %d rows to %s\n", len(result.Rows), parseOut)
			return nil
		}
		fmt.Print(string(csvData))
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseSection, "section", "", "Section heading to locate before extraction")
	parseCmd.Flags().StringVar(&parseColumns, "columns", "", "Column specs as a JSON array")
	parseCmd.Flags().StringVar(&parseOut, "out", "", "Write CSV to this file instead of stdout")

	rootCmd.AddCommand(parseCmd)
}
