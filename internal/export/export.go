// Package export serializes row sets into delimited tabular files: CSV for
// download responses and XLSX workbooks for spreadsheet consumers.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/pdfgrid/pdfgrid/internal/extract"
)

// ColumnOrder resolves the output column ordering: the explicit list when
// given, otherwise the first row's keys sorted for determinism.
func ColumnOrder(rows extract.RowSet, columns []string) []string {
	if len(columns) > 0 {
		return columns
	}
	if len(rows) == 0 {
		return nil
	}
	keys := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteCSV renders rows as CSV with a header line. Missing keys render as
// empty fields.
func WriteCSV(rows extract.RowSet, columns []string) ([]byte, error) {
	fields := ColumnOrder(rows, columns)
	if len(fields) == 0 {
		return nil, fmt.Errorf("no columns to export")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(fields); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	record := make([]string, len(fields))
	for _, row := range rows {
		for i, f := range fields {
			record[i] = row[f]
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteXLSX renders rows as a single-sheet XLSX workbook with a header row.
func WriteXLSX(rows extract.RowSet, columns []string) ([]byte, error) {
	fields := ColumnOrder(rows, columns)
	if len(fields) == 0 {
		return nil, fmt.Errorf("no columns to export")
	}

	f := excelize.NewFile()
	const sheet = "Rows"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for i, h := range fields {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	for r, row := range rows {
		for c, field := range fields {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, row[field]); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
