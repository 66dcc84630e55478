package export

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/pdfgrid/pdfgrid/internal/extract"
)

var sampleRows = extract.RowSet{
	{"Author": "Smith, J.", "Year": "2020"},
	{"Author": "Jones, A.", "Year": ""},
}

func TestColumnOrder(t *testing.T) {
	t.Run("explicit_columns_win", func(t *testing.T) {
		got := ColumnOrder(sampleRows, []string{"Year", "Author"})
		if !reflect.DeepEqual(got, []string{"Year", "Author"}) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("derived_sorted_from_first_row", func(t *testing.T) {
		got := ColumnOrder(sampleRows, nil)
		if !reflect.DeepEqual(got, []string{"Author", "Year"}) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("empty_everything", func(t *testing.T) {
		if got := ColumnOrder(nil, nil); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})
}

func TestWriteCSV(t *testing.T) {
	data, err := WriteCSV(sampleRows, []string{"Author", "Year"})
	if err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	want := [][]string{
		{"Author", "Year"},
		{"Smith, J.", "2020"},
		{"Jones, A.", ""},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("records = %v, want %v", records, want)
	}
}

func TestWriteCSVNoColumns(t *testing.T) {
	if _, err := WriteCSV(nil, nil); err == nil {
		t.Error("want error when no columns can be resolved")
	}
}

func TestWriteXLSX(t *testing.T) {
	data, err := WriteXLSX(sampleRows, []string{"Author", "Year"})
	if err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	xlsxRows, err := f.GetRows("Rows")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(xlsxRows) != 3 {
		t.Fatalf("got %d sheet rows, want 3", len(xlsxRows))
	}
	if !reflect.DeepEqual(xlsxRows[0], []string{"Author", "Year"}) {
		t.Errorf("header = %v", xlsxRows[0])
	}
	if xlsxRows[1][0] != "Smith, J." || xlsxRows[1][1] != "2020" {
		t.Errorf("first data row = %v", xlsxRows[1])
	}
}
