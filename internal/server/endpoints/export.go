package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pdfgrid/pdfgrid/internal/api"
	"github.com/pdfgrid/pdfgrid/internal/export"
	"github.com/pdfgrid/pdfgrid/internal/extract"
)

// ExportRequest is the body for the export endpoints: previously parsed
// rows plus an optional explicit column ordering.
type ExportRequest struct {
	Data    extract.RowSet `json:"data"`
	Columns []string       `json:"columns,omitempty"`
}

// ExportCSVEndpoint handles POST /api/export/csv.
type ExportCSVEndpoint struct{}

var _ api.Endpoint = (*ExportCSVEndpoint)(nil)

func (e *ExportCSVEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/export/csv", e.handler
}

func (e *ExportCSVEndpoint) RequiresInit() bool { return false }

func (e *ExportCSVEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeExportRequest(w, r)
	if !ok {
		return
	}

	data, err := export.WriteCSV(req.Data, req.Columns)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="parsed_data.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (e *ExportCSVEndpoint) Command(_ func() string) *cobra.Command { return nil }

// ExportXLSXEndpoint handles POST /api/export/xlsx.
type ExportXLSXEndpoint struct{}

var _ api.Endpoint = (*ExportXLSXEndpoint)(nil)

func (e *ExportXLSXEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/export/xlsx", e.handler
}

func (e *ExportXLSXEndpoint) RequiresInit() bool { return false }

func (e *ExportXLSXEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeExportRequest(w, r)
	if !ok {
		return
	}

	data, err := export.WriteXLSX(req.Data, req.Columns)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="parsed_data.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (e *ExportXLSXEndpoint) Command(_ func() string) *cobra.Command { return nil }

func decodeExportRequest(w http.ResponseWriter, r *http.Request) (*ExportRequest, bool) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return nil, false
	}
	if len(req.Data) == 0 {
		writeError(w, http.StatusBadRequest, "no data to export")
		return nil, false
	}
	return &req, true
}
