package endpoints

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdfgrid/pdfgrid/internal/api"
	"github.com/pdfgrid/pdfgrid/internal/svcctx"
)

// ConvertResponse is the response for POST /api/convert.
type ConvertResponse struct {
	Success  bool   `json:"success"`
	Type     string `json:"type"`
	Count    int    `json:"count,omitempty"`
	Filename string `json:"filename,omitempty"`
	Message  string `json:"message"`
}

// ConvertEndpoint handles POST /api/convert: transcode an uploaded PDF to
// per-page images or a plain-text document. No extraction involved.
type ConvertEndpoint struct{}

var _ api.Endpoint = (*ConvertEndpoint)(nil)

func (e *ConvertEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/convert", e.handler
}

func (e *ConvertEndpoint) RequiresInit() bool { return true }

func (e *ConvertEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	cfg := svcctx.ConfigFrom(r.Context())
	converter := svcctx.ConverterFrom(r.Context())

	maxMemory := cfg.MaxFileSizeBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxMemory)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, "please upload a PDF file")
		return
	}

	tmpPath, err := saveUpload(file, header.Filename)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to save upload: %v", err))
		return
	}
	defer os.RemoveAll(filepath.Dir(tmpPath))

	convertType := r.FormValue("type")
	if convertType == "" {
		convertType = "images"
	}

	switch convertType {
	case "images":
		paths, err := converter.ToImages(tmpPath)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("conversion failed: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, ConvertResponse{
			Success: true,
			Type:    "images",
			Count:   len(paths),
			Message: fmt.Sprintf("Successfully converted %d pages to images", len(paths)),
		})
	case "text":
		dst, err := converter.ToTextDocument(tmpPath)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("conversion failed: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, ConvertResponse{
			Success:  true,
			Type:     "text",
			Filename: filepath.Base(dst),
			Message:  "Successfully converted PDF to text document",
		})
	default:
		writeError(w, http.StatusBadRequest, "invalid conversion type")
	}
}

func (e *ConvertEndpoint) Command(_ func() string) *cobra.Command { return nil }
