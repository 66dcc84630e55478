package endpoints

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdfgrid/pdfgrid/internal/api"
	"github.com/pdfgrid/pdfgrid/internal/convert"
	"github.com/pdfgrid/pdfgrid/internal/extract"
	"github.com/pdfgrid/pdfgrid/internal/svcctx"
)

// ParseUploadEndpoint handles POST /api/parse/upload with a multipart PDF.
type ParseUploadEndpoint struct{}

var _ api.Endpoint = (*ParseUploadEndpoint)(nil)

func (e *ParseUploadEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/parse/upload", e.handler
}

func (e *ParseUploadEndpoint) RequiresInit() bool { return true }

// handler extracts structured rows from an uploaded PDF.
//
// Form fields: file (the PDF), section_prompt, columns (JSON array of
// column specs), engine (rule|model|external), instructions. The uploaded
// artifact is removed on every exit path.
func (e *ParseUploadEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	cfg := svcctx.ConfigFrom(r.Context())
	engine := svcctx.EngineFrom(r.Context())
	logger := svcctx.LoggerFrom(r.Context())

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

	schema, err := extract.ParseSchema([]byte(r.FormValue("columns")))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := extract.Request{
		SectionHint:  strings.TrimSpace(r.FormValue("section_prompt")),
		Schema:       schema,
		Strategy:     requestedStrategy(r.FormValue("engine")),
		Instructions: strings.TrimSpace(r.FormValue("instructions")),
		RequestID:    uuid.New().String(),
	}

	// Save the upload to a temp file. Removed on every exit path below.
	tmpPath, err := saveUpload(file, header.Filename)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to save upload: %v", err))
		return
	}
	defer os.RemoveAll(filepath.Dir(tmpPath))

	logger.Info("parse upload",
		"request_id", req.RequestID,
		"file", header.Filename,
		"engine", string(req.Strategy),
		"columns", len(schema))

	var result *extract.Result
	if req.Strategy == extract.StrategyExternal {
		// The external path submits the file as-is; reject unreadable
		// PDFs before dispatch.
		if _, pcErr := convert.PageCount(tmpPath); pcErr != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid PDF: %v", pcErr))
			return
		}
		result, err = engine.ExtractFile(r.Context(), tmpPath, req)
	} else {
		text, textErr := svcctx.PDFTextFrom(r.Context()).ExtractText(tmpPath)
		if textErr != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read PDF: %v", textErr))
			return
		}
		if strings.TrimSpace(text) == "" {
			writeError(w, http.StatusBadRequest, "could not extract text from PDF")
			return
		}
		req.DocumentText = text
		result, err = engine.Extract(r.Context(), req)
	}
	if err != nil {
		writeExtractionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ParseResponse{
		Success:     true,
		Data:        result.Rows,
		Count:       len(result.Rows),
		PreviewText: sectionPreview(result.Section),
	})
}

func (e *ParseUploadEndpoint) Command(_ func() string) *cobra.Command {
	// No CLI form for multipart upload; use `pdfgrid parse` for local files.
	return nil
}

// requestedStrategy maps the engine form value onto a strategy, defaulting
// to rule-based.
func requestedStrategy(engine string) extract.Strategy {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "model", "ai":
		return extract.StrategyModel
	case "external":
		return extract.StrategyExternal
	default:
		return extract.StrategyRule
	}
}

// saveUpload writes the uploaded file to the system temp directory under a
// unique name.
func saveUpload(src io.Reader, filename string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "pdfgrid-upload-*")
	if err != nil {
		return "", err
	}
	dstPath := filepath.Join(tmpDir, filepath.Base(filename))
	dst, err := os.Create(dstPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.RemoveAll(tmpDir)
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.RemoveAll(tmpDir)
		return "", err
	}
	return dstPath, nil
}
