package endpoints

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/pdfgrid/pdfgrid/internal/extract"
)

// ParseResponse is the response for all parse endpoints.
type ParseResponse struct {
	Success     bool           `json:"success"`
	Data        extract.RowSet `json:"data"`
	Count       int            `json:"count"`
	PreviewText string         `json:"preview_text,omitempty"`
}

// previewLimit caps the section preview returned with parse responses.
const previewLimit = 500

func sectionPreview(section string) string {
	if len(section) <= previewLimit {
		return section
	}
	// Back the cut off to a rune boundary so the preview stays valid UTF-8.
	cut := previewLimit
	for cut > 0 && !utf8.RuneStart(section[cut]) {
		cut--
	}
	return section[:cut] + "..."
}

// writeExtractionError maps engine error kinds onto HTTP statuses.
// Strategy failures with a fallback never reach here; these are terminal.
func writeExtractionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, extract.ErrServiceUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, extract.ErrServiceError):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, extract.ErrSectionNotFound),
		errors.Is(err, extract.ErrSchemaRequired),
		errors.Is(err, extract.ErrNoStructuredOutput),
		errors.Is(err, extract.ErrEmptyResult):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
