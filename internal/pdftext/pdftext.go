// Package pdftext extracts plain text from PDF files, page by page. The
// result is an opaque newline-joined string; no layout or coordinate
// information survives, which is all the extraction engine expects.
package pdftext

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultMaxFileSize caps accepted PDFs at 50MB.
const DefaultMaxFileSize = 50 << 20

// maxTextSize bounds the accumulated text to avoid unbounded memory use on
// pathological documents.
const maxTextSize = 10 << 20

// Extractor reads text from PDF files.
type Extractor struct {
	maxFileSize int64
}

// NewExtractor creates an extractor. A non-positive maxFileSize uses the
// default limit.
func NewExtractor(maxFileSize int64) *Extractor {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Extractor{maxFileSize: maxFileSize}
}

// ExtractText returns the document's text, one page at a time joined with
// newlines. Pages whose text cannot be decoded are skipped rather than
// failing the whole document.
func (e *Extractor) ExtractText(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("path is a directory: %s", path)
	}
	if info.Size() > e.maxFileSize {
		return "", fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), e.maxFileSize)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text == "" {
			continue
		}
		if b.Len()+len(text) > maxTextSize {
			break
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}
