package pdftext

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewExtractorDefaults(t *testing.T) {
	if e := NewExtractor(0); e.maxFileSize != DefaultMaxFileSize {
		t.Errorf("maxFileSize = %d, want default", e.maxFileSize)
	}
	if e := NewExtractor(-1); e.maxFileSize != DefaultMaxFileSize {
		t.Errorf("negative limit should use default")
	}
	if e := NewExtractor(1024); e.maxFileSize != 1024 {
		t.Errorf("explicit limit lost")
	}
}

func TestExtractTextRejectsOversizeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.pdf")
	if err := os.WriteFile(path, make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewExtractor(1024).ExtractText(path)
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("error = %v, want size rejection", err)
	}
}

func TestExtractTextMissingFile(t *testing.T) {
	if _, err := NewExtractor(0).ExtractText("/nonexistent/file.pdf"); err == nil {
		t.Error("want error for missing file")
	}
}

func TestExtractTextRejectsDirectory(t *testing.T) {
	if _, err := NewExtractor(0).ExtractText(t.TempDir()); err == nil {
		t.Error("want error for directory path")
	}
}

func TestExtractTextRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not.pdf")
	if err := os.WriteFile(path, []byte("plain text, not a PDF"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewExtractor(0).ExtractText(path); err == nil {
		t.Error("want error for non-PDF content")
	}
}
