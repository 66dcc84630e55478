// Package convert transcodes uploaded PDFs into other formats: per-page
// raster images, or a plain-text document. Pure format conversion; nothing
// here touches the extraction data model.
package convert

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pdfgrid/pdfgrid/internal/pdftext"
)

// Converter renders PDFs to images and text documents.
type Converter struct {
	outputDir string
	logger    *slog.Logger
}

// New creates a converter writing into outputDir (images/ and documents/
// subdirectories are created on demand).
func New(outputDir string, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{outputDir: outputDir, logger: logger}
}

// PageCount returns the number of pages in the PDF. Also serves as cheap
// validation that the upload really is a PDF.
func PageCount(pdfPath string) (int, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	count, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF: %w", err)
	}
	return count, nil
}

// ToImages renders every page of the PDF to a PNG under <out>/images and
// returns the written paths in page order.
func (c *Converter) ToImages(pdfPath string) ([]string, error) {
	pageCount, err := PageCount(pdfPath)
	if err != nil {
		return nil, err
	}

	outDir := filepath.Join(c.outputDir, "images")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, pageCount)
	for page := 1; page <= pageCount; page++ {
		dst, err := renderPage(pdfPath, outDir, page)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", page, err)
		}
		paths = append(paths, dst)
	}

	c.logger.Info("converted PDF to images", "file", filepath.Base(pdfPath), "pages", pageCount)
	return paths, nil
}

// ToTextDocument extracts the PDF's text and writes it as a .txt document
// under <out>/documents, returning the written path.
func (c *Converter) ToTextDocument(pdfPath string) (string, error) {
	text, err := pdftext.NewExtractor(0).ExtractText(pdfPath)
	if err != nil {
		return "", err
	}

	outDir := filepath.Join(c.outputDir, "documents")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	base := filepath.Base(pdfPath)
	name := base[:len(base)-len(filepath.Ext(base))] + ".txt"
	dst := filepath.Join(outDir, name)
	if err := os.WriteFile(dst, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}

	c.logger.Info("converted PDF to text document", "file", base, "output", name)
	return dst, nil
}

// renderPage renders a single page using pdftoppm (poppler-utils).
func renderPage(pdfPath, outDir string, page int) (string, error) {
	tmpDir, err := os.MkdirTemp("", "pdfgrid-page-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	outputPrefix := filepath.Join(tmpDir, "page")
	pageStr := fmt.Sprintf("%d", page)
	cmd := exec.Command("pdftoppm",
		"-png",
		"-f", pageStr,
		"-l", pageStr,
		"-r", "200",
		"-singlefile",
		pdfPath,
		outputPrefix,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("pdftoppm failed: %w (output: %s)", err, string(output))
	}

	srcPath := outputPrefix + ".png"
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return "", fmt.Errorf("pdftoppm did not create expected output: %w", err)
	}

	dstPath := filepath.Join(outDir, fmt.Sprintf("page_%d.png", page))
	if err := os.WriteFile(dstPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write page image: %w", err)
	}
	return dstPath, nil
}
