// Package svcctx provides service context for dependency injection via
// context. Separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/pdfgrid/pdfgrid/internal/config"
	"github.com/pdfgrid/pdfgrid/internal/convert"
	"github.com/pdfgrid/pdfgrid/internal/extract"
	"github.com/pdfgrid/pdfgrid/internal/pdftext"
)

// Services holds the core services that flow through request context.
// Handlers extract what they need via the individual extractors.
type Services struct {
	Engine    *extract.Engine
	PDFText   *pdftext.Extractor
	Converter *convert.Converter
	Config    *config.Config
	Logger    *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// EngineFrom extracts the extraction engine from context.
func EngineFrom(ctx context.Context) *extract.Engine {
	if s := ServicesFrom(ctx); s != nil {
		return s.Engine
	}
	return nil
}

// PDFTextFrom extracts the PDF text extractor from context.
func PDFTextFrom(ctx context.Context) *pdftext.Extractor {
	if s := ServicesFrom(ctx); s != nil {
		return s.PDFText
	}
	return nil
}

// ConverterFrom extracts the format converter from context.
func ConverterFrom(ctx context.Context) *convert.Converter {
	if s := ServicesFrom(ctx); s != nil {
		return s.Converter
	}
	return nil
}

// ConfigFrom extracts the loaded configuration from context.
func ConfigFrom(ctx context.Context) *config.Config {
	if s := ServicesFrom(ctx); s != nil {
		return s.Config
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}
