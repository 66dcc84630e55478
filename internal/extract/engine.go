package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Strategy selects how rows are produced for a request.
type Strategy string

const (
	// StrategyRule uses the deterministic segmenter + field extractor.
	StrategyRule Strategy = "rule"
	// StrategyModel delegates to a chat-completion model, falling back to
	// rule-based extraction on any failure.
	StrategyModel Strategy = "model"
	// StrategyExternal submits the whole document to an external extraction
	// service and reconciles its payload onto the schema.
	StrategyExternal Strategy = "external"
)

// DefaultColumn is the single column used when a request carries no schema:
// one row per non-blank line of the section.
const DefaultColumn = "Text"

// Request describes one extraction. Request-scoped: created per upload,
// consumed once, never persisted beyond the response.
type Request struct {
	DocumentText string
	SectionHint  string
	Schema       Schema
	Strategy     Strategy
	Instructions string
	RequestID    string
}

// Result is the terminal state of a successful extraction.
type Result struct {
	Rows RowSet
	// Section is the located section text (empty on the external path,
	// where the document is handed to the service whole).
	Section string
}

// FileParser submits a document file to an external extraction service and
// returns the located structured payload.
type FileParser interface {
	ParseFile(ctx context.Context, path string) (any, error)
}

// Engine sequences the extraction strategies per request, with fallback
// ordering. Safe for concurrent use: it holds no per-request state.
type Engine struct {
	model      *ModelBuilder
	fileParser FileParser
	logger     *slog.Logger
}

// EngineConfig holds the engine's strategy dependencies. Model and External
// may be nil; the corresponding capability flag is resolved here, once, and
// queried by the orchestrator instead of probing the dependency.
type EngineConfig struct {
	Model    *ModelBuilder
	External FileParser
	Logger   *slog.Logger
}

// NewEngine creates an extraction engine.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Engine{
		model:      cfg.Model,
		fileParser: cfg.External,
		logger:     cfg.Logger,
	}
}

// ModelEnabled reports whether the model-assisted strategy is configured.
func (e *Engine) ModelEnabled() bool { return e.model != nil }

// ExternalEnabled reports whether the external-service strategy is configured.
func (e *Engine) ExternalEnabled() bool { return e.fileParser != nil }

// Extract runs the local text path: locate the section, then build rows via
// the model-assisted builder (when requested and configured) with rule-based
// fallback, or one row per non-blank line when no schema was given.
func (e *Engine) Extract(ctx context.Context, req Request) (*Result, error) {
	if req.Strategy == StrategyExternal {
		return nil, fmt.Errorf("external strategy needs a document file: %w", ErrServiceUnavailable)
	}
	if err := req.Schema.Validate(); err != nil {
		return nil, err
	}

	section, err := LocateSection(req.DocumentText, req.SectionHint)
	if err != nil {
		return nil, err
	}

	if len(req.Schema) == 0 {
		rows := lineRows(section)
		if len(rows) == 0 {
			return nil, ErrEmptyResult
		}
		return &Result{Rows: rows, Section: section}, nil
	}

	if req.Strategy == StrategyModel && e.model != nil {
		rows, err := e.model.BuildRows(ctx, section, req.Schema, req.Instructions)
		if err == nil && len(rows) > 0 {
			return &Result{Rows: rows, Section: section}, nil
		}
		if err != nil && !errors.Is(err, ErrServiceUnavailable) {
			return nil, err
		}
		e.logger.Info("model strategy unavailable, falling back to rule-based",
			"request_id", req.RequestID)
	}

	rows := BuildRows(section, req.Schema)
	if len(rows) == 0 {
		return nil, ErrEmptyResult
	}
	return &Result{Rows: rows, Section: section}, nil
}

// ExtractFile runs the external-service path: the document file is handed
// whole to the external endpoint and the returned payload is reconciled
// onto the schema. Requires a non-empty schema; rejected before dispatch
// otherwise. Any other strategy delegates to Extract using req.DocumentText.
func (e *Engine) ExtractFile(ctx context.Context, path string, req Request) (*Result, error) {
	if req.Strategy != StrategyExternal {
		return e.Extract(ctx, req)
	}
	if e.fileParser == nil {
		return nil, ErrServiceUnavailable
	}
	if len(req.Schema) == 0 {
		return nil, ErrSchemaRequired
	}
	if err := req.Schema.Validate(); err != nil {
		return nil, err
	}

	payload, err := e.fileParser.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}

	records, err := CoerceRows(payload)
	if err != nil {
		return nil, err
	}

	rows := ReconcileRows(records, req.Schema)
	if len(rows) == 0 {
		return nil, ErrEmptyResult
	}
	return &Result{Rows: rows}, nil
}

// lineRows produces one single-column row per non-blank line.
func lineRows(section string) RowSet {
	var rows RowSet
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows = append(rows, Row{DefaultColumn: line})
	}
	return rows
}
