package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// maxSectionChars caps the section text sent to the model. Truncation is
// silent; it bounds cost and latency on very long sections.
const maxSectionChars = 8000

// modelSystemPrompt fixes the output contract for the model call.
const modelSystemPrompt = "You are an expert document parsing engine. " +
	"Given raw text from a document section and a list of target columns, " +
	"you extract a list of rows as strict JSON. " +
	"Each row MUST be a JSON object with exactly the specified column names as keys. " +
	"Return ONLY a JSON array or an object with a 'rows' array, with no extra text."

// ModelConfig holds configuration for the model-assisted builder.
type ModelConfig struct {
	APIKey      string
	Model       string
	BaseURL     string        // Optional (alternate OpenAI-compatible endpoint, tests)
	Timeout     time.Duration // HTTP timeout (default 60s)
	Temperature float64       // Sampling temperature (default 0.1, near-deterministic)
	HTTPClient  *http.Client  // Optional (tests)
	Logger      *slog.Logger
}

// ModelBuilder delegates row extraction to a chat-completion model with a
// schema-constrained prompt, then validates and projects the response onto
// the requested schema.
type ModelBuilder struct {
	client      openai.Client
	model       string
	temperature float64
	logger      *slog.Logger
}

// NewModelBuilder creates a model-assisted builder. Returns nil if no API
// key is configured; callers treat a nil builder as strategy-unavailable.
func NewModelBuilder(cfg ModelConfig) *ModelBuilder {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4.1-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &ModelBuilder{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}
}

// BuildRows sends one chat request and projects the response onto the
// schema. Every failure mode (network, status, parse, malformed shape)
// returns ErrServiceUnavailable so the caller can fall back to the
// rule-based builder; no partial result is ever returned.
func (m *ModelBuilder) BuildRows(ctx context.Context, section string, schema Schema, instructions string) (RowSet, error) {
	resp, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(m.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(modelSystemPrompt),
			openai.UserMessage(buildUserPrompt(section, schema, instructions)),
		},
		Temperature: openai.Float(m.temperature),
	})
	if err != nil {
		m.logger.Warn("model call failed", "error", err)
		return nil, fmt.Errorf("model request: %w", ErrServiceUnavailable)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices: %w", ErrServiceUnavailable)
	}

	rows, err := projectModelRows(resp.Choices[0].Message.Content, schema)
	if err != nil {
		m.logger.Warn("model response rejected", "error", err)
		return nil, fmt.Errorf("model response: %w", ErrServiceUnavailable)
	}
	return rows, nil
}

// buildUserPrompt lists each column's name, type, and pattern hint, then
// the (truncated) section text, plus optional free-text instructions.
func buildUserPrompt(section string, schema Schema, instructions string) string {
	var b strings.Builder
	b.WriteString("Parse the following text into rows.\n")
	if instructions != "" {
		b.WriteString("Additional instructions from the user: " + instructions + "\n")
	}
	b.WriteString("\nColumns schema:\n")
	for _, col := range schema {
		b.WriteString(" - name: " + col.Name)
		colType := col.Type
		if colType == "" {
			colType = TypeText
		}
		b.WriteString(", type: " + colType)
		if col.Pattern != "" {
			b.WriteString(", regex_hint: " + col.Pattern)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nText to parse:\n")
	if len(section) > maxSectionChars {
		// Back the cut off to a rune boundary so the prompt stays valid UTF-8.
		cut := maxSectionChars
		for cut > 0 && !utf8.RuneStart(section[cut]) {
			cut--
		}
		section = section[:cut]
	}
	b.WriteString(section)
	return b.String()
}

// projectModelRows parses the model payload as JSON (with code-fence and
// surrounding-text recovery), validates the row list shape, and projects
// each record onto the schema: keys outside the schema are dropped, missing
// keys become empty strings, and all-empty rows are discarded.
func projectModelRows(content string, schema Schema) (RowSet, error) {
	parsed, err := parseModelJSON(content)
	if err != nil {
		return nil, err
	}

	var list []any
	switch v := parsed.(type) {
	case []any:
		list = v
	case map[string]any:
		inner, ok := v["rows"].([]any)
		if !ok {
			return nil, fmt.Errorf("response object has no rows array")
		}
		list = inner
	default:
		return nil, fmt.Errorf("response is neither array nor object")
	}

	if err := validateRowList(list); err != nil {
		return nil, err
	}

	var rows RowSet
	for _, el := range list {
		rec, ok := el.(map[string]any)
		if !ok {
			continue
		}
		row := make(Row, len(schema))
		for _, col := range schema {
			row[col.Name] = stringify(rec[col.Name])
		}
		if row.HasValue() {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// rowListSchema constrains the coerced model output: an array whose
// elements are records of scalar values.
var rowListSchema = mustCompileSchema(`{
	"type": "array",
	"items": {
		"type": "object",
		"additionalProperties": {
			"type": ["string", "number", "boolean", "null"]
		}
	}
}`)

func mustCompileSchema(doc string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("rows.json", bytes.NewReader([]byte(doc))); err != nil {
		panic(err)
	}
	return compiler.MustCompile("rows.json")
}

// validateRowList rejects row lists whose elements are not flat records.
func validateRowList(list []any) error {
	if err := rowListSchema.Validate(list); err != nil {
		return fmt.Errorf("row list does not match expected shape: %w", err)
	}
	return nil
}

// parseModelJSON parses JSON from model output, with lightweight recovery
// for markdown code fences and surrounding prose.
func parseModelJSON(content string) (any, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty response")
	}

	candidates := []string{content}
	if stripped := stripCodeFences(content); stripped != "" && stripped != content {
		candidates = append(candidates, stripped)
	}
	if extracted := extractJSONCandidate(content); extracted != "" && extracted != content {
		candidates = append(candidates, extracted)
	}

	for _, candidate := range candidates {
		var parsed any
		if err := json.Unmarshal([]byte(candidate), &parsed); err == nil {
			return parsed, nil
		}
	}
	return nil, fmt.Errorf("failed to parse response JSON")
}

func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}

	// Drop first fence line, and the trailing fence if present.
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func extractJSONCandidate(content string) string {
	trimmed := strings.TrimSpace(content)

	objectStart := strings.Index(trimmed, "{")
	arrayStart := strings.Index(trimmed, "[")

	start := -1
	closeChar := ""
	switch {
	case arrayStart >= 0 && (objectStart < 0 || arrayStart < objectStart):
		start = arrayStart
		closeChar = "]"
	case objectStart >= 0:
		start = objectStart
		closeChar = "}"
	default:
		return ""
	}

	end := strings.LastIndex(trimmed, closeChar)
	if end < start {
		return ""
	}
	return strings.TrimSpace(trimmed[start : end+1])
}
