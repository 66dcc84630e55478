// Package extract implements the structured-row extraction engine.
// Given raw document text (or a structured payload from an external
// extraction service) and a user-supplied column schema, it produces
// rows whose keys exactly match the requested schema.
package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Semantic types a column can declare. A column with no type (or "text")
// falls back to name-based dispatch in the field extractor.
const (
	TypeText        = "text"
	TypeDate        = "date"
	TypeName        = "name"
	TypeTitle       = "title"
	TypeInstitution = "institution"
	TypeOrigin      = "origin"
)

// ColumnSpec describes one requested output column.
type ColumnSpec struct {
	// Name is the output key for this column. Required, unique within a schema.
	Name string `json:"name"`
	// Type is the semantic type hint (date, name, title, institution, origin).
	Type string `json:"type,omitempty"`
	// Pattern is an optional regular expression hint. If it fails to compile
	// it is treated as a literal substring search.
	Pattern string `json:"pattern,omitempty"`
}

// Schema is the ordered list of requested columns for one request.
type Schema []ColumnSpec

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for _, c := range s {
		names = append(names, c.Name)
	}
	return names
}

// Validate checks that every column has a non-empty name and that names
// are unique within the schema.
func (s Schema) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for i, c := range s {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("column %d has an empty name", i)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("duplicate column name %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// ParseSchema decodes a JSON array of column specs.
func ParseSchema(data []byte) (Schema, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse columns: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Row is one extracted record. For the rule-based and reconciled paths the
// key set is exactly the schema's name set; the raw-fallback path of the
// reconciler may carry the source's own keys instead.
type Row map[string]string

// HasValue reports whether any value in the row is non-empty after trimming.
func (r Row) HasValue() bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// RowSet is an ordered sequence of rows. Order follows document appearance
// for rule-based extraction and service/model-reported order otherwise.
// Not deduplicated.
type RowSet []Row

// stringify renders an arbitrary JSON-decoded value as a cell string.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
