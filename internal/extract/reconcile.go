package extract

import (
	"encoding/json"
	"sort"
)

// rowSequenceKeys are tried in order when a record payload wraps its row
// sequence under a well-known key.
var rowSequenceKeys = []string{"rows", "data", "items", "records", "results"}

// CoerceRows coerces an arbitrary JSON-like payload into a sequence of
// records. Accepted shapes: a JSON-encoded string (decoded first), a list
// (filtered to record-typed elements), a record wrapping the sequence under
// one of rowSequenceKeys, or a single record (one-row sequence). Returns
// ErrNoStructuredOutput when nothing record-shaped can be found.
func CoerceRows(payload any) ([]map[string]any, error) {
	if payload == nil {
		return nil, ErrNoStructuredOutput
	}

	if s, ok := payload.(string); ok {
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return nil, ErrNoStructuredOutput
		}
		payload = decoded
	}

	switch v := payload.(type) {
	case []any:
		rows := recordsOnly(v)
		if len(rows) == 0 {
			return nil, ErrNoStructuredOutput
		}
		return rows, nil
	case []map[string]any:
		if len(v) == 0 {
			return nil, ErrNoStructuredOutput
		}
		return v, nil
	case map[string]any:
		for _, key := range rowSequenceKeys {
			if list, ok := v[key].([]any); ok {
				if rows := recordsOnly(list); len(rows) > 0 {
					return rows, nil
				}
			}
		}
		// Treat the record itself as a single row.
		return []map[string]any{v}, nil
	}
	return nil, ErrNoStructuredOutput
}

func recordsOnly(list []any) []map[string]any {
	var rows []map[string]any
	for _, el := range list {
		if rec, ok := el.(map[string]any); ok {
			rows = append(rows, rec)
		}
	}
	return rows
}

// ReconcileRows remaps externally-produced records onto the requested
// schema by normalized-key matching. Unmatched columns resolve to the empty
// string and rows with no non-empty value are dropped. If the mapping
// leaves zero rows with any value, the original unmapped rows are returned
// instead: showing raw fields beats showing nothing. With an empty schema
// the raw rows are returned as-is.
func ReconcileRows(records []map[string]any, schema Schema) RowSet {
	raw := make(RowSet, 0, len(records))
	for _, rec := range records {
		raw = append(raw, rawRow(rec))
	}
	if len(schema) == 0 {
		return raw
	}

	mapped := make(RowSet, 0, len(records))
	for _, rec := range records {
		// Sort keys before indexing so that normalized-key collisions
		// resolve first-seen deterministically.
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		index := make(map[string]string, len(rec))
		for _, k := range keys {
			norm := NormalizeKey(k)
			if _, exists := index[norm]; !exists {
				index[norm] = k
			}
		}

		row := make(Row, len(schema))
		for _, col := range schema {
			if src, ok := index[NormalizeKey(col.Name)]; ok {
				row[col.Name] = stringify(rec[src])
			} else {
				row[col.Name] = ""
			}
		}
		if row.HasValue() {
			mapped = append(mapped, row)
		}
	}

	if len(mapped) == 0 {
		return raw
	}
	return mapped
}

func rawRow(rec map[string]any) Row {
	row := make(Row, len(rec))
	for k, v := range rec {
		row[k] = stringify(v)
	}
	return row
}
