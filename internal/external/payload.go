package external

import "encoding/json"

// locateOutput finds the structured payload inside whatever the service
// returned as extraction_result. Deployments vary; the locations are tried
// in order:
//   - a list of per-file results: the first file's "result" field (itself
//     possibly JSON-encoded text), then that result's "output", else its
//     "metadata.output", else its "result", else the result object itself;
//     or the file object's own "output" field
//   - a record: its "output" or "result" keys, else the record itself
//   - a string: its JSON decoding
//
// Returns nil when nothing usable is found.
func locateOutput(extractionResult any) any {
	switch v := extractionResult.(type) {
	case []any:
		if len(v) == 0 {
			return nil
		}
		// Single-file upload path: only the first file object matters.
		fileObj, ok := v[0].(map[string]any)
		if !ok {
			return nil
		}
		if res := decodeResult(fileObj["result"]); res != nil {
			if out, ok := res["output"]; ok {
				return out
			}
			if md, ok := res["metadata"].(map[string]any); ok {
				if out, ok := md["output"]; ok {
					return out
				}
			}
			if out, ok := res["result"]; ok {
				return out
			}
			return res
		}
		if out, ok := fileObj["output"]; ok {
			return out
		}
		return nil

	case map[string]any:
		if out, ok := v["output"]; ok {
			return out
		}
		if out, ok := v["result"]; ok {
			return out
		}
		return v

	case string:
		var decoded any
		if err := json.Unmarshal([]byte(v), &decoded); err != nil {
			return nil
		}
		return decoded
	}
	return nil
}

// decodeResult coerces a file object's result field into a record,
// decoding JSON-encoded text when needed.
func decodeResult(res any) map[string]any {
	switch v := res.(type) {
	case map[string]any:
		return v
	case string:
		var decoded map[string]any
		if err := json.Unmarshal([]byte(v), &decoded); err != nil {
			return nil
		}
		return decoded
	}
	return nil
}
