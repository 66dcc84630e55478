package external

import (
	"reflect"
	"testing"
)

func TestLocateOutput(t *testing.T) {
	rows := []any{map[string]any{"Author": "Smith"}}

	tests := []struct {
		name   string
		result any
		want   any
	}{
		{
			name: "file_list_result_output",
			result: []any{map[string]any{
				"result": map[string]any{"output": rows},
			}},
			want: rows,
		},
		{
			name: "file_list_result_metadata_output",
			result: []any{map[string]any{
				"result": map[string]any{
					"metadata": map[string]any{"output": rows},
				},
			}},
			want: rows,
		},
		{
			name: "file_list_nested_result",
			result: []any{map[string]any{
				"result": map[string]any{"result": rows},
			}},
			want: rows,
		},
		{
			name: "file_list_json_encoded_result",
			result: []any{map[string]any{
				"result": `{"output": [{"Author": "Smith"}]}`,
			}},
			want: rows,
		},
		{
			name: "file_list_result_itself",
			result: []any{map[string]any{
				"result": map[string]any{"Author": "Smith"},
			}},
			want: map[string]any{"Author": "Smith"},
		},
		{
			name: "file_object_output",
			result: []any{map[string]any{
				"output": rows,
			}},
			want: rows,
		},
		{
			name:   "record_output",
			result: map[string]any{"output": rows},
			want:   rows,
		},
		{
			name:   "record_result",
			result: map[string]any{"result": rows},
			want:   rows,
		},
		{
			name:   "record_itself",
			result: map[string]any{"Author": "Smith"},
			want:   map[string]any{"Author": "Smith"},
		},
		{
			name:   "json_string",
			result: `[{"Author": "Smith"}]`,
			want:   rows,
		},
		{
			name:   "empty_list",
			result: []any{},
			want:   nil,
		},
		{
			name:   "non_record_list",
			result: []any{"just text"},
			want:   nil,
		},
		{
			name:   "undecodable_string",
			result: "plain prose",
			want:   nil,
		},
		{
			name:   "nil_input",
			result: nil,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := locateOutput(tt.result)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("locateOutput() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
