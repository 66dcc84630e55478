package extract

import (
	"strings"
	"testing"
)

func TestSegmentItems(t *testing.T) {
	tests := []struct {
		name    string
		section string
		want    []string
	}{
		{
			name:    "empty_section",
			section: "",
			want:    nil,
		},
		{
			name:    "enumerated_entries",
			section: "1. First entry text\n2. Second entry text",
			want:    []string{"1. First entry text", "2. Second entry text"},
		},
		{
			name:    "proper_name_starts",
			section: "Smith, J. (2020). Study.\nJones, A. (2019). Other.",
			want:    []string{"Smith, J. (2020). Study.", "Jones, A. (2019). Other."},
		},
		{
			name:    "lowercase_continuation_merges",
			section: "Smith, J. (2020). A very\nlong title here.\n2. Next entry",
			want:    []string{"Smith, J. (2020). A very long title here.", "2. Next entry"},
		},
		{
			name:    "blank_lines_skipped",
			section: "1. First\n\n\n2. Second",
			want:    []string{"1. First", "2. Second"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentItems(tt.section)
			if len(got) != len(tt.want) {
				t.Fatalf("SegmentItems() = %d items %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("item %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSegmentItemsLengthBoundary(t *testing.T) {
	// A buffer past the length heuristic flushes even when the next line
	// would otherwise read as a continuation.
	long := strings.Repeat("word ", 35) // well past the buffered-item cap
	got := SegmentItems(long + "\nlowercase continuation line")
	if len(got) != 2 {
		t.Fatalf("SegmentItems() = %d items, want 2 (length boundary)", len(got))
	}
	if got[1] != "lowercase continuation line" {
		t.Errorf("second item = %q", got[1])
	}
}
