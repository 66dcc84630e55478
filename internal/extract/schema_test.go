package extract

import "testing"

func TestParseSchema(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s, err := ParseSchema([]byte(`[{"name":"Author","type":"name"},{"name":"Year","pattern":"\\d{4}"}]`))
		if err != nil {
			t.Fatalf("ParseSchema() error = %v", err)
		}
		if len(s) != 2 || s[0].Name != "Author" || s[1].Pattern != `\d{4}` {
			t.Errorf("schema = %+v", s)
		}
	})

	t.Run("empty_input", func(t *testing.T) {
		s, err := ParseSchema(nil)
		if err != nil || s != nil {
			t.Errorf("ParseSchema(nil) = %v, %v", s, err)
		}
	})

	t.Run("bad_json", func(t *testing.T) {
		if _, err := ParseSchema([]byte(`{not json`)); err == nil {
			t.Error("want error for malformed JSON")
		}
	})

	t.Run("duplicate_names", func(t *testing.T) {
		if _, err := ParseSchema([]byte(`[{"name":"A"},{"name":"A"}]`)); err == nil {
			t.Error("want error for duplicate names")
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		if _, err := ParseSchema([]byte(`[{"name":"  "}]`)); err == nil {
			t.Error("want error for blank name")
		}
	})
}

func TestRowHasValue(t *testing.T) {
	if (Row{"a": "", "b": "  "}).HasValue() {
		t.Error("whitespace-only row should have no value")
	}
	if !(Row{"a": "", "b": "x"}).HasValue() {
		t.Error("row with one non-empty cell should have value")
	}
}
