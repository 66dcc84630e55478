package endpoints

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pdfgrid/pdfgrid/internal/config"
	"github.com/pdfgrid/pdfgrid/internal/extract"
	"github.com/pdfgrid/pdfgrid/internal/svcctx"
)

// testRequest builds a request carrying a service context with a bare
// rule-based engine.
func testRequest(t *testing.T, method, target string, body io.Reader) *http.Request {
	t.Helper()
	services := &svcctx.Services{
		Engine: extract.NewEngine(extract.EngineConfig{}),
		Config: config.DefaultConfig(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(svcctx.WithServices(req.Context(), services))
}

func TestHealthEndpoint(t *testing.T) {
	_, _, handler := (&HealthEndpoint{}).Route()
	rec := httptest.NewRecorder()
	handler(rec, testRequest(t, "GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q", resp.Status)
	}
}

func TestStatusEndpoint(t *testing.T) {
	_, _, handler := (&StatusEndpoint{}).Route()
	rec := httptest.NewRecorder()
	handler(rec, testRequest(t, "GET", "/api/status", nil))

	var resp StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Server != "running" {
		t.Errorf("server = %q", resp.Server)
	}
	if resp.ModelEnabled || resp.ExternalEnabled {
		t.Error("bare engine should report no optional strategies")
	}
}

func postParseText(t *testing.T, body ParseTextRequest) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	_, _, handler := (&ParseTextEndpoint{}).Route()
	rec := httptest.NewRecorder()
	handler(rec, testRequest(t, "POST", "/api/parse/text", bytes.NewReader(data)))
	return rec
}

func TestParseTextEndpoint(t *testing.T) {
	t.Run("rule_extraction", func(t *testing.T) {
		rec := postParseText(t, ParseTextRequest{
			DocumentText:  "intro\nReferences\n1. Smith, J. (2020). The Study. Academic Press.",
			SectionPrompt: "References",
			Columns: []extract.ColumnSpec{
				{Name: "Author", Type: "name"},
				{Name: "Year", Type: "date"},
			},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
		}
		var resp ParseResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if !resp.Success || resp.Count != 1 {
			t.Errorf("resp = %+v", resp)
		}
		if resp.Data[0]["Author"] != "Smith, J." || resp.Data[0]["Year"] != "2020" {
			t.Errorf("row = %v", resp.Data[0])
		}
		if resp.PreviewText == "" {
			t.Error("preview should carry located section text")
		}
	})

	t.Run("missing_document_text", func(t *testing.T) {
		rec := postParseText(t, ParseTextRequest{SectionPrompt: "References"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("external_engine_rejected", func(t *testing.T) {
		rec := postParseText(t, ParseTextRequest{DocumentText: "text", Engine: "external"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("duplicate_columns_rejected", func(t *testing.T) {
		rec := postParseText(t, ParseTextRequest{
			DocumentText: "text",
			Columns:      []extract.ColumnSpec{{Name: "A"}, {Name: "A"}},
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("section_not_found", func(t *testing.T) {
		rec := postParseText(t, ParseTextRequest{
			DocumentText:  "nothing relevant here",
			SectionPrompt: "Glossary",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		var resp ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(resp.Error, "section") {
			t.Errorf("error = %q", resp.Error)
		}
	})

	t.Run("invalid_json_body", func(t *testing.T) {
		_, _, handler := (&ParseTextEndpoint{}).Route()
		rec := httptest.NewRecorder()
		handler(rec, testRequest(t, "POST", "/api/parse/text", strings.NewReader("{broken")))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestExportEndpoints(t *testing.T) {
	body := ExportRequest{
		Data:    extract.RowSet{{"Author": "Smith", "Year": "2020"}},
		Columns: []string{"Author", "Year"},
	}
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("csv", func(t *testing.T) {
		_, _, handler := (&ExportCSVEndpoint{}).Route()
		rec := httptest.NewRecorder()
		handler(rec, testRequest(t, "POST", "/api/export/csv", bytes.NewReader(data)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
			t.Errorf("Content-Type = %q", ct)
		}
		if got := rec.Body.String(); !strings.HasPrefix(got, "Author,Year\n") {
			t.Errorf("body = %q", got)
		}
	})

	t.Run("xlsx", func(t *testing.T) {
		_, _, handler := (&ExportXLSXEndpoint{}).Route()
		rec := httptest.NewRecorder()
		handler(rec, testRequest(t, "POST", "/api/export/xlsx", bytes.NewReader(data)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "parsed_data.xlsx") {
			t.Errorf("Content-Disposition = %q", cd)
		}
	})

	t.Run("empty_data_rejected", func(t *testing.T) {
		_, _, handler := (&ExportCSVEndpoint{}).Route()
		rec := httptest.NewRecorder()
		handler(rec, testRequest(t, "POST", "/api/export/csv", strings.NewReader(`{"data":[]}`)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestRequestedStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want extract.Strategy
	}{
		{"", extract.StrategyRule},
		{"rule", extract.StrategyRule},
		{"model", extract.StrategyModel},
		{"AI", extract.StrategyModel},
		{"external", extract.StrategyExternal},
		{"unknown", extract.StrategyRule},
	}
	for _, tt := range tests {
		if got := requestedStrategy(tt.in); got != tt.want {
			t.Errorf("requestedStrategy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSectionPreview(t *testing.T) {
	short := "short section"
	if got := sectionPreview(short); got != short {
		t.Errorf("got %q", got)
	}
	long := strings.Repeat("a", previewLimit+10)
	got := sectionPreview(long)
	if len(got) != previewLimit+3 || !strings.HasSuffix(got, "...") {
		t.Errorf("preview length = %d", len(got))
	}
}

func TestSectionPreviewKeepsValidUTF8(t *testing.T) {
	// 3-byte runes, sized so the byte cap falls inside a rune.
	long := strings.Repeat("日", previewLimit/3+10)
	got := sectionPreview(long)
	if !utf8.ValidString(got) {
		t.Error("preview is not valid UTF-8")
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("preview = %q, want truncation marker", got[len(got)-10:])
	}
}
