package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdfgrid/pdfgrid/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	mgr, err := config.NewManager("")
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	srv, err := New(Config{
		Host:          "127.0.0.1",
		Port:          "0",
		ConfigManager: mgr,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv
}

func TestNewRequiresConfigManager(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New() without config manager should fail")
	}
}

func TestServerWiring(t *testing.T) {
	srv := newTestServer(t)

	if srv.Addr() != "127.0.0.1:0" {
		t.Errorf("Addr() = %q", srv.Addr())
	}
	if srv.IsRunning() {
		t.Error("server should not report running before Start")
	}

	svcs := srv.Services()
	if svcs.Engine == nil || svcs.PDFText == nil || svcs.Converter == nil {
		t.Error("services not fully wired")
	}
	// No credentials in the test environment; optional strategies are off.
	if svcs.Engine.ExternalEnabled() {
		t.Error("external strategy should be disabled without credentials")
	}
}

func TestServerRoutes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/api/status", http.StatusOK},
		{"GET", "/nope", http.StatusNotFound},
		{"POST", "/api/export/csv", http.StatusBadRequest}, // empty body
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		srv.httpServer.Handler.ServeHTTP(rec, req)
		if rec.Code != tt.status {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.status)
		}
	}
}
