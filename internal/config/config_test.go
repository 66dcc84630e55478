package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != "8080" {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.Model.Model != "gpt-4.1-mini" || cfg.Model.Temperature != 0.1 {
		t.Errorf("model defaults = %+v", cfg.Model)
	}
	if cfg.External.TimeoutSeconds != 300 || cfg.External.PollIntervalSeconds != 2.5 {
		t.Errorf("external defaults = %+v", cfg.External)
	}
	if cfg.MaxFileSizeBytes() != 50<<20 {
		t.Errorf("MaxFileSizeBytes() = %d", cfg.MaxFileSizeBytes())
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("PDFGRID_TEST_KEY", "sk-12345")

	tests := []struct {
		in   string
		want string
	}{
		{"${PDFGRID_TEST_KEY}", "sk-12345"},
		{"prefix-${PDFGRID_TEST_KEY}-suffix", "prefix-sk-12345-suffix"},
		{"${PDFGRID_TEST_UNSET_VAR}", ""},
		{"no refs here", "no refs here"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ResolveEnvVars(tt.in); got != tt.want {
			t.Errorf("ResolveEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolvedCredentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-model")
	t.Setenv("EXTRACT_API_URL", "https://svc.example.com/api")
	t.Setenv("EXTRACT_API_KEY", "svc-key")

	cfg := DefaultConfig()
	if got := cfg.ResolvedModelKey(); got != "sk-model" {
		t.Errorf("ResolvedModelKey() = %q", got)
	}
	url, key := cfg.ResolvedExternal()
	if url != "https://svc.example.com/api" || key != "svc-key" {
		t.Errorf("ResolvedExternal() = %q, %q", url, key)
	}
}

func TestManagerLoadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `server:
  host: 0.0.0.0
  port: "9090"
uploads:
  max_file_size_mb: 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	cfg := mgr.Get()
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != "9090" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Uploads.MaxFileSizeMB != 10 {
		t.Errorf("max file size = %d", cfg.Uploads.MaxFileSizeMB)
	}
	// Unset keys keep defaults.
	if cfg.Model.Model != "gpt-4.1-mini" {
		t.Errorf("model default lost: %+v", cfg.Model)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"${OPENAI_API_KEY}", "output_dir", "poll_interval_seconds"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("written config missing %q", want)
		}
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() on written default error = %v", err)
	}
	if mgr.Get().Server.Port != "8080" {
		t.Errorf("round-tripped port = %q", mgr.Get().Server.Port)
	}
}
