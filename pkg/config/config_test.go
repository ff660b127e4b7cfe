package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Service.URL != DefaultServiceURL {
		t.Errorf("expected default service URL, got %q", cfg.Service.URL)
	}
	if cfg.UI.CatalogLimit != 10 {
		t.Errorf("expected default catalog limit 10, got %d", cfg.UI.CatalogLimit)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	want := Config{
		Service: ServiceConfig{URL: "http://amlsvc:9000/api", Timeout: 30},
		UI:      UIConfig{CatalogLimit: 25},
	}
	if err := SaveTo(want, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got != want {
		t.Errorf("roundtrip mismatch:\n got  %+v\n want %+v", got, want)
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("service: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error for invalid YAML")
	}
}

func TestLoadFromFillsZeroValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("service:\n  timeout: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Service.URL != DefaultServiceURL {
		t.Errorf("empty service URL should fall back to default, got %q", cfg.Service.URL)
	}
	if cfg.UI.CatalogLimit != 10 {
		t.Errorf("zero catalog limit should fall back to 10, got %d", cfg.UI.CatalogLimit)
	}
	if cfg.Service.Timeout != 5 {
		t.Errorf("explicit timeout should survive load, got %d", cfg.Service.Timeout)
	}
}
