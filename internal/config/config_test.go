package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("missing file produced %+v", cfg)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ember.toml")
	body := "max_diagnostics = 7\nlisting = false\ncolor = \"off\"\ntab_width = 8\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxDiagnostics != 7 || cfg.Listing || cfg.Color != "off" || cfg.TabWidth != 8 {
		t.Fatalf("loaded %+v", cfg)
	}
}

func TestLoad_Sanitizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ember.toml")
	if err := os.WriteFile(path, []byte("max_diagnostics = -1\ncolor = \"pink\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxDiagnostics != 100 || cfg.Color != "auto" {
		t.Fatalf("sanitized to %+v", cfg)
	}
}
