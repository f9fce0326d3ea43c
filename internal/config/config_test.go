package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := DefaultConfig()
	if cfg.General.InputCSV != want.General.InputCSV {
		t.Errorf("InputCSV = %q, want %q", cfg.General.InputCSV, want.General.InputCSV)
	}
	if cfg.Appearance.Theme != "flexoki-dark" {
		t.Errorf("Theme = %q, want flexoki-dark", cfg.Appearance.Theme)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.General.InputCSV = "/data/raw/q3.csv"
	cfg.Dashboard.Department = "Sales"
	cfg.Dashboard.RangeMonths = 6
	cfg.Appearance.Theme = "tokyo-night"

	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.General.InputCSV != "/data/raw/q3.csv" {
		t.Errorf("InputCSV = %q", got.General.InputCSV)
	}
	if got.Dashboard.Department != "Sales" || got.Dashboard.RangeMonths != 6 {
		t.Errorf("Dashboard = %+v", got.Dashboard)
	}
	if got.Appearance.Theme != "tokyo-night" {
		t.Errorf("Theme = %q", got.Appearance.Theme)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if err := os.MkdirAll(filepath.Join(dir, "finkpi"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "finkpi", "config.toml"), []byte("not = [valid"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("expected error for malformed config")
	}
}
