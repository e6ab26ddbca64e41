package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "krill.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[simulation]
scenario = "scenarios/drift.yaml"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Simulation.Scenario != "scenarios/drift.yaml" {
		t.Fatalf("scenario not read: %q", cfg.Simulation.Scenario)
	}
	if cfg.Simulation.TickRate != 200*time.Millisecond {
		t.Fatalf("tick rate default lost: %s", cfg.Simulation.TickRate)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("logging defaults lost: %+v", cfg.Logging)
	}
}

func TestLoadRejectsBadTickRate(t *testing.T) {
	path := writeConfig(t, `
[simulation]
tick_rate = "0s"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for zero tick rate")
	}
}

func TestLoadRejectsSnapshotWithoutInterval(t *testing.T) {
	path := writeConfig(t, `
[snapshot]
enabled = true
interval = 0
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for zero snapshot interval")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
