package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetVaultDirWithExplicitEnv(t *testing.T) {
	tmpDir := t.TempDir()
	customDir := filepath.Join(tmpDir, "custom")

	t.Setenv("SCRIPT_VAULT_DIR", customDir)
	t.Setenv("XDG_DATA_HOME", "")

	got := GetVaultDir()
	if got != customDir {
		t.Fatalf("expected %q, got %q", customDir, got)
	}
}

func TestGetVaultDirFallsBackToXDG(t *testing.T) {
	tmpDir := t.TempDir()
	xdgDir := filepath.Join(tmpDir, "xdg")

	t.Setenv("SCRIPT_VAULT_DIR", "")
	t.Setenv("XDG_DATA_HOME", xdgDir)

	got := GetVaultDir()
	want := filepath.Join(xdgDir, "script-vault")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestGetDBPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("SCRIPT_VAULT_DIR", tmpDir)

	if got, want := GetDBPath(), filepath.Join(tmpDir, "state.db"); got != want {
		t.Fatalf("GetDBPath expected %q, got %q", want, got)
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "console" {
		t.Fatalf("unexpected log defaults %+v", cfg.Log)
	}
	if cfg.Sync.ReadConcurrency != 8 {
		t.Fatalf("unexpected read concurrency %d", cfg.Sync.ReadConcurrency)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Fatalf("unexpected debounce %v", cfg.Watch.Debounce)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("SCRIPTVAULT_LOG_LEVEL", "debug")

	dir := filepath.Join(configHome, "script-vault")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	yaml := "log:\n  level: info\n  format: json\nwatch:\n  debounce: 2s\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected env to override file, got %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" || cfg.Watch.Debounce != 2*time.Second {
		t.Fatalf("expected file values, got %+v", cfg)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit file")
	}
}
