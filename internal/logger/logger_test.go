package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	got := sanitizeKVs([]interface{}{"geminiApiKey", "sk-123", "file", "a.js", "token", "t", "dangling"})
	want := []interface{}{"geminiApiKey", "[REDACTED]", "file", "a.js", "token", "[REDACTED]", "dangling"}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatalf("expected invalid level to fail")
	}
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatalf("expected invalid format to fail")
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scriptvault.log")
	log, err := New(Options{Level: "debug", Format: "json", File: path})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	log.With("folder", "demo").Info("synced", "files", 2, "openai_api_key", "secret")
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"synced"`) || !strings.Contains(out, `"folder":"demo"`) {
		t.Fatalf("unexpected log output %s", out)
	}
	if strings.Contains(out, "secret") {
		t.Fatalf("api key leaked into log: %s", out)
	}
}
