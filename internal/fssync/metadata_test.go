package fssync

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vault-md/scriptvault/internal/script"
)

func TestBuildMetadata(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 600_000_000, time.UTC)
	items := []script.Item{
		{ID: "1", Name: "synced", Language: script.Python, CreatedAt: created, UpdatedAt: created, FilePath: "custom.py", ContentHash: "h1"},
		{ID: "2", Name: "local only", Language: script.Python},
		{ID: "3", Name: "query", Language: script.SQL},
	}

	doc := BuildMetadata(items, nil, epoch)

	if doc.Count != 3 || doc.ExportedAt != "2024-03-01T12:00:00.000Z" {
		t.Fatalf("unexpected header count=%d exportedAt=%q", doc.Count, doc.ExportedAt)
	}
	if diff := cmp.Diff([]script.Language{script.Python, script.SQL}, doc.Languages); diff != "" {
		t.Fatalf("unexpected languages (-want +got):\n%s", diff)
	}
	want := []MetadataItem{
		{ID: "1", Name: "synced", Language: script.Python, Filename: "custom.py",
			CreatedAt: "2024-01-02T03:04:05.600Z", UpdatedAt: "2024-01-02T03:04:05.600Z", ContentHash: "h1"},
		{ID: "2", Name: "local only", Language: script.Python, Filename: "local-only.py"},
		{ID: "3", Name: "query", Language: script.SQL, Filename: "query.sql"},
	}
	if diff := cmp.Diff(want, doc.Items); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}
	if doc.Settings != nil {
		t.Fatalf("expected no settings echo without a source")
	}
}

func TestBuildMetadataEmpty(t *testing.T) {
	doc := BuildMetadata(nil, nil, epoch)
	if doc.Count != 0 || doc.Languages == nil || doc.Items == nil {
		t.Fatalf("expected empty but non-nil lists, got %+v", doc)
	}
}

func TestParseMetadata(t *testing.T) {
	if parseMetadata("not json") != nil {
		t.Fatalf("expected nil for malformed document")
	}
	if parseMetadata(`["not", "an", "object"]`) != nil {
		t.Fatalf("expected nil for non-object document")
	}
	if doc := parseMetadata(`{"items": "wrong type"}`); doc == nil || len(doc.Items) != 0 {
		t.Fatalf("expected empty document for mistyped items, got %+v", doc)
	}

	doc := parseMetadata(`{"items":[{"name":"a.js"},{"filename":"b.js","id":"first"},{"filename":"b.js","id":"second"},{}]}`)
	if doc == nil {
		t.Fatalf("expected document")
	}
	index := doc.index()
	if len(index) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(index))
	}
	if index["a.js"] == nil {
		t.Fatalf("expected name to act as filename fallback")
	}
	if index["b.js"].ID != "first" {
		t.Fatalf("expected first record to win, got %q", index["b.js"].ID)
	}

	var missing *Metadata
	if missing.index() != nil {
		t.Fatalf("expected nil index for nil document")
	}
}

func TestParseMetadataKeepsRecordsDespiteMistypedFields(t *testing.T) {
	raw := `{
		"count": "1",
		"app": {"name": "Script Vault", "version": "1.0"},
		"settings": {"lastSyncAt": 42},
		"items": [
			{"id": "keep", "name": "Keep", "filename": "keep.js"},
			{"id": 5, "filename": "bad.js"},
			"not a record",
			{"id": "also", "filename": "also.py", "description": "fine"}
		]
	}`

	doc := parseMetadata(raw)
	if doc == nil {
		t.Fatalf("expected document")
	}
	want := []MetadataItem{
		{ID: "keep", Name: "Keep", Filename: "keep.js"},
		{ID: "also", Filename: "also.py", Description: "fine"},
	}
	if diff := cmp.Diff(want, doc.Items); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}
}

func TestInstants(t *testing.T) {
	if FormatInstant(time.Time{}) != "" {
		t.Fatalf("expected zero time to format empty")
	}

	local := time.FixedZone("UTC+2", 2*60*60)
	in := time.Date(2024, 5, 6, 9, 0, 0, 123_456_789, local)
	formatted := FormatInstant(in)
	if formatted != "2024-05-06T07:00:00.123Z" {
		t.Fatalf("unexpected format %q", formatted)
	}

	parsed, ok := ParseInstant(formatted)
	if !ok || !parsed.Equal(in.Truncate(time.Millisecond)) {
		t.Fatalf("unexpected parse %v ok=%v", parsed, ok)
	}
	for _, bad := range []string{"", "  ", "yesterday"} {
		if _, ok := ParseInstant(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
