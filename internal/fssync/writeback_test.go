package fssync

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vault-md/scriptvault/internal/filesystem"
	"github.com/vault-md/scriptvault/internal/script"
)

func TestWriteAllKeepsStableFilename(t *testing.T) {
	dir := newTestDir()
	dir.Put("Old-Name.js", "v1", epoch)

	items := []script.Item{{ID: "x", Name: "Old-Name", Language: script.JavaScript, Content: "v2", FilePath: "Old-Name.js"}}

	written, err := newTestEngine(t).WriteAll(context.Background(), dir, items, nil)
	if err != nil {
		t.Fatalf("WriteAll returned error: %v", err)
	}
	if written[0].FilePath != "Old-Name.js" {
		t.Fatalf("expected Old-Name.js, got %q", written[0].FilePath)
	}
	if got := dir.Removed(); len(got) != 0 {
		t.Fatalf("expected no deletes, got %v", got)
	}
	if content, _ := dir.Content("Old-Name.js"); content != "v2" {
		t.Fatalf("expected updated content, got %q", content)
	}
}

func TestWriteAllRefreshesSyncFields(t *testing.T) {
	dir := newTestDir()
	items := []script.Item{{ID: "x", Name: "Hello World", Language: script.Python, Content: "print()"}}

	written, err := newTestEngine(t).WriteAll(context.Background(), dir, items, nil)
	if err != nil {
		t.Fatalf("WriteAll returned error: %v", err)
	}

	got := written[0]
	if got.FilePath != "Hello-World.py" {
		t.Fatalf("unexpected filename %q", got.FilePath)
	}
	if got.ContentHash != filesystem.Fingerprint("print()") {
		t.Fatalf("unexpected fingerprint %q", got.ContentHash)
	}
	info, err := dir.Stat(context.Background(), "Hello-World.py")
	if err != nil {
		t.Fatalf("Stat returned error: %v", err)
	}
	if !got.DiskModifiedAt.Equal(info.ModTime) {
		t.Fatalf("expected disk time %v, got %v", info.ModTime, got.DiskModifiedAt)
	}
	if items[0].FilePath != "" {
		t.Fatalf("WriteAll must not modify its input")
	}
}

func TestWriteAllRemovesRenamedFile(t *testing.T) {
	dir := newTestDir()
	dir.Put("before.js", "x", epoch)

	items := []script.Item{{ID: "x", Name: "after", Language: script.JavaScript, Content: "x", FilePath: "before.js"}}

	if _, err := newTestEngine(t).WriteAll(context.Background(), dir, items, nil); err != nil {
		t.Fatalf("WriteAll returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"after.js", "metadata.json"}, dir.Names()); diff != "" {
		t.Fatalf("unexpected folder contents (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"after.js", "metadata.json"}, dir.Writes()); diff != "" {
		t.Fatalf("expected new file before metadata (-want +got):\n%s", diff)
	}
}

func TestWriteAllKeepsFileClaimedByAnotherItem(t *testing.T) {
	dir := newTestDir()
	dir.Put("a.js", "old a", epoch)
	dir.Put("b.js", "old b", epoch)

	// a is renamed to b and the item formerly at b is renamed to c.
	items := []script.Item{
		{ID: "1", Name: "b", Language: script.JavaScript, Content: "was a", FilePath: "a.js"},
		{ID: "2", Name: "c", Language: script.JavaScript, Content: "was b", FilePath: "b.js"},
	}

	if _, err := newTestEngine(t).WriteAll(context.Background(), dir, items, nil); err != nil {
		t.Fatalf("WriteAll returned error: %v", err)
	}
	if content, ok := dir.Content("b.js"); !ok || content != "was a" {
		t.Fatalf("expected b.js to hold the renamed item, got %q (exists=%v)", content, ok)
	}
	if diff := cmp.Diff([]string{"a.js"}, dir.Removed()); diff != "" {
		t.Fatalf("unexpected deletes (-want +got):\n%s", diff)
	}
}

func TestWriteAllKeepsFileClaimedInAnotherCase(t *testing.T) {
	dir := newTestDir()
	dir.Put("x.js", "old x", epoch)

	// On a case-insensitive folder x.js and X.js are one file, now owned by item 2.
	items := []script.Item{
		{ID: "2", Name: "X", Language: script.JavaScript, Content: "new X"},
		{ID: "1", Name: "y", Language: script.JavaScript, Content: "was x", FilePath: "x.js"},
	}

	if _, err := newTestEngine(t).WriteAll(context.Background(), dir, items, nil); err != nil {
		t.Fatalf("WriteAll returned error: %v", err)
	}
	if got := dir.Removed(); len(got) != 0 {
		t.Fatalf("expected no deletes of a name claimed in another case, got %v", got)
	}
}

func TestWriteAllCaseOnlyRenameDoesNotDelete(t *testing.T) {
	dir := newTestDir()
	dir.Put("notes.md", "x", epoch)

	items := []script.Item{{ID: "x", Name: "Notes", Language: script.Markdown, Content: "x", FilePath: "notes.md"}}

	if _, err := newTestEngine(t).WriteAll(context.Background(), dir, items, nil); err != nil {
		t.Fatalf("WriteAll returned error: %v", err)
	}
	if got := dir.Removed(); len(got) != 0 {
		t.Fatalf("expected no deletes for a case-only rename, got %v", got)
	}
}

func TestWriteAllToleratesMissingOrFailingDelete(t *testing.T) {
	items := []script.Item{{ID: "x", Name: "after", Language: script.JavaScript, Content: "x", FilePath: "before.js"}}

	t.Run("no delete capability", func(t *testing.T) {
		dir := newTestDir()
		dir.Put("before.js", "x", epoch)

		written, err := newTestEngine(t).WriteAll(context.Background(), dir.WithoutRemover(), items, nil)
		if err != nil {
			t.Fatalf("WriteAll returned error: %v", err)
		}
		if written[0].FilePath != "after.js" {
			t.Fatalf("unexpected path %q", written[0].FilePath)
		}
		if _, ok := dir.Content("before.js"); !ok {
			t.Fatalf("expected orphaned file to remain")
		}
	})

	t.Run("delete fails", func(t *testing.T) {
		dir := newTestDir()
		dir.Put("before.js", "x", epoch)
		dir.FailRemove(errors.New("locked"))

		written, err := newTestEngine(t).WriteAll(context.Background(), dir, items, nil)
		if err != nil {
			t.Fatalf("expected delete failure to be swallowed, got %v", err)
		}
		if written[0].FilePath != "after.js" {
			t.Fatalf("unexpected path %q", written[0].FilePath)
		}
	})
}

func TestWriteOnlyLeavesStaleFiles(t *testing.T) {
	dir := newTestDir()
	dir.Put("before.js", "x", epoch)

	items := []script.Item{{ID: "x", Name: "after", Language: script.JavaScript, Content: "x", FilePath: "before.js"}}

	written, err := newTestEngine(t).WriteOnly(context.Background(), dir, items, nil)
	if err != nil {
		t.Fatalf("WriteOnly returned error: %v", err)
	}
	if written[0].FilePath != "after.js" {
		t.Fatalf("unexpected path %q", written[0].FilePath)
	}
	if got := dir.Removed(); len(got) != 0 {
		t.Fatalf("expected no deletes, got %v", got)
	}
}

func TestWriteAllMetadataIsLastAndRedacted(t *testing.T) {
	dir := newTestDir()
	items := []script.Item{
		{ID: "1", Name: "one", Language: script.Go, Content: "package one"},
		{ID: "2", Name: "two", Description: "second", Language: script.Go, Content: "package two"},
		{ID: "3", Name: "three", Language: script.Rust, Content: "fn main() {}"},
	}
	last := FormatInstant(epoch)
	settings := settingsEcho{PreferredProvider: "openai", LastSyncAt: &last}

	if _, err := newTestEngine(t).WriteAll(context.Background(), dir, items, settings); err != nil {
		t.Fatalf("WriteAll returned error: %v", err)
	}

	writes := dir.Writes()
	if writes[len(writes)-1] != MetadataFilename {
		t.Fatalf("expected metadata written last, got %v", writes)
	}

	raw, ok := dir.Content(MetadataFilename)
	if !ok {
		t.Fatalf("metadata not written")
	}
	if strings.Contains(strings.ToLower(raw), "apikey") || strings.Contains(raw, "package one") {
		t.Fatalf("metadata leaks keys or content:\n%s", raw)
	}

	var doc Metadata
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("metadata is not valid JSON: %v", err)
	}
	if doc.Count != 3 || len(doc.Items) != 3 {
		t.Fatalf("unexpected count %d / %d", doc.Count, len(doc.Items))
	}
	if diff := cmp.Diff([]script.Language{script.Go, script.Rust}, doc.Languages); diff != "" {
		t.Fatalf("unexpected languages (-want +got):\n%s", diff)
	}
	if doc.Items[1].Filename != "two.go" || doc.Items[1].Description != "second" {
		t.Fatalf("unexpected record %+v", doc.Items[1])
	}
	if doc.Items[0].ContentHash != filesystem.Fingerprint("package one") {
		t.Fatalf("expected record to carry the written fingerprint")
	}
	if doc.Settings == nil || doc.Settings.PreferredProvider != "openai" || doc.Settings.LastSyncAt == nil {
		t.Fatalf("unexpected settings echo %+v", doc.Settings)
	}
	if doc.App != appTag || doc.ExportedAt != FormatInstant(epoch) {
		t.Fatalf("unexpected document header %+v %q", doc.App, doc.ExportedAt)
	}
}

func TestWriteAllRefusesNameConflicts(t *testing.T) {
	dir := newTestDir()
	items := []script.Item{
		{ID: "1", Name: "dup", Language: script.JavaScript, Content: "first"},
		{ID: "2", Name: "dup", Language: script.JavaScript, Content: "second"},
		{ID: "3", Name: "fine", Language: script.JavaScript, Content: "ok"},
	}

	_, err := newTestEngine(t).WriteAll(context.Background(), dir, items, nil)
	if !errors.Is(err, ErrNameConflict) {
		t.Fatalf("expected name conflict, got %v", err)
	}
	var conflictErr *NameConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected *NameConflictError, got %T", err)
	}
	want := []NameConflict{{Filename: "dup.js", IDs: []string{"1", "2"}}}
	if diff := cmp.Diff(want, conflictErr.Conflicts); diff != "" {
		t.Fatalf("unexpected conflicts (-want +got):\n%s", diff)
	}
	if got := dir.Writes(); len(got) != 0 {
		t.Fatalf("expected nothing written, got %v", got)
	}
}

func TestWriteAllStopsOnWriteFailure(t *testing.T) {
	dir := newTestDir()
	quota := errors.New("quota exceeded")
	dir.FailWrite("b.js", quota)

	items := []script.Item{
		{ID: "1", Name: "a", Language: script.JavaScript, Content: "a"},
		{ID: "2", Name: "b", Language: script.JavaScript, Content: "b"},
		{ID: "3", Name: "c", Language: script.JavaScript, Content: "c"},
	}

	written, err := newTestEngine(t).WriteAll(context.Background(), dir, items, nil)
	if written != nil {
		t.Fatalf("expected no items on failure, got %+v", written)
	}
	if !errors.Is(err, quota) {
		t.Fatalf("expected quota error, got %v", err)
	}
	var writeErr *WriteError
	if !errors.As(err, &writeErr) || writeErr.Filename != "b.js" || writeErr.Written != 1 {
		t.Fatalf("unexpected write error %#v", err)
	}
	if diff := cmp.Diff([]string{"a.js"}, dir.Writes()); diff != "" {
		t.Fatalf("expected partial write to remain (-want +got):\n%s", diff)
	}
}

func TestWriteAllPermissionDenied(t *testing.T) {
	dir := newTestDir()
	dir.Deny(filesystem.ModeReadWrite)

	_, err := newTestEngine(t).WriteAll(context.Background(), dir, []script.Item{{ID: "1", Name: "a"}}, nil)
	if !errors.Is(err, filesystem.ErrPermissionDenied) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if got := dir.Writes(); len(got) != 0 {
		t.Fatalf("expected nothing written, got %v", got)
	}
}
