package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestDir(t *testing.T) (*OSDir, string) {
	t.Helper()
	tmp := t.TempDir()
	dir, err := OpenDir(tmp)
	if err != nil {
		t.Fatalf("OpenDir returned error: %v", err)
	}
	t.Cleanup(func() {
		_ = dir.Close()
	})
	return dir, tmp
}

func TestOSDirWriteStatAndRead(t *testing.T) {
	ctx := context.Background()
	dir, tmp := openTestDir(t)

	if err := dir.WriteFile(ctx, "hello.js", "console.log(1)"); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmp, "hello.js")); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}

	info, err := dir.Stat(ctx, "hello.js")
	if err != nil {
		t.Fatalf("Stat returned error: %v", err)
	}
	if info.Size != int64(len("console.log(1)")) {
		t.Fatalf("unexpected size %d", info.Size)
	}
	if info.ModTime.IsZero() || info.ModTime.Location() != time.UTC {
		t.Fatalf("expected UTC modification time, got %v", info.ModTime)
	}

	content, err := dir.ReadFile(ctx, "hello.js")
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if content != "console.log(1)" {
		t.Fatalf("unexpected content %q", content)
	}

	if err := dir.WriteFile(ctx, "hello.js", "x"); err != nil {
		t.Fatalf("overwrite returned error: %v", err)
	}
	content, _ = dir.ReadFile(ctx, "hello.js")
	if content != "x" {
		t.Fatalf("expected overwrite to truncate, got %q", content)
	}
}

func TestOSDirEntriesAreShallow(t *testing.T) {
	ctx := context.Background()
	dir, tmp := openTestDir(t)

	if err := os.MkdirAll(filepath.Join(tmp, "nested"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "nested", "deep.js"), []byte("1"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "top.py"), []byte("1"), 0o600); err != nil {
		t.Fatal(err)
	}

	entries, err := dir.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}

	kinds := map[string]Kind{}
	for _, e := range entries {
		kinds[e.Name] = e.Kind
	}
	if len(kinds) != 2 {
		t.Fatalf("expected 2 immediate children, got %v", kinds)
	}
	if kinds["nested"] != KindDirectory || kinds["top.py"] != KindFile {
		t.Fatalf("unexpected kinds %v", kinds)
	}
}

func TestOSDirRejectsEscapingNames(t *testing.T) {
	ctx := context.Background()
	dir, _ := openTestDir(t)

	if err := dir.WriteFile(ctx, "../escape.js", "1"); err == nil {
		t.Fatalf("expected write outside the folder to fail")
	}
}

func TestOSDirRemoveAndNotFound(t *testing.T) {
	ctx := context.Background()
	dir, _ := openTestDir(t)

	if err := dir.WriteFile(ctx, "gone.sh", "echo"); err != nil {
		t.Fatal(err)
	}
	if err := dir.RemoveEntry(ctx, "gone.sh"); err != nil {
		t.Fatalf("RemoveEntry returned error: %v", err)
	}
	if _, err := dir.Stat(ctx, "gone.sh"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := dir.ReadFile(ctx, "gone.sh"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on read, got %v", err)
	}
}

func TestOpenDirRejectsFiles(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenDir(file); err == nil {
		t.Fatalf("expected OpenDir on a file to fail")
	}
}

func TestOSDirIdentity(t *testing.T) {
	dir, tmp := openTestDir(t)
	if dir.Name() != filepath.Base(tmp) {
		t.Fatalf("expected name %q, got %q", filepath.Base(tmp), dir.Name())
	}
	if !filepath.IsAbs(dir.ID()) {
		t.Fatalf("expected absolute id, got %q", dir.ID())
	}
	if err := dir.Permission(context.Background(), ModeReadWrite); err != nil {
		t.Fatalf("expected temp dir to be writable: %v", err)
	}
}

func TestFingerprint(t *testing.T) {
	// sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Fingerprint("abc"); got != want {
		t.Fatalf("Fingerprint(abc) = %s", got)
	}
	if Fingerprint("a") == Fingerprint("b") {
		t.Fatalf("different content must produce different fingerprints")
	}
	if len(Fingerprint("")) != 64 {
		t.Fatalf("expected fixed-length digest")
	}
}
