package fssync

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vault-md/scriptvault/internal/filesystem"
	"github.com/vault-md/scriptvault/internal/script"
)

// WriteError reports a write-back that stopped part way. Files written
// before the failure stay on disk; the caller keeps its previous items.
type WriteError struct {
	Filename string
	// Written counts content files that were written before the failure.
	Written int
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s after %d file(s): %v", e.Filename, e.Written, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// WriteAll writes every item to its derived filename and regenerates the
// metadata side-car. When an item was stored under a different name, the
// new file is written first and the old one is removed on a best-effort
// basis. The returned items carry the filename, fingerprint and
// modification time observed after the write.
func (e *Engine) WriteAll(ctx context.Context, dir filesystem.Directory, items []script.Item, settings SettingsSource) ([]script.Item, error) {
	return e.writeBatch(ctx, dir, items, settings, true)
}

// WriteOnly is WriteAll without rename handling. Stale files are left alone.
func (e *Engine) WriteOnly(ctx context.Context, dir filesystem.Directory, items []script.Item, settings SettingsSource) ([]script.Item, error) {
	return e.writeBatch(ctx, dir, items, settings, false)
}

func (e *Engine) writeBatch(ctx context.Context, dir filesystem.Directory, items []script.Item, settings SettingsSource, renames bool) ([]script.Item, error) {
	if err := dir.Permission(ctx, filesystem.ModeReadWrite); err != nil {
		return nil, err
	}
	if conflicts := DetectConflicts(items); len(conflicts) > 0 {
		return nil, &NameConflictError{Conflicts: conflicts}
	}

	// Keyed by lower-case name: a folder may be case-insensitive.
	desired := make(map[string]struct{}, len(items))
	for _, item := range items {
		desired[strings.ToLower(script.FilenameFor(item))] = struct{}{}
	}

	updated := make([]script.Item, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, &WriteError{Filename: script.FilenameFor(item), Written: len(updated), Err: err}
		}

		filename := script.FilenameFor(item)
		if err := dir.WriteFile(ctx, filename, item.Content); err != nil {
			return nil, &WriteError{Filename: filename, Written: len(updated), Err: err}
		}

		if renames && item.FilePath != "" && item.FilePath != filename {
			e.removeStale(ctx, dir, item.FilePath, filename, desired)
		}

		modTime := e.clock()
		if info, err := dir.Stat(ctx, filename); err == nil {
			modTime = info.ModTime.UTC()
		}

		item.FilePath = filename
		item.ContentHash = filesystem.Fingerprint(item.Content)
		item.DiskModifiedAt = modTime
		updated = append(updated, item)
	}

	if err := e.writeMetadata(ctx, dir, updated, settings); err != nil {
		return nil, &WriteError{Filename: MetadataFilename, Written: len(updated), Err: err}
	}

	e.log.Debug("write-back complete", "folder", dir.Name(), "items", len(updated), "renames", renames)
	return updated, nil
}

// removeStale deletes the file an item used to live in. Failures are
// swallowed: the new file is already on disk.
func (e *Engine) removeStale(ctx context.Context, dir filesystem.Directory, stale, current string, desired map[string]struct{}) {
	// On a case-insensitive folder both names are the same file.
	if strings.EqualFold(stale, current) {
		return
	}
	if _, claimed := desired[strings.ToLower(stale)]; claimed {
		return
	}
	remover, ok := dir.(filesystem.Remover)
	if !ok {
		e.log.Debug("folder cannot delete, leaving stale file", "file", stale)
		return
	}
	if err := remover.RemoveEntry(ctx, stale); err != nil {
		e.log.Debug("failed to remove stale file", "file", stale, "error", err)
	}
}

func (e *Engine) writeMetadata(ctx context.Context, dir filesystem.Directory, items []script.Item, settings SettingsSource) error {
	doc := BuildMetadata(items, settings, e.clock())
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	return dir.WriteFile(ctx, MetadataFilename, string(raw))
}
