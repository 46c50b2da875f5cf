package fssync

import (
	"context"
	"time"

	"github.com/vault-md/scriptvault/internal/filesystem"
	"github.com/vault-md/scriptvault/internal/script"
)

// NameSet is a set of filenames.
type NameSet map[string]struct{}

// Has reports whether name is in the set.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// ScanResult is the outcome of an incremental scan.
type ScanResult struct {
	// Changed holds new files and files whose content differs from the
	// fingerprint recorded on the matching existing item.
	Changed []script.Item
	// OnDisk holds every supported text filename currently in the folder,
	// read or not. Callers use it to detect deletions.
	OnDisk NameSet
}

// ScanIncremental reports files that are new or modified since the
// watermark. Files whose modification time is not after the watermark are
// never read. A zero watermark treats every file as new. Files that are
// re-saved with identical content are not reported.
func (e *Engine) ScanIncremental(ctx context.Context, dir filesystem.Directory, existing []script.Item, watermark time.Time) (ScanResult, error) {
	if err := dir.Permission(ctx, filesystem.ModeRead); err != nil {
		return ScanResult{}, err
	}

	scan, err := e.scanFolder(ctx, dir)
	if err != nil {
		return ScanResult{}, err
	}

	prior := make(map[string]*script.Item, len(existing))
	for i := range existing {
		if path := existing[i].FilePath; path != "" {
			if _, seen := prior[path]; !seen {
				prior[path] = &existing[i]
			}
		}
	}
	records := scan.metadata.index()

	now := e.clock()
	result := ScanResult{OnDisk: make(NameSet, len(scan.files))}
	skipped := 0

	for _, file := range scan.files {
		result.OnDisk[file.name] = struct{}{}

		if !watermark.IsZero() && !file.info.ModTime.After(watermark) {
			skipped++
			continue
		}

		content, ok, err := e.readText(ctx, dir, file.name)
		if err != nil {
			return ScanResult{}, err
		}
		if !ok {
			continue
		}

		hash := filesystem.Fingerprint(content)
		prev := prior[file.name]
		if prev != nil && prev.ContentHash != "" && prev.ContentHash == hash {
			e.log.Debug("content unchanged despite newer mtime", "file", file.name)
			continue
		}

		src := sources{record: records[file.name], prior: prev, filename: file.name}
		obs := observed{content: content, hash: hash, modTime: file.info.ModTime}
		result.Changed = append(result.Changed, resolve(src, obs, now, e.newID))
	}

	e.log.Debug("incremental scan complete",
		"folder", dir.Name(),
		"changed", len(result.Changed),
		"on_disk", len(result.OnDisk),
		"skipped_unmodified", skipped,
	)
	return result, nil
}
