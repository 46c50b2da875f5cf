package fssync

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vault-md/scriptvault/internal/filesystem"
	"github.com/vault-md/scriptvault/internal/script"
)

// ScanFull imports every supported text file in dir. Files described by the
// metadata side-car come first, in record order, taking their identity from
// the record; the remaining files follow in enumeration order as new items.
// It is used when a folder is first linked and for an explicit replace.
func (e *Engine) ScanFull(ctx context.Context, dir filesystem.Directory) ([]script.Item, error) {
	if err := dir.Permission(ctx, filesystem.ModeRead); err != nil {
		return nil, err
	}

	scan, err := e.scanFolder(ctx, dir)
	if err != nil {
		return nil, err
	}

	loaded, err := e.loadAll(ctx, dir, scan.files)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*observed, len(loaded))
	for i, obs := range loaded {
		if obs != nil {
			byName[scan.files[i].name] = obs
		}
	}

	now := e.clock()
	items := make([]script.Item, 0, len(byName))
	claimed := make(map[string]struct{}, len(byName))

	if scan.metadata != nil {
		for i := range scan.metadata.Items {
			record := &scan.metadata.Items[i]
			filename := record.key()
			if filename == "" {
				continue
			}
			obs, ok := byName[filename]
			if !ok {
				continue
			}
			if _, dup := claimed[filename]; dup {
				continue
			}
			claimed[filename] = struct{}{}
			items = append(items, resolve(sources{record: record, filename: filename}, *obs, now, e.newID))
		}
	}

	for _, file := range scan.files {
		obs, ok := byName[file.name]
		if !ok {
			continue
		}
		if _, done := claimed[file.name]; done {
			continue
		}
		items = append(items, resolve(sources{filename: file.name}, *obs, now, e.newID))
	}

	e.log.Debug("full scan complete", "folder", dir.Name(), "items", len(items), "metadata", scan.metadata != nil)
	return items, nil
}

// loadAll reads candidates concurrently. The result is index-aligned with
// files; skipped files are nil.
func (e *Engine) loadAll(ctx context.Context, dir filesystem.Directory, files []candidate) ([]*observed, error) {
	out := make([]*observed, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.readConcurrency)
	for i, file := range files {
		g.Go(func() error {
			content, ok, err := e.readText(gctx, dir, file.name)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			out[i] = &observed{
				content: content,
				hash:    filesystem.Fingerprint(content),
				modTime: file.info.ModTime,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", dir.Name(), err)
	}
	return out, nil
}
