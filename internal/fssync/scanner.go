package fssync

import (
	"context"
	"errors"
	"fmt"

	"github.com/vault-md/scriptvault/internal/filesystem"
	"github.com/vault-md/scriptvault/internal/script"
)

// candidate is a supported, text-typed file found by a scan.
type candidate struct {
	name string
	info filesystem.FileInfo
}

type folderScan struct {
	metadata *Metadata
	files    []candidate
}

// scanFolder enumerates dir once. It reserves the metadata side-car, keeps
// supported text files, and reads no script content.
func (e *Engine) scanFolder(ctx context.Context, dir filesystem.Directory) (folderScan, error) {
	entries, err := dir.Entries(ctx)
	if err != nil {
		return folderScan{}, fmt.Errorf("failed to list %s: %w", dir.Name(), err)
	}

	var (
		scan     folderScan
		metaName string
	)
	for _, entry := range entries {
		if entry.Kind != filesystem.KindFile {
			continue
		}
		if isMetadataName(entry.Name) {
			// Prefer the exact-case name when a case-sensitive folder holds several.
			if metaName == "" || entry.Name == MetadataFilename {
				metaName = entry.Name
			}
			continue
		}
		if !script.IsSupportedFile(entry.Name) {
			continue
		}

		info, err := dir.Stat(ctx, entry.Name)
		if err != nil {
			if errors.Is(err, filesystem.ErrNotFound) {
				continue
			}
			return folderScan{}, fmt.Errorf("failed to stat %s: %w", entry.Name, err)
		}
		if !isTextType(info.Type) {
			e.log.Debug("skipping non-text file", "file", entry.Name, "type", info.Type)
			continue
		}
		scan.files = append(scan.files, candidate{name: entry.Name, info: info})
	}

	if metaName != "" {
		meta, err := e.readMetadata(ctx, dir, metaName)
		if err != nil {
			return folderScan{}, err
		}
		scan.metadata = meta
	}

	return scan, nil
}

// readMetadata loads the side-car. Anything short of a permission failure
// degrades to "no metadata".
func (e *Engine) readMetadata(ctx context.Context, dir filesystem.Directory, name string) (*Metadata, error) {
	raw, err := dir.ReadFile(ctx, name)
	if err != nil {
		if errors.Is(err, filesystem.ErrPermissionDenied) {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		e.log.Debug("ignoring unreadable metadata", "file", name, "error", err)
		return nil, nil
	}

	meta := parseMetadata(raw)
	if meta == nil {
		e.log.Debug("ignoring malformed metadata", "file", name)
	}
	return meta, nil
}

// readText loads a candidate's content. ok is false when the file vanished
// or looks binary; both are skipped silently.
func (e *Engine) readText(ctx context.Context, dir filesystem.Directory, name string) (content string, ok bool, err error) {
	content, err = dir.ReadFile(ctx, name)
	if err != nil {
		if errors.Is(err, filesystem.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if isProbablyBinary(content) {
		e.log.Debug("skipping binary file", "file", name)
		return "", false, nil
	}
	return content, true, nil
}
