// Package filesystem provides the capability-scoped directory handle the
// sync engine reads and writes through, and the content fingerprint used for
// change detection.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrPermissionDenied indicates the folder grant is missing or was revoked.
var ErrPermissionDenied = errors.New("filesystem: permission denied")

// ErrNotFound indicates a named entry does not exist in the folder.
var ErrNotFound = errors.New("filesystem: entry not found")

// Mode is the access level requested from a directory handle.
type Mode string

const (
	ModeRead      Mode = "read"
	ModeReadWrite Mode = "readwrite"
)

// Kind distinguishes files from nested directories.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Entry is an immediate child of a directory handle.
type Entry struct {
	Name string
	Kind Kind
}

// FileInfo describes a file without reading its content.
type FileInfo struct {
	Name    string
	Size    int64
	// Type is the declared MIME type; empty when the source declares none.
	Type    string
	ModTime time.Time
}

// Directory is an explicitly granted folder. Every read and write performed
// by the sync engine goes through it; names are always relative to the
// folder and never contain separators.
type Directory interface {
	// ID identifies the granted folder across handles.
	ID() string
	// Name is the folder's display name.
	Name() string
	// Permission re-validates the grant for mode.
	Permission(ctx context.Context, mode Mode) error
	// Entries lists immediate children only.
	Entries(ctx context.Context) ([]Entry, error)
	Stat(ctx context.Context, name string) (FileInfo, error)
	ReadFile(ctx context.Context, name string) (string, error)
	// WriteFile creates or truncates name and flushes content.
	WriteFile(ctx context.Context, name, content string) error
}

// Remover is implemented by handles that can delete entries.
type Remover interface {
	RemoveEntry(ctx context.Context, name string) error
}

// PermissionError records which folder refused which access mode.
type PermissionError struct {
	Dir  string
	Mode Mode
	Err  error
}

func (e *PermissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("permission %s denied for %s: %v", e.Mode, e.Dir, e.Err)
	}
	return fmt.Sprintf("permission %s denied for %s", e.Mode, e.Dir)
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrPermissionDenied
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}
