package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// OSDir is a Directory backed by a real folder. All access is confined to
// the folder through os.Root, so names cannot escape it.
type OSDir struct {
	root *os.Root
	path string
}

// OpenDir grants access to the folder at dirPath.
func OpenDir(dirPath string) (*OSDir, error) {
	absPath, err := filepath.Abs(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve folder path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, &PermissionError{Dir: absPath, Mode: ModeRead, Err: err}
		}
		return nil, fmt.Errorf("failed to open folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", absPath)
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, &PermissionError{Dir: absPath, Mode: ModeRead, Err: err}
		}
		return nil, fmt.Errorf("failed to open folder: %w", err)
	}

	return &OSDir{root: root, path: absPath}, nil
}

// Close releases the underlying root.
func (d *OSDir) Close() error {
	if d == nil || d.root == nil {
		return nil
	}
	return d.root.Close()
}

// Path returns the absolute folder path.
func (d *OSDir) Path() string { return d.path }

func (d *OSDir) ID() string { return d.path }

func (d *OSDir) Name() string { return filepath.Base(d.path) }

func (d *OSDir) Permission(ctx context.Context, mode Mode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkAccess(d.path, mode); err != nil {
		return &PermissionError{Dir: d.path, Mode: mode, Err: err}
	}
	return nil
}

func (d *OSDir) Entries(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirEntries, err := fs.ReadDir(d.root.FS(), ".")
	if err != nil {
		return nil, d.wrap("list", ".", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		switch {
		case de.IsDir():
			entries = append(entries, Entry{Name: de.Name(), Kind: KindDirectory})
		case de.Type().IsRegular():
			entries = append(entries, Entry{Name: de.Name(), Kind: KindFile})
		}
	}
	return entries, nil
}

func (d *OSDir) Stat(ctx context.Context, name string) (FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return FileInfo{}, err
	}

	info, err := d.root.Stat(name)
	if err != nil {
		return FileInfo{}, d.wrap("stat", name, err)
	}

	return FileInfo{
		Name:    name,
		Size:    info.Size(),
		ModTime: info.ModTime().UTC(),
	}, nil
}

func (d *OSDir) ReadFile(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := d.root.Open(name)
	if err != nil {
		return "", d.wrap("open", name, err)
	}
	defer func() {
		_ = f.Close()
	}()

	bytes, err := io.ReadAll(f)
	if err != nil {
		return "", d.wrap("read", name, err)
	}
	return string(bytes), nil
}

func (d *OSDir) WriteFile(ctx context.Context, name, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := d.root.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return d.wrap("create", name, err)
	}

	if _, err := io.WriteString(f, content); err != nil {
		_ = f.Close()
		return d.wrap("write", name, err)
	}
	if err := f.Close(); err != nil {
		return d.wrap("close", name, err)
	}
	return nil
}

func (d *OSDir) RemoveEntry(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.root.Remove(name); err != nil {
		return d.wrap("remove", name, err)
	}
	return nil
}

func (d *OSDir) wrap(op, name string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s %s: %w", op, name, ErrNotFound)
	case errors.Is(err, fs.ErrPermission):
		return &PermissionError{Dir: d.path, Mode: modeFor(op), Err: err}
	default:
		return fmt.Errorf("%s %s: %w", op, name, err)
	}
}

func modeFor(op string) Mode {
	switch op {
	case "create", "write", "close", "remove":
		return ModeReadWrite
	default:
		return ModeRead
	}
}
