// Package fstest provides an in-memory filesystem.Directory for tests.
package fstest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vault-md/scriptvault/internal/filesystem"
)

type file struct {
	content string
	typ     string
	modTime time.Time
}

// Dir is an in-memory directory handle that counts reads and can be told
// to fail. The zero value is not usable; call NewDir.
type Dir struct {
	mu      sync.Mutex
	name    string
	files   map[string]*file
	dirs    map[string]struct{}
	reads   map[string]int
	writes  []string
	removed []string

	clock      time.Time
	tick       time.Duration
	denied     map[filesystem.Mode]bool
	writeErrs  map[string]error
	removeErr  error
	listingErr error
}

// NewDir returns an empty folder whose clock starts at start and advances
// one second per write.
func NewDir(name string, start time.Time) *Dir {
	return &Dir{
		name:      name,
		files:     map[string]*file{},
		dirs:      map[string]struct{}{},
		reads:     map[string]int{},
		clock:     start.UTC(),
		tick:      time.Second,
		denied:    map[filesystem.Mode]bool{},
		writeErrs: map[string]error{},
	}
}

// Put stores content with an explicit modification time and no declared type.
func (d *Dir) Put(name, content string, modTime time.Time) {
	d.PutTyped(name, content, "", modTime)
}

// PutTyped stores content with a declared MIME type.
func (d *Dir) PutTyped(name, content, typ string, modTime time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.files[name] = &file{content: content, typ: typ, modTime: modTime.UTC()}
}

// Mkdir adds a nested directory entry.
func (d *Dir) Mkdir(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dirs[name] = struct{}{}
}

// Touch changes a file's modification time without touching its content.
func (d *Dir) Touch(name string, modTime time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if f, ok := d.files[name]; ok {
		f.modTime = modTime.UTC()
	}
}

// Delete removes a file behind the engine's back.
func (d *Dir) Delete(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.files, name)
}

// Content returns a file's content and whether it exists.
func (d *Dir) Content(name string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.files[name]
	if !ok {
		return "", false
	}
	return f.content, true
}

// Names lists stored files in sorted order.
func (d *Dir) Names() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]string, 0, len(d.files))
	for name := range d.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reads returns how many times name was read.
func (d *Dir) Reads(name string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reads[name]
}

// TotalReads returns the number of reads across all files.
func (d *Dir) TotalReads() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := 0
	for _, n := range d.reads {
		total += n
	}
	return total
}

// ResetReads clears the read counters.
func (d *Dir) ResetReads() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reads = map[string]int{}
}

// Writes returns every written name in write order.
func (d *Dir) Writes() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.writes...)
}

// Removed returns every removed name in order.
func (d *Dir) Removed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.removed...)
}

// Now returns the current value of the folder clock.
func (d *Dir) Now() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clock
}

// Deny makes Permission fail for mode.
func (d *Dir) Deny(mode filesystem.Mode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.denied[mode] = true
}

// FailWrite makes writes to name fail with err.
func (d *Dir) FailWrite(name string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writeErrs[name] = err
}

// FailRemove makes every RemoveEntry call fail with err.
func (d *Dir) FailRemove(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.removeErr = err
}

// FailEntries makes Entries fail with err.
func (d *Dir) FailEntries(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listingErr = err
}

func (d *Dir) ID() string { return "mem://" + d.name }

func (d *Dir) Name() string { return d.name }

func (d *Dir) Permission(ctx context.Context, mode filesystem.Mode) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.denied[mode] || (mode == filesystem.ModeReadWrite && d.denied[filesystem.ModeRead]) {
		return &filesystem.PermissionError{Dir: d.name, Mode: mode}
	}
	return nil
}

func (d *Dir) Entries(ctx context.Context) ([]filesystem.Entry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listingErr != nil {
		return nil, d.listingErr
	}
	if d.denied[filesystem.ModeRead] {
		return nil, &filesystem.PermissionError{Dir: d.name, Mode: filesystem.ModeRead}
	}

	entries := make([]filesystem.Entry, 0, len(d.files)+len(d.dirs))
	for name := range d.files {
		entries = append(entries, filesystem.Entry{Name: name, Kind: filesystem.KindFile})
	}
	for name := range d.dirs {
		entries = append(entries, filesystem.Entry{Name: name, Kind: filesystem.KindDirectory})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (d *Dir) Stat(ctx context.Context, name string) (filesystem.FileInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.files[name]
	if !ok {
		return filesystem.FileInfo{}, fmt.Errorf("stat %s: %w", name, filesystem.ErrNotFound)
	}
	return filesystem.FileInfo{Name: name, Size: int64(len(f.content)), Type: f.typ, ModTime: f.modTime}, nil
}

func (d *Dir) ReadFile(ctx context.Context, name string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.files[name]
	if !ok {
		return "", fmt.Errorf("read %s: %w", name, filesystem.ErrNotFound)
	}
	d.reads[name]++
	return f.content, nil
}

func (d *Dir) WriteFile(ctx context.Context, name, content string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writeErrs[name]; err != nil {
		return err
	}
	if d.denied[filesystem.ModeReadWrite] {
		return &filesystem.PermissionError{Dir: d.name, Mode: filesystem.ModeReadWrite}
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("write %s: invalid name", name)
	}

	d.clock = d.clock.Add(d.tick)
	typ := ""
	if f, ok := d.files[name]; ok {
		typ = f.typ
	}
	d.files[name] = &file{content: content, typ: typ, modTime: d.clock}
	d.writes = append(d.writes, name)
	return nil
}

func (d *Dir) RemoveEntry(ctx context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.removeErr != nil {
		return d.removeErr
	}
	if _, ok := d.files[name]; !ok {
		return fmt.Errorf("remove %s: %w", name, filesystem.ErrNotFound)
	}
	delete(d.files, name)
	d.removed = append(d.removed, name)
	return nil
}

// WithoutRemover hides the optional delete capability.
func (d *Dir) WithoutRemover() filesystem.Directory {
	return readWriteOnly{d: d}
}

type readWriteOnly struct {
	d *Dir
}

func (r readWriteOnly) ID() string   { return r.d.ID() }
func (r readWriteOnly) Name() string { return r.d.Name() }

func (r readWriteOnly) Permission(ctx context.Context, mode filesystem.Mode) error {
	return r.d.Permission(ctx, mode)
}

func (r readWriteOnly) Entries(ctx context.Context) ([]filesystem.Entry, error) {
	return r.d.Entries(ctx)
}

func (r readWriteOnly) Stat(ctx context.Context, name string) (filesystem.FileInfo, error) {
	return r.d.Stat(ctx, name)
}

func (r readWriteOnly) ReadFile(ctx context.Context, name string) (string, error) {
	return r.d.ReadFile(ctx, name)
}

func (r readWriteOnly) WriteFile(ctx context.Context, name, content string) error {
	return r.d.WriteFile(ctx, name, content)
}
