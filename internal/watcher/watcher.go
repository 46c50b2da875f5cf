// Package watcher turns file system notifications for a linked folder into
// debounced sync requests.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vault-md/scriptvault/internal/fssync"
	"github.com/vault-md/scriptvault/internal/logger"
	"github.com/vault-md/scriptvault/internal/script"
)

// DefaultDebounce is used when a non-positive debounce is configured.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches the immediate children of one folder.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	log      *logger.Logger
}

// New starts watching dir. Call Close when done.
func New(dir string, debounce time.Duration, log *logger.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logger.Nop()
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fw.Add(abs); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", abs, err)
	}

	return &Watcher{watcher: fw, dir: abs, debounce: debounce, log: log}, nil
}

// Close stops the underlying notifier.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run calls onChange once the folder has been quiet for the debounce
// interval after a relevant event. It returns when ctx ends or the notifier
// is closed. Errors from onChange are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug("folder change", "file", filepath.Base(event.Name), "op", event.Op.String())
			timer.Reset(w.debounce)

		case <-timer.C:
			if err := onChange(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				w.log.Warn("sync after folder change failed", "folder", w.dir, "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("folder watcher error", "folder", w.dir, "error", err)
		}
	}
}

// relevant keeps events on script files and the metadata side-car directly
// inside the folder. Chmod-only events are dropped.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if filepath.Dir(event.Name) != w.dir {
		return false
	}
	return Relevant(filepath.Base(event.Name))
}

// Relevant reports whether a change to the named file can affect a sync.
func Relevant(name string) bool {
	if strings.EqualFold(name, fssync.MetadataFilename) {
		return true
	}
	return script.IsSupportedFile(name)
}
