package fssync

import (
	"fmt"
	"testing"
	"time"

	"github.com/vault-md/scriptvault/internal/filesystem/fstest"
	"github.com/vault-md/scriptvault/internal/script"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type settingsEcho MetadataSettings

func (s settingsEcho) MetadataSettings() MetadataSettings { return MetadataSettings(s) }

// newTestEngine returns an engine with a fixed clock and sequential ids.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	next := 0
	return New(
		WithClock(func() time.Time { return epoch }),
		WithIDGenerator(func() string {
			next++
			return fmt.Sprintf("gen-%d", next)
		}),
		WithReadConcurrency(2),
	)
}

func newTestDir() *fstest.Dir {
	return fstest.NewDir("scripts", epoch.Add(time.Hour))
}

func itemByPath(t *testing.T, items []script.Item, path string) script.Item {
	t.Helper()
	for _, item := range items {
		if item.FilePath == path {
			return item
		}
	}
	t.Fatalf("no item with path %q in %d item(s)", path, len(items))
	return script.Item{}
}

func paths(items []script.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.FilePath)
	}
	return out
}
