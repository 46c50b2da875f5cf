package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vault-md/scriptvault/internal/script"
	"github.com/vault-md/scriptvault/internal/vault"
)

func TestStateRepositoryEmptyLoad(t *testing.T) {
	repo := NewStateRepository(setupTestDB(t))

	state, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(state.Scripts) != 0 || state.SelectedID != "" {
		t.Fatalf("expected empty state, got %+v", state)
	}
	if state.Settings.PreferredProvider != vault.DefaultProvider {
		t.Fatalf("expected default provider, got %q", state.Settings.PreferredProvider)
	}
}

func TestStateRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewStateRepository(setupTestDB(t))

	created := time.Date(2024, 1, 2, 3, 4, 5, 123_000_000, time.UTC)
	state := vault.State{
		Scripts: []script.Item{
			{
				ID: "b", Name: "second", Description: "desc", Language: script.Python, Content: "print()",
				CreatedAt: created, UpdatedAt: created.Add(time.Hour),
				FilePath: "second.py", ContentHash: "abc", DiskModifiedAt: created.Add(2 * time.Hour),
			},
			{ID: "a", Name: "draft", Language: script.JavaScript, Content: "// hi", CreatedAt: created, UpdatedAt: created},
			{ID: "a", Name: "same id elsewhere", Language: script.JavaScript, CreatedAt: created, UpdatedAt: created, FilePath: "other.js"},
		},
		SelectedID: "a",
		Settings: vault.Settings{
			PreferredProvider: vault.ProviderClaude,
			ClaudeAPIKey:      "sk-ant",
			LastSyncAt:        created.Add(3 * time.Hour),
		},
	}

	if err := repo.Save(ctx, state); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if diff := cmp.Diff(state, loaded); diff != "" {
		t.Fatalf("state did not round trip (-want +got):\n%s", diff)
	}

	state.Scripts = state.Scripts[:1]
	state.SelectedID = "b"
	if err := repo.Save(ctx, state); err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}
	loaded, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(loaded.Scripts) != 1 || loaded.SelectedID != "b" {
		t.Fatalf("expected save to replace previous state, got %+v", loaded)
	}
}

func TestFolderRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewFolderRepository(setupTestDB(t))

	if _, err := repo.Get(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	linkedAt := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if err := repo.Set(ctx, "/home/me/scripts", linkedAt); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := repo.Set(ctx, "/home/me/other", linkedAt.Add(time.Hour)); err != nil {
		t.Fatalf("second Set returned error: %v", err)
	}

	folder, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if folder.Path != "/home/me/other" || !folder.LinkedAt.Equal(linkedAt.Add(time.Hour)) {
		t.Fatalf("unexpected folder %+v", folder)
	}

	cleared, err := repo.Clear(ctx)
	if err != nil || !cleared {
		t.Fatalf("Clear failed: %v cleared=%v", err, cleared)
	}
	cleared, err = repo.Clear(ctx)
	if err != nil || cleared {
		t.Fatalf("expected second Clear to report nothing removed: %v cleared=%v", err, cleared)
	}
}
