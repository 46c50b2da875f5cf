package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqldb "github.com/vault-md/scriptvault/internal/database/sqlc"
)

// FolderRepository remembers which folder is linked.
type FolderRepository struct {
	ctx *Context
}

func NewFolderRepository(dbCtx *Context) *FolderRepository {
	return &FolderRepository{ctx: dbCtx}
}

// Get returns the linked folder or ErrNotFound.
func (r *FolderRepository) Get(ctx context.Context) (LinkedFolder, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return LinkedFolder{}, fmt.Errorf("folder repository: %w", errMissingContext)
	}

	row, err := queries.GetLinkedFolder(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LinkedFolder{}, ErrNotFound
		}
		return LinkedFolder{}, err
	}
	return LinkedFolder{Path: row.Path, LinkedAt: parseTime(row.LinkedAt)}, nil
}

// Set replaces the linked folder.
func (r *FolderRepository) Set(ctx context.Context, path string, linkedAt time.Time) error {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return fmt.Errorf("folder repository: %w", errMissingContext)
	}
	return queries.UpsertLinkedFolder(ctx, sqldb.UpsertLinkedFolderParams{
		Path:     path,
		LinkedAt: formatTime(linkedAt),
	})
}

// Clear forgets the linked folder. It reports whether one was set.
func (r *FolderRepository) Clear(ctx context.Context) (bool, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return false, fmt.Errorf("folder repository: %w", errMissingContext)
	}
	n, err := queries.DeleteLinkedFolder(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
