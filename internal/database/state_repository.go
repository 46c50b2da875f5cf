package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqldb "github.com/vault-md/scriptvault/internal/database/sqlc"
	"github.com/vault-md/scriptvault/internal/vault"
)

// StateRepository stores the whole vault state as one unit.
type StateRepository struct {
	ctx *Context
}

func NewStateRepository(dbCtx *Context) *StateRepository {
	return &StateRepository{ctx: dbCtx}
}

// Load returns the stored state, or a fresh one when nothing was saved.
func (r *StateRepository) Load(ctx context.Context) (vault.State, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return vault.State{}, fmt.Errorf("state repository: %w", errMissingContext)
	}

	state := vault.NewState()

	row, err := queries.GetSettings(ctx)
	switch {
	case err == nil:
		state.Settings = SettingsFromRow(row)
		state.SelectedID = optionalString(row.SelectedID)
	case errors.Is(err, sql.ErrNoRows):
	default:
		return vault.State{}, fmt.Errorf("failed to load settings: %w", err)
	}

	rows, err := queries.ListScripts(ctx)
	if err != nil {
		return vault.State{}, fmt.Errorf("failed to load scripts: %w", err)
	}
	for _, row := range rows {
		state.Scripts = append(state.Scripts, ItemFromRow(row))
	}

	return state.Normalize(), nil
}

// Save replaces the stored state with state.
func (r *StateRepository) Save(ctx context.Context, state vault.State) error {
	return withTx(ctx, r.ctx, func(queries *sqldb.Queries) error {
		if err := queries.DeleteAllScripts(ctx); err != nil {
			return fmt.Errorf("failed to clear scripts: %w", err)
		}
		for i, item := range state.Scripts {
			if err := queries.InsertScript(ctx, insertParams(i, item)); err != nil {
				return fmt.Errorf("failed to save script %s: %w", item.ID, err)
			}
		}
		if err := queries.UpsertSettings(ctx, settingsParams(state)); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		return nil
	})
}
