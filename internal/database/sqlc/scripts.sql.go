package sqldb

import (
	"context"
	"database/sql"
)

const listScripts = `SELECT position, id, name, description, language, content, created_at, updated_at, file_path, content_hash, disk_modified_at
FROM scripts
ORDER BY position`

func (q *Queries) ListScripts(ctx context.Context) ([]Script, error) {
	rows, err := q.db.QueryContext(ctx, listScripts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Script
	for rows.Next() {
		var i Script
		if err := rows.Scan(
			&i.Position,
			&i.ID,
			&i.Name,
			&i.Description,
			&i.Language,
			&i.Content,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.FilePath,
			&i.ContentHash,
			&i.DiskModifiedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertScript = `INSERT INTO scripts (position, id, name, description, language, content, created_at, updated_at, file_path, content_hash, disk_modified_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type InsertScriptParams struct {
	Position       int64
	ID             string
	Name           string
	Description    string
	Language       string
	Content        string
	CreatedAt      string
	UpdatedAt      string
	FilePath       sql.NullString
	ContentHash    sql.NullString
	DiskModifiedAt sql.NullString
}

func (q *Queries) InsertScript(ctx context.Context, arg InsertScriptParams) error {
	_, err := q.db.ExecContext(ctx, insertScript,
		arg.Position,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.Language,
		arg.Content,
		arg.CreatedAt,
		arg.UpdatedAt,
		arg.FilePath,
		arg.ContentHash,
		arg.DiskModifiedAt,
	)
	return err
}

const getSettings = `SELECT id, selected_id, preferred_provider, gemini_api_key, openai_api_key, claude_api_key, last_sync_at
FROM vault_settings
WHERE id = 1`

func (q *Queries) GetSettings(ctx context.Context) (VaultSetting, error) {
	row := q.db.QueryRowContext(ctx, getSettings)
	var i VaultSetting
	err := row.Scan(
		&i.ID,
		&i.SelectedID,
		&i.PreferredProvider,
		&i.GeminiApiKey,
		&i.OpenaiApiKey,
		&i.ClaudeApiKey,
		&i.LastSyncAt,
	)
	return i, err
}

const upsertSettings = `INSERT INTO vault_settings (id, selected_id, preferred_provider, gemini_api_key, openai_api_key, claude_api_key, last_sync_at)
VALUES (1, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    selected_id = excluded.selected_id,
    preferred_provider = excluded.preferred_provider,
    gemini_api_key = excluded.gemini_api_key,
    openai_api_key = excluded.openai_api_key,
    claude_api_key = excluded.claude_api_key,
    last_sync_at = excluded.last_sync_at`

type UpsertSettingsParams struct {
	SelectedID        sql.NullString
	PreferredProvider string
	GeminiApiKey      sql.NullString
	OpenaiApiKey      sql.NullString
	ClaudeApiKey      sql.NullString
	LastSyncAt        sql.NullString
}

func (q *Queries) UpsertSettings(ctx context.Context, arg UpsertSettingsParams) error {
	_, err := q.db.ExecContext(ctx, upsertSettings,
		arg.SelectedID,
		arg.PreferredProvider,
		arg.GeminiApiKey,
		arg.OpenaiApiKey,
		arg.ClaudeApiKey,
		arg.LastSyncAt,
	)
	return err
}
