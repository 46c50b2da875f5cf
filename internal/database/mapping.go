package database

import (
	sqldb "github.com/vault-md/scriptvault/internal/database/sqlc"
	"github.com/vault-md/scriptvault/internal/script"
	"github.com/vault-md/scriptvault/internal/vault"
)

// ItemFromRow converts a scripts row to a script item.
func ItemFromRow(row sqldb.Script) script.Item {
	return script.Item{
		ID:             row.ID,
		Name:           row.Name,
		Description:    row.Description,
		Language:       script.Language(row.Language),
		Content:        row.Content,
		CreatedAt:      parseTime(row.CreatedAt),
		UpdatedAt:      parseTime(row.UpdatedAt),
		FilePath:       optionalString(row.FilePath),
		ContentHash:    optionalString(row.ContentHash),
		DiskModifiedAt: optionalTime(row.DiskModifiedAt),
	}
}

func insertParams(position int, item script.Item) sqldb.InsertScriptParams {
	return sqldb.InsertScriptParams{
		Position:       int64(position),
		ID:             item.ID,
		Name:           item.Name,
		Description:    item.Description,
		Language:       string(item.Language),
		Content:        item.Content,
		CreatedAt:      formatTime(item.CreatedAt),
		UpdatedAt:      formatTime(item.UpdatedAt),
		FilePath:       nullString(item.FilePath),
		ContentHash:    nullString(item.ContentHash),
		DiskModifiedAt: nullTime(item.DiskModifiedAt),
	}
}

// SettingsFromRow converts the settings row.
func SettingsFromRow(row sqldb.VaultSetting) vault.Settings {
	return vault.Settings{
		PreferredProvider: vault.Provider(row.PreferredProvider),
		GeminiAPIKey:      optionalString(row.GeminiApiKey),
		OpenAIAPIKey:      optionalString(row.OpenaiApiKey),
		ClaudeAPIKey:      optionalString(row.ClaudeApiKey),
		LastSyncAt:        optionalTime(row.LastSyncAt),
	}
}

func settingsParams(state vault.State) sqldb.UpsertSettingsParams {
	provider := state.Settings.PreferredProvider
	if provider == "" {
		provider = vault.DefaultProvider
	}
	return sqldb.UpsertSettingsParams{
		SelectedID:        nullString(state.SelectedID),
		PreferredProvider: string(provider),
		GeminiApiKey:      nullString(state.Settings.GeminiAPIKey),
		OpenaiApiKey:      nullString(state.Settings.OpenAIAPIKey),
		ClaudeApiKey:      nullString(state.Settings.ClaudeAPIKey),
		LastSyncAt:        nullTime(state.Settings.LastSyncAt),
	}
}
