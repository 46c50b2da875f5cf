package sqldb

import "database/sql"

type Script struct {
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

type VaultSetting struct {
	ID                int64
	SelectedID        sql.NullString
	PreferredProvider string
	GeminiApiKey      sql.NullString
	OpenaiApiKey      sql.NullString
	ClaudeApiKey      sql.NullString
	LastSyncAt        sql.NullString
}

type LinkedFolder struct {
	ID       int64
	Path     string
	LinkedAt string
}
