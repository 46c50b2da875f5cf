package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vault-md/scriptvault/internal/application"
	"github.com/vault-md/scriptvault/internal/filesystem"
	"github.com/vault-md/scriptvault/internal/fssync"
	"github.com/vault-md/scriptvault/internal/script"
	"github.com/vault-md/scriptvault/internal/usecase"
)

// Server exposes the script vault to MCP clients.
type Server struct {
	server  *mcp.Server
	app     *application.App
	notices *usecase.Recorder
}

// NewServer opens the vault and registers the script tools.
func NewServer(opts application.Options, version string) (*Server, error) {
	notices := &usecase.Recorder{}
	opts.Notifier = notices

	app, err := application.Open(opts)
	if err != nil {
		return nil, err
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "scriptvault",
		Version: version,
	}, nil)

	s := &Server{
		server:  mcpServer,
		app:     app,
		notices: notices,
	}
	s.registerTools()

	return s, nil
}

// Run serves over stdio until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	defer s.app.Close()
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "script_list",
		Description: "List scripts in the vault",
	}, s.handleList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "script_get",
		Description: "Get a script by id, name or filename",
	}, s.handleGet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "script_sync",
		Description: "Pull changes from the linked folder into the vault",
	}, s.handleSync)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "script_save",
		Description: "Write every script and the metadata file to the linked folder",
	}, s.handleSave)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "script_conflicts",
		Description: "Report scripts whose names map to the same filename",
	}, s.handleConflicts)
}

type ListInput struct {
	Language *string `json:"language,omitempty" jsonschema:"only list scripts in this language"`
}

type ListOutput struct {
	Scripts []ScriptSummary `json:"scripts"`
}

type ScriptSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language"`
	Filename    string `json:"filename"`
	Synced      bool   `json:"synced"`
	UpdatedAt   string `json:"updatedAt"`
}

type GetInput struct {
	Ref string `json:"ref" jsonschema:"script id, display name or filename"`
}

type GetOutput struct {
	Script      ScriptSummary `json:"script"`
	Content     string        `json:"content"`
	ContentHash string        `json:"contentHash,omitempty"`
}

type SyncInput struct {
	Replace bool `json:"replace,omitempty" jsonschema:"re-import the whole folder instead of reading only changed files"`
}

type SyncOutput struct {
	Count    int              `json:"count"`
	Notices  []usecase.Notice `json:"notices"`
	LastSync string           `json:"lastSyncAt"`
}

type SaveInput struct{}

type SaveOutput struct {
	Count   int              `json:"count"`
	Notices []usecase.Notice `json:"notices"`
}

type ConflictsInput struct{}

type ConflictsOutput struct {
	Conflicts []fssync.NameConflict `json:"conflicts"`
}

func summarize(item script.Item) ScriptSummary {
	filename := item.FilePath
	if filename == "" {
		filename = script.FilenameFor(item)
	}
	return ScriptSummary{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Language:    string(item.Language),
		Filename:    filename,
		Synced:      item.Synced(),
		UpdatedAt:   fssync.FormatInstant(item.UpdatedAt),
	}
}

func (s *Server) handleList(ctx context.Context, req *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
	state, err := s.app.Vault.State(ctx)
	if err != nil {
		return nil, ListOutput{}, fmt.Errorf("failed to load scripts: %w", err)
	}

	var filter script.Language
	if input.Language != nil && *input.Language != "" {
		lang, ok := script.ParseLanguage(*input.Language)
		if !ok {
			return nil, ListOutput{}, fmt.Errorf("unknown language %q", *input.Language)
		}
		filter = lang
	}

	out := ListOutput{Scripts: make([]ScriptSummary, 0, len(state.Scripts))}
	for _, item := range state.Scripts {
		if filter != "" && item.Language != filter {
			continue
		}
		out.Scripts = append(out.Scripts, summarize(item))
	}
	return nil, out, nil
}

func (s *Server) handleGet(ctx context.Context, req *mcp.CallToolRequest, input GetInput) (*mcp.CallToolResult, GetOutput, error) {
	item, err := s.app.Vault.Find(ctx, input.Ref)
	if err != nil {
		return nil, GetOutput{}, err
	}
	return nil, GetOutput{
		Script:      summarize(item),
		Content:     item.Content,
		ContentHash: item.ContentHash,
	}, nil
}

func (s *Server) handleSync(ctx context.Context, req *mcp.CallToolRequest, input SyncInput) (*mcp.CallToolResult, SyncOutput, error) {
	dir, err := s.app.LinkedDir(ctx, filesystem.ModeRead)
	if err != nil {
		return nil, SyncOutput{}, err
	}
	defer dir.Close()

	sync := s.app.Vault.Sync
	if input.Replace {
		sync = s.app.Vault.Resync
	}
	state, err := sync(ctx, dir)
	if err != nil {
		return nil, SyncOutput{}, fmt.Errorf("failed to sync: %w", err)
	}

	return nil, SyncOutput{
		Count:    len(state.Scripts),
		Notices:  s.notices.Drain(),
		LastSync: fssync.FormatInstant(state.Settings.LastSyncAt),
	}, nil
}

func (s *Server) handleSave(ctx context.Context, req *mcp.CallToolRequest, input SaveInput) (*mcp.CallToolResult, SaveOutput, error) {
	dir, release, err := s.app.OptionalDir(ctx, filesystem.ModeReadWrite)
	if err != nil {
		return nil, SaveOutput{}, err
	}
	defer release()

	state, err := s.app.Vault.SaveAll(ctx, dir)
	if err != nil {
		return nil, SaveOutput{}, fmt.Errorf("failed to save: %w", err)
	}
	return nil, SaveOutput{Count: len(state.Scripts), Notices: s.notices.Drain()}, nil
}

func (s *Server) handleConflicts(ctx context.Context, req *mcp.CallToolRequest, input ConflictsInput) (*mcp.CallToolResult, ConflictsOutput, error) {
	conflicts, err := s.app.Vault.Conflicts(ctx)
	if err != nil {
		return nil, ConflictsOutput{}, err
	}
	if conflicts == nil {
		conflicts = []fssync.NameConflict{}
	}
	return nil, ConflictsOutput{Conflicts: conflicts}, nil
}
