// Package application wires the database, the sync engine and the vault
// use cases together for the command line and the MCP server.
package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/vault-md/scriptvault/internal/config"
	"github.com/vault-md/scriptvault/internal/database"
	"github.com/vault-md/scriptvault/internal/filesystem"
	"github.com/vault-md/scriptvault/internal/fssync"
	"github.com/vault-md/scriptvault/internal/logger"
	"github.com/vault-md/scriptvault/internal/usecase"
)

// ErrNoLinkedFolder is returned when a folder operation runs before link.
var ErrNoLinkedFolder = errors.New("no folder is linked; run `scriptvault link <dir>` first")

// Options configures Open.
type Options struct {
	// DBPath overrides the database location; ":memory:" is allowed.
	DBPath   string
	Config   *config.Config
	Logger   *logger.Logger
	Notifier usecase.Notifier
}

// App is an opened vault.
type App struct {
	Vault   *usecase.Vault
	Folders *database.FolderRepository
	Engine  *fssync.Engine
	Log     *logger.Logger

	db *database.Context
}

// Open connects to the state database and builds the use cases.
func Open(opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	dbCtx, err := database.CreateDatabase(opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	engineOpts := []fssync.Option{fssync.WithLogger(log)}
	if opts.Config != nil {
		engineOpts = append(engineOpts, fssync.WithReadConcurrency(opts.Config.Sync.ReadConcurrency))
	}
	engine := fssync.New(engineOpts...)

	folders := database.NewFolderRepository(dbCtx)
	v := usecase.NewVault(engine, database.NewStateRepository(dbCtx),
		usecase.WithNotifier(opts.Notifier),
		usecase.WithLogger(log),
		usecase.WithFolderMemory(folders),
	)

	return &App{Vault: v, Folders: folders, Engine: engine, Log: log, db: dbCtx}, nil
}

// Close releases the database.
func (a *App) Close() error {
	return database.CloseDatabase(a.db)
}

// LinkedDir reopens the remembered folder. The grant is checked again for
// mode before the handle is returned.
func (a *App) LinkedDir(ctx context.Context, mode filesystem.Mode) (*filesystem.OSDir, error) {
	folder, err := a.Folders.Get(ctx)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNoLinkedFolder
		}
		return nil, err
	}

	dir, err := filesystem.OpenDir(folder.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open linked folder %s: %w", folder.Path, err)
	}
	if err := dir.Permission(ctx, mode); err != nil {
		_ = dir.Close()
		return nil, err
	}
	return dir, nil
}

// OptionalDir is LinkedDir that yields a nil Directory instead of
// ErrNoLinkedFolder. The returned func releases the handle.
func (a *App) OptionalDir(ctx context.Context, mode filesystem.Mode) (filesystem.Directory, func(), error) {
	dir, err := a.LinkedDir(ctx, mode)
	if errors.Is(err, ErrNoLinkedFolder) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	return dir, func() { _ = dir.Close() }, nil
}

// Unlink forgets the linked folder. Scripts stay in the local state.
func (a *App) Unlink(ctx context.Context) (bool, error) {
	return a.Folders.Clear(ctx)
}
