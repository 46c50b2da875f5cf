package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vault-md/scriptvault/internal/filesystem"
	"github.com/vault-md/scriptvault/internal/fssync"
	"github.com/vault-md/scriptvault/internal/logger"
	"github.com/vault-md/scriptvault/internal/script"
	"github.com/vault-md/scriptvault/internal/vault"
)

// ErrScriptNotFound is returned when an id or name matches no script.
var ErrScriptNotFound = errors.New("usecase: script not found")

// ErrAmbiguousScript is returned when a name matches several scripts.
var ErrAmbiguousScript = errors.New("usecase: script reference is ambiguous")

// StateStore persists the vault state between runs.
type StateStore interface {
	Load(ctx context.Context) (vault.State, error)
	Save(ctx context.Context, state vault.State) error
}

// FolderMemory remembers the identity of the linked folder.
type FolderMemory interface {
	Set(ctx context.Context, path string, linkedAt time.Time) error
}

// Vault coordinates the sync engine, the state store and notifications.
// Operations on the same folder are serialized.
type Vault struct {
	engine  *fssync.Engine
	store   StateStore
	folders FolderMemory
	notify  Notifier
	log     *logger.Logger
	now     func() time.Time
	newID   func() string

	stateMu sync.Mutex
	locks   folderLocks
}

// Option configures a Vault.
type Option func(*Vault)

// WithNotifier sets where user-facing notices go.
func WithNotifier(n Notifier) Option {
	return func(v *Vault) {
		if n != nil {
			v.notify = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(v *Vault) {
		if log != nil {
			v.log = log
		}
	}
}

// WithFolderMemory remembers linked folders across runs.
func WithFolderMemory(m FolderMemory) Option {
	return func(v *Vault) { v.folders = m }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(v *Vault) {
		if now != nil {
			v.now = now
		}
	}
}

// WithIDGenerator overrides how new script ids are made.
func WithIDGenerator(newID func() string) Option {
	return func(v *Vault) {
		if newID != nil {
			v.newID = newID
		}
	}
}

// NewVault builds the use cases over engine and store.
func NewVault(engine *fssync.Engine, store StateStore, opts ...Option) *Vault {
	v := &Vault{
		engine: engine,
		store:  store,
		notify: nopNotifier{},
		log:    logger.Nop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// State returns the persisted state.
func (v *Vault) State(ctx context.Context) (vault.State, error) {
	v.stateMu.Lock()
	defer v.stateMu.Unlock()
	return v.store.Load(ctx)
}

// commit loads the latest state, applies result and saves it.
func (v *Vault) commit(ctx context.Context, result vault.Result) (vault.State, error) {
	v.stateMu.Lock()
	defer v.stateMu.Unlock()

	current, err := v.store.Load(ctx)
	if err != nil {
		return vault.State{}, fmt.Errorf("failed to load state: %w", err)
	}
	next := vault.Apply(current, result)
	if err := v.store.Save(ctx, next); err != nil {
		return vault.State{}, fmt.Errorf("failed to save state: %w", err)
	}
	return next, nil
}

func (v *Vault) clock() time.Time {
	return v.now().UTC()
}

// Link imports dir as the linked folder, replacing the local collection.
// Settings other than the watermark are kept.
func (v *Vault) Link(ctx context.Context, dir filesystem.Directory) (vault.State, error) {
	unlock := v.locks.lock(dir.ID())
	defer unlock()

	if err := dir.Permission(ctx, filesystem.ModeReadWrite); err != nil {
		v.notify.Error("Permission to access folder was denied")
		return vault.State{}, err
	}

	at := v.clock()
	items, err := v.engine.ScanFull(ctx, dir)
	if err != nil {
		v.notify.Error(fmt.Sprintf("Failed to import %s", dir.Name()))
		return vault.State{}, err
	}

	state, err := v.commit(ctx, vault.Imported{Items: items, At: at})
	if err != nil {
		return vault.State{}, err
	}

	if v.folders != nil {
		if err := v.folders.Set(ctx, dir.ID(), at); err != nil {
			return state, fmt.Errorf("failed to remember folder: %w", err)
		}
	}

	v.log.Info("folder linked", "folder", dir.Name(), "scripts", len(items))
	v.notify.Success("Folder linked and imported")
	return state, nil
}

// Resync replaces the collection with a full import of dir.
func (v *Vault) Resync(ctx context.Context, dir filesystem.Directory) (vault.State, error) {
	unlock := v.locks.lock(dir.ID())
	defer unlock()

	at := v.clock()
	items, err := v.engine.ScanFull(ctx, dir)
	if err != nil {
		v.notifyFailure(err, "Failed to import folder")
		return vault.State{}, err
	}

	state, err := v.commit(ctx, vault.Imported{Items: items, At: at})
	if err != nil {
		return vault.State{}, err
	}
	v.notify.Success(fmt.Sprintf("Imported %d file(s)", len(items)))
	return state, nil
}

// Sync pulls files changed since the last sync into the collection.
func (v *Vault) Sync(ctx context.Context, dir filesystem.Directory) (vault.State, error) {
	unlock := v.locks.lock(dir.ID())
	defer unlock()

	current, err := v.State(ctx)
	if err != nil {
		return vault.State{}, err
	}

	at := v.clock()
	scan, err := v.engine.ScanIncremental(ctx, dir, current.Scripts, current.Settings.LastSyncAt)
	if err != nil {
		v.notifyFailure(err, "Failed to sync from folder")
		return vault.State{}, err
	}

	result := vault.Synced{Changed: scan.Changed, OnDisk: scan.OnDisk, At: at}
	deleted := result.Deleted(current.Scripts)

	state, err := v.commit(ctx, result)
	if err != nil {
		return vault.State{}, err
	}

	if len(scan.Changed) == 0 && len(deleted) == 0 {
		v.notify.Message("No changes detected")
		return state, nil
	}
	v.log.Debug("synced folder", "folder", dir.Name(), "changed", len(scan.Changed), "deleted", len(deleted))
	v.notify.Message(fmt.Sprintf("Synced %d file(s)", len(scan.Changed)))
	return state, nil
}

// SaveAll writes the collection to dir. Without a folder, or when the
// write fails, the state is only persisted locally.
func (v *Vault) SaveAll(ctx context.Context, dir filesystem.Directory) (vault.State, error) {
	if dir == nil {
		state, err := v.commit(ctx, nil)
		if err != nil {
			return vault.State{}, err
		}
		v.notify.Success("Saved")
		return state, nil
	}

	unlock := v.locks.lock(dir.ID())
	defer unlock()

	current, err := v.State(ctx)
	if err != nil {
		return vault.State{}, err
	}

	at := v.clock()
	written, err := v.engine.WriteAll(ctx, dir, current.Scripts, current.Settings)
	if err != nil {
		v.log.Warn("write-back failed", "folder", dir.Name(), "error", err)
		if _, saveErr := v.commit(ctx, nil); saveErr != nil {
			return vault.State{}, errors.Join(err, saveErr)
		}
		if errors.Is(err, fssync.ErrNameConflict) {
			v.notify.Error("Cannot save: duplicate name and extension.")
		} else {
			v.notify.Error("Failed saving to disk; changes kept locally")
		}
		return current, err
	}

	state, err := v.commit(ctx, vault.Written{Items: written, At: at})
	if err != nil {
		return vault.State{}, err
	}
	v.notify.Success("Saved to disk")
	return state, nil
}

// Delete removes a script. With a folder its file is removed on a
// best-effort basis and the remaining scripts are written back; if that
// fails the script is removed locally only.
func (v *Vault) Delete(ctx context.Context, dir filesystem.Directory, id string) (vault.State, error) {
	if dir != nil {
		unlock := v.locks.lock(dir.ID())
		defer unlock()
	}

	current, err := v.State(ctx)
	if err != nil {
		return vault.State{}, err
	}
	target, idx := current.Find(id)
	if idx < 0 {
		return vault.State{}, ErrScriptNotFound
	}

	if dir != nil {
		filename := target.FilePath
		if filename == "" {
			filename = script.FilenameFor(target)
		}
		if remover, ok := dir.(filesystem.Remover); ok {
			if err := remover.RemoveEntry(ctx, filename); err != nil {
				v.log.Debug("failed to remove deleted script file", "file", filename, "error", err)
			}
		}

		remaining := vault.Apply(current, vault.Removed{ID: id}).Scripts
		at := v.clock()
		written, err := v.engine.WriteOnly(ctx, dir, remaining, current.Settings)
		if err == nil {
			state, err := v.commit(ctx, vault.Written{Items: written, At: at})
			if err != nil {
				return vault.State{}, err
			}
			v.notify.Success("Deleted from disk")
			return state, nil
		}
		v.log.Warn("write-back after delete failed", "folder", dir.Name(), "error", err)
	}

	state, err := v.commit(ctx, vault.Removed{ID: id})
	if err != nil {
		return vault.State{}, err
	}
	v.notify.Message("Script deleted")
	return state, nil
}

// Create adds a blank script and selects it.
func (v *Vault) Create(ctx context.Context) (script.Item, error) {
	v.stateMu.Lock()
	defer v.stateMu.Unlock()

	current, err := v.store.Load(ctx)
	if err != nil {
		return script.Item{}, fmt.Errorf("failed to load state: %w", err)
	}
	item := script.NewBlank(current.Scripts, v.newID(), v.clock())
	if err := v.store.Save(ctx, vault.Apply(current, vault.Created{Item: item})); err != nil {
		return script.Item{}, fmt.Errorf("failed to save state: %w", err)
	}
	v.notify.Success("New script created")
	return item, nil
}

// Update applies patch to the script with id.
func (v *Vault) Update(ctx context.Context, id string, patch script.Patch) (script.Item, error) {
	if patch.Language != nil && !patch.Language.Valid() {
		return script.Item{}, fmt.Errorf("unknown language %q", *patch.Language)
	}
	state, err := v.commit(ctx, vault.Edited{ID: id, Patch: patch, At: v.clock()})
	if err != nil {
		return script.Item{}, err
	}
	item, idx := state.Find(id)
	if idx < 0 {
		return script.Item{}, ErrScriptNotFound
	}
	return item, nil
}

// Select changes the selected script.
func (v *Vault) Select(ctx context.Context, id string) (vault.State, error) {
	state, err := v.commit(ctx, vault.Selected{ID: id})
	if err != nil {
		return vault.State{}, err
	}
	if state.SelectedID != id {
		return state, ErrScriptNotFound
	}
	return state, nil
}

// Configure applies settings changes such as provider and key updates.
func (v *Vault) Configure(ctx context.Context, changes ...vault.Result) (vault.Settings, error) {
	var state vault.State
	for _, change := range changes {
		next, err := v.commit(ctx, change)
		if err != nil {
			return vault.Settings{}, err
		}
		state = next
	}
	if len(changes) == 0 {
		current, err := v.State(ctx)
		if err != nil {
			return vault.Settings{}, err
		}
		state = current
	}
	return state.Settings, nil
}

// Conflicts reports derived filenames that would collide on write-back.
func (v *Vault) Conflicts(ctx context.Context) ([]fssync.NameConflict, error) {
	state, err := v.State(ctx)
	if err != nil {
		return nil, err
	}
	return fssync.DetectConflicts(state.Scripts), nil
}

// Find resolves ref as an id, then as a case-insensitive name, then as a
// filename.
func (v *Vault) Find(ctx context.Context, ref string) (script.Item, error) {
	state, err := v.State(ctx)
	if err != nil {
		return script.Item{}, err
	}
	if item, idx := state.Find(ref); idx >= 0 {
		return item, nil
	}

	var matches []script.Item
	for _, item := range state.Scripts {
		if strings.EqualFold(item.Name, ref) || item.FilePath == ref {
			matches = append(matches, item)
		}
	}
	switch len(matches) {
	case 0:
		return script.Item{}, fmt.Errorf("%w: %s", ErrScriptNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return script.Item{}, fmt.Errorf("%w: %s matches %d scripts", ErrAmbiguousScript, ref, len(matches))
	}
}

func (v *Vault) notifyFailure(err error, fallback string) {
	if errors.Is(err, filesystem.ErrPermissionDenied) {
		v.notify.Error("Permission to access folder was denied")
		return
	}
	v.notify.Error(fallback)
}
