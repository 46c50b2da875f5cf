package vault

import (
	"time"

	"github.com/vault-md/scriptvault/internal/fssync"
	"github.com/vault-md/scriptvault/internal/script"
)

// Result is the outcome of an operation, folded into State by Apply.
type Result interface {
	apply(State) State
}

// Apply returns the state that follows result. It never mutates state.
func Apply(state State, result Result) State {
	if result == nil {
		return state.clone().Normalize()
	}
	return result.apply(state.clone()).Normalize()
}

// Imported replaces the collection with a full folder import.
type Imported struct {
	Items []script.Item
	At    time.Time
}

func (r Imported) apply(s State) State {
	s.Scripts = append([]script.Item(nil), r.Items...)
	s.SelectedID = firstID(s.Scripts)
	s.Settings.LastSyncAt = r.At.UTC()
	return s
}

// Synced folds an incremental scan into the collection. Items whose file
// is no longer on disk are dropped; items that never touched disk stay.
type Synced struct {
	Changed []script.Item
	OnDisk  fssync.NameSet
	At      time.Time
}

// Deleted returns the ids of items whose file vanished from the folder.
func (r Synced) Deleted(items []script.Item) []string {
	var ids []string
	for _, item := range items {
		if item.FilePath != "" && !r.OnDisk.Has(item.FilePath) {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

func (r Synced) apply(s State) State {
	s.Settings.LastSyncAt = r.At.UTC()
	if len(r.Changed) == 0 && len(r.Deleted(s.Scripts)) == 0 {
		return s
	}

	kept := s.Scripts[:0:0]
	for _, item := range s.Scripts {
		if item.FilePath != "" && !r.OnDisk.Has(item.FilePath) {
			continue
		}
		kept = append(kept, item)
	}
	s.Scripts = fssync.Merge(kept, r.Changed)
	if _, idx := s.Find(s.SelectedID); idx < 0 {
		s.SelectedID = firstID(s.Scripts)
	}
	return s
}

// Written replaces the collection with the items returned by a write-back.
type Written struct {
	Items []script.Item
	At    time.Time
}

func (r Written) apply(s State) State {
	s.Scripts = append([]script.Item(nil), r.Items...)
	s.Settings.LastSyncAt = r.At.UTC()
	return s
}

// Removed drops one item locally.
type Removed struct {
	ID string
}

func (r Removed) apply(s State) State {
	if _, idx := s.Find(r.ID); idx >= 0 {
		s.Scripts = append(s.Scripts[:idx], s.Scripts[idx+1:]...)
	}
	return s
}

// Created appends a new item and selects it.
type Created struct {
	Item script.Item
}

func (r Created) apply(s State) State {
	s.Scripts = append(s.Scripts, r.Item)
	s.SelectedID = r.Item.ID
	return s
}

// Edited applies a field patch to one item.
type Edited struct {
	ID    string
	Patch script.Patch
	At    time.Time
}

func (r Edited) apply(s State) State {
	if _, idx := s.Find(r.ID); idx >= 0 {
		s.Scripts[idx] = r.Patch.ApplyTo(s.Scripts[idx], r.At)
	}
	return s
}

// Selected changes the selection. Unknown ids are ignored.
type Selected struct {
	ID string
}

func (r Selected) apply(s State) State {
	if _, idx := s.Find(r.ID); idx >= 0 || r.ID == "" {
		s.SelectedID = r.ID
	}
	return s
}

// ProviderChosen changes the preferred provider.
type ProviderChosen struct {
	Provider Provider
}

func (r ProviderChosen) apply(s State) State {
	if _, ok := ParseProvider(string(r.Provider)); ok {
		s.Settings.PreferredProvider = r.Provider
	}
	return s
}

// KeyStored sets or clears the API key of a provider.
type KeyStored struct {
	Provider Provider
	Key      string
}

func (r KeyStored) apply(s State) State {
	s.Settings.setAPIKey(r.Provider, r.Key)
	return s
}
