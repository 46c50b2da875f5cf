// Package vault holds the script collection state and the pure transitions
// applied to it after each operation.
package vault

import (
	"slices"
	"strings"
	"time"

	"github.com/vault-md/scriptvault/internal/fssync"
	"github.com/vault-md/scriptvault/internal/script"
)

// Provider names an AI provider whose key may be stored.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
	ProviderClaude Provider = "claude"
)

// DefaultProvider is preferred until the user picks another.
const DefaultProvider = ProviderGemini

// Providers lists the known providers.
func Providers() []Provider {
	return []Provider{ProviderGemini, ProviderOpenAI, ProviderClaude}
}

// ParseProvider accepts a provider name in any case.
func ParseProvider(value string) (Provider, bool) {
	for _, p := range Providers() {
		if strings.EqualFold(string(p), strings.TrimSpace(value)) {
			return p, true
		}
	}
	return "", false
}

// Settings are user preferences plus the sync watermark. API keys are
// stored only; nothing in this module sends them anywhere.
type Settings struct {
	PreferredProvider Provider
	GeminiAPIKey      string
	OpenAIAPIKey      string
	ClaudeAPIKey      string
	// LastSyncAt is the watermark. The zero time means never synced.
	LastSyncAt time.Time
}

// DefaultSettings returns settings for a fresh vault.
func DefaultSettings() Settings {
	return Settings{PreferredProvider: DefaultProvider}
}

// APIKey returns the stored key for p.
func (s Settings) APIKey(p Provider) string {
	switch p {
	case ProviderGemini:
		return s.GeminiAPIKey
	case ProviderOpenAI:
		return s.OpenAIAPIKey
	case ProviderClaude:
		return s.ClaudeAPIKey
	}
	return ""
}

func (s *Settings) setAPIKey(p Provider, key string) {
	switch p {
	case ProviderGemini:
		s.GeminiAPIKey = key
	case ProviderOpenAI:
		s.OpenAIAPIKey = key
	case ProviderClaude:
		s.ClaudeAPIKey = key
	}
}

// MetadataSettings is the redacted echo written into the side-car.
func (s Settings) MetadataSettings() fssync.MetadataSettings {
	echo := fssync.MetadataSettings{PreferredProvider: string(s.PreferredProvider)}
	if !s.LastSyncAt.IsZero() {
		at := fssync.FormatInstant(s.LastSyncAt)
		echo.LastSyncAt = &at
	}
	return echo
}

// State is the root aggregate.
type State struct {
	Scripts    []script.Item
	SelectedID string
	Settings   Settings
}

// NewState returns an empty vault with default settings.
func NewState() State {
	return State{Settings: DefaultSettings()}
}

// Find returns the item with id and its index, or -1.
func (s State) Find(id string) (script.Item, int) {
	for i, item := range s.Scripts {
		if item.ID == id {
			return item, i
		}
	}
	return script.Item{}, -1
}

// Selected returns the selected item.
func (s State) Selected() (script.Item, bool) {
	if s.SelectedID == "" {
		return script.Item{}, false
	}
	item, idx := s.Find(s.SelectedID)
	return item, idx >= 0
}

// Normalize repairs a selection that no longer names an item by falling
// back to the first item, and fills in a missing provider preference.
func (s State) Normalize() State {
	if s.Settings.PreferredProvider == "" {
		s.Settings.PreferredProvider = DefaultProvider
	}
	if s.SelectedID != "" {
		if _, idx := s.Find(s.SelectedID); idx < 0 {
			s.SelectedID = firstID(s.Scripts)
		}
	}
	return s
}

func (s State) clone() State {
	s.Scripts = slices.Clone(s.Scripts)
	return s
}

func firstID(items []script.Item) string {
	if len(items) == 0 {
		return ""
	}
	return items[0].ID
}
