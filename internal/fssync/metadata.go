package fssync

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/vault-md/scriptvault/internal/script"
)

// MetadataFilename is the reserved side-car document inside a linked folder.
const MetadataFilename = "metadata.json"

// instantLayout matches the millisecond ISO-8601 form used in the side-car.
const instantLayout = "2006-01-02T15:04:05.000Z07:00"

// Metadata is the side-car document. It never carries script content or
// provider keys.
type Metadata struct {
	ExportedAt string            `json:"exportedAt"`
	Count      int               `json:"count"`
	Languages  []script.Language `json:"languages"`
	Items      []MetadataItem    `json:"items"`
	App        AppTag            `json:"app"`
	Settings   *MetadataSettings `json:"settings,omitempty"`
}

// MetadataItem records the logical fields of one script next to its filename.
type MetadataItem struct {
	ID             string          `json:"id,omitempty"`
	Name           string          `json:"name,omitempty"`
	Description    string          `json:"description"`
	Language       script.Language `json:"language,omitempty"`
	Filename       string          `json:"filename,omitempty"`
	CreatedAt      string          `json:"createdAt,omitempty"`
	UpdatedAt      string          `json:"updatedAt,omitempty"`
	ContentHash    string          `json:"contentHash,omitempty"`
	DiskModifiedAt string          `json:"diskModifiedAt,omitempty"`
}

// AppTag identifies the writer of the document.
type AppTag struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
}

// MetadataSettings is the redacted settings echo. It has no room for keys.
type MetadataSettings struct {
	PreferredProvider string  `json:"preferredProvider,omitempty"`
	LastSyncAt        *string `json:"lastSyncAt"`
}

// SettingsSource supplies the settings echo for a write-back.
type SettingsSource interface {
	MetadataSettings() MetadataSettings
}

var appTag = AppTag{Name: "Script Vault", Version: 1}

// key returns the filename a record describes.
func (m MetadataItem) key() string {
	if m.Filename != "" {
		return m.Filename
	}
	return m.Name
}

// isMetadataName reports whether name is the reserved side-car.
func isMetadataName(name string) bool {
	return strings.EqualFold(name, MetadataFilename)
}

// parseMetadata decodes raw. Only a document that is not a JSON object
// yields nil. Other top-level fields are not read back, and a record that
// does not decode is skipped without affecting its neighbours.
func parseMetadata(raw string) *Metadata {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return nil
	}

	doc := &Metadata{}
	var records []json.RawMessage
	if err := json.Unmarshal(top["items"], &records); err != nil {
		return doc
	}
	for _, rec := range records {
		var item MetadataItem
		if err := json.Unmarshal(rec, &item); err != nil {
			continue
		}
		doc.Items = append(doc.Items, item)
	}
	return doc
}

// index maps record keys to records; the first record for a key wins.
func (m *Metadata) index() map[string]*MetadataItem {
	if m == nil {
		return nil
	}
	out := make(map[string]*MetadataItem, len(m.Items))
	for i := range m.Items {
		key := m.Items[i].key()
		if key == "" {
			continue
		}
		if _, seen := out[key]; !seen {
			out[key] = &m.Items[i]
		}
	}
	return out
}

// BuildMetadata regenerates the side-car from items. Count, languages and
// exportedAt are always recomputed.
func BuildMetadata(items []script.Item, settings SettingsSource, exportedAt time.Time) Metadata {
	doc := Metadata{
		ExportedAt: FormatInstant(exportedAt),
		Count:      len(items),
		Languages:  []script.Language{},
		Items:      make([]MetadataItem, 0, len(items)),
		App:        appTag,
	}

	seen := make(map[script.Language]struct{})
	for _, item := range items {
		if _, ok := seen[item.Language]; !ok {
			seen[item.Language] = struct{}{}
			doc.Languages = append(doc.Languages, item.Language)
		}

		filename := item.FilePath
		if filename == "" {
			filename = script.FilenameFor(item)
		}
		doc.Items = append(doc.Items, MetadataItem{
			ID:             item.ID,
			Name:           item.Name,
			Description:    item.Description,
			Language:       item.Language,
			Filename:       filename,
			CreatedAt:      FormatInstant(item.CreatedAt),
			UpdatedAt:      FormatInstant(item.UpdatedAt),
			ContentHash:    item.ContentHash,
			DiskModifiedAt: FormatInstant(item.DiskModifiedAt),
		})
	}

	if settings != nil {
		echo := settings.MetadataSettings()
		doc.Settings = &echo
	}
	return doc
}

// FormatInstant renders t as a UTC millisecond ISO-8601 string; the zero
// time renders empty.
func FormatInstant(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(instantLayout)
}

// ParseInstant reads an ISO-8601 instant, reporting false when value is
// empty or malformed.
func ParseInstant(value string) (time.Time, bool) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
