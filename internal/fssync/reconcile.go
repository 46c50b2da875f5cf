package fssync

import (
	"time"

	"github.com/vault-md/scriptvault/internal/script"
)

// sources are the places a scanned file's logical fields can come from,
// in precedence order: the metadata record, the prior in-memory item for
// the same filename, then defaults derived from the filename.
type sources struct {
	record   *MetadataItem
	prior    *script.Item
	filename string
}

// observed is what the scan learned from the file itself.
type observed struct {
	content string
	hash    string
	modTime time.Time
}

// resolve builds an item for a scanned file. Every field follows the
// record → prior → filename precedence; UpdatedAt skips the prior because a
// re-read file is by definition newly updated.
func resolve(src sources, obs observed, now time.Time, newID func() string) script.Item {
	rec := src.record
	if rec == nil {
		rec = &MetadataItem{}
	}
	prior := src.prior
	if prior == nil {
		prior = &script.Item{}
	}

	item := script.Item{
		ID:             firstString(rec.ID, prior.ID),
		Name:           firstString(rec.Name, prior.Name, script.Stem(src.filename)),
		Description:    firstString(rec.Description, prior.Description),
		Language:       firstLanguage(rec.Language, prior.Language, script.LanguageFromFilename(src.filename)),
		Content:        obs.content,
		CreatedAt:      firstInstant(rec.CreatedAt, prior.CreatedAt, now),
		UpdatedAt:      firstInstant(rec.UpdatedAt, time.Time{}, now),
		FilePath:       src.filename,
		ContentHash:    obs.hash,
		DiskModifiedAt: obs.modTime.UTC(),
	}
	if item.ID == "" {
		item.ID = newID()
	}
	return item
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstLanguage(values ...script.Language) script.Language {
	for _, v := range values {
		if v.Valid() {
			return v
		}
	}
	return script.DefaultLanguage
}

func firstInstant(recorded string, prior, fallback time.Time) time.Time {
	if t, ok := ParseInstant(recorded); ok {
		return t
	}
	if !prior.IsZero() {
		return prior.UTC()
	}
	return fallback.UTC()
}
