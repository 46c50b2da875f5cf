package script

import (
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9\-_. ]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// fallbackStem replaces names that sanitize to nothing.
const fallbackStem = "script"

// FilenameFor derives the on-disk filename for an item from its display
// name and language. It never fails.
func FilenameFor(item Item) string {
	return Filename(item.Name, item.Language)
}

// Filename sanitizes name and appends the extension of lang.
func Filename(name string, lang Language) string {
	safe := unsafeNameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	safe = whitespaceRuns.ReplaceAllString(safe, "-")
	if safe == "" {
		safe = fallbackStem
	}
	return safe + lang.Ext()
}

// LanguageFromFilename maps a filename's extension to a language tag,
// falling back to DefaultLanguage.
func LanguageFromFilename(name string) Language {
	if lang, ok := byExt[extension(name)]; ok {
		return lang
	}
	return DefaultLanguage
}

// IsSupportedFile reports whether name carries an extension from the
// language table.
func IsSupportedFile(name string) bool {
	_, ok := byExt[extension(name)]
	return ok
}

// Stem strips the last extension from a filename. A dotfile such as ".js"
// has an empty stem.
func Stem(name string) string {
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		return name[:dot]
	}
	return name
}

func extension(name string) string {
	return strings.ToLower(path.Ext(name))
}

const (
	blankName    = "Untitled Script"
	blankContent = "// Start typing...\n"
)

// NewBlank creates an empty script whose derived filename does not collide
// with any of the existing items.
func NewBlank(existing []Item, id string, now time.Time) Item {
	used := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		used[FilenameFor(item)] = struct{}{}
	}

	name := blankName
	for index := 2; ; index++ {
		if _, taken := used[Filename(name, DefaultLanguage)]; !taken {
			break
		}
		name = blankName + " " + strconv.Itoa(index)
	}

	now = now.UTC()
	return Item{
		ID:        id,
		Name:      name,
		Language:  DefaultLanguage,
		Content:   blankContent,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
