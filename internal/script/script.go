// Package script defines the synchronized unit of the vault: a named, typed
// code snippet, together with the language table that maps it to files.
package script

import (
	"strings"
	"time"
)

// Language is a closed set of language tags understood by the vault.
type Language string

const (
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	Python     Language = "python"
	Bash       Language = "bash"
	JSON       Language = "json"
	SQL        Language = "sql"
	Go         Language = "go"
	Java       Language = "java"
	CSharp     Language = "csharp"
	Cpp        Language = "cpp"
	HTML       Language = "html"
	CSS        Language = "css"
	YAML       Language = "yaml"
	Markdown   Language = "markdown"
	Ruby       Language = "ruby"
	Rust       Language = "rust"
	PHP        Language = "php"
)

// DefaultLanguage is used for extensionless or unrecognised files and for
// blank scripts.
const DefaultLanguage = JavaScript

// LanguageInfo describes how a language is presented and stored.
type LanguageInfo struct {
	Label string
	Ext   string
}

// languages keeps table order stable for listings.
var languages = []struct {
	tag  Language
	info LanguageInfo
}{
	{JavaScript, LanguageInfo{Label: "JavaScript", Ext: ".js"}},
	{TypeScript, LanguageInfo{Label: "TypeScript", Ext: ".ts"}},
	{Python, LanguageInfo{Label: "Python", Ext: ".py"}},
	{Bash, LanguageInfo{Label: "Bash", Ext: ".sh"}},
	{JSON, LanguageInfo{Label: "JSON", Ext: ".json"}},
	{SQL, LanguageInfo{Label: "SQL", Ext: ".sql"}},
	{Go, LanguageInfo{Label: "Go", Ext: ".go"}},
	{Java, LanguageInfo{Label: "Java", Ext: ".java"}},
	{CSharp, LanguageInfo{Label: "C#", Ext: ".cs"}},
	{Cpp, LanguageInfo{Label: "C++", Ext: ".cpp"}},
	{HTML, LanguageInfo{Label: "HTML", Ext: ".html"}},
	{CSS, LanguageInfo{Label: "CSS", Ext: ".css"}},
	{YAML, LanguageInfo{Label: "YAML", Ext: ".yml"}},
	{Markdown, LanguageInfo{Label: "Markdown", Ext: ".md"}},
	{Ruby, LanguageInfo{Label: "Ruby", Ext: ".rb"}},
	{Rust, LanguageInfo{Label: "Rust", Ext: ".rs"}},
	{PHP, LanguageInfo{Label: "PHP", Ext: ".php"}},
}

var (
	byTag = make(map[Language]LanguageInfo, len(languages))
	byExt = make(map[string]Language, len(languages))
)

func init() {
	for _, l := range languages {
		byTag[l.tag] = l.info
		if _, dup := byExt[l.info.Ext]; !dup {
			byExt[l.info.Ext] = l.tag
		}
	}
}

// Languages returns every supported language tag in table order.
func Languages() []Language {
	out := make([]Language, 0, len(languages))
	for _, l := range languages {
		out = append(out, l.tag)
	}
	return out
}

// Valid reports whether l is one of the supported tags.
func (l Language) Valid() bool {
	_, ok := byTag[l]
	return ok
}

// Info returns the label and extension for l. Unknown tags resolve to the
// default language.
func (l Language) Info() LanguageInfo {
	if info, ok := byTag[l]; ok {
		return info
	}
	return byTag[DefaultLanguage]
}

// Ext returns the file extension, including the leading dot.
func (l Language) Ext() string { return l.Info().Ext }

// Label returns the human readable name.
func (l Language) Label() string { return l.Info().Label }

// ParseLanguage resolves a tag, accepting either the tag or its label
// case-insensitively.
func ParseLanguage(value string) (Language, bool) {
	for _, l := range languages {
		if strings.EqualFold(string(l.tag), value) || strings.EqualFold(l.info.Label, value) {
			return l.tag, true
		}
	}
	return "", false
}

// Item is a single script. FilePath, ContentHash and DiskModifiedAt are only
// set once the item has been written to or read from a linked folder.
type Item struct {
	ID          string
	Name        string
	Description string
	Language    Language
	Content     string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	FilePath       string
	ContentHash    string
	DiskModifiedAt time.Time
}

// Synced reports whether the item has touched disk.
func (i Item) Synced() bool {
	return i.FilePath != ""
}

// Patch is a partial edit of the user-editable fields of an item.
type Patch struct {
	Name        *string
	Description *string
	Language    *Language
	Content     *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Language == nil && p.Content == nil
}

// ApplyTo returns a copy of item with the patch applied and UpdatedAt set
// to now.
func (p Patch) ApplyTo(item Item, now time.Time) Item {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Language != nil && p.Language.Valid() {
		item.Language = *p.Language
	}
	if p.Content != nil {
		item.Content = *p.Content
	}
	item.UpdatedAt = now.UTC()
	return item
}
