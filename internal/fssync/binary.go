package fssync

import (
	"strings"
)

const (
	binarySampleChars  = 2000
	binaryNonPrintable = 0.2
)

var textualApplicationTypes = map[string]struct{}{
	"application/json":          {},
	"application/javascript":    {},
	"application/x-javascript":  {},
	"application/xml":           {},
	"application/x-sh":          {},
	"application/x-shellscript": {},
	"application/yaml":          {},
	"application/x-yaml":        {},
	"application/sql":           {},
	"application/x-httpd-php":   {},
	"application/toml":          {},
	"application/typescript":    {},
}

// isTextType reports whether a declared type may hold script text. An empty
// type is accepted because many sources leave it unset.
func isTextType(typ string) bool {
	typ, _, _ = strings.Cut(typ, ";")
	typ = strings.ToLower(strings.TrimSpace(typ))
	if typ == "" || strings.HasPrefix(typ, "text/") {
		return true
	}
	_, ok := textualApplicationTypes[typ]
	return ok
}

// isProbablyBinary flags content containing NUL, or whose first 2000
// characters are more than 20% outside printable ASCII and tab/LF/CR.
func isProbablyBinary(content string) bool {
	if strings.IndexByte(content, 0) >= 0 {
		return true
	}

	sampled, nonPrintable := 0, 0
	for _, r := range content {
		if sampled == binarySampleChars {
			break
		}
		sampled++
		printable := (r >= 32 && r <= 126) || r == '\t' || r == '\n' || r == '\r'
		if !printable {
			nonPrintable++
		}
	}
	if sampled == 0 {
		return false
	}
	return float64(nonPrintable)/float64(sampled) > binaryNonPrintable
}
