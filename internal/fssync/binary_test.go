package fssync

import (
	"strings"
	"testing"
)

func TestIsTextType(t *testing.T) {
	cases := map[string]bool{
		"":                                true,
		"text/plain":                      true,
		"text/x-python; charset=utf-8":    true,
		"application/json":                true,
		"Application/JSON; charset=utf-8": true,
		"application/x-httpd-php":         true,
		"application/octet-stream":        false,
		"image/png":                       false,
		"video/mp2t":                      false,
	}
	for typ, want := range cases {
		if got := isTextType(typ); got != want {
			t.Errorf("isTextType(%q) = %v, want %v", typ, got, want)
		}
	}
}

func TestIsProbablyBinary(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    bool
	}{
		{"empty", "", false},
		{"plain", "console.log('hi')\n\tdone\r\n", false},
		{"nul", "abc\x00", true},
		{"mostly control", strings.Repeat("\x01", 30) + strings.Repeat("a", 70), true},
		{"at threshold", strings.Repeat("\x01", 20) + strings.Repeat("a", 80), false},
		{"control past sample", strings.Repeat("a", 2000) + strings.Repeat("\x01", 2000), false},
		{"accented text", strings.Repeat("é", 10) + strings.Repeat("a", 90), false},
	}
	for _, tc := range cases {
		if got := isProbablyBinary(tc.content); got != tc.want {
			t.Errorf("%s: isProbablyBinary = %v, want %v", tc.name, got, tc.want)
		}
	}
}
