// Package normalizer turns noisy media filenames into search queries.
package normalizer

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mydehq/plexify/internal/types"
)

// Normalize derives a candidate title from a filename.
//
// The extension is dropped, the stem is split on dots and every part is reduced
// to ASCII letters and digits. A trailing four-digit part is taken as the year
// hint. The remaining parts are joined with single spaces and title-cased.
// A filename with nothing left yields an empty candidate.
func Normalize(filename string) types.Candidate {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	var parts []string
	for _, p := range strings.Split(stem, ".") {
		if p = alnum(p); p != "" {
			parts = append(parts, p)
		}
	}

	var year string
	if n := len(parts); n > 0 && isYear(parts[n-1]) {
		year = parts[n-1]
		parts = parts[:n-1]
	}

	return types.Candidate{
		Title: TitleCase(strings.Join(parts, " ")),
		Year:  year,
	}
}

// TitleCase uppercases the first letter of every whitespace-delimited word.
// Other runes, including the original whitespace, are kept as they are.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	atStart := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			atStart = true
		case atStart:
			r = unicode.ToUpper(r)
			atStart = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func alnum(s string) string {
	return strings.Map(func(r rune) rune {
		if r < utf8.RuneSelf && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, s)
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
