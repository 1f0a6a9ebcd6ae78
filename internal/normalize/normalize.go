// Package normalize canonicalizes raw extracted text before any matching runs.
//
// OCR and PDF-to-text output is noisy: carriage returns, stray control
// characters, runs of spaces, and words broken across lines with a hyphen.
// Normalize collapses all of that into a stable form that the pattern
// library and classifier operate on. Line breaks survive because the
// address and label-window heuristics downstream need them.
//
// Normalize is total and idempotent: it never fails, and normalizing
// already-normalized text is a no-op.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// hyphenWrapRE matches a word broken across a line by a trailing hyphen,
// e.g. "commit-\nment". Only joins when the continuation starts lowercase,
// so genuinely hyphenated items on separate lines are left alone.
var hyphenWrapRE = regexp.MustCompile(`([A-Za-z])-\n([a-z])`)

// Normalize returns the canonical form of raw extracted text.
// Empty or non-text input yields an empty string, never an error.
func Normalize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	// Drop non-printable control characters, keeping newlines and tabs.
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) || r == '�' {
			return -1
		}
		return r
	}, s)

	// Join hyphen-broken line wraps.
	s = hyphenWrapRE.ReplaceAllString(s, "$1$2")

	// Collapse horizontal whitespace within each line and trim the edges.
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	s = strings.Join(lines, "\n")

	// Cap consecutive blank lines at one.
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}

	return strings.TrimSpace(s)
}
