package extract

import (
	"strings"

	"github.com/docsift/docsift/internal/patterns"
)

// DefaultProximityWindow is how far past a label's end (in bytes) a value
// match may begin and still be associated with that label.
const DefaultProximityWindow = 160

// labelSpan tags one occurrence of a label keyword in the text.
type labelSpan struct {
	label      string
	start, end int
}

// findLabels returns every occurrence of every label, in text order.
// Overlapping occurrences from different labels are all kept; association
// picks the earliest viable one.
func findLabels(text string, labels []string) []labelSpan {
	var spans []labelSpan
	for _, label := range labels {
		for _, loc := range patterns.FindKeyword(text, label) {
			spans = append(spans, labelSpan{label: label, start: loc[0], end: loc[1]})
		}
	}
	// Insertion-sort by start offset; label lists are short.
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].start < spans[j-1].start; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}
	return spans
}

// associate finds the value match nearest after any of the labels, within
// the window. For each label occurrence in text order, the first value
// starting at or after the label's end and within window bytes wins.
// Returns false when every label is either absent or has no nearby value.
//
// labeled reports whether at least one label occurred at all; callers use
// it to tell "label present, value missing" (a confidence penalty) apart
// from "label absent" (simply not that kind of document).
func associate(text string, labels []string, values []patterns.Match, window int) (m patterns.Match, found, labeled bool) {
	spans := findLabels(text, labels)
	if len(spans) == 0 {
		return patterns.Match{}, false, false
	}
	if window <= 0 {
		window = DefaultProximityWindow
	}

	for _, span := range spans {
		for _, v := range values {
			if v.Start < span.end {
				continue
			}
			if v.Start-span.end > window {
				break // values are in text order; rest are farther away
			}
			return v, true, true
		}
	}
	return patterns.Match{}, false, true
}

// sectionAfter collects up to maxLines non-empty lines following the first
// line that contains any of the section headers, stopping at a blank line
// gap, a sign-off, or the end of text. Used for payment-instruction blocks.
func sectionAfter(text string, headers []string, maxLines int) string {
	lines := strings.Split(text, "\n")
	start := -1
outer:
	for i, line := range lines {
		for _, h := range headers {
			if patterns.ContainsKeyword(line, h) {
				start = i
				break outer
			}
		}
	}
	if start < 0 {
		return ""
	}

	var out []string
	for i := start + 1; i < len(lines) && len(out) < maxLines; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			if len(out) > 0 {
				break
			}
			continue
		}
		if isSignOff(line) {
			break
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func isSignOff(line string) bool {
	lower := strings.ToLower(line)
	for _, s := range []string{"sincerely", "regards", "best,", "best wishes", "thank you"} {
		if strings.HasPrefix(lower, s) {
			return true
		}
	}
	return false
}

// valueAfterColon scans lines for any of the labels and returns the text
// following the colon on the first matching line that has one.
func valueAfterColon(text string, labels []string) string {
	for _, line := range strings.Split(text, "\n") {
		for _, label := range labels {
			if !patterns.ContainsKeyword(line, label) {
				continue
			}
			if idx := strings.Index(line, ":"); idx >= 0 && idx < len(line)-1 {
				if v := strings.TrimSpace(line[idx+1:]); v != "" {
					return v
				}
			}
		}
	}
	return ""
}
