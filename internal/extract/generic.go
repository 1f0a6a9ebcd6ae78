package extract

import (
	"regexp"
	"strings"

	"github.com/docsift/docsift/internal/patterns"
)

// Extractor applies the pattern library to normalized text. One Extractor
// is built at startup and shared by all invocations; it holds no per-call
// state.
type Extractor struct {
	lib    *patterns.Library
	window int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithProximityWindow overrides the label/value association window.
func WithProximityWindow(window int) Option {
	return func(e *Extractor) {
		if window > 0 {
			e.window = window
		}
	}
}

// New creates an Extractor over the given pattern library.
func New(lib *patterns.Library, opts ...Option) *Extractor {
	e := &Extractor{lib: lib, window: DefaultProximityWindow}
	for _, o := range opts {
		o(e)
	}
	return e
}

// maxEducationLines caps the education group to keep dense transcripts
// from swamping the output.
const maxEducationLines = 10

var educationKeywords = []string{
	"university", "college", "degree", "bachelor", "bachelors", "master",
	"masters", "phd", "doctorate", "diploma", "mba",
}

// experienceLineRE matches "Title at Company" / "Title @ Company" lines.
var experienceLineRE = regexp.MustCompile(`(?i)\b(?:senior|junior|lead|principal|staff|chief)?\s*` +
	`[a-z]*\s*(?:engineer|developer|manager|director|analyst|consultant|designer|architect|scientist|intern|officer|president|administrator)\b` +
	`.{0,40}?(?:\bat\b|@)\s*\S`)

// Generic extracts the field groups shared by all generic document types:
// contact info, emails, phones, addresses, skills, education, experience,
// dates, and financial data. Total: any input yields a well-formed Fields,
// with unmatched groups omitted.
func (e *Extractor) Generic(text string) Fields {
	var f Fields
	if strings.TrimSpace(text) == "" {
		return f
	}

	if name := e.guessName(text); name != "" {
		f.ContactInfo = &ContactInfo{Name: name}
	}
	f.Emails = matchValues(e.lib, patterns.CategoryEmail, text)
	f.Phones = matchValues(e.lib, patterns.CategoryPhone, text)
	f.Addresses = matchValues(e.lib, patterns.CategoryAddress, text)
	f.Skills = matchValues(e.lib, patterns.CategorySkill, text)
	f.Education = e.educationLines(text)
	f.Experience = e.experienceLines(text)
	f.Dates = matchValues(e.lib, patterns.CategoryDate, text)

	amounts := matchValues(e.lib, patterns.CategoryCurrency, text)
	percentages := matchValues(e.lib, patterns.CategoryPercentage, text)
	if len(amounts) > 0 || len(percentages) > 0 {
		f.FinancialData = &FinancialData{Amounts: amounts, Percentages: percentages}
	}

	return f
}

func matchValues(lib *patterns.Library, category, text string) []string {
	matches := lib.MatchAll(category, text)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Value)
	}
	return out
}

// guessName takes the best-guess person/entity name from the first few
// non-empty lines, skipping lines that match another category (an email
// header line is not a name).
func (e *Extractor) guessName(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		words := strings.Fields(line)
		if len(line) <= 3 || len(words) > 4 {
			return ""
		}
		if strings.ContainsAny(line, "@:0123456789") {
			return ""
		}
		if len(e.lib.MatchAll(patterns.CategoryDate, line)) > 0 ||
			len(e.lib.MatchAll(patterns.CategoryCurrency, line)) > 0 ||
			len(e.lib.MatchAll(patterns.CategoryAddress, line)) > 0 {
			return ""
		}
		lower := strings.ToLower(line)
		if lower == "resume" || lower == "curriculum vitae" || lower == "cv" {
			return ""
		}
		return line
	}
	return ""
}

func (e *Extractor) educationLines(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, kw := range educationKeywords {
			if patterns.ContainsKeyword(line, kw) {
				key := strings.ToLower(line)
				if !seen[key] {
					seen[key] = true
					out = append(out, line)
				}
				break
			}
		}
		if len(out) >= maxEducationLines {
			break
		}
	}
	return out
}

func (e *Extractor) experienceLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if experienceLineRE.MatchString(line) {
			out = append(out, line)
		}
	}
	return out
}
