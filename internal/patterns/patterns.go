// Package patterns provides the versioned, data-driven matcher library the
// extraction engine runs on.
//
// Every primitive the extractors care about (emails, phones, currency
// amounts, percentages, dates, postal addresses, skill keywords, degree
// phrases) is detected by a named Rule belonging to a category. Rules are
// loaded once, optionally extended by an external document-template file,
// and immutable afterward, so a single Library is safe for any number of
// concurrent matchers.
package patterns

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"
)

// Built-in match categories.
const (
	CategoryEmail      = "email"
	CategoryPhone      = "phone"
	CategoryCurrency   = "currency"
	CategoryPercentage = "percentage"
	CategoryDate       = "date"
	CategoryAddress    = "address"
	CategoryNumber     = "number"
	CategorySkill      = "skill"
	CategoryDegree     = "degree"
)

// Match is a single pattern hit in normalized text.
type Match struct {
	Value string // canonical value: ISO dates, digits-only amounts
	Raw   string // text exactly as it appeared
	Start int    // byte offset of the first character
	End   int    // byte offset one past the last character
	Rule  string // name of the rule that produced the hit
}

// Rule is one declarative detector. A rule matches either via a compiled
// regular expression or via a keyword vocabulary, never both.
type Rule struct {
	Name     string
	Category string
	Weight   float64

	re       *regexp.Regexp
	keywords []string
}

// Library holds all rules grouped by category, in registration order.
type Library struct {
	rules map[string][]*Rule
}

// NewLibrary builds a Library from the built-in rule set, extended by the
// optional document template. Malformed template rules are a load-time
// error; per-document matching never fails.
func NewLibrary(tmpl *Template) (*Library, error) {
	l := &Library{rules: map[string][]*Rule{}}
	for _, r := range builtinRules() {
		l.rules[r.Category] = append(l.rules[r.Category], r)
	}

	if tmpl != nil {
		for _, spec := range tmpl.Patterns {
			re, err := regexp.Compile(spec.Regex)
			if err != nil {
				return nil, fmt.Errorf("template pattern %q: %w", spec.Name, err)
			}
			r := &Rule{Name: spec.Name, Category: spec.Category, Weight: spec.Weight, re: re}
			l.rules[r.Category] = append(l.rules[r.Category], r)
		}
		if len(tmpl.Skills) > 0 {
			l.rules[CategorySkill] = append(l.rules[CategorySkill], &Rule{
				Name:     "template_skills",
				Category: CategorySkill,
				keywords: append([]string(nil), tmpl.Skills...),
			})
		}
	}

	return l, nil
}

// MatchAll runs every rule registered for the category and returns the
// concatenated matches in first-occurrence order, de-duplicated by
// canonical value. Unknown categories return nil, never an error.
func (l *Library) MatchAll(category, text string) []Match {
	rules := l.rules[category]
	if len(rules) == 0 || text == "" {
		return nil
	}

	var all []Match
	for _, r := range rules {
		if r.re != nil {
			all = append(all, matchRegexp(r, text)...)
		}
		if len(r.keywords) > 0 {
			all = append(all, matchKeywords(r, text)...)
		}
	}
	if len(all) == 0 {
		return nil
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Start < all[j].Start })

	seen := map[string]bool{}
	out := all[:0]
	for _, m := range all {
		key := dedupeKey(category, m)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

// Categories returns the registered category names, sorted.
func (l *Library) Categories() []string {
	out := make([]string, 0, len(l.rules))
	for c := range l.rules {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func matchRegexp(r *Rule, text string) []Match {
	idxs := r.re.FindAllStringIndex(text, -1)
	if idxs == nil {
		return nil
	}
	out := make([]Match, 0, len(idxs))
	for _, loc := range idxs {
		raw := text[loc[0]:loc[1]]
		value, ok := canonicalValue(r.Category, raw)
		if !ok {
			continue
		}
		out = append(out, Match{Value: value, Raw: raw, Start: loc[0], End: loc[1], Rule: r.Name})
	}
	return out
}

func matchKeywords(r *Rule, text string) []Match {
	var out []Match
	for _, kw := range r.keywords {
		for _, loc := range FindKeyword(text, kw) {
			out = append(out, Match{
				Value: kw,
				Raw:   text[loc[0]:loc[1]],
				Start: loc[0],
				End:   loc[1],
				Rule:  r.Name,
			})
		}
	}
	return out
}

// FindKeyword returns the [start, end) offsets of every boundary-delimited,
// case-insensitive occurrence of phrase in text. A boundary is anything
// that is not a letter or digit, so "Java" does not match inside
// "JavaScript" but "C++" matches next to punctuation.
func FindKeyword(text, phrase string) [][2]int {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return nil
	}
	lower := strings.ToLower(text)
	needle := strings.ToLower(phrase)

	var out [][2]int
	for from := 0; ; {
		i := strings.Index(lower[from:], needle)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(needle)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			out = append(out, [2]int{start, end})
		}
		from = start + 1
	}
	return out
}

// ContainsKeyword reports whether phrase occurs in text at a word boundary.
func ContainsKeyword(text, phrase string) bool {
	return len(FindKeyword(text, phrase)) > 0
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r := rune(text[i-1])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r := rune(text[i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func dedupeKey(category string, m Match) string {
	switch category {
	case CategoryEmail:
		return strings.ToLower(m.Value)
	case CategoryPhone:
		return digitsOnly(m.Value)
	case CategorySkill, CategoryDegree:
		return strings.ToLower(m.Value)
	default:
		return m.Value
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// canonicalValue converts a raw match into its canonical form. Returning
// false drops the match (e.g. an impossible calendar date).
func canonicalValue(category, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	switch category {
	case CategoryDate:
		return canonicalDate(raw)
	case CategoryCurrency, CategoryNumber:
		return canonicalAmount(raw)
	case CategoryPercentage:
		return canonicalPercent(raw)
	default:
		return raw, raw != ""
	}
}

var dateLayouts = []string{
	"2006-1-2",
	"1/2/2006",
	"1/2/06",
	"1-2-2006",
	"1-2-06",
	"Jan 2 2006",
	"January 2 2006",
}

// canonicalDate normalizes all recognized date forms to an ISO 8601 date
// string. Month-name dates are reduced to "Mon D YYYY" before parsing.
func canonicalDate(raw string) (string, bool) {
	s := strings.ReplaceAll(raw, ",", "")
	s = strings.Join(strings.Fields(s), " ")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	// Abbreviated month names ("Sept 3 2025", "Mar. 1 2025").
	fields := strings.Fields(strings.ReplaceAll(s, ".", ""))
	if len(fields) == 3 && len(fields[0]) > 3 {
		short := strings.ToUpper(fields[0][:1]) + strings.ToLower(fields[0][1:3])
		if t, err := time.Parse("Jan 2 2006", short+" "+fields[1]+" "+fields[2]); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// canonicalAmount strips currency symbols, codes, and separators:
// "$500,000.00" becomes "500000.00".
func canonicalAmount(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	for _, code := range []string{"USD", "EUR", "GBP", "CAD", "AUD"} {
		s = strings.TrimSuffix(strings.TrimSpace(s), code)
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return "", false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return "", false
		}
	}
	return s, true
}

// canonicalPercent strips the trailing percent sign: "15.4 %" becomes "15.4".
func canonicalPercent(raw string) (string, bool) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if s == "" {
		return "", false
	}
	return s, true
}
