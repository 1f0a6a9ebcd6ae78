// Package classify scores normalized document text against per-type
// signature rules and picks the best-scoring document type.
//
// The rule table is declarative: every row is {type, phrase, weight}, loaded
// once into an immutable Classifier. Scoring is purely additive, so adding
// matching signals for a type can never lower that type's score, and the
// whole classification is a pure function of the input text. Ties resolve
// to whichever type was registered first.
package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/docsift/docsift/internal/patterns"
)

// DocumentType identifies a recognized document class.
type DocumentType string

// Built-in document types, in registration (tie-break) order.
const (
	TypeCapitalCall  DocumentType = "capital_call"
	TypeDistribution DocumentType = "distribution"
	TypeResume       DocumentType = "resume"
	TypeInvoice      DocumentType = "invoice"
	TypeContract     DocumentType = "contract"
	TypeReport       DocumentType = "report"
	TypeUnclassified DocumentType = "unclassified"
)

// IsLPType reports whether the type gets the specialized LP extractor.
func IsLPType(t DocumentType) bool {
	return t == TypeCapitalCall || t == TypeDistribution
}

// Signal is one weighted keyword or phrase voting for a type.
type Signal struct {
	Type   DocumentType
	Phrase string
	Weight float64
}

// structuralCue is a non-phrase signal: a named predicate over the text,
// typically backed by the pattern library ("document contains an email
// block", "two or more skill terms present").
type structuralCue struct {
	name    string
	typ     DocumentType
	weight  float64
	present func(text string, lib *patterns.Library) bool
}

// Verdict is the classification outcome. Always well-formed: an
// unrecognizable document yields TypeReport with a low confidence, and
// empty text yields TypeUnclassified with confidence zero.
type Verdict struct {
	Type       DocumentType `json:"document_type"`
	Confidence float64      `json:"confidence"`
	Signals    []string     `json:"signals_matched,omitempty"`
}

// DefaultMinConfidence is the score below which the verdict falls back to
// the generic report type.
const DefaultMinConfidence = 0.3

// Classifier holds the immutable rule tables. Safe for concurrent use.
type Classifier struct {
	order         []DocumentType
	signals       []Signal
	cues          []structuralCue
	saturation    map[DocumentType]float64
	minConfidence float64
	lib           *patterns.Library
}

// Option configures a Classifier at construction time.
type Option func(*Classifier)

// WithMinConfidence overrides the fallback threshold.
func WithMinConfidence(min float64) Option {
	return func(c *Classifier) { c.minConfidence = min }
}

// New builds a Classifier from the built-in signal table, extended by the
// optional document template. Template signals may reference new type
// names; those register after the built-ins, preserving deterministic
// tie-breaks. Invalid template rows are load-time errors.
func New(lib *patterns.Library, tmpl *patterns.Template, opts ...Option) (*Classifier, error) {
	c := &Classifier{
		order:         []DocumentType{TypeCapitalCall, TypeDistribution, TypeResume, TypeInvoice, TypeContract, TypeReport},
		signals:       builtinSignals(),
		cues:          builtinCues(),
		saturation:    builtinSaturation(),
		minConfidence: DefaultMinConfidence,
		lib:           lib,
	}

	if tmpl != nil {
		for _, s := range tmpl.Signals {
			typ := DocumentType(s.Type)
			if typ == TypeUnclassified {
				return nil, fmt.Errorf("signal %q: cannot target the unclassified type", s.Phrase)
			}
			if !c.registered(typ) {
				c.order = append(c.order, typ)
			}
			c.signals = append(c.signals, Signal{Type: typ, Phrase: s.Phrase, Weight: s.Weight})
		}
		for typ, sat := range tmpl.Saturation {
			c.saturation[DocumentType(typ)] = sat
		}
	}

	for _, typ := range c.order {
		if _, ok := c.saturation[typ]; !ok {
			c.saturation[typ] = defaultSaturation
		}
	}

	for _, o := range opts {
		o(c)
	}
	if c.minConfidence < 0 || c.minConfidence > 1 {
		return nil, fmt.Errorf("min confidence %v out of [0,1]", c.minConfidence)
	}
	return c, nil
}

func (c *Classifier) registered(typ DocumentType) bool {
	for _, t := range c.order {
		if t == typ {
			return true
		}
	}
	return false
}

// Classify scores text against every registered type and returns the best
// verdict. Total: it never fails, and identical input always yields an
// identical verdict.
func (c *Classifier) Classify(text string) Verdict {
	if strings.TrimSpace(text) == "" {
		return Verdict{Type: TypeUnclassified, Confidence: 0}
	}

	scores := map[DocumentType]float64{}
	matched := map[DocumentType][]string{}

	for _, s := range c.signals {
		if patterns.ContainsKeyword(text, s.Phrase) {
			scores[s.Type] += s.Weight
			matched[s.Type] = append(matched[s.Type], s.Phrase)
		}
	}
	for _, cue := range c.cues {
		if cue.present(text, c.lib) {
			scores[cue.typ] += cue.weight
			matched[cue.typ] = append(matched[cue.typ], cue.name)
		}
	}

	// Highest normalized score wins; ties go to the earliest-registered type.
	best := TypeUnclassified
	bestScore := -1.0
	for _, typ := range c.order {
		norm := scores[typ] / c.saturation[typ]
		if norm > 1 {
			norm = 1
		}
		if norm > bestScore {
			best = typ
			bestScore = norm
		}
	}

	if bestScore < c.minConfidence {
		return Verdict{Type: TypeReport, Confidence: clamp01(bestScore), Signals: sorted(matched[best])}
	}
	return Verdict{Type: best, Confidence: clamp01(bestScore), Signals: sorted(matched[best])}
}

// Types returns the registered types in tie-break order.
func (c *Classifier) Types() []DocumentType {
	return append([]DocumentType(nil), c.order...)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func sorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
