// Package docproc wires normalization, classification, and field
// extraction into a single document processing pipeline. Process is
// total: it always returns a Result, never an error, regardless of
// input quality.
package docproc

import (
	"fmt"
	"strings"
	"time"

	"github.com/docsift/docsift/internal/classify"
	"github.com/docsift/docsift/internal/extract"
	"github.com/docsift/docsift/internal/normalize"
	"github.com/docsift/docsift/internal/patterns"
)

// DefaultSparseCeiling caps classification confidence when extraction
// produced no structured fields at all. A confident type verdict over a
// document that yielded nothing is suspect.
const DefaultSparseCeiling = 0.5

// RawInput carries one document into the pipeline. Only Text is
// required; the rest is carried through into Result.Metadata.
type RawInput struct {
	Text     string
	Filename string
	Size     int64
	MIMEType string
}

// Metadata describes the processed document.
type Metadata struct {
	Filename       string   `json:"filename,omitempty"`
	FileSize       int64    `json:"file_size,omitempty"`
	MIMEType       string   `json:"mime_type,omitempty"`
	TextLength     int      `json:"text_length"`
	WordCount      int      `json:"word_count"`
	SignalsMatched []string `json:"signals_matched,omitempty"`
}

// Result is the pipeline output for one document. StructuredData is a
// value, not a pointer, so it marshals as an object even when empty.
type Result struct {
	DocumentType   classify.DocumentType `json:"document_type"`
	Confidence     float64               `json:"confidence"`
	ExtractedText  string                `json:"extracted_text"`
	StructuredData extract.Fields        `json:"structured_data"`
	ProcessedAt    time.Time             `json:"processed_at"`
	Metadata       Metadata              `json:"metadata"`
}

// Pipeline holds the immutable engine components. Safe for concurrent
// use once constructed.
type Pipeline struct {
	lib        *patterns.Library
	classifier *classify.Classifier
	extractor  *extract.Extractor
	sparseCeil float64
	minConf    float64
	window     int
	now        func() time.Time
}

// Option adjusts pipeline construction.
type Option func(*Pipeline)

// WithSparseCeiling overrides the confidence cap applied when no
// structured fields were extracted.
func WithSparseCeiling(c float64) Option {
	return func(p *Pipeline) { p.sparseCeil = c }
}

// WithMinConfidence overrides the classifier's minimum confidence
// threshold.
func WithMinConfidence(min float64) Option {
	return func(p *Pipeline) { p.minConf = min }
}

// WithProximityWindow overrides the extractor's label proximity window
// in bytes.
func WithProximityWindow(window int) Option {
	return func(p *Pipeline) { p.window = window }
}

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New builds a pipeline from the optional template at path. An empty
// path uses the built-in rules only. A template that exists but fails
// to load or validate is a fatal configuration error.
func New(templatePath string, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		sparseCeil: DefaultSparseCeiling,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	tmpl, err := patterns.LoadTemplate(templatePath)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	p.lib, err = patterns.NewLibrary(tmpl)
	if err != nil {
		return nil, fmt.Errorf("build pattern library: %w", err)
	}

	var copts []classify.Option
	if p.minConf > 0 {
		copts = append(copts, classify.WithMinConfidence(p.minConf))
	}
	p.classifier, err = classify.New(p.lib, tmpl, copts...)
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}

	var eopts []extract.Option
	if p.window > 0 {
		eopts = append(eopts, extract.WithProximityWindow(p.window))
	}
	p.extractor = extract.New(p.lib, eopts...)
	return p, nil
}

// Process runs one document through normalize, classify, and extract.
// It never fails: malformed or empty input degrades to an unclassified
// or low-confidence result with whatever fields could be recovered.
func (p *Pipeline) Process(in RawInput) Result {
	text := normalize.Normalize(in.Text)
	verdict := p.classifier.Classify(text)

	var fields extract.Fields
	if classify.IsLPType(verdict.Type) {
		fields = p.extractor.LP(text, verdict.Type)
	} else {
		fields = p.extractor.Generic(text)
	}

	conf := verdict.Confidence
	if fields.IsEmpty() && conf > p.sparseCeil {
		conf = p.sparseCeil
	}

	return Result{
		DocumentType:   verdict.Type,
		Confidence:     conf,
		ExtractedText:  text,
		StructuredData: fields,
		ProcessedAt:    p.now().UTC(),
		Metadata: Metadata{
			Filename:       in.Filename,
			FileSize:       in.Size,
			MIMEType:       in.MIMEType,
			TextLength:     len(text),
			WordCount:      len(strings.Fields(text)),
			SignalsMatched: verdict.Signals,
		},
	}
}

// ProcessText is a convenience wrapper for callers that have no file
// metadata.
func (p *Pipeline) ProcessText(text string) Result {
	return p.Process(RawInput{Text: text})
}
