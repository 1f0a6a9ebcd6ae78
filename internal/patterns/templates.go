package patterns

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template is an external, versioned "document template" rule set. It can
// add pattern rules, extend the skill vocabulary, and contribute classifier
// signals and saturation thresholds without code changes.
//
// Templates are validated once at load time. A malformed template is fatal
// to startup; it can never surface as a per-document failure.
type Template struct {
	Version    int                `yaml:"version"`
	Patterns   []PatternSpec      `yaml:"patterns"`
	Skills     []string           `yaml:"skills"`
	Signals    []SignalSpec       `yaml:"signals"`
	Saturation map[string]float64 `yaml:"saturation"`
}

// PatternSpec declares one additional pattern rule.
type PatternSpec struct {
	Name     string  `yaml:"name"`
	Category string  `yaml:"category"`
	Regex    string  `yaml:"regex"`
	Weight   float64 `yaml:"weight"`
}

// SignalSpec declares one additional classifier signal.
type SignalSpec struct {
	Type   string  `yaml:"type"`
	Phrase string  `yaml:"phrase"`
	Weight float64 `yaml:"weight"`
}

// LoadTemplate reads and validates a document-template file. A missing
// path ("" argument) returns nil: the built-in rule set stands alone.
func LoadTemplate(path string) (*Template, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}
	var tmpl Template
	if err := yaml.Unmarshal(b, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", path, err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	return &tmpl, nil
}

// Validate checks every declared rule and signal. All problems are
// configuration errors; nothing here is recoverable at document time.
func (t *Template) Validate() error {
	if t.Version != 0 && t.Version != 1 {
		return fmt.Errorf("unsupported template version %d", t.Version)
	}
	seen := map[string]bool{}
	for i, p := range t.Patterns {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("pattern %d: missing name", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("pattern %q: duplicate name", p.Name)
		}
		seen[p.Name] = true
		if strings.TrimSpace(p.Category) == "" {
			return fmt.Errorf("pattern %q: missing category", p.Name)
		}
		if strings.TrimSpace(p.Regex) == "" {
			return fmt.Errorf("pattern %q: missing regex", p.Name)
		}
		if _, err := regexp.Compile(p.Regex); err != nil {
			return fmt.Errorf("pattern %q: invalid regex: %w", p.Name, err)
		}
		if p.Weight < 0 {
			return fmt.Errorf("pattern %q: negative weight", p.Name)
		}
	}
	for i, s := range t.Signals {
		if strings.TrimSpace(s.Type) == "" {
			return fmt.Errorf("signal %d: missing type", i)
		}
		if strings.TrimSpace(s.Phrase) == "" {
			return fmt.Errorf("signal %d (%s): missing phrase", i, s.Type)
		}
		if s.Weight <= 0 {
			return fmt.Errorf("signal %q: weight must be positive", s.Phrase)
		}
	}
	for typ, sat := range t.Saturation {
		if sat <= 0 {
			return fmt.Errorf("saturation for %q must be positive", typ)
		}
	}
	return nil
}
