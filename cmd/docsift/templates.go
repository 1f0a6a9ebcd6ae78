package main

import (
	"fmt"

	"github.com/docsift/docsift/internal/patterns"
)

func runTemplates(args []string) error {
	cf, rest, err := splitFlags(args)
	if err != nil {
		return err
	}

	path := cf.templates
	if len(rest) == 1 {
		path = rest[0]
	} else if len(rest) > 1 {
		return fmt.Errorf("usage: docsift templates <path>")
	}
	if path == "" {
		resolved, err := resolve(cf)
		if err != nil {
			return err
		}
		path = resolved.Templates.Value
	}
	if path == "" {
		return fmt.Errorf("usage: docsift templates <path>")
	}

	tmpl, err := patterns.LoadTemplate(path)
	if err != nil {
		return err
	}
	if tmpl == nil {
		return fmt.Errorf("template %s does not exist", path)
	}

	fmt.Printf("Template %s is valid\n", path)
	fmt.Printf("  version:    %d\n", tmpl.Version)
	fmt.Printf("  patterns:   %d\n", len(tmpl.Patterns))
	fmt.Printf("  signals:    %d\n", len(tmpl.Signals))
	fmt.Printf("  skills:     %d\n", len(tmpl.Skills))
	fmt.Printf("  saturation: %d entries\n", len(tmpl.Saturation))
	return nil
}
