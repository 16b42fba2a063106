// Package template supplies ordered section definitions for new documents.
// Built-in templates are embedded with packr; custom templates load from JSON
// or YAML files.
package template

import (
	"fmt"

	"github.com/procdoc/sopgov/internal/document"
)

// SectionDef describes one section of a template.
type SectionDef struct {
	Title string `json:"title" yaml:"title"`
	Type  string `json:"content_type" yaml:"content_type"`
	Seed  string `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Definition is a structured description of a document template.
type Definition struct {
	Name            string       `json:"name" yaml:"name"`
	Title           string       `json:"title" yaml:"title"`
	Description     string       `json:"description,omitempty" yaml:"description,omitempty"`
	Standard        string       `json:"standard,omitempty" yaml:"standard,omitempty"`
	Category        string       `json:"category,omitempty" yaml:"category,omitempty"`
	DocNumberPrefix string       `json:"doc_number_prefix,omitempty" yaml:"doc_number_prefix,omitempty"`
	Sections        []SectionDef `json:"sections" yaml:"sections"`
}

// Validate checks the structural invariants of a template definition.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: template name is empty", document.ErrInvalidTemplate)
	}
	if len(d.Sections) == 0 {
		return fmt.Errorf("%w: template %q has no sections", document.ErrInvalidTemplate, d.Name)
	}

	titles := make(map[string]struct{}, len(d.Sections))
	for i, sec := range d.Sections {
		if sec.Title == "" {
			return fmt.Errorf("%w: template %q section %d has an empty title", document.ErrInvalidTemplate, d.Name, i)
		}
		if _, ok := titles[sec.Title]; ok {
			return fmt.Errorf("%w: template %q has duplicate section %q", document.ErrInvalidTemplate, d.Name, sec.Title)
		}
		titles[sec.Title] = struct{}{}

		if _, err := document.ParseContentType(sec.Type); err != nil {
			return fmt.Errorf("%w: template %q section %q: %v", document.ErrInvalidTemplate, d.Name, sec.Title, err)
		}
	}

	return nil
}

// SectionSpecs converts the template sections into document section specs.
func (d *Definition) SectionSpecs() ([]document.SectionSpec, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	specs := make([]document.SectionSpec, 0, len(d.Sections))
	for _, sec := range d.Sections {
		ct, err := document.ParseContentType(sec.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", document.ErrInvalidTemplate, err)
		}
		specs = append(specs, document.SectionSpec{
			Title: sec.Title,
			Type:  ct,
			Seed:  sec.Seed,
		})
	}

	return specs, nil
}
