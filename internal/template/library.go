package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobuffalo/packr"
	"github.com/procdoc/sopgov/internal/document"
	"gopkg.in/yaml.v3"
)

// ErrTemplateNotFound is returned when a template name is unknown.
var ErrTemplateNotFound = errors.New("template not found")

// Library resolves template names to validated definitions. Built-in
// templates are embedded; custom ones can be registered at runtime.
type Library struct {
	box    packr.Box
	custom map[string]*Definition
}

func NewLibrary() *Library {
	return &Library{
		box:    packr.NewBox("./templates"),
		custom: make(map[string]*Definition),
	}
}

// List returns the names of all available templates, sorted.
func (l *Library) List() []string {
	names := make([]string, 0)
	for _, file := range l.box.List() {
		if strings.HasSuffix(file, ".json") {
			names = append(names, strings.TrimSuffix(file, ".json"))
		}
	}
	for name := range l.custom {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Get returns a validated template definition by name. Custom templates
// shadow built-ins with the same name.
func (l *Library) Get(name string) (*Definition, error) {
	if def, ok := l.custom[name]; ok {
		return def, nil
	}

	data, err := l.box.Find(name + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: template %q: %v", document.ErrInvalidTemplate, name, err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}

// Register adds a custom template to the library.
func (l *Library) Register(def *Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	l.custom[def.Name] = def
	return nil
}

// LoadFile reads a template definition from a JSON or YAML file.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var def Definition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", document.ErrInvalidTemplate, path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", document.ErrInvalidTemplate, path, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported template file %s", document.ErrInvalidTemplate, path)
	}

	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}
