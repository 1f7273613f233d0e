// Package prompt loads the analysis prompt templates and renders them with
// computed values. Rendering is pure string substitution, no I/O.
package prompt

import (
	_ "embed"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

//go:embed templates/prompts.yaml
var defaultTemplates []byte

// ModeTemplates holds the system and user templates for one analysis mode.
type ModeTemplates struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

// Templates is the full prompt template document.
type Templates struct {
	Single ModeTemplates `yaml:"single"`
	Trend  ModeTemplates `yaml:"trend"`
}

// DefaultTemplates returns the templates embedded in the binary.
func DefaultTemplates() (*Templates, error) {
	return parse(defaultTemplates)
}

// LoadTemplates reads a template document from disk, overriding the
// built-in one.
func LoadTemplates(fs afero.Fs, path string) (*Templates, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates %s: %w", path, err)
	}
	t, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("templates %s: %w", path, err)
	}
	return t, nil
}

func parse(data []byte) (*Templates, error) {
	var t Templates
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &t, nil
}
