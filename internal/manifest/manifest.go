// Package manifest loads the function universe: the authoritative catalog of
// (id, version) functions a conformance suite must cover. Catalogs are
// written in YAML or CUE and handed to the registry via Tags.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/certa-dev/certa/internal/registry"
)

// Manifest is a parsed function catalog.
type Manifest struct {
	// Name identifies the catalog (e.g., the product or API under test).
	Name string `yaml:"name"`

	// Description explains what this catalog covers.
	Description string `yaml:"description,omitempty"`

	// Functions lists every function that must be exercised.
	// Duplicate (id, version) pairs collapse under set semantics.
	Functions []FunctionDecl `yaml:"functions"`
}

// FunctionDecl declares one required function.
type FunctionDecl struct {
	ID      string `yaml:"id"`
	Version string `yaml:"version"`
}

// Load reads a catalog, dispatching on the file extension:
// .yaml/.yml for YAML, .cue for CUE.
func Load(path string) (*Manifest, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".cue":
		return LoadCUE(path)
	default:
		return nil, fmt.Errorf("unsupported manifest format %q: want .yaml, .yml, or .cue", filepath.Ext(path))
	}
}

// LoadYAML reads and parses a YAML catalog. Unknown fields are rejected
// (catches typos like "function:" vs "functions:").
func LoadYAML(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validate(&m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	return &m, nil
}

// Tags converts the declared functions to registry tags, ready for
// Registry.SetUniverse. NFC normalization happens here, in NewTag.
func (m *Manifest) Tags() []registry.FunctionTag {
	tags := make([]registry.FunctionTag, 0, len(m.Functions))
	for _, f := range m.Functions {
		tags = append(tags, registry.NewTag(f.ID, f.Version))
	}
	return tags
}

// validate checks that required fields are present and valid.
func validate(m *Manifest) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(m.Functions) == 0 {
		return fmt.Errorf("functions list is required and must be non-empty")
	}

	for i, f := range m.Functions {
		if f.ID == "" {
			return fmt.Errorf("functions[%d]: id is required", i)
		}
		if f.Version == "" {
			return fmt.Errorf("functions[%d]: version is required", i)
		}
	}

	return nil
}
