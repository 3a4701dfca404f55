package registry

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/projgraph/pkg/core"
	"gopkg.in/yaml.v3"
)

// typesFile is the on-disk shape of a user type definition file.
type typesFile struct {
	Types []typeDef `yaml:"types"`
}

type typeDef struct {
	Name         string                     `yaml:"name"`
	Extends      string                     `yaml:"extends"`
	Description  string                     `yaml:"description"`
	Options      map[string]core.OptionSpec `yaml:"options"`
	Dependencies map[string]string          `yaml:"dependencies"`
}

// LoadFile registers the types defined in a YAML file.
func LoadFile(r *TypeRegistry, path string) error {
	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from user config
	if err != nil {
		return &core.IOError{Op: "read", Path: path, Err: err}
	}
	if err := Load(r, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("load types from %s: %w", path, err)
	}
	return nil
}

// Load registers the types defined in YAML read from src.
// Unknown fields are rejected.
func Load(r *TypeRegistry, src io.Reader) error {
	dec := yaml.NewDecoder(src)
	dec.KnownFields(true)

	var f typesFile
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse types: %w", err)
	}

	for _, def := range f.Types {
		err := r.Register(core.TypeDescriptor{
			Name:        def.Name,
			Extends:     def.Extends,
			Description: def.Description,
			Options:     def.Options,
			Slots:       def.Dependencies,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
