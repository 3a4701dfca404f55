// Package config provides shared configuration types for projgraph.
// This package is decoupled from CLI concerns so library callers can load a
// project's settings file without the command layer.
package config

import (
	"github.com/leapstack-labs/projgraph/internal/files"
)

// ProjectConfig holds the settings stored in a project's projgraph.yaml.
type ProjectConfig struct {
	TypesFile      string   `koanf:"types_file"`
	Concurrency    int      `koanf:"concurrency"`
	IgnoreDirs     []string `koanf:"ignore_dirs"`
	IgnorePatterns []string `koanf:"ignore_patterns"`
	IncludeHidden  bool     `koanf:"include_hidden"`
	StatePath      string   `koanf:"state_path"`
}

// FileOptions converts the traversal settings to enumerator options.
func (c *ProjectConfig) FileOptions() files.Options {
	return files.Options{
		IgnoreDirs:     c.IgnoreDirs,
		IgnorePatterns: c.IgnorePatterns,
		ExcludeHidden:  !c.IncludeHidden,
	}
}
