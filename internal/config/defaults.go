package config

import "github.com/leapstack-labs/projgraph/internal/files"

// Default configuration values.
const (
	DefaultStateFile = ".projgraph/state.db"
	DefaultTypesFile = "types.yaml"
)

// DefaultIgnoreDirs returns a fresh copy of the directories skipped by default.
func DefaultIgnoreDirs() []string {
	return append([]string(nil), files.DefaultIgnoreDirs...)
}

// ApplyDefaults fills unset values.
func (c *ProjectConfig) ApplyDefaults() {
	if c == nil {
		return
	}
	if c.IgnoreDirs == nil {
		c.IgnoreDirs = DefaultIgnoreDirs()
	}
	if c.StatePath == "" {
		c.StatePath = DefaultStateFile
	}
}
