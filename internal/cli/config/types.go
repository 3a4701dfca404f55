// Package config provides configuration management for the projgraph CLI.
//
// It layers the shared project settings from internal/config with CLI-only
// fields such as output format and verbosity.
package config

import (
	"time"

	sharedcfg "github.com/leapstack-labs/projgraph/internal/config"
	"github.com/leapstack-labs/projgraph/internal/files"
)

// Config holds all CLI configuration options.
type Config struct {
	ProjectDir     string        `koanf:"project_dir"`
	TypesFile      string        `koanf:"types_file"`
	Concurrency    int           `koanf:"concurrency"`
	IgnoreDirs     []string      `koanf:"ignore_dirs"`
	IgnorePatterns []string      `koanf:"ignore_patterns"`
	IncludeHidden  bool          `koanf:"include_hidden"`
	StatePath      string        `koanf:"state_path"`
	Verbose        bool          `koanf:"verbose"`
	OutputFormat   string        `koanf:"output"`
	Timeout        time.Duration `koanf:"timeout"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultStateFile = sharedcfg.DefaultStateFile
	DefaultTypesFile = sharedcfg.DefaultTypesFile
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultTimeout   = 30 * time.Second
)

// EnvPrefix prefixes environment variables read as configuration.
const EnvPrefix = "PROJGRAPH_"

// FileOptions converts the traversal settings to enumerator options.
func (c *Config) FileOptions() files.Options {
	return files.Options{
		IgnoreDirs:     c.IgnoreDirs,
		IgnorePatterns: c.IgnorePatterns,
		ExcludeHidden:  !c.IncludeHidden,
	}
}
