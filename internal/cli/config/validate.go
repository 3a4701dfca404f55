package config

import (
	"fmt"
	"os"
	"slices"
)

// OutputFormats lists the accepted --output values.
var OutputFormats = []string{"auto", "text", "markdown", "json", "yaml"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (valid: %v)", c.OutputFormat, OutputFormats)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}

// ValidateDirectories checks that the project directory exists.
func (c *Config) ValidateDirectories() error {
	info, err := os.Stat(c.ProjectDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("project directory does not exist: %s\nHint: use --project-dir to point at a project", c.ProjectDir)
	}
	return nil
}
