package config

import (
	"fmt"
	"path/filepath"
)

// Validate checks settings that would otherwise be ignored silently.
func (c *ProjectConfig) Validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	for _, pattern := range c.IgnorePatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
	}
	return nil
}
