package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ProjectA is the canonical two-object fixture: a model depending on a data source,
// plus two root-level JSON files that declare no type.
var ProjectA = map[string]string{
	"my-data-source/config.json": `{
  "name": "my-data-source",
  "module": "data-source",
  "options": {"connector": "memory"}
}`,
	"my-model/config.json": `{
  "name": "my-model",
  "module": "model",
  "options": {"plural": "my-models"}
}`,
	"asteroid.json": `{"name": "proj-a", "version": "0.0.1"}`,
	"package.json":  `{"name": "proj-a", "version": "0.0.1", "private": true}`,
}

// WriteProject writes files (relative path -> content) under a fresh temp dir
// and returns the project root.
func WriteProject(t testing.TB, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}
	return root
}

// WithFiles returns a copy of base with extra files added or replaced.
func WithFiles(base map[string]string, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
