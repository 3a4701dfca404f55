package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`
types_file: kinds.yaml
concurrency: 4
ignore_patterns: ["*.tmp"]
include_hidden: true
`), 0o600))

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "kinds.yaml", cfg.TypesFile)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, DefaultIgnoreDirs(), cfg.IgnoreDirs)
	assert.Equal(t, DefaultStateFile, cfg.StatePath)

	opts := cfg.FileOptions()
	assert.False(t, opts.ExcludeHidden)
	assert.Equal(t, []string{"*.tmp"}, opts.IgnorePatterns)
}

func TestLoadFromDir_Missing(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadFromDir_AltName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileNameAlt), []byte("ignore_dirs: [vendor]\n"), 0o600))

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor"}, cfg.IgnoreDirs)
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("{}\n"), 0o600))

	assert.Equal(t, root, FindProjectRoot(nested))
	assert.Equal(t, root, FindProjectRoot(root))
}

func TestProjectConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProjectConfig
		wantErr string
	}{
		{name: "defaults", cfg: ProjectConfig{}},
		{name: "patterns", cfg: ProjectConfig{IgnorePatterns: []string{"*.tmp", "draft-?.json"}}},
		{name: "negative concurrency", cfg: ProjectConfig{Concurrency: -1}, wantErr: "concurrency"},
		{name: "bad pattern", cfg: ProjectConfig{IgnorePatterns: []string{"[a-"}}, wantErr: `invalid ignore pattern "[a-"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
