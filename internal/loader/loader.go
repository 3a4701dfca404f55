// Package loader turns a single JSON config file into a core.RawConfig.
package loader

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/projgraph/internal/configfile"
	"github.com/leapstack-labs/projgraph/pkg/core"
)

// IsConfigFile reports whether name is a config file (".json").
func IsConfigFile(name string) bool {
	return configfile.IsConfigFile(name)
}

// Load reads root/rel and attaches positional metadata.
// Missing files return *core.NotFoundError, invalid JSON or a non-object top level
// returns *core.ParseError.
func Load(root, rel string) (*core.RawConfig, error) {
	ws := &configfile.Workspace{Root: root}
	data, err := ws.Read(rel)
	if err != nil {
		return nil, err
	}
	return New(ws.ToAbsolutePath(rel), rel, data), nil
}

// New builds a RawConfig from already decoded data.
func New(absPath, rel string, data map[string]any) *core.RawConfig {
	rel = filepath.ToSlash(rel)
	name, _ := data["name"].(string)
	if name == "" {
		name = BaseName(rel)
	}
	return &core.RawConfig{
		Path:      rel,
		AbsPath:   absPath,
		Name:      name,
		DirName:   DirName(rel),
		AppName:   AppName(rel),
		Extension: Extension(rel),
		Data:      data,
	}
}

// AppName returns the first path segment of rel, or core.RootApp for root-level files.
func AppName(rel string) string {
	return configfile.AppName(rel)
}

// DirName returns the base name of rel's containing directory, "." at the root.
func DirName(rel string) string {
	return configfile.DirName(rel)
}

// Extension returns rel's final extension including the dot.
func Extension(rel string) string {
	return configfile.Ext(rel)
}

// BaseName returns rel's file name without its extension.
func BaseName(rel string) string {
	base := path.Base(filepath.ToSlash(rel))
	return strings.TrimSuffix(base, path.Ext(base))
}
