// Package configfile reads and writes single JSON config files inside a workspace.
package configfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/projgraph/internal/files"
	"github.com/leapstack-labs/projgraph/pkg/core"
)

// Extension is the only recognized config file extension.
const Extension = ".json"

// Workspace anchors workspace-relative config paths to a directory.
type Workspace struct {
	Root string
}

// NewWorkspace returns a workspace rooted at the absolute form of root.
func NewWorkspace(root string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &core.IOError{Op: "resolve", Path: root, Err: err}
	}
	return &Workspace{Root: abs}, nil
}

// ToAbsolutePath resolves a workspace-relative path. Absolute paths are returned cleaned.
func (w *Workspace) ToAbsolutePath(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(w.Root, filepath.FromSlash(rel))
}

// Read decodes the JSON object stored at rel.
func (w *Workspace) Read(rel string) (map[string]any, error) {
	abs := w.ToAbsolutePath(rel)
	content, err := os.ReadFile(abs) //nolint:gosec // G304: path is anchored to the workspace
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &core.NotFoundError{Path: rel}
		}
		return nil, &core.IOError{Op: "read", Path: abs, Err: err}
	}
	return Decode(rel, content)
}

// Decode parses content as a JSON object.
func Decode(rel string, content []byte) (map[string]any, error) {
	var data map[string]any
	dec := json.NewDecoder(bytes.NewReader(content))
	if err := dec.Decode(&data); err != nil {
		return nil, &core.ParseError{Path: rel, Err: err}
	}
	if data == nil {
		return nil, &core.ParseError{Path: rel, Err: errors.New("top-level value must be an object")}
	}
	if dec.More() {
		return nil, &core.ParseError{Path: rel, Err: errors.New("unexpected data after top-level object")}
	}
	return data, nil
}

// Write stores data at rel as indented JSON, creating parent directories.
// The file is replaced atomically via a temp file in the same directory.
func (w *Workspace) Write(rel string, data map[string]any) error {
	abs := w.ToAbsolutePath(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
		return &core.IOError{Op: "mkdir", Path: filepath.Dir(abs), Err: err}
	}

	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", rel, err)
	}
	content = append(content, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(abs), "."+filepath.Base(abs)+".*")
	if err != nil {
		return &core.IOError{Op: "write", Path: abs, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &core.IOError{Op: "write", Path: abs, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &core.IOError{Op: "write", Path: abs, Err: err}
	}
	if err := os.Rename(tmpName, abs); err != nil {
		_ = os.Remove(tmpName)
		return &core.IOError{Op: "rename", Path: abs, Err: err}
	}
	return nil
}

// Exists reports whether a regular file exists at rel.
func (w *Workspace) Exists(rel string) (bool, error) {
	info, err := os.Stat(w.ToAbsolutePath(rel))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &core.IOError{Op: "stat", Path: rel, Err: err}
	}
	return info.Mode().IsRegular(), nil
}

// Remove deletes the file at rel. Removing a missing file is not an error.
func (w *Workspace) Remove(rel string) error {
	if err := os.Remove(w.ToAbsolutePath(rel)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &core.IOError{Op: "remove", Path: rel, Err: err}
	}
	return nil
}

// Find lists the workspace-relative (slash separated) paths of all config files, sorted.
func (w *Workspace) Find(ctx context.Context) ([]string, error) {
	enum, err := files.New(w.Root, files.Options{IgnoreDirs: files.DefaultIgnoreDirs})
	if err != nil {
		return nil, err
	}
	all, err := enum.Files(ctx)
	if err != nil {
		return nil, err
	}
	var out []string
	for rel := range all {
		if IsConfigFile(rel) {
			out = append(out, filepath.ToSlash(rel))
		}
	}
	sort.Strings(out)
	return out, nil
}

// LoadFromPath loads the config file at rel.
func (w *Workspace) LoadFromPath(rel string) (*ConfigFile, error) {
	f := w.File(rel)
	if err := f.Load(); err != nil {
		return nil, err
	}
	return f, nil
}

// File returns an unloaded handle for rel.
func (w *Workspace) File(rel string) *ConfigFile {
	return &ConfigFile{Path: filepath.ToSlash(rel), ws: w}
}

// IsConfigFile reports whether name has the config file extension.
func IsConfigFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), Extension)
}

// ConfigFile is one JSON config file and its decoded data.
type ConfigFile struct {
	Path string
	Data map[string]any

	ws *Workspace
}

// Load reads Data from disk.
func (f *ConfigFile) Load() error {
	data, err := f.ws.Read(f.Path)
	if err != nil {
		return err
	}
	f.Data = data
	return nil
}

// Save writes Data to disk. A nil Data is saved as an empty object.
func (f *ConfigFile) Save() error {
	data := f.Data
	if data == nil {
		data = map[string]any{}
	}
	return f.ws.Write(f.Path, data)
}

// Exists reports whether the file is on disk.
func (f *ConfigFile) Exists() (bool, error) {
	return f.ws.Exists(f.Path)
}

// Remove deletes the file.
func (f *ConfigFile) Remove() error {
	return f.ws.Remove(f.Path)
}

// AbsPath returns the file's absolute path.
func (f *ConfigFile) AbsPath() string {
	return f.ws.ToAbsolutePath(f.Path)
}

// AppName returns the first path segment of the file, or core.RootApp at the root.
func (f *ConfigFile) AppName() string { return AppName(f.Path) }

// DirName returns the base name of the containing directory.
func (f *ConfigFile) DirName() string { return DirName(f.Path) }

// Extension returns the file's final extension including the dot.
func (f *ConfigFile) Extension() string { return Ext(f.Path) }

// AppName returns the first path segment of rel, or core.RootApp for root-level files.
func AppName(rel string) string {
	rel = cleanRel(rel)
	if i := strings.IndexByte(rel, '/'); i > 0 {
		return rel[:i]
	}
	return core.RootApp
}

// DirName returns the base name of rel's containing directory, "." at the root.
func DirName(rel string) string {
	return path.Base(path.Dir(cleanRel(rel)))
}

// Ext returns rel's final extension including the dot.
func Ext(rel string) string {
	return path.Ext(cleanRel(rel))
}

func cleanRel(rel string) string {
	return strings.TrimPrefix(path.Clean(filepath.ToSlash(rel)), "./")
}
