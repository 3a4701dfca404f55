// Package files enumerates the regular files of a project directory.
package files

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/projgraph/pkg/core"
)

// DefaultIgnoreDirs are directories the CLI skips unless configured otherwise.
var DefaultIgnoreDirs = []string{"node_modules", ".git", ".svn", ".hg", ".projgraph"}

// Options configures traversal. The zero value lists every regular file.
// Symlinks are never followed.
type Options struct {
	IgnoreDirs     []string // Directory base names to skip
	IgnorePatterns []string // File base-name glob patterns to skip (e.g. "*.tmp")
	ExcludeHidden  bool     // Skip entries starting with "."
}

// Enumerator lists the files under one project root.
type Enumerator struct {
	root string
	opts Options
}

// New creates an Enumerator for root. The root must be a readable directory.
func New(root string, opts Options) (*Enumerator, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &core.IOError{Op: "resolve", Path: root, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &core.IOError{Op: "stat", Path: abs, Err: err}
	}
	if !info.IsDir() {
		return nil, &core.IOError{Op: "open", Path: abs, Err: fs.ErrInvalid}
	}
	return &Enumerator{root: abs, opts: opts}, nil
}

// Root returns the absolute project root.
func (e *Enumerator) Root() string {
	return e.root
}

// Files maps every regular file's relative path (OS separators) to its absolute path.
func (e *Enumerator) Files(ctx context.Context) (map[string]string, error) {
	nodes, err := e.FilesTree(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	core.WalkTree(nodes, func(n *core.FileTreeNode) bool {
		if !n.IsDir {
			rel := filepath.FromSlash(n.Path)
			out[rel] = filepath.Join(e.root, rel)
		}
		return true
	})
	return out, nil
}

// FilesTree returns the directory structure under the root.
// Within a directory, subdirectories come first, then files, each in lexical order.
func (e *Enumerator) FilesTree(ctx context.Context) ([]*core.FileTreeNode, error) {
	return e.readDir(ctx, "")
}

func (e *Enumerator) readDir(ctx context.Context, rel string) ([]*core.FileTreeNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Join(e.root, filepath.FromSlash(rel))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &core.IOError{Op: "read", Path: dir, Err: err}
	}

	var dirs, regular []fs.DirEntry
	for _, entry := range entries {
		if e.skip(entry) {
			continue
		}
		switch {
		case entry.IsDir():
			dirs = append(dirs, entry)
		case entry.Type().IsRegular():
			regular = append(regular, entry)
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name() < dirs[j].Name() })
	sort.Slice(regular, func(i, j int) bool { return regular[i].Name() < regular[j].Name() })

	nodes := make([]*core.FileTreeNode, 0, len(dirs)+len(regular))
	for _, d := range dirs {
		childRel := path.Join(rel, d.Name())
		children, err := e.readDir(ctx, childRel)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, &core.FileTreeNode{
			Name:     d.Name(),
			Path:     childRel,
			IsDir:    true,
			Children: children,
		})
	}
	for _, f := range regular {
		nodes = append(nodes, &core.FileTreeNode{
			Name: f.Name(),
			Path: path.Join(rel, f.Name()),
		})
	}
	return nodes, nil
}

func (e *Enumerator) skip(entry fs.DirEntry) bool {
	name := entry.Name()
	if e.opts.ExcludeHidden && strings.HasPrefix(name, ".") {
		return true
	}
	if entry.IsDir() {
		for _, ignore := range e.opts.IgnoreDirs {
			if name == ignore {
				return true
			}
		}
		return false
	}
	for _, pattern := range e.opts.IgnorePatterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
