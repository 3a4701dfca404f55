// Package project assembles the resolved configuration graph of a project directory.
// Every query re-reads the directory; a Project holds no graph between calls.
package project

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/projgraph/internal/dag"
	"github.com/leapstack-labs/projgraph/internal/files"
	"github.com/leapstack-labs/projgraph/internal/registry"
	"github.com/leapstack-labs/projgraph/internal/resolver"
	"github.com/leapstack-labs/projgraph/internal/tree"
	"github.com/leapstack-labs/projgraph/pkg/core"
)

// Project answers queries about the config objects under one directory.
type Project struct {
	enum        *files.Enumerator
	types       *registry.TypeRegistry
	logger      *slog.Logger
	concurrency int
}

// Option configures a Project.
type Option func(*settings)

type settings struct {
	logger      *slog.Logger
	concurrency int
	fileOpts    files.Options
}

// WithLogger sets the structured logger (nil uses discard).
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithConcurrency bounds parallel config reads (zero means one per CPU).
func WithConcurrency(n int) Option {
	return func(s *settings) { s.concurrency = n }
}

// WithFileOptions sets directory traversal options.
func WithFileOptions(opts files.Options) Option {
	return func(s *settings) { s.fileOpts = opts }
}

// New opens the project rooted at dir. Types are resolved through reg; nil
// uses the built-in types.
func New(dir string, reg *registry.TypeRegistry, opts ...Option) (*Project, error) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if reg == nil {
		reg = registry.Builtin()
	}

	enum, err := files.New(dir, s.fileOpts)
	if err != nil {
		return nil, fmt.Errorf("open project: %w", err)
	}

	return &Project{
		enum:        enum,
		types:       reg,
		logger:      s.logger,
		concurrency: s.concurrency,
	}, nil
}

// Dir returns the absolute project directory.
func (p *Project) Dir() string {
	return p.enum.Root()
}

// Types returns the registry the project resolves types with.
func (p *Project) Types() *registry.TypeRegistry {
	return p.types
}

// Files maps relative paths to absolute paths of every file in the project.
func (p *Project) Files(ctx context.Context) (map[string]string, error) {
	return p.enum.Files(ctx)
}

// FilesTree returns the project file tree with every config leaf loaded.
func (p *Project) FilesTree(ctx context.Context) ([]*core.FileTreeNode, error) {
	res, err := p.build(ctx)
	if err != nil {
		return nil, err
	}
	return res.Nodes, nil
}

// GetConfig loads and resolves every config object. Each call builds a fresh graph.
func (p *Project) GetConfig(ctx context.Context) (*core.ProjectConfig, error) {
	res, err := p.build(ctx)
	if err != nil {
		return nil, err
	}

	pc, err := resolver.Resolve(res.Configs, p.types, resolver.WithLogger(p.logger))
	if err != nil {
		return nil, err
	}
	p.logger.Debug("project resolved", "dir", p.Dir(), "objects", pc.Len())
	return pc, nil
}

// GetConfigByType groups objects by their own type, in order of first appearance.
func (p *Project) GetConfigByType(ctx context.Context) ([]core.TypeGroup, error) {
	pc, err := p.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	return pc.ByType(), nil
}

// GetObjectsOfType returns the objects whose own type is exactly typeName.
func (p *Project) GetObjectsOfType(ctx context.Context, typeName string) ([]*core.ConfigObject, error) {
	pc, err := p.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	return pc.OfType(typeName), nil
}

// DependencyTree returns the objects no other object depends on.
// Their DependencyList exposes everything beneath them.
func (p *Project) DependencyTree(ctx context.Context) ([]*core.ConfigObject, error) {
	pc, err := p.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	return pc.TopLevel(), nil
}

// Graph returns the dependency graph of the resolved project.
func (p *Project) Graph(ctx context.Context) (*dag.Graph, error) {
	pc, err := p.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	return dag.FromProject(pc), nil
}

// ExecutionOrder groups node IDs into levels that can be processed in sequence.
// Level 0 has no dependencies. Dependency cycles return *core.CycleError.
func (p *Project) ExecutionOrder(ctx context.Context) ([][]string, error) {
	g, err := p.Graph(ctx)
	if err != nil {
		return nil, err
	}
	return g.Levels()
}

func (p *Project) build(ctx context.Context) (*tree.Result, error) {
	return tree.Build(ctx, p.enum, tree.Options{
		Concurrency: p.concurrency,
		Logger:      p.logger,
	})
}
