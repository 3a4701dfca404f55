package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/projgraph/internal/cli/config"
	"github.com/leapstack-labs/projgraph/internal/cli/output"
	"github.com/leapstack-labs/projgraph/internal/project"
	"github.com/leapstack-labs/projgraph/internal/registry"
	"github.com/leapstack-labs/projgraph/pkg/core"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Ctx      context.Context
	Cfg      *config.Config
	Logger   *slog.Logger
	Types    *registry.TypeRegistry
	Project  *project.Project
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a project and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := config.GetLogger(cmd.Context())

	types, err := loadTypes(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	proj, err := project.New(cfg.ProjectDir, types,
		project.WithLogger(logger),
		project.WithConcurrency(cfg.Concurrency),
		project.WithFileOptions(cfg.FileOptions()),
	)
	if err != nil {
		return nil, nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cleanup := func() {}
	if cfg.Timeout > 0 {
		ctx, cleanup = context.WithTimeout(ctx, cfg.Timeout)
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Ctx:      ctx,
		Cfg:      cfg,
		Logger:   logger,
		Types:    types,
		Project:  proj,
		Renderer: r,
	}, cleanup, nil
}

// getConfig returns the configuration loaded by the root command, loading
// one from the environment when a command runs on its own.
func getConfig() (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", nil)
}

// loadTypes returns the built-in types plus any defined in the types file.
func loadTypes(cfg *config.Config, logger *slog.Logger) (*registry.TypeRegistry, error) {
	reg := registry.Builtin()
	if cfg.TypesFile == "" {
		return reg, nil
	}
	if err := registry.LoadFile(reg, cfg.TypesFile); err != nil {
		return nil, fmt.Errorf("failed to load types: %w", err)
	}
	logger.Debug("loaded types file", "path", cfg.TypesFile, "types", reg.Len())
	return reg, nil
}

// objectInfo converts an object for structured output.
func objectInfo(obj *core.ConfigObject) output.ObjectInfo {
	info := output.ObjectInfo{
		Name: obj.Name,
		Type: obj.TypeName(),
		Path: obj.Path(),
	}
	deps := obj.Dependencies()
	if len(deps) > 0 {
		info.Dependencies = make(map[string]string, len(deps))
		for slot, dep := range deps {
			info.Dependencies[slot] = dep.Name
		}
	}
	return info
}

// depSummary renders an object's bound slots as "slot=name" pairs.
func depSummary(obj *core.ConfigObject) []string {
	deps := obj.Dependencies()
	out := make([]string, 0, len(deps))
	for _, slot := range obj.DependencySlots() {
		out = append(out, slot+"="+deps[slot].Name)
	}
	return out
}
