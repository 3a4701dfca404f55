// Package tree builds the project file tree with every config file loaded.
package tree

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/leapstack-labs/projgraph/internal/files"
	"github.com/leapstack-labs/projgraph/internal/loader"
	"github.com/leapstack-labs/projgraph/pkg/core"
	"golang.org/x/sync/errgroup"
)

// Options configures Build.
type Options struct {
	// Concurrency bounds parallel file reads. Zero means runtime.NumCPU().
	Concurrency int
	Logger      *slog.Logger
}

// Result is a file tree whose config leaves carry their parsed content.
type Result struct {
	Nodes []*core.FileTreeNode
	// Configs lists every loaded config in tree pre-order.
	Configs []*core.RawConfig
}

// Build enumerates the project and loads every config file in parallel.
// Any read or parse failure fails the build; when several files fail the error of
// the earliest file in enumeration order is returned.
func Build(ctx context.Context, enum *files.Enumerator, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	nodes, err := enum.FilesTree(ctx)
	if err != nil {
		return nil, err
	}

	var leaves []*core.FileTreeNode
	core.WalkTree(nodes, func(n *core.FileTreeNode) bool {
		if !n.IsDir && loader.IsConfigFile(n.Name) {
			leaves = append(leaves, n)
		}
		return true
	})

	configs := make([]*core.RawConfig, len(leaves))
	errs := make([]error, len(leaves))

	// failed is the lowest leaf index that failed so far. Leaves after it are
	// skipped; leaves before it still load so the earliest failure is reported.
	var failed atomic.Int64
	failed.Store(int64(len(leaves)))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, leaf := range leaves {
		g.Go(func() error {
			if int64(i) > failed.Load() {
				return nil
			}
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return err
			}
			cfg, err := loader.Load(enum.Root(), leaf.Path)
			if err != nil {
				errs[i] = err
				for {
					cur := failed.Load()
					if int64(i) >= cur || failed.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
				return err
			}
			configs[i] = cfg
			return nil
		})
	}
	waitErr := g.Wait()

	if err := firstError(errs); err != nil {
		return nil, err
	}
	if waitErr != nil {
		return nil, waitErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, leaf := range leaves {
		leaf.Obj = configs[i]
	}
	logger.Debug("config tree built", "root", enum.Root(), "configs", len(configs))

	return &Result{Nodes: nodes, Configs: configs}, nil
}

// firstError returns the earliest error that is not a context error, falling back
// to the earliest context error.
func firstError(errs []error) error {
	var ctxErr error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			if ctxErr == nil {
				ctxErr = err
			}
			continue
		}
		return err
	}
	return ctxErr
}
