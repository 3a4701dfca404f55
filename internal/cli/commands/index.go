package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/projgraph/internal/cli/output"
	"github.com/leapstack-labs/projgraph/internal/state"
	"github.com/spf13/cobra"
)

// NewIndexCommand creates the index command.
func NewIndexCommand() *cobra.Command {
	var latest bool
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Record a snapshot of the resolved project",
		Long: `Resolve the project and store its objects and dependency edges as a new
snapshot in the SQLite state database.

Use --latest to show the most recent snapshot without indexing.`,
		Example: `  # Index the project
  projgraph index

  # Store the state database elsewhere
  projgraph index --state /tmp/projgraph.db

  # Show the last snapshot
  projgraph index --latest -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd, latest)
		},
	}

	cmd.Flags().BoolVar(&latest, "latest", false, "Show the most recent snapshot instead of indexing")

	return cmd
}

func runIndex(cmd *cobra.Command, latest bool) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := cmdCtx.Cfg
	ctx := cmdCtx.Ctx

	stateDir := filepath.Dir(cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0o750); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store, err := state.Open(cfg.StatePath)
	if err != nil {
		return fmt.Errorf("failed to open state database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	var snapshotID string
	if latest {
		snap, err := store.LatestSnapshot(ctx)
		if errors.Is(err, state.ErrNoSnapshot) {
			cmdCtx.Renderer.Warning("No snapshot recorded yet; run 'projgraph index' first")
			return nil
		}
		if err != nil {
			return err
		}
		snapshotID = snap.ID
	} else {
		pc, err := cmdCtx.Project.GetConfig(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve project: %w", err)
		}
		snapshotID, err = store.SaveSnapshot(ctx, cmdCtx.Project.Dir(), pc)
		if err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		cmdCtx.Logger.Info("snapshot saved", "id", snapshotID, "objects", pc.Len(), "state", cfg.StatePath)
	}

	objects, err := store.ObjectsForSnapshot(ctx, snapshotID)
	if err != nil {
		return err
	}
	deps, err := store.DependenciesForSnapshot(ctx, snapshotID)
	if err != nil {
		return err
	}

	return renderIndex(cmdCtx.Renderer, output.IndexOutput{
		SnapshotID:   snapshotID,
		StatePath:    cfg.StatePath,
		Objects:      len(objects),
		Dependencies: len(deps),
	})
}

func renderIndex(r *output.Renderer, out output.IndexOutput) error {
	if ok, err := r.Structured(out); ok {
		return err
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, "Snapshot"))
		r.Println(output.FormatKeyValue("ID", out.SnapshotID))
		r.Println(output.FormatKeyValue("Objects", fmt.Sprintf("%d", out.Objects)))
		r.Println(output.FormatKeyValue("Dependencies", fmt.Sprintf("%d", out.Dependencies)))
		r.Println(output.FormatKeyValue("State", out.StatePath))
		return nil
	}

	styles := r.Styles()
	r.Success(fmt.Sprintf("Snapshot %s: %d objects, %d dependencies", out.SnapshotID, out.Objects, out.Dependencies))
	r.Printf("  %s %s\n", styles.Muted.Render("state:"), out.StatePath)
	return nil
}
