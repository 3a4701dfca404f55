package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/projgraph/internal/cli/output"
	"github.com/spf13/cobra"
)

// LineageOptions holds options for the lineage command.
type LineageOptions struct {
	Upstream   bool
	Downstream bool
}

// LineageOutput is the structured lineage of one object.
type LineageOutput struct {
	Object     string   `json:"object" yaml:"object"`
	Upstream   []string `json:"upstream,omitempty" yaml:"upstream,omitempty"`
	Downstream []string `json:"downstream,omitempty" yaml:"downstream,omitempty"`
	// Order lists the object and its lineage, dependencies first.
	// Empty when the lineage contains a cycle.
	Order []string `json:"order,omitempty" yaml:"order,omitempty"`
}

// NewLineageCommand creates the lineage command.
func NewLineageCommand() *cobra.Command {
	opts := &LineageOptions{}

	cmd := &cobra.Command{
		Use:   "lineage <object>",
		Short: "Show lineage for an object",
		Long: `Display every object an object depends on, directly or not, and every
object that depends on it.

Objects are named as in 'projgraph order': the object name, or type/name
when the name is shared by several types.`,
		Example: `  # Full lineage
  projgraph lineage my-data-source

  # Only what depends on it
  projgraph lineage my-data-source --upstream=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLineage(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Upstream, "upstream", true, "Include upstream dependencies")
	cmd.Flags().BoolVar(&opts.Downstream, "downstream", true, "Include downstream dependents")

	return cmd
}

func runLineage(cmd *cobra.Command, id string, opts *LineageOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer

	graph, err := cmdCtx.Project.Graph(cmdCtx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve project: %w", err)
	}
	if _, ok := graph.Node(id); !ok {
		return fmt.Errorf("object %q not found", id)
	}

	lineage := LineageOutput{Object: id}
	if opts.Upstream {
		lineage.Upstream = graph.Upstream(id)
	}
	if opts.Downstream {
		lineage.Downstream = graph.Downstream(id)
	}
	ids := append(append([]string{id}, lineage.Upstream...), lineage.Downstream...)
	if sorted, err := graph.Subgraph(ids).TopologicalSort(); err == nil {
		for _, n := range sorted {
			lineage.Order = append(lineage.Order, n.ID)
		}
	} else {
		cmdCtx.Logger.Debug("lineage has a cycle", "object", id, "error", err)
	}

	if ok, err := r.Structured(lineage); ok {
		return err
	}

	markdown := r.EffectiveMode() == output.ModeMarkdown
	if markdown {
		r.Println(output.FormatHeader(1, "Lineage: "+id))
	} else {
		r.Header(1, "Lineage: "+id)
	}

	section := func(title string, ids []string) {
		if markdown {
			r.Println("")
			r.Println(output.FormatHeader(2, title))
			if len(ids) == 0 {
				r.Println("_none_")
				return
			}
			r.Printf("%s", output.FormatList(ids))
			return
		}
		styles := r.Styles()
		list := styles.Muted.Render("none")
		if len(ids) > 0 {
			list = strings.Join(ids, ", ")
		}
		r.Printf("%s %s\n", styles.Bold.Render(title+":"), list)
	}

	if opts.Upstream {
		section("Upstream", lineage.Upstream)
	}
	if opts.Downstream {
		section("Downstream", lineage.Downstream)
	}
	if len(lineage.Order) > 1 {
		if markdown {
			r.Println("")
			r.Println(output.FormatHeader(2, "Order"))
			r.Println(strings.Join(lineage.Order, " → "))
		} else {
			r.Printf("%s %s\n", r.Styles().Bold.Render("Order:"), strings.Join(lineage.Order, " → "))
		}
	}
	return nil
}
