package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/projgraph/internal/cli/output"
	"github.com/leapstack-labs/projgraph/internal/dag"
	"github.com/spf13/cobra"
)

// GraphQuerier provides read-only access to DAG structure.
type GraphQuerier interface {
	Dependencies(string) []string
	Dependents(string) []string
	Len() int
	EdgeCount() int
}

var _ GraphQuerier = (*dag.Graph)(nil)

// NewOrderCommand creates the order command.
func NewOrderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "order",
		Aliases: []string{"dag"},
		Short:   "Show the execution order",
		Long: `Display the dependency graph grouped into execution levels.

Objects in the same level have no dependencies on each other; level 0
depends on nothing. A dependency cycle is reported as an error.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format (agent-friendly)`,
		Example: `  # Show the levels
  projgraph order

  # Output as JSON
  projgraph order --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOrder(cmd)
		},
	}

	return cmd
}

func runOrder(cmd *cobra.Command) error {
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

	levels, err := graph.Levels()
	if err != nil {
		return fmt.Errorf("failed to get execution levels: %w", err)
	}

	orderOutput := output.OrderOutput{
		Levels:       levels,
		TotalObjects: graph.Len(),
		TotalEdges:   graph.EdgeCount(),
	}
	if ok, err := r.Structured(orderOutput); ok {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeMarkdown:
		orderMarkdown(r, graph, levels)
	default:
		orderText(r, graph, levels)
	}
	return nil
}

// orderText outputs levels in styled text format.
func orderText(r *output.Renderer, graph GraphQuerier, levels [][]string) {
	styles := r.Styles()

	r.Header(1, "Execution Order")

	for i, level := range levels {
		r.Println(styles.Header2.Render(fmt.Sprintf("Level %d:", i)))
		for _, id := range level {
			deps := graph.Dependencies(id)
			dependents := graph.Dependents(id)

			r.Printf("  %s\n", styles.ObjectName.Render(id))
			if len(deps) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("depends on:"), strings.Join(deps, ", "))
			}
			if len(dependents) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("used by:"), strings.Join(dependents, ", "))
			}
		}
		r.Println("")
	}

	r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d objects, %d dependencies", graph.Len(), graph.EdgeCount())))
}

// orderMarkdown outputs levels in markdown format.
func orderMarkdown(r *output.Renderer, graph GraphQuerier, levels [][]string) {
	r.Println(output.FormatHeader(1, "Execution Order"))
	r.Println("")

	for i, level := range levels {
		levelName := fmt.Sprintf("Level %d", i)
		if i == 0 {
			levelName = "Level 0 (Roots)"
		}
		r.Println(output.FormatHeader(2, levelName))

		for _, id := range level {
			deps := graph.Dependencies(id)
			dependents := graph.Dependents(id)

			r.Printf("- %s\n", id)
			if len(deps) > 0 {
				r.Printf("  - depends on: %s\n", strings.Join(deps, ", "))
			}
			if len(dependents) > 0 {
				r.Printf("  - used by: %s\n", strings.Join(dependents, ", "))
			}
		}
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Total Objects", fmt.Sprintf("%d", graph.Len())))
	r.Println(output.FormatKeyValue("Total Dependencies", fmt.Sprintf("%d", graph.EdgeCount())))
}
