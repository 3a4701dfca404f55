package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/projgraph/internal/cli/output"
	"github.com/leapstack-labs/projgraph/pkg/core"
	"github.com/spf13/cobra"
)

// NewDepsCommand creates the deps command.
func NewDepsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Show the dependency tree",
		Long: `Display the dependency tree: every object nothing else depends on, with
its dependencies nested beneath it.

An object that appears again below itself is printed once and marked as a cycle.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDeps(cmd)
		},
	}

	return cmd
}

func runDeps(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer

	top, err := cmdCtx.Project.DependencyTree(cmdCtx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve project: %w", err)
	}

	tree := make([]output.DepNode, 0, len(top))
	for _, obj := range top {
		tree = append(tree, depNode(obj, map[*core.ConfigObject]bool{}))
	}

	if ok, err := r.Structured(tree); ok {
		return err
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, "Dependency Tree"))
		r.Println("")
	} else {
		r.Header(1, "Dependency Tree")
	}
	if len(tree) == 0 {
		r.Muted("No objects found")
		return nil
	}
	depsPrint(r, tree, 0)
	return nil
}

// depNode expands obj's dependencies. Objects already on the current path
// are emitted without children.
func depNode(obj *core.ConfigObject, onPath map[*core.ConfigObject]bool) output.DepNode {
	n := output.DepNode{Name: obj.Name, Type: obj.TypeName()}
	if onPath[obj] {
		return n
	}
	onPath[obj] = true
	for _, dep := range obj.DirectDependencies() {
		n.Dependencies = append(n.Dependencies, depNode(dep, onPath))
	}
	delete(onPath, obj)
	return n
}

func depsPrint(r *output.Renderer, nodes []output.DepNode, depth int) {
	styles := r.Styles()
	markdown := r.EffectiveMode() == output.ModeMarkdown
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		if markdown {
			r.Printf("%s- %s (%s)\n", indent, n.Name, n.Type)
		} else {
			r.Printf("%s%s %s\n", indent, styles.ObjectName.Render(n.Name), styles.TypeName.Render(n.Type))
		}
		depsPrint(r, n.Dependencies, depth+1)
	}
}
