package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/projgraph/internal/cli/output"
	"github.com/leapstack-labs/projgraph/pkg/core"
	"github.com/spf13/cobra"
)

// NewTreeCommand creates the tree command.
func NewTreeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the project file tree",
		Long: `Display the project directory as a tree.

Config files that declare a type are annotated with the object they define.`,
		Example: `  # Show the tree
  projgraph tree

  # As YAML
  projgraph tree -o yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTree(cmd)
		},
	}

	return cmd
}

func runTree(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer

	nodes, err := cmdCtx.Project.FilesTree(cmdCtx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to build file tree: %w", err)
	}

	tree := treeNodes(nodes)
	if ok, err := r.Structured(tree); ok {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Project Tree"))
		r.Println("")
		treeMarkdown(r, tree, 0)
	default:
		r.Header(1, cmdCtx.Project.Dir())
		treeText(r, tree, "")
	}
	return nil
}

func treeNodes(nodes []*core.FileTreeNode) []output.TreeNode {
	out := make([]output.TreeNode, 0, len(nodes))
	for _, n := range nodes {
		tn := output.TreeNode{Name: n.Name, Path: n.Path, Dir: n.IsDir}
		if n.Obj != nil && n.Obj.Module() != "" {
			tn.Object = n.Obj.Module() + "/" + n.Obj.Name
		}
		if n.IsDir {
			tn.Children = treeNodes(n.Children)
		}
		out = append(out, tn)
	}
	return out
}

func treeText(r *output.Renderer, nodes []output.TreeNode, prefix string) {
	styles := r.Styles()
	for i, n := range nodes {
		last := i == len(nodes)-1
		branch, next := "├── ", "│   "
		if last {
			branch, next = "└── ", "    "
		}

		name := n.Name
		if n.Dir {
			name = styles.Bold.Render(name + "/")
		}
		if n.Object != "" {
			name += " " + styles.Muted.Render("("+n.Object+")")
		}
		r.Printf("%s%s%s\n", prefix, branch, name)

		if n.Dir {
			treeText(r, n.Children, prefix+next)
		}
	}
}

func treeMarkdown(r *output.Renderer, nodes []output.TreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		name := "`" + n.Name + "`"
		if n.Dir {
			name = "`" + n.Name + "/`"
		}
		if n.Object != "" {
			name += " (" + n.Object + ")"
		}
		r.Printf("%s- %s\n", indent, name)
		if n.Dir {
			treeMarkdown(r, n.Children, depth+1)
		}
	}
}
