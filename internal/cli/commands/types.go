package commands

import (
	"fmt"

	"github.com/leapstack-labs/projgraph/internal/cli/output"
	"github.com/spf13/cobra"
)

// TypeGroupOutput lists the objects of one type.
type TypeGroupOutput struct {
	Name    string   `json:"name" yaml:"name"`
	Objects []string `json:"objects" yaml:"objects"`
}

// NewTypesCommand creates the types command.
func NewTypesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Group resolved objects by type",
		Long: `Group the project's objects by their own type, in order of first appearance.

Use 'projgraph registry' to list the registered type definitions instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTypes(cmd)
		},
	}

	return cmd
}

func runTypes(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer

	groups, err := cmdCtx.Project.GetConfigByType(cmdCtx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve project: %w", err)
	}

	out := make([]TypeGroupOutput, 0, len(groups))
	for _, g := range groups {
		names := make([]string, 0, len(g.Children))
		for _, obj := range g.Children {
			names = append(names, obj.Name)
		}
		out = append(out, TypeGroupOutput{Name: g.Name, Objects: names})
	}

	if ok, err := r.Structured(out); ok {
		return err
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, "Objects by Type"))
		for _, g := range out {
			r.Println("")
			r.Println(output.FormatHeader(2, fmt.Sprintf("%s (%d)", g.Name, len(g.Objects))))
			r.Printf("%s", output.FormatList(g.Objects))
		}
		return nil
	}

	styles := r.Styles()
	r.Header(1, "Objects by Type")
	for _, g := range out {
		r.Println(styles.Header2.Render(fmt.Sprintf("%s (%d)", g.Name, len(g.Objects))))
		for _, name := range g.Objects {
			r.Printf("  %s\n", styles.ObjectName.Render(name))
		}
	}
	return nil
}
