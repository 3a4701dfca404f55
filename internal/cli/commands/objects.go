package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/projgraph/internal/cli/output"
	"github.com/leapstack-labs/projgraph/pkg/core"
	"github.com/spf13/cobra"
)

// NewObjectsCommand creates the objects command.
func NewObjectsCommand() *cobra.Command {
	var (
		typeName string
		sorted   bool
	)
	cmd := &cobra.Command{
		Use:   "objects",
		Short: "List resolved objects",
		Long: `List the project's resolved objects with their paths and dependencies.

--type restricts the list to objects whose own type matches exactly;
derived types are not included. Objects are listed in file order unless
--sort is given, which orders them by type, then name.`,
		Example: `  # All objects
  projgraph objects

  # Only models
  projgraph objects --type model

  # Grouped by type
  projgraph objects --sort`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runObjects(cmd, typeName, sorted)
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "Only list objects of this type")
	cmd.Flags().BoolVar(&sorted, "sort", false, "Sort by type, then name")

	return cmd
}

func runObjects(cmd *cobra.Command, typeName string, sorted bool) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer

	var objs []*core.ConfigObject
	if typeName != "" {
		objs, err = cmdCtx.Project.GetObjectsOfType(cmdCtx.Ctx, typeName)
	} else {
		var pc *core.ProjectConfig
		pc, err = cmdCtx.Project.GetConfig(cmdCtx.Ctx)
		if pc != nil {
			objs = pc.Children()
		}
	}
	if err != nil {
		return fmt.Errorf("failed to resolve project: %w", err)
	}
	if sorted {
		core.SortByName(objs)
	}

	infos := make([]output.ObjectInfo, 0, len(objs))
	for _, obj := range objs {
		infos = append(infos, objectInfo(obj))
	}
	if ok, err := r.Structured(infos); ok {
		return err
	}

	title := fmt.Sprintf("Objects (%d total)", len(objs))
	if typeName != "" {
		title = fmt.Sprintf("Objects of type %s (%d)", typeName, len(objs))
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, title))
		r.Println("")
	} else {
		r.Header(1, title)
	}

	if len(objs) == 0 {
		r.Muted("No objects found")
		return nil
	}

	rows := make([][]string, 0, len(objs))
	for _, obj := range objs {
		rows = append(rows, []string{obj.Name, obj.TypeName(), obj.Path(), strings.Join(depSummary(obj), ", ")})
	}
	r.Table([]string{"Name", "Type", "Path", "Dependencies"}, rows)
	return nil
}
