package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/projgraph/internal/cli/output"
	"github.com/leapstack-labs/projgraph/pkg/core"
	"github.com/spf13/cobra"
)

// NewRegistryCommand creates the registry command.
func NewRegistryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "List registered types",
		Long: `List the built-in types and those defined in the types file, with their
base type, effective options and dependency slots.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRegistry(cmd)
		},
	}

	return cmd
}

func runRegistry(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer

	types := cmdCtx.Types.All()
	infos := make([]output.TypeInfo, 0, len(types))
	for _, t := range types {
		infos = append(infos, output.TypeInfo{
			Name:         t.Name,
			Base:         t.Extends,
			Description:  t.Description,
			Options:      core.SortedKeys(t.OptionSchema()),
			Dependencies: t.Dependencies(),
		})
	}

	if ok, err := r.Structured(infos); ok {
		return err
	}

	title := fmt.Sprintf("Types (%d registered)", len(infos))
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, title))
		r.Println("")
	} else {
		r.Header(1, title)
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		slots := make([]string, 0, len(info.Dependencies))
		for _, slot := range core.SortedKeys(info.Dependencies) {
			slots = append(slots, slot+"→"+info.Dependencies[slot])
		}
		rows = append(rows, []string{info.Name, info.Base, strings.Join(info.Options, ", "), strings.Join(slots, ", ")})
	}
	r.Table([]string{"Type", "Extends", "Options", "Dependencies"}, rows)

	if err := cmdCtx.Types.Seal(); err != nil {
		r.Warning(err.Error())
	}
	return nil
}
