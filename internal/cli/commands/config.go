package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leapstack-labs/projgraph/internal/cli/output"
	"github.com/leapstack-labs/projgraph/pkg/core"
	"github.com/spf13/cobra"
)

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved project configuration",
		Long: `Load every config file, resolve types and bind dependencies, then print
the resulting objects.

JSON output maps each object name to its options, inheritance chain and
dependencies. Names shared across types are keyed as type/name.`,
		Example: `  # Show resolved objects
  projgraph config

  # Full graph as JSON
  projgraph config -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfig(cmd)
		},
	}

	return cmd
}

func runConfig(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer

	pc, err := cmdCtx.Project.GetConfig(cmdCtx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve project: %w", err)
	}

	if ok, err := structuredProject(r, pc); ok {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeMarkdown:
		configMarkdown(r, pc)
	default:
		configText(r, pc)
	}
	return nil
}

// structuredProject writes pc as JSON or YAML. YAML goes through the JSON
// form so both carry the same shape.
func structuredProject(r *output.Renderer, pc *core.ProjectConfig) (bool, error) {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return true, r.JSON(pc)
	case output.ModeYAML:
		raw, err := json.Marshal(pc)
		if err != nil {
			return true, err
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return true, err
		}
		return true, r.YAML(v)
	default:
		return false, nil
	}
}

func configText(r *output.Renderer, pc *core.ProjectConfig) {
	styles := r.Styles()

	r.Header(1, fmt.Sprintf("Objects (%d total)", pc.Len()))
	for _, obj := range pc.Children() {
		r.Println("")
		r.Printf("%s %s\n", styles.ObjectName.Render(obj.Name), styles.TypeName.Render(obj.TypeName()))
		r.Printf("  %s %s\n", styles.Muted.Render("path:"), styles.Path.Render(obj.Path()))
		r.Printf("  %s %s\n", styles.Muted.Render("chain:"), strings.Join(obj.InheritanceChain(), " → "))
		if deps := depSummary(obj); len(deps) > 0 {
			r.Printf("  %s %s\n", styles.Muted.Render("depends on:"), strings.Join(deps, ", "))
		}
		if keys := core.SortedKeys(obj.Options); len(keys) > 0 {
			r.Printf("  %s %s\n", styles.Muted.Render("options:"), strings.Join(keys, ", "))
		}
	}
}

func configMarkdown(r *output.Renderer, pc *core.ProjectConfig) {
	r.Println(output.FormatHeader(1, fmt.Sprintf("Objects (%d total)", pc.Len())))
	for _, obj := range pc.Children() {
		r.Println("")
		r.Println(output.FormatHeader(2, obj.Name))
		r.Println(output.FormatKeyValue("Type", obj.TypeName()))
		r.Println(output.FormatKeyValue("Path", obj.Path()))
		r.Println(output.FormatKeyValue("Inheritance", strings.Join(obj.InheritanceChain(), " → ")))
		if deps := depSummary(obj); len(deps) > 0 {
			r.Println(output.FormatKeyValue("Dependencies", strings.Join(deps, ", ")))
		}
		if len(obj.Options) > 0 {
			raw, err := json.MarshalIndent(obj.Options, "", "  ")
			if err == nil {
				r.Println("")
				r.Println(output.FormatCodeBlock("json", string(raw)))
			}
		}
	}
}
