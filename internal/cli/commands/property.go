package commands

import (
	"encoding/json"
	"fmt"

	"github.com/leapstack-labs/projgraph/internal/cli/output"
	"github.com/leapstack-labs/projgraph/internal/service"
	"github.com/spf13/cobra"
)

// PropertyOptions holds flags for property add.
type PropertyOptions struct {
	Type        string
	Required    bool
	ID          bool
	Default     string
	Description string
}

// NewPropertyCommand creates the property command group.
func NewPropertyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "property",
		Short: "Manage model properties",
	}
	cmd.AddCommand(newPropertyAddCommand(), newPropertyListCommand())
	return cmd
}

func newPropertyAddCommand() *cobra.Command {
	opts := &PropertyOptions{}
	cmd := &cobra.Command{
		Use:   "add <model> <name>",
		Short: "Add or replace a property on a model",
		Long: `Write a property definition into a model's config file under
options.properties. An existing property of the same name is replaced.

--default is parsed as JSON when it is valid JSON and kept as a string otherwise.`,
		Example: `  projgraph property add my-model title --type string --required
  projgraph property add my-model done --type boolean --default false`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPropertyAdd(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "Property type (default any)")
	cmd.Flags().BoolVar(&opts.Required, "required", false, "Mark the property required")
	cmd.Flags().BoolVar(&opts.ID, "id", false, "Mark the property as the model id")
	cmd.Flags().StringVar(&opts.Default, "default", "", "Default value")
	cmd.Flags().StringVar(&opts.Description, "description", "", "Description")

	return cmd
}

func runPropertyAdd(cmd *cobra.Command, owner, name string, opts *PropertyOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	p := service.Property{
		Name:        name,
		Type:        opts.Type,
		Required:    opts.Required,
		ID:          opts.ID,
		Description: opts.Description,
	}
	if cmd.Flags().Changed("default") {
		p.Default = parseValue(opts.Default)
	}

	svc := service.NewPropertyService(cmdCtx.Project, cmdCtx.Logger)
	if err := svc.Create(cmdCtx.Ctx, owner, p); err != nil {
		return err
	}

	cmdCtx.Renderer.Success(fmt.Sprintf("Property %s added to %s", name, owner))
	return nil
}

func newPropertyListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <model>",
		Short: "List a model's properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPropertyList(cmd, args[0])
		},
	}
}

// PropertyOutput is the structured form of a property.
type PropertyOutput struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	ID          bool   `json:"id,omitempty" yaml:"id,omitempty"`
	Default     any    `json:"default,omitempty" yaml:"default,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

func runPropertyList(cmd *cobra.Command, owner string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer

	svc := service.NewPropertyService(cmdCtx.Project, cmdCtx.Logger)
	props, err := svc.List(cmdCtx.Ctx, owner)
	if err != nil {
		return err
	}

	out := make([]PropertyOutput, 0, len(props))
	for _, p := range props {
		out = append(out, PropertyOutput(p))
	}
	if ok, err := r.Structured(out); ok {
		return err
	}

	title := fmt.Sprintf("Properties of %s (%d)", owner, len(out))
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, title))
		r.Println("")
	} else {
		r.Header(1, title)
	}

	rows := make([][]string, 0, len(out))
	for _, p := range out {
		def := ""
		if p.Default != nil {
			def = fmt.Sprint(p.Default)
		}
		req := ""
		if p.Required {
			req = "yes"
		}
		rows = append(rows, []string{p.Name, p.Type, req, def, p.Description})
	}
	r.Table([]string{"Name", "Type", "Required", "Default", "Description"}, rows)
	return nil
}

// parseValue decodes s as JSON, falling back to the literal string.
func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}
