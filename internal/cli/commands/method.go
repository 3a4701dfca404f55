package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/projgraph/internal/cli/output"
	"github.com/leapstack-labs/projgraph/internal/service"
	"github.com/spf13/cobra"
)

// MethodOptions holds flags for method add.
type MethodOptions struct {
	Static      bool
	Accepts     []string
	Returns     []string
	HTTPPath    string
	HTTPVerb    string
	Description string
}

// NewMethodCommand creates the method command group.
func NewMethodCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "method",
		Short: "Manage model remote methods",
	}
	cmd.AddCommand(newMethodAddCommand(), newMethodShowCommand())
	return cmd
}

func newMethodAddCommand() *cobra.Command {
	opts := &MethodOptions{}
	cmd := &cobra.Command{
		Use:   "add <model> <name>",
		Short: "Add or replace a remote method on a model",
		Long: `Write a remote method definition into a model's config file under
options.methods. An existing method of the same name is replaced.

Parameters are given as arg[:type[:required]], type defaulting to any.`,
		Example: `  projgraph method add my-model greet --accepts msg:string:required --returns greeting:string \
    --http-path /greet --http-verb POST`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMethodAdd(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Static, "static", false, "Static method")
	cmd.Flags().StringSliceVar(&opts.Accepts, "accepts", nil, "Accepted parameter arg[:type[:required]] (repeatable)")
	cmd.Flags().StringSliceVar(&opts.Returns, "returns", nil, "Returned value arg[:type[:required]] (repeatable)")
	cmd.Flags().StringVar(&opts.HTTPPath, "http-path", "", "REST path")
	cmd.Flags().StringVar(&opts.HTTPVerb, "http-verb", "", "REST verb")
	cmd.Flags().StringVar(&opts.Description, "description", "", "Description")

	return cmd
}

func runMethodAdd(cmd *cobra.Command, owner, name string, opts *MethodOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	m := service.Method{
		Name:        name,
		IsStatic:    opts.Static,
		Accepts:     parseParams(opts.Accepts),
		Returns:     parseParams(opts.Returns),
		Description: opts.Description,
	}
	if opts.HTTPPath != "" || opts.HTTPVerb != "" {
		verb := opts.HTTPVerb
		if verb == "" {
			verb = "get"
		}
		m.HTTP = &service.HTTPRoute{Path: opts.HTTPPath, Verb: verb}
	}

	svc := service.NewMethodService(cmdCtx.Project, cmdCtx.Logger)
	if err := svc.Create(cmdCtx.Ctx, owner, m); err != nil {
		return err
	}

	cmdCtx.Renderer.Success(fmt.Sprintf("Method %s added to %s", name, owner))
	return nil
}

// parseParams parses arg[:type[:required]] specs.
func parseParams(specs []string) []service.Param {
	params := make([]service.Param, 0, len(specs))
	for _, spec := range specs {
		parts := strings.SplitN(spec, ":", 3)
		p := service.Param{Arg: strings.TrimSpace(parts[0]), Type: "any"}
		if len(parts) > 1 && parts[1] != "" {
			p.Type = parts[1]
		}
		if len(parts) > 2 {
			p.Required = parts[2] == "required"
		}
		params = append(params, p)
	}
	return params
}

func newMethodShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <model> <name>",
		Short: "Show a model's remote method",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMethodShow(cmd, args[0], args[1])
		},
	}
}

// MethodOutput is the structured form of a remote method.
type MethodOutput struct {
	Name        string             `json:"name" yaml:"name"`
	IsStatic    bool               `json:"isStatic" yaml:"isStatic"`
	Accepts     []service.Param    `json:"accepts,omitempty" yaml:"accepts,omitempty"`
	Returns     []service.Param    `json:"returns,omitempty" yaml:"returns,omitempty"`
	HTTP        *service.HTTPRoute `json:"http,omitempty" yaml:"http,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
}

func runMethodShow(cmd *cobra.Command, owner, name string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer

	svc := service.NewMethodService(cmdCtx.Project, cmdCtx.Logger)
	m, ok, err := svc.Get(cmdCtx.Ctx, owner, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s has no method %q", owner, name)
	}

	if ok, err := r.Structured(MethodOutput(m)); ok {
		return err
	}

	markdown := r.EffectiveMode() == output.ModeMarkdown
	if markdown {
		r.Println(output.FormatHeader(1, owner+"."+name))
	} else {
		r.Header(1, owner+"."+name)
	}

	kv := func(key, value string) {
		if markdown {
			r.Println(output.FormatKeyValue(key, value))
			return
		}
		r.Printf("  %s %s\n", r.Styles().Muted.Render(strings.ToLower(key)+":"), value)
	}
	kv("Static", fmt.Sprintf("%t", m.IsStatic))
	kv("Accepts", formatParams(m.Accepts))
	kv("Returns", formatParams(m.Returns))
	if m.HTTP != nil {
		kv("HTTP", strings.ToUpper(m.HTTP.Verb)+" "+m.HTTP.Path)
	}
	if m.Description != "" {
		kv("Description", m.Description)
	}
	return nil
}

func formatParams(params []service.Param) string {
	if len(params) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		s := p.Arg + ": " + p.Type
		if p.Required {
			s += " (required)"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}
