package commands

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/projgraph/internal/cli/config"
	"github.com/leapstack-labs/projgraph/internal/cli/output"
	sharedcfg "github.com/leapstack-labs/projgraph/internal/config"
	"github.com/leapstack-labs/projgraph/internal/dag"
	"github.com/leapstack-labs/projgraph/internal/loader"
	"github.com/leapstack-labs/projgraph/pkg/core"
	"github.com/spf13/cobra"
)

// ErrUnhealthy is returned when doctor finds problems.
var ErrUnhealthy = errors.New("project has problems")

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format override
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run a project health check",
		Long: `Analyze the project and report anything that would stop it from resolving.

The doctor command checks:
- The projgraph.yaml settings load and are valid
- Type definitions link to known, acyclic base types
- Every config file parses as a JSON object
- Every object's type is known and its dependencies bind
- The dependency graph has no cycles

Exits non-zero when any check fails.`,
		Example: `  # Run health check
  projgraph doctor

  # Output as JSON
  projgraph doctor --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	report := buildDoctorOutput(cmdCtx)

	var renderErr error
	if ok, err := r.Structured(report); ok {
		renderErr = err
	} else if r.EffectiveMode() == output.ModeMarkdown {
		renderDoctorMarkdown(r, report)
	} else {
		renderDoctorText(r, report)
	}
	if renderErr != nil {
		return renderErr
	}

	if !report.Healthy {
		return fmt.Errorf("%w: %d failed check(s)", ErrUnhealthy, report.Problems)
	}
	return nil
}

func buildDoctorOutput(cmdCtx *CommandContext) *output.DoctorOutput {
	ctx := cmdCtx.Ctx
	p := cmdCtx.Project
	report := &output.DoctorOutput{}
	add := func(category, name string, err error, msg string) {
		c := output.CheckResult{Category: category, Name: name, Passed: err == nil, Message: msg}
		if err != nil {
			c.Message = err.Error()
			report.Problems++
		}
		report.Checks = append(report.Checks, c)
	}

	settingsMsg, err := checkSettings(cmdCtx.Cfg.ProjectDir)
	add("structure", "project settings", err, settingsMsg)

	report.Summary.Types = cmdCtx.Types.Len()
	add("types", "type definitions", cmdCtx.Types.Seal(), fmt.Sprintf("%d types registered", report.Summary.Types))

	nodes, err := p.FilesTree(ctx)
	if err == nil {
		core.WalkTree(nodes, func(n *core.FileTreeNode) bool {
			if n.IsDir {
				return true
			}
			report.Summary.Files++
			if loader.IsConfigFile(n.Path) {
				report.Summary.Configs++
			}
			return true
		})
	}
	add("files", "config files parse", err, fmt.Sprintf("%d config files in %d files", report.Summary.Configs, report.Summary.Files))
	if err != nil {
		return report
	}

	pc, err := p.GetConfig(ctx)
	if err == nil {
		report.Summary.Objects = pc.Len()
	}
	add("resolution", "objects resolve", err, fmt.Sprintf("%d objects", report.Summary.Objects))
	if err != nil {
		return report
	}

	g := dag.FromProject(pc)
	report.Summary.Edges = g.EdgeCount()
	var cycleErr error
	if cyclic, path := g.HasCycle(); cyclic {
		cycleErr = &core.CycleError{Path: path}
	} else if levels, err := g.Levels(); err == nil {
		report.Summary.Depth = len(levels)
	}
	add("graph", "no dependency cycles", cycleErr, fmt.Sprintf("%d dependencies, depth %d", report.Summary.Edges, report.Summary.Depth))

	report.Healthy = report.Problems == 0
	return report
}

// checkSettings validates the settings file stored in the project directory.
func checkSettings(dir string) (string, error) {
	path := sharedcfg.FindConfigFile(dir)
	settings, err := sharedcfg.LoadFromDir(dir)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	if settings == nil {
		if used := config.GetConfigFileUsed(); used != "" {
			return used, nil
		}
		return "none, using defaults", nil
	}
	if err := settings.Validate(); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return path, nil
}

func renderDoctorText(r *output.Renderer, report *output.DoctorOutput) {
	styles := r.Styles()
	title := cases.Title(language.English)

	r.Header(1, "Project Health")
	r.Println("")

	r.Println(styles.Header2.Render("Summary"))
	s := report.Summary
	r.Printf("  %s %d files, %d config files\n", styles.Muted.Render("files:"), s.Files, s.Configs)
	r.Printf("  %s %d objects of %d types\n", styles.Muted.Render("objects:"), s.Objects, s.Types)
	r.Printf("  %s %d dependencies, depth %d\n", styles.Muted.Render("graph:"), s.Edges, s.Depth)
	r.Println("")

	category := ""
	for _, c := range report.Checks {
		if c.Category != category {
			category = c.Category
			r.Println(styles.Header2.Render(title.String(category)))
		}
		mark := styles.Success.Render("✓")
		if !c.Passed {
			mark = styles.Error.Render("✗")
		}
		r.Printf("  %s %s %s\n", mark, c.Name, styles.Muted.Render(c.Message))
	}
	r.Println("")

	if report.Healthy {
		r.Success("All checks passed")
	} else {
		r.Println(styles.Error.Render(fmt.Sprintf("%d check(s) failed", report.Problems)))
	}
}

func renderDoctorMarkdown(r *output.Renderer, report *output.DoctorOutput) {
	title := cases.Title(language.English)
	s := report.Summary

	r.Println(output.FormatHeader(1, "Project Health"))
	r.Println("")
	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Files", fmt.Sprintf("%d", s.Files)))
	r.Println(output.FormatKeyValue("Config Files", fmt.Sprintf("%d", s.Configs)))
	r.Println(output.FormatKeyValue("Objects", fmt.Sprintf("%d", s.Objects)))
	r.Println(output.FormatKeyValue("Types", fmt.Sprintf("%d", s.Types)))
	r.Println(output.FormatKeyValue("Dependencies", fmt.Sprintf("%d", s.Edges)))
	r.Println(output.FormatKeyValue("Depth", fmt.Sprintf("%d", s.Depth)))
	r.Println("")

	r.Println(output.FormatHeader(2, "Checks"))
	for _, c := range report.Checks {
		status := "pass"
		if !c.Passed {
			status = "FAIL"
		}
		msg := strings.ReplaceAll(c.Message, "\n", " ")
		r.Printf("- [%s] %s / %s: %s\n", status, title.String(c.Category), c.Name, msg)
	}
	r.Println("")
	r.Println(output.FormatKeyValue("Healthy", fmt.Sprintf("%t", report.Healthy)))
}
