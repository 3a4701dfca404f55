package commands

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/projgraph/internal/cli/output"
	"github.com/leapstack-labs/projgraph/internal/loader"
	"github.com/spf13/cobra"
)

// FileEntry is one enumerated project file.
type FileEntry struct {
	Path    string `json:"path" yaml:"path"`
	AbsPath string `json:"abs_path" yaml:"abs_path"`
	Config  bool   `json:"config" yaml:"config"`
}

// NewFilesCommand creates the files command.
func NewFilesCommand() *cobra.Command {
	var configOnly bool
	cmd := &cobra.Command{
		Use:   "files",
		Short: "List every file in the project",
		Long: `List every file under the project directory after ignore rules are applied.

Config files (*.json) are marked; use --config-only to list only those.`,
		Example: `  # List project files
  projgraph files

  # Only config files, as JSON
  projgraph files --config-only -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFiles(cmd, configOnly)
		},
	}

	cmd.Flags().BoolVar(&configOnly, "config-only", false, "List only config files")

	return cmd
}

func runFiles(cmd *cobra.Command, configOnly bool) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer

	files, err := cmdCtx.Project.Files(cmdCtx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	rels := make([]string, 0, len(files))
	for rel := range files {
		if configOnly && !loader.IsConfigFile(rel) {
			continue
		}
		rels = append(rels, rel)
	}
	sort.Strings(rels)

	entries := make([]FileEntry, 0, len(rels))
	for _, rel := range rels {
		entries = append(entries, FileEntry{Path: rel, AbsPath: files[rel], Config: loader.IsConfigFile(rel)})
	}

	if ok, err := r.Structured(entries); ok {
		return err
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, fmt.Sprintf("Files (%d total)", len(entries))))
		r.Println("")
	} else {
		r.Header(1, fmt.Sprintf("Files (%d total)", len(entries)))
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		mark := ""
		if e.Config {
			mark = "yes"
		}
		rows = append(rows, []string{e.Path, mark})
	}
	r.Table([]string{"Path", "Config"}, rows)

	return nil
}
