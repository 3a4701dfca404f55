package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/projgraph/internal/cli/output"
	"github.com/leapstack-labs/projgraph/internal/cli/testutil"
	"github.com/leapstack-labs/projgraph/internal/dag"
	"github.com/leapstack-labs/projgraph/internal/registry"
	"github.com/leapstack-labs/projgraph/internal/resolver"
	"github.com/leapstack-labs/projgraph/internal/service"
	"github.com/leapstack-labs/projgraph/pkg/core"
)

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		name  string
		cmd   func() *cobra.Command
		use   string
		flags []string
	}{
		{name: "files", cmd: NewFilesCommand, use: "files", flags: []string{"config-only"}},
		{name: "tree", cmd: NewTreeCommand, use: "tree"},
		{name: "config", cmd: NewConfigCommand, use: "config"},
		{name: "types", cmd: NewTypesCommand, use: "types"},
		{name: "objects", cmd: NewObjectsCommand, use: "objects", flags: []string{"type", "sort"}},
		{name: "deps", cmd: NewDepsCommand, use: "deps"},
		{name: "order", cmd: NewOrderCommand, use: "order"},
		{name: "lineage", cmd: NewLineageCommand, use: "lineage <object>", flags: []string{"upstream", "downstream"}},
		{name: "registry", cmd: NewRegistryCommand, use: "registry"},
		{name: "doctor", cmd: NewDoctorCommand, use: "doctor", flags: []string{"format"}},
		{name: "index", cmd: NewIndexCommand, use: "index", flags: []string{"latest"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.cmd()
			assert.Equal(t, tt.use, cmd.Use)
			assert.NotEmpty(t, cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, cmd.Long, "Long should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestOrderCommandAlias(t *testing.T) {
	cmd := NewOrderCommand()
	assert.Contains(t, cmd.Aliases, "dag")
}

func TestPropertyAndMethodSubcommands(t *testing.T) {
	prop := NewPropertyCommand()
	names := make([]string, 0)
	for _, c := range prop.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"add", "list"}, names)

	method := NewMethodCommand()
	names = names[:0]
	for _, c := range method.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"add", "show"}, names)

	add, _, err := method.Find([]string{"add"})
	require.NoError(t, err)
	for _, flag := range []string{"static", "accepts", "returns", "http-path", "http-verb", "description"} {
		assert.NotNil(t, add.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestParseParams(t *testing.T) {
	got := parseParams([]string{"msg", "count:number", "id:string:required", " spaced :any"})
	assert.Equal(t, []service.Param{
		{Arg: "msg", Type: "any"},
		{Arg: "count", Type: "number"},
		{Arg: "id", Type: "string", Required: true},
		{Arg: "spaced", Type: "any"},
	}, got)
	assert.Empty(t, parseParams(nil))
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"false", false},
		{"42", float64(42)},
		{`"quoted"`, "quoted"},
		{"plain text", "plain text"},
		{`{"a": 1}`, map[string]any{"a": float64(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseValue(tt.in))
		})
	}
}

func resolvedProjectA(t *testing.T) *core.ProjectConfig {
	t.Helper()
	model := &core.RawConfig{Path: "my-model/config.json", Name: "my-model", Data: map[string]any{"module": "model"}}
	ds := &core.RawConfig{Path: "my-data-source/config.json", Name: "my-data-source", Data: map[string]any{"module": "data-source"}}
	pc, err := resolver.Resolve([]*core.RawConfig{ds, model}, registry.Builtin())
	require.NoError(t, err)
	return pc
}

func TestObjectInfoAndDepSummary(t *testing.T) {
	pc := resolvedProjectA(t)
	model, ok := pc.Get("my-model")
	require.True(t, ok)

	assert.Equal(t, output.ObjectInfo{
		Name:         "my-model",
		Type:         "model",
		Path:         "my-model/config.json",
		Dependencies: map[string]string{"data-source": "my-data-source"},
	}, objectInfo(model))
	assert.Equal(t, []string{"data-source=my-data-source"}, depSummary(model))
}

func TestDepNodeStopsAtCycles(t *testing.T) {
	a := core.NewConfigObject("a", &core.TypeDescriptor{Name: "model"}, nil, nil)
	b := core.NewConfigObject("b", &core.TypeDescriptor{Name: "model"}, nil, nil)
	a.Bind("peer", b)
	b.Bind("peer", a)

	got := depNode(a, map[*core.ConfigObject]bool{})
	assert.Equal(t, output.DepNode{
		Name: "a",
		Type: "model",
		Dependencies: []output.DepNode{{
			Name:         "b",
			Type:         "model",
			Dependencies: []output.DepNode{{Name: "a", Type: "model"}},
		}},
	}, got)
}

func TestOrderRendering(t *testing.T) {
	pc := resolvedProjectA(t)
	g := dag.FromProject(pc)
	levels, err := g.Levels()
	require.NoError(t, err)

	md := testutil.NewTestRendererMarkdown()
	orderMarkdown(md.Renderer, g, levels)
	testutil.AssertValidMarkdown(t, md.Output())
	testutil.AssertNoANSI(t, md.Output())
	assert.Contains(t, md.Output(), "- my-model\n  - depends on: my-data-source")
	assert.Contains(t, md.Output(), "- **Total Dependencies**: 1")

	text := testutil.NewTestRendererText()
	orderText(text.Renderer, g, levels)
	assert.Contains(t, text.Output(), "Level 1:")
	assert.Contains(t, text.Output(), "Total: 2 objects, 1 dependencies")
}
