package project

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/projgraph/internal/files"
	"github.com/leapstack-labs/projgraph/internal/registry"
	"github.com/leapstack-labs/projgraph/internal/testutil"
	"github.com/leapstack-labs/projgraph/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T, content map[string]string, opts ...Option) *Project {
	t.Helper()
	opts = append([]Option{WithLogger(testutil.NewTestLogger(t))}, opts...)
	p, err := New(testutil.WriteProject(t, content), registry.Builtin(), opts...)
	require.NoError(t, err)
	return p
}

func TestProject_Files(t *testing.T) {
	p := open(t, testutil.ProjectA)

	got, err := p.Files(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 4)
	assert.Contains(t, got, "package.json")
}

func TestProject_FilesTree(t *testing.T) {
	p := open(t, testutil.ProjectA)

	nodes, err := p.FilesTree(context.Background())
	require.NoError(t, err)

	require.Len(t, nodes, 4)
	assert.Equal(t, "my-data-source", nodes[0].Name)
	assert.Equal(t, "my-model", nodes[1].Name)
	assert.Equal(t, "asteroid.json", nodes[2].Name)
	assert.Equal(t, "package.json", nodes[3].Name)

	require.Len(t, nodes[1].Children, 1)
	leaf := nodes[1].Children[0]
	assert.Equal(t, "config.json", leaf.Name)
	require.NotNil(t, leaf.Obj)
	assert.Equal(t, "my-model", leaf.Obj.Name)
}

func TestProject_GetConfig(t *testing.T) {
	p := open(t, testutil.ProjectA)

	pc, err := p.GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"my-data-source", "my-model"}, core.Names(pc.Children()))

	data, err := json.Marshal(pc)
	require.NoError(t, err)
	var byName map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &byName))
	assert.Equal(t, []any{"data-source"}, byName["my-data-source"]["inheritanceChain"])
}

func TestProject_GetConfigFreshPerCall(t *testing.T) {
	p := open(t, testutil.ProjectA)

	first, err := p.GetConfig(context.Background())
	require.NoError(t, err)
	second, err := p.GetConfig(context.Background())
	require.NoError(t, err)

	a, _ := first.Get("my-model")
	b, _ := second.Get("my-model")
	assert.NotSame(t, a, b)
}

func TestProject_GetConfigByType(t *testing.T) {
	p := open(t, testutil.ProjectA)

	groups, err := p.GetConfigByType(context.Background())
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Equal(t, "data-source", groups[0].Name)
	assert.Equal(t, "model", groups[1].Name)
	assert.Equal(t, []string{"my-model"}, core.Names(groups[1].Children))
}

func TestProject_GetObjectsOfType(t *testing.T) {
	p := open(t, testutil.WithFiles(testutil.ProjectA, map[string]string{
		"todo/config.json": `{"name": "todo", "module": "persisted-model"}`,
	}))

	models, err := p.GetObjectsOfType(context.Background(), "model")
	require.NoError(t, err)
	assert.Equal(t, []string{"my-model"}, core.Names(models), "exact type match only")

	persisted, err := p.GetObjectsOfType(context.Background(), "persisted-model")
	require.NoError(t, err)
	assert.Equal(t, []string{"todo"}, core.Names(persisted))
}

func TestProject_DependencyTree(t *testing.T) {
	p := open(t, testutil.ProjectA)

	top, err := p.DependencyTree(context.Background())
	require.NoError(t, err)

	require.Len(t, top, 1)
	assert.Equal(t, "my-model", top[0].Name)
	assert.Equal(t, []string{"my-data-source"}, core.Names(top[0].DependencyList()))
}

func TestProject_ExecutionOrder(t *testing.T) {
	p := open(t, testutil.WithFiles(testutil.ProjectA, map[string]string{
		"api/config.json":  `{"name": "api", "module": "app"}`,
		"auth/config.json": `{"name": "auth", "module": "middleware", "dependencies": {"host": "app", "store": "model"}}`,
	}))

	levels, err := p.ExecutionOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"api", "my-data-source"},
		{"my-model"},
		{"auth"},
	}, levels)
}

func TestProject_ExecutionOrderCycle(t *testing.T) {
	p := open(t, map[string]string{
		"a/config.json": `{"name": "a", "module": "component", "dependencies": {"peer": "app"}}`,
		"b/config.json": `{"name": "b", "module": "app", "dependencies": {"peer": "component"}}`,
	})

	_, err := p.GetConfig(context.Background())
	require.NoError(t, err, "cycles are allowed in the resolved graph")

	_, err = p.ExecutionOrder(context.Background())
	var cycle *core.CycleError
	assert.ErrorAs(t, err, &cycle)
}

func TestProject_Errors(t *testing.T) {
	_, err := New("/does/not/exist", nil)
	var ioErr *core.IOError
	assert.ErrorAs(t, err, &ioErr)

	p := open(t, testutil.WithFiles(testutil.ProjectA, map[string]string{
		"broken/config.json": `{`,
	}))
	_, err = p.GetConfig(context.Background())
	var parseErr *core.ParseError
	assert.ErrorAs(t, err, &parseErr)

	p = open(t, map[string]string{"m/config.json": `{"module": "model"}`})
	_, err = p.DependencyTree(context.Background())
	var unresolved *core.UnresolvedDependencyError
	assert.ErrorAs(t, err, &unresolved)
}

func TestProject_FileOptions(t *testing.T) {
	p := open(t, testutil.WithFiles(testutil.ProjectA, map[string]string{
		"node_modules/dep/config.json": `{"name": "dep", "module": "data-source"}`,
	}), WithFileOptions(files.Options{IgnoreDirs: files.DefaultIgnoreDirs}), WithConcurrency(1))

	pc, err := p.GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, pc.Len())
}

func TestProject_FilesIncludesHiddenByDefault(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"a.json":         `{}`,
		".env":           `KEY=value`,
		".eslintrc.json": `{}`,
	})
	p, err := New(root, nil)
	require.NoError(t, err)

	got, err := p.Files(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Contains(t, got, ".env")
	assert.Contains(t, got, ".eslintrc.json")
}
