package resolver

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/leapstack-labs/projgraph/internal/loader"
	"github.com/leapstack-labs/projgraph/internal/registry"
	"github.com/leapstack-labs/projgraph/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// raw builds an in-memory config, no filesystem involved.
func raw(rel string, data map[string]any) *core.RawConfig {
	return loader.New("/proj/"+rel, rel, data)
}

func projectA() []*core.RawConfig {
	return []*core.RawConfig{
		raw("my-data-source/config.json", map[string]any{
			"name": "my-data-source", "module": "data-source",
			"options": map[string]any{"connector": "memory"},
		}),
		raw("my-model/config.json", map[string]any{
			"name": "my-model", "module": "model",
			"options": map[string]any{"plural": "my-models"},
		}),
		raw("asteroid.json", map[string]any{"name": "proj-a"}),
		raw("package.json", map[string]any{"name": "proj-a", "private": true}),
	}
}

func TestResolve_ProjectA(t *testing.T) {
	pc, err := Resolve(projectA(), registry.Builtin())
	require.NoError(t, err)

	require.Equal(t, 2, pc.Len(), "untyped json files do not become objects")
	assert.Equal(t, []string{"my-data-source", "my-model"}, core.Names(pc.Children()))

	model, ok := pc.Get("my-model")
	require.True(t, ok)
	assert.Equal(t, []string{"model"}, model.InheritanceChain())
	assert.Equal(t, "model", model.BaseModule())
	assert.Equal(t, []string{"data-source"}, model.DependencySlots())
	assert.Equal(t, []string{"my-data-source"}, core.Names(model.DependencyList()))

	ds, ok := pc.Get("my-data-source")
	require.True(t, ok)
	assert.Empty(t, ds.DependencyList())
}

func TestResolve_ModelPropertiesAsList(t *testing.T) {
	configs := projectA()
	configs[1] = raw("my-model/config.json", map[string]any{
		"name": "my-model", "module": "model",
		"options": map[string]any{
			"name":       "myModel",
			"properties": []any{map[string]any{"name": "foo"}},
		},
	})

	pc, err := Resolve(configs, registry.Builtin())
	require.NoError(t, err)

	model, ok := pc.Get("my-model")
	require.True(t, ok)
	assert.Equal(t, "myModel", model.Options["name"])
	props, ok := model.Options["properties"].([]any)
	require.True(t, ok)
	assert.Equal(t, "foo", props[0].(map[string]any)["name"])
	assert.Equal(t, core.OptionString, model.Module.OptionSchema()["name"].Type)
}

func TestResolve_InheritedSlotMatchesDerivedType(t *testing.T) {
	types := registry.Builtin().MustRegister(core.TypeDescriptor{Name: "sql-source", Extends: registry.TypeDataSource})

	pc, err := Resolve([]*core.RawConfig{
		raw("db/config.json", map[string]any{"name": "db", "module": "sql-source"}),
		raw("todo/config.json", map[string]any{"name": "todo", "module": "persisted-model"}),
	}, types)
	require.NoError(t, err)

	todo, _ := pc.Get("todo")
	assert.Equal(t, []string{"persisted-model", "model"}, todo.InheritanceChain())
	assert.Equal(t, "model", todo.BaseModule())
	assert.Equal(t, "db", todo.Dependencies()["data-source"].Name)
}

func TestResolve_AmbiguousPicksFirst(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	pc, err := Resolve([]*core.RawConfig{
		raw("primary/config.json", map[string]any{"name": "primary", "module": "data-source"}),
		raw("todo/config.json", map[string]any{"name": "todo", "module": "model"}),
		raw("replica/config.json", map[string]any{"name": "replica", "module": "data-source"}),
	}, registry.Builtin(), WithLogger(logger))
	require.NoError(t, err)

	todo, _ := pc.Get("todo")
	assert.Equal(t, "primary", todo.Dependencies()["data-source"].Name)
	assert.Contains(t, buf.String(), "ambiguous dependency")
}

func TestResolve_DeclaredDependencies(t *testing.T) {
	pc, err := Resolve([]*core.RawConfig{
		raw("db/config.json", map[string]any{"name": "db", "module": "data-source"}),
		raw("api/config.json", map[string]any{"name": "api", "module": "app"}),
		raw("auth/config.json", map[string]any{
			"name": "auth", "module": "middleware",
			"dependencies": map[string]any{"host": "app", "store": "data-source"},
		}),
	}, registry.Builtin())
	require.NoError(t, err)

	auth, _ := pc.Get("auth")
	assert.Equal(t, []string{"host", "store"}, auth.DependencySlots())
	assert.Equal(t, []string{"api", "db"}, core.Names(auth.DependencyList()))
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name    string
		configs []*core.RawConfig
		check   func(t *testing.T, err error)
	}{
		{
			name: "unknown type",
			configs: []*core.RawConfig{
				raw("w/config.json", map[string]any{"name": "w", "module": "widget"}),
			},
			check: func(t *testing.T, err error) {
				var e *core.UnknownTypeError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, "widget", e.Type)
				assert.Equal(t, "w", e.Object)
			},
		},
		{
			name: "unresolved dependency",
			configs: []*core.RawConfig{
				raw("m/config.json", map[string]any{"name": "m", "module": "model"}),
			},
			check: func(t *testing.T, err error) {
				var e *core.UnresolvedDependencyError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, core.UnresolvedDependencyError{Object: "m", Slot: "data-source", RequiredType: "data-source"}, *e)
			},
		},
		{
			name: "self does not satisfy own slot",
			configs: []*core.RawConfig{
				raw("s/config.json", map[string]any{
					"name": "s", "module": "data-source",
					"dependencies": map[string]any{"upstream": "data-source"},
				}),
			},
			check: func(t *testing.T, err error) {
				var e *core.UnresolvedDependencyError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, "upstream", e.Slot)
			},
		},
		{
			name: "duplicate type and name",
			configs: []*core.RawConfig{
				raw("a/db.json", map[string]any{"module": "data-source"}),
				raw("b/db.json", map[string]any{"module": "data-source"}),
			},
			check: func(t *testing.T, err error) {
				var e *core.DuplicateObjectError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, []string{"a/db.json", "b/db.json"}, e.Paths)
			},
		},
		{
			name: "option shape",
			configs: []*core.RawConfig{
				raw("db/config.json", map[string]any{
					"name": "db", "module": "data-source",
					"options": map[string]any{"connector": 42.0},
				}),
			},
			check: func(t *testing.T, err error) {
				var e *core.InvalidOptionError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, "connector", e.Option)
				assert.Equal(t, core.OptionNumber, e.Got)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.configs, registry.Builtin())
			tt.check(t, err)
		})
	}
}

func TestResolve_SameNameDifferentTypes(t *testing.T) {
	pc, err := Resolve([]*core.RawConfig{
		raw("todo/ds.json", map[string]any{"name": "todo", "module": "data-source"}),
		raw("todo/model.json", map[string]any{"name": "todo", "module": "model"}),
	}, registry.Builtin())
	require.NoError(t, err)

	model, ok := pc.GetOfType("model", "todo")
	require.True(t, ok)
	assert.Equal(t, "data-source", model.Dependencies()["data-source"].TypeName())
}

func TestApplySchema(t *testing.T) {
	schema := map[string]core.OptionSpec{
		"port":  {Type: core.OptionNumber, Default: 3000.0},
		"host":  {Type: core.OptionString, Required: true},
		"extra": {Type: core.OptionAny},
	}

	got, err := applySchema("api", schema, map[string]any{"host": "localhost", "custom": true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"host": "localhost", "port": 3000.0, "custom": true}, got)

	_, err = applySchema("api", schema, nil)
	var e *core.InvalidOptionError
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "host", e.Option)
	assert.Empty(t, e.Got)
}
