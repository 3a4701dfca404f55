package loader

import (
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/projgraph/internal/testutil"
	"github.com/leapstack-labs/projgraph/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathHelpers(t *testing.T) {
	tests := []struct {
		rel       string
		appName   string
		dirName   string
		extension string
		baseName  string
	}{
		{"my-app/x.json", "my-app", "my-app", ".json", "x"},
		{"app.json", core.RootApp, ".", ".json", "app"},
		{"foo/bar/bat/baz.json", "foo", "bat", ".json", "baz"},
		{"baz.json", core.RootApp, ".", ".json", "baz"},
		{"foo/bar.bat.baz.json", "foo", "foo", ".json", "bar.bat.baz"},
		{"./my-model/config.json", "my-model", "my-model", ".json", "config"},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.appName, AppName(tt.rel), "AppName")
			assert.Equal(t, tt.dirName, DirName(tt.rel), "DirName")
			assert.Equal(t, tt.extension, Extension(tt.rel), "Extension")
			assert.Equal(t, tt.baseName, BaseName(tt.rel), "BaseName")
		})
	}
}

func TestIsConfigFile(t *testing.T) {
	assert.True(t, IsConfigFile("a/b.json"))
	assert.True(t, IsConfigFile("B.JSON"))
	assert.False(t, IsConfigFile("README.md"))
	assert.False(t, IsConfigFile("json"))
}

func TestLoad(t *testing.T) {
	root := testutil.WriteProject(t, testutil.ProjectA)

	cfg, err := Load(root, "my-model/config.json")
	require.NoError(t, err)

	assert.Equal(t, "my-model/config.json", cfg.Path)
	assert.Equal(t, filepath.Join(root, "my-model", "config.json"), cfg.AbsPath)
	assert.Equal(t, "my-model", cfg.Name)
	assert.Equal(t, "my-model", cfg.DirName)
	assert.Equal(t, "my-model", cfg.AppName)
	assert.Equal(t, ".json", cfg.Extension)
	assert.Equal(t, "model", cfg.Module())
	assert.Equal(t, "my-models", cfg.Options()["plural"])
}

func TestLoad_InferredName(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"models/todo.json":  `{"module": "model"}`,
		"models/blank.json": `{"name": "", "module": "model"}`,
	})

	cfg, err := Load(root, "models/todo.json")
	require.NoError(t, err)
	assert.Equal(t, "todo", cfg.Name)

	cfg, err = Load(root, "models/blank.json")
	require.NoError(t, err)
	assert.Equal(t, "blank", cfg.Name)
}

func TestLoad_Errors(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"broken.json": `{"name": `,
		"array.json":  `[]`,
	})

	_, err := Load(root, "missing.json")
	var notFound *core.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	for _, rel := range []string{"broken.json", "array.json"} {
		_, err := Load(root, rel)
		var parseErr *core.ParseError
		assert.ErrorAs(t, err, &parseErr, rel)
	}

}
