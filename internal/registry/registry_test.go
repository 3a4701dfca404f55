package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/leapstack-labs/projgraph/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeRegistry_Register(t *testing.T) {
	r := New()

	require.NoError(t, r.Register(core.TypeDescriptor{Name: "model"}))
	assert.Equal(t, 1, r.Len())

	assert.Error(t, r.Register(core.TypeDescriptor{Name: "model"}), "duplicate name")
	assert.Error(t, r.Register(core.TypeDescriptor{}), "empty name")
	assert.Equal(t, 1, r.Len())
}

func TestTypeRegistry_Resolve(t *testing.T) {
	r := Builtin()

	tests := []struct {
		name      string
		wantChain []string
		wantErr   bool
	}{
		{name: "model", wantChain: []string{"model"}},
		{name: "persisted-model", wantChain: []string{"persisted-model", "model"}},
		{name: "data-source", wantChain: []string{"data-source"}},
		{name: "widget", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := r.Resolve(tt.name)
			if tt.wantErr {
				var unknown *core.UnknownTypeError
				require.ErrorAs(t, err, &unknown)
				assert.Equal(t, tt.name, unknown.Type)
				assert.Contains(t, unknown.Available, "model")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantChain, d.InheritanceChain())
		})
	}
}

func TestTypeRegistry_InheritedSlots(t *testing.T) {
	r := Builtin()

	d, err := r.Resolve(TypePersistedModel)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"data-source": "data-source"}, d.Dependencies())
	assert.Contains(t, d.OptionSchema(), "plural")
	assert.True(t, d.IsA(TypeModel))
}

func TestTypeRegistry_UnknownAncestor(t *testing.T) {
	r := New().MustRegister(
		core.TypeDescriptor{Name: "ok"},
		core.TypeDescriptor{Name: "orphan", Extends: "missing"},
	)

	_, err := r.Resolve("orphan")
	var unknown *core.UnknownTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.Type)
	assert.Equal(t, "orphan", unknown.Object)

	_, err = r.Resolve("ok")
	assert.NoError(t, err, "unrelated types still resolve")
	assert.Error(t, r.Seal())
}

func TestTypeRegistry_AncestryCycle(t *testing.T) {
	r := New().MustRegister(
		core.TypeDescriptor{Name: "a", Extends: "b"},
		core.TypeDescriptor{Name: "b", Extends: "a"},
		core.TypeDescriptor{Name: "c", Extends: "a"},
	)

	for _, name := range []string{"a", "b", "c"} {
		_, err := r.Resolve(name)
		var cycle *core.CycleError
		require.ErrorAs(t, err, &cycle, name)
	}

	_, ok := r.Lookup("a")
	assert.False(t, ok)
}

func TestTypeRegistry_RelinkAfterRegister(t *testing.T) {
	r := New().MustRegister(core.TypeDescriptor{Name: "child", Extends: "parent"})

	_, err := r.Resolve("child")
	require.Error(t, err)

	require.NoError(t, r.Register(core.TypeDescriptor{Name: "parent"}))
	d, err := r.Resolve("child")
	require.NoError(t, err)
	assert.Equal(t, []string{"child", "parent"}, d.InheritanceChain())
}

func TestTypeRegistry_LateRegisterKeepsResolvedDescriptors(t *testing.T) {
	r := Builtin()

	before, err := r.Resolve(TypePersistedModel)
	require.NoError(t, err)
	base := before.Base

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 100 {
			assert.Equal(t, []string{TypePersistedModel, TypeModel}, before.InheritanceChain())
		}
	}()
	go func() {
		defer wg.Done()
		for i := range 20 {
			assert.NoError(t, r.Register(core.TypeDescriptor{Name: fmt.Sprintf("late-%d", i), Extends: TypeModel}))
			_, err := r.Resolve(TypePersistedModel)
			assert.NoError(t, err)
		}
	}()
	wg.Wait()

	assert.Same(t, base, before.Base, "earlier descriptors are not relinked")

	after, err := r.Resolve(TypePersistedModel)
	require.NoError(t, err)
	assert.NotSame(t, before, after)
	assert.Equal(t, before.InheritanceChain(), after.InheritanceChain())

	late, err := r.Resolve("late-3")
	require.NoError(t, err)
	assert.Same(t, after.Base, late.Base, "one linked set per seal")
}

func TestTypeRegistry_NamesAndAll(t *testing.T) {
	r := Builtin()

	want := []string{"app", "component", "data-source", "middleware", "model", "persisted-model"}
	assert.Equal(t, want, r.Names())

	all := r.All()
	require.Len(t, all, len(want))
	for i, d := range all {
		assert.Equal(t, want[i], d.Name)
	}
}

func TestTypeRegistry_ConcurrentResolve(t *testing.T) {
	r := Builtin()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := r.Resolve(TypePersistedModel)
			assert.NoError(t, err)
			assert.Equal(t, TypeModel, d.Base.Name)
		}()
	}
	wg.Wait()
}

func TestLoad(t *testing.T) {
	src := `
types:
  - name: rest-model
    extends: persisted-model
    description: Model exposed over REST
    options:
      basePath:
        type: string
        required: true
    dependencies:
      cache: cache
  - name: cache
`
	r := Builtin()
	require.NoError(t, Load(r, strings.NewReader(src)))

	d, err := r.Resolve("rest-model")
	require.NoError(t, err)
	assert.Equal(t, []string{"rest-model", "persisted-model", "model"}, d.InheritanceChain())
	assert.Equal(t, map[string]string{"data-source": "data-source", "cache": "cache"}, d.Dependencies())
	assert.True(t, d.OptionSchema()["basePath"].Required)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "unknown field", src: "types:\n  - name: x\n    colour: red\n"},
		{name: "duplicate builtin", src: "types:\n  - name: model\n"},
		{name: "missing name", src: "types:\n  - extends: model\n"},
		{name: "malformed", src: "types: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, Load(Builtin(), strings.NewReader(tt.src)))
		})
	}

	assert.NoError(t, Load(New(), strings.NewReader("")), "empty file defines no types")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "types.yaml")
	require.NoError(t, os.WriteFile(path, []byte("types:\n  - name: job\n    extends: component\n"), 0o600))

	r := Builtin()
	require.NoError(t, LoadFile(r, path))
	_, ok := r.Lookup("job")
	assert.True(t, ok)

	err := LoadFile(r, filepath.Join(t.TempDir(), "missing.yaml"))
	var ioErr *core.IOError
	assert.ErrorAs(t, err, &ioErr)
}
