// Package resolver turns loaded configs into ConfigObjects with bound dependencies.
//
// Resolution is a single eager pass: every typed config becomes an object, then
// every dependency slot of every object is bound to another object whose type
// chain contains the slot's required type. The first failure aborts the pass.
package resolver

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"github.com/leapstack-labs/projgraph/pkg/core"
)

// TypeLookup resolves type names to linked descriptors.
type TypeLookup interface {
	Resolve(name string) (*core.TypeDescriptor, error)
}

// Option configures Resolve.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger logs ambiguous dependency matches at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Resolve builds the project config from configs, in the given order.
// Configs that declare no type are skipped.
func Resolve(configs []*core.RawConfig, types TypeLookup, opts ...Option) (*core.ProjectConfig, error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	objects, err := construct(configs, types)
	if err != nil {
		return nil, err
	}
	if err := bind(objects, o.logger); err != nil {
		return nil, err
	}
	return core.NewProjectConfig(objects), nil
}

type objectKey struct {
	typ  string
	name string
}

func construct(configs []*core.RawConfig, types TypeLookup) ([]*core.ConfigObject, error) {
	var objects []*core.ConfigObject
	seen := make(map[objectKey]*core.RawConfig)

	for _, cfg := range configs {
		typeName := cfg.Module()
		if typeName == "" {
			continue
		}

		desc, err := types.Resolve(typeName)
		if err != nil {
			var unknown *core.UnknownTypeError
			if errors.As(err, &unknown) && unknown.Object == "" {
				return nil, &core.UnknownTypeError{Type: unknown.Type, Object: cfg.Name, Available: unknown.Available}
			}
			return nil, fmt.Errorf("%s: %w", cfg.Name, err)
		}

		key := objectKey{typ: desc.Name, name: cfg.Name}
		if prev, ok := seen[key]; ok {
			return nil, &core.DuplicateObjectError{Type: desc.Name, Name: cfg.Name, Paths: []string{prev.Path, cfg.Path}}
		}
		seen[key] = cfg

		opts, err := applySchema(cfg.Name, desc.OptionSchema(), cfg.Options())
		if err != nil {
			return nil, err
		}

		objects = append(objects, core.NewConfigObject(cfg.Name, desc, opts, cfg))
	}
	return objects, nil
}

// applySchema fills defaults and checks option shapes. Options the schema does not
// describe pass through unchecked.
func applySchema(object string, schema map[string]core.OptionSpec, in map[string]any) (map[string]any, error) {
	out := maps.Clone(in)
	if out == nil {
		out = make(map[string]any)
	}

	for _, name := range core.SortedKeys(schema) {
		spec := schema[name]
		v, ok := out[name]
		if !ok {
			switch {
			case spec.Default != nil:
				out[name] = spec.Default
			case spec.Required:
				return nil, &core.InvalidOptionError{Object: object, Option: name, Want: spec.Type}
			}
			continue
		}
		if !spec.Accepts(v) {
			return nil, &core.InvalidOptionError{Object: object, Option: name, Want: spec.Type, Got: core.Kind(v)}
		}
	}
	return out, nil
}

// slots returns the object's dependency slots: the type's slots plus any the
// config declares itself, which win on conflict.
func slots(obj *core.ConfigObject) map[string]string {
	out := obj.Module.Dependencies()
	maps.Copy(out, obj.Source.DeclaredDependencies())
	return out
}

func bind(objects []*core.ConfigObject, logger *slog.Logger) error {
	for _, obj := range objects {
		want := slots(obj)
		for _, slot := range core.SortedKeys(want) {
			required := want[slot]

			var candidates []*core.ConfigObject
			for _, other := range objects {
				if other != obj && other.Module.IsA(required) {
					candidates = append(candidates, other)
				}
			}

			if len(candidates) == 0 {
				return &core.UnresolvedDependencyError{Object: obj.Name, Slot: slot, RequiredType: required}
			}
			if len(candidates) > 1 {
				logger.Debug("ambiguous dependency, using first match",
					"object", obj.Name,
					"slot", slot,
					"type", required,
					"chosen", candidates[0].Name,
					"candidates", core.Names(candidates))
			}
			obj.Bind(slot, candidates[0])
		}
	}
	return nil
}
