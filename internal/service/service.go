// Package service edits model config files: adding properties and remote methods.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/projgraph/internal/configfile"
	"github.com/leapstack-labs/projgraph/internal/registry"
	"github.com/leapstack-labs/projgraph/pkg/core"
)

// Sentinel errors.
var (
	ErrNotAModel      = errors.New("object is not a model")
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidName    = errors.New("invalid name")
)

// Graph is the part of a project the services need.
type Graph interface {
	Dir() string
	GetConfig(ctx context.Context) (*core.ProjectConfig, error)
}

// base holds what both services share.
type base struct {
	graph  Graph
	logger *slog.Logger
}

func newBase(g Graph, logger *slog.Logger) base {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return base{graph: g, logger: logger}
}

// model finds the model (or descendant) named owner.
func (b base) model(ctx context.Context, owner string) (*core.ConfigObject, error) {
	pc, err := b.graph.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	var found *core.ConfigObject
	for _, obj := range pc.Children() {
		if obj.Name != owner {
			continue
		}
		if obj.Module.IsA(registry.TypeModel) {
			return obj, nil
		}
		found = obj
	}
	if found != nil {
		return nil, fmt.Errorf("%s (%s): %w", owner, found.TypeName(), ErrNotAModel)
	}
	return nil, fmt.Errorf("model %q: %w", owner, ErrObjectNotFound)
}

// setEntry writes value under options.<section>.<name> in the owner's config file.
func (b base) setEntry(ctx context.Context, owner, section, name string, value map[string]any) error {
	if err := validateName(name); err != nil {
		return err
	}
	obj, err := b.model(ctx, owner)
	if err != nil {
		return err
	}

	ws := &configfile.Workspace{Root: b.graph.Dir()}
	f, err := ws.LoadFromPath(obj.Path())
	if err != nil {
		return err
	}

	replaced := putEntry(childMap(f.Data, "options"), section, name, value)

	if err := f.Save(); err != nil {
		return err
	}
	b.logger.Info("config updated",
		"model", owner,
		"section", section,
		"name", name,
		"replaced", replaced,
		"path", obj.Path())
	return nil
}

// childMap returns parent[key] as a map, creating it when absent or not an object.
func childMap(parent map[string]any, key string) map[string]any {
	if m, ok := parent[key].(map[string]any); ok {
		return m
	}
	m := make(map[string]any)
	parent[key] = m
	return m
}

// putEntry stores value as entry name of options[section] and reports whether
// an entry was replaced. A section stored as a list keeps its list form, with
// the entry name under "name".
func putEntry(options map[string]any, section, name string, value map[string]any) bool {
	switch entries := options[section].(type) {
	case map[string]any:
		_, ok := entries[name]
		entries[name] = value
		return ok
	case []any:
		item := make(map[string]any, len(value)+1)
		for k, v := range value {
			item[k] = v
		}
		item["name"] = name
		for i, e := range entries {
			if m, ok := e.(map[string]any); ok && m["name"] == name {
				entries[i] = item
				return true
			}
		}
		options[section] = append(entries, item)
		return false
	default:
		options[section] = map[string]any{name: value}
		return false
	}
}

// entriesByName returns a section's entries keyed by name. List entries
// without a string "name" are skipped.
func entriesByName(section any) map[string]any {
	switch entries := section.(type) {
	case map[string]any:
		return entries
	case []any:
		out := make(map[string]any, len(entries))
		for _, e := range entries {
			m, ok := e.(map[string]any)
			if !ok {
				continue
			}
			if name, ok := m["name"].(string); ok && name != "" {
				out[name] = m
			}
		}
		return out
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if strings.ContainsAny(name, ". \t\n/") {
		return fmt.Errorf("%w: %q must not contain dots, slashes or whitespace", ErrInvalidName, name)
	}
	return nil
}

// encode converts a tagged struct into the map stored in config files.
func encode(v any) (map[string]any, error) {
	out := make(map[string]any)
	if err := mapstructure.Decode(v, &out); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return out, nil
}

// decode fills out from a config map, tolerating keys it does not know.
func decode(in any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
