package core

import (
	"fmt"
	"sort"
)

// Option value kinds understood by OptionSpec.
const (
	OptionString  = "string"
	OptionNumber  = "number"
	OptionBoolean = "boolean"
	OptionObject  = "object"
	OptionArray   = "array"
	OptionAny     = "any"
)

// OptionSpec describes the expected shape of one option.
type OptionSpec struct {
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required,omitempty" yaml:"required"`
	Default     any    `json:"default,omitempty" yaml:"default"`
	Description string `json:"description,omitempty" yaml:"description"`
}

// Accepts reports whether v has the shape named by s.Type.
// Values decoded from JSON are expected (float64, bool, string, map, slice).
func (s OptionSpec) Accepts(v any) bool {
	if v == nil {
		return !s.Required
	}
	switch s.Type {
	case "", OptionAny:
		return true
	case OptionString:
		_, ok := v.(string)
		return ok
	case OptionNumber:
		switch v.(type) {
		case float64, float32, int, int64, int32:
			return true
		}
		return false
	case OptionBoolean:
		_, ok := v.(bool)
		return ok
	case OptionObject:
		_, ok := v.(map[string]any)
		return ok
	case OptionArray:
		_, ok := v.([]any)
		return ok
	}
	return false
}

// Kind returns a short name for the shape of v, for error messages.
func Kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return OptionString
	case float64, float32, int, int64, int32:
		return OptionNumber
	case bool:
		return OptionBoolean
	case map[string]any:
		return OptionObject
	case []any:
		return OptionArray
	}
	return fmt.Sprintf("%T", v)
}

// TypeDescriptor is a registered module type such as "model" or "data-source".
type TypeDescriptor struct {
	Name        string
	Extends     string
	Description string
	// Options is the type's own option schema (ancestors excluded)
	Options map[string]OptionSpec
	// Slots maps dependency slot name to the required type name (ancestors excluded)
	Slots map[string]string

	// Base is the ancestor type, linked by the registry; nil for root types
	Base *TypeDescriptor
}

// InheritanceChain returns the type names from this type to its root ancestor.
func (t *TypeDescriptor) InheritanceChain() []string {
	var chain []string
	seen := make(map[*TypeDescriptor]bool)
	for cur := t; cur != nil && !seen[cur]; cur = cur.Base {
		seen[cur] = true
		chain = append(chain, cur.Name)
	}
	return chain
}

// Root returns the name of the root-most ancestor.
func (t *TypeDescriptor) Root() string {
	chain := t.InheritanceChain()
	if len(chain) == 0 {
		return ""
	}
	return chain[len(chain)-1]
}

// IsA reports whether name is this type or one of its ancestors.
func (t *TypeDescriptor) IsA(name string) bool {
	for _, n := range t.InheritanceChain() {
		if n == name {
			return true
		}
	}
	return false
}

// lineage returns the descriptors from root to t, so derived entries override.
func (t *TypeDescriptor) lineage() []*TypeDescriptor {
	var out []*TypeDescriptor
	seen := make(map[*TypeDescriptor]bool)
	for cur := t; cur != nil && !seen[cur]; cur = cur.Base {
		seen[cur] = true
		out = append([]*TypeDescriptor{cur}, out...)
	}
	return out
}

// Dependencies returns the effective dependency slots, inherited slots included.
func (t *TypeDescriptor) Dependencies() map[string]string {
	deps := make(map[string]string)
	for _, d := range t.lineage() {
		for slot, typ := range d.Slots {
			deps[slot] = typ
		}
	}
	return deps
}

// OptionSchema returns the effective option schema, inherited options included.
func (t *TypeDescriptor) OptionSchema() map[string]OptionSpec {
	schema := make(map[string]OptionSpec)
	for _, d := range t.lineage() {
		for name, spec := range d.Options {
			schema[name] = spec
		}
	}
	return schema
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
