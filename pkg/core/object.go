package core

import (
	"encoding/json"
	"sort"
)

// ConfigObject is one named, typed object of a project.
// It is built and bound once during resolution and is read-only afterwards.
type ConfigObject struct {
	Name    string
	Module  *TypeDescriptor
	Options map[string]any
	Source  *RawConfig

	deps map[string]*ConfigObject
}

// NewConfigObject creates an object with no bound dependencies.
func NewConfigObject(name string, module *TypeDescriptor, options map[string]any, source *RawConfig) *ConfigObject {
	if options == nil {
		options = map[string]any{}
	}
	return &ConfigObject{
		Name:    name,
		Module:  module,
		Options: options,
		Source:  source,
		deps:    make(map[string]*ConfigObject),
	}
}

// Bind satisfies a dependency slot. Only the resolver calls this.
func (o *ConfigObject) Bind(slot string, dep *ConfigObject) {
	if o.deps == nil {
		o.deps = make(map[string]*ConfigObject)
	}
	o.deps[slot] = dep
}

// TypeName returns the object's own (most-derived) type name.
func (o *ConfigObject) TypeName() string {
	if o.Module == nil {
		return ""
	}
	return o.Module.Name
}

// Dependencies returns a copy of the resolved slot map.
func (o *ConfigObject) Dependencies() map[string]*ConfigObject {
	out := make(map[string]*ConfigObject, len(o.deps))
	for slot, dep := range o.deps {
		out[slot] = dep
	}
	return out
}

// DependencySlots returns the bound slot names in lexical order.
func (o *ConfigObject) DependencySlots() []string {
	return SortedKeys(o.deps)
}

// DirectDependencies returns the distinct objects bound to this object's slots, in slot order.
func (o *ConfigObject) DirectDependencies() []*ConfigObject {
	var out []*ConfigObject
	seen := make(map[*ConfigObject]bool)
	for _, slot := range o.DependencySlots() {
		dep := o.deps[slot]
		if dep == nil || dep == o || seen[dep] {
			continue
		}
		seen[dep] = true
		out = append(out, dep)
	}
	return out
}

// DependencyList returns the transitive dependencies: direct dependencies first,
// then theirs, without duplicates and without the object itself.
func (o *ConfigObject) DependencyList() []*ConfigObject {
	var out []*ConfigObject
	seen := map[*ConfigObject]bool{o: true}
	queue := []*ConfigObject{o}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dep := range cur.DirectDependencies() {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			out = append(out, dep)
			queue = append(queue, dep)
		}
	}
	return out
}

// InheritanceChain returns type names from the object's own type to the root type.
func (o *ConfigObject) InheritanceChain() []string {
	if o.Module == nil {
		return nil
	}
	return o.Module.InheritanceChain()
}

// BaseModule returns the root ancestor type name.
func (o *ConfigObject) BaseModule() string {
	chain := o.InheritanceChain()
	if len(chain) == 0 {
		return ""
	}
	return chain[len(chain)-1]
}

// Path returns the project-relative path of the declaring file.
func (o *ConfigObject) Path() string {
	if o.Source == nil {
		return ""
	}
	return o.Source.Path
}

type configObjectJSON struct {
	Name             string            `json:"name"`
	Module           string            `json:"module"`
	BaseModule       string            `json:"baseModule"`
	InheritanceChain []string          `json:"inheritanceChain"`
	Options          map[string]any    `json:"options"`
	Dependencies     map[string]string `json:"dependencies"`
	Path             string            `json:"path,omitempty"`
}

// MarshalJSON renders dependencies by name so the graph serializes without cycles.
func (o *ConfigObject) MarshalJSON() ([]byte, error) {
	deps := make(map[string]string, len(o.deps))
	for slot, dep := range o.deps {
		deps[slot] = dep.Name
	}
	return json.Marshal(configObjectJSON{
		Name:             o.Name,
		Module:           o.TypeName(),
		BaseModule:       o.BaseModule(),
		InheritanceChain: o.InheritanceChain(),
		Options:          o.Options,
		Dependencies:     deps,
		Path:             o.Path(),
	})
}

// Names returns the names of objs in order.
func Names(objs []*ConfigObject) []string {
	names := make([]string, len(objs))
	for i, o := range objs {
		names[i] = o.Name
	}
	return names
}

// SortByName sorts objs in place by type then name.
func SortByName(objs []*ConfigObject) {
	sort.SliceStable(objs, func(i, j int) bool {
		if objs[i].TypeName() != objs[j].TypeName() {
			return objs[i].TypeName() < objs[j].TypeName()
		}
		return objs[i].Name < objs[j].Name
	})
}
