// Package registry holds the module types config objects can declare.
// Types link to their ancestors through Extends; linking happens once, on the
// first lookup after registration. Linked descriptors are never modified: a
// registration after a lookup links a fresh set on the next lookup.
package registry

import (
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/leapstack-labs/projgraph/pkg/core"
)

// TypeRegistry maps type names to descriptors.
type TypeRegistry struct {
	mu sync.RWMutex

	// defs holds descriptors as registered, never linked
	defs map[string]*core.TypeDescriptor
	// types holds the linked copies handed out by Resolve
	types map[string]*core.TypeDescriptor

	// linkErrs records per-type ancestry failures found while sealing
	linkErrs map[string]error
	sealed   bool
}

// New creates an empty registry.
func New() *TypeRegistry {
	return &TypeRegistry{
		defs:     make(map[string]*core.TypeDescriptor),
		types:    make(map[string]*core.TypeDescriptor),
		linkErrs: make(map[string]error),
	}
}

// Register adds a type. Names must be non-empty and unique.
// Registering after a lookup links a new descriptor set on the next lookup;
// descriptors returned earlier keep their ancestry.
func (r *TypeRegistry) Register(desc core.TypeDescriptor) error {
	if desc.Name == "" {
		return fmt.Errorf("type name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.defs[desc.Name]; ok {
		return fmt.Errorf("type %q is already registered", desc.Name)
	}

	d := desc
	d.Base = nil
	d.Options = maps.Clone(desc.Options)
	d.Slots = maps.Clone(desc.Slots)
	r.defs[d.Name] = &d
	r.sealed = false
	return nil
}

// MustRegister is Register that panics on error, for static type tables.
func (r *TypeRegistry) MustRegister(descs ...core.TypeDescriptor) *TypeRegistry {
	for _, d := range descs {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}

// Resolve returns the linked descriptor for name.
// Unknown names and types whose ancestry is broken return *core.UnknownTypeError
// or *core.CycleError.
func (r *TypeRegistry) Resolve(name string) (*core.TypeDescriptor, error) {
	r.seal()

	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.types[name]
	if !ok {
		return nil, &core.UnknownTypeError{Type: name, Available: r.namesLocked()}
	}
	if err := r.linkErrs[name]; err != nil {
		return nil, err
	}
	return d, nil
}

// Lookup returns the descriptor for name, if registered and correctly linked.
func (r *TypeRegistry) Lookup(name string) (*core.TypeDescriptor, bool) {
	d, err := r.Resolve(name)
	return d, err == nil
}

// Seal links every type to its ancestor and returns the first ancestry error,
// by type name.
func (r *TypeRegistry) Seal() error {
	r.seal()

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.namesLocked() {
		if err := r.linkErrs[name]; err != nil {
			return err
		}
	}
	return nil
}

// Names returns all registered type names (sorted).
func (r *TypeRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

// All returns all linked descriptors sorted by name.
func (r *TypeRegistry) All() []*core.TypeDescriptor {
	r.seal()

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*core.TypeDescriptor, 0, len(r.types))
	for _, d := range r.types {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered types.
func (r *TypeRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

func (r *TypeRegistry) namesLocked() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *TypeRegistry) seal() {
	r.mu.RLock()
	sealed := r.sealed
	r.mu.RUnlock()
	if sealed {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return
	}

	r.linkErrs = make(map[string]error)
	linked := make(map[string]*core.TypeDescriptor, len(r.defs))
	for name, d := range r.defs {
		c := *d
		linked[name] = &c
		if err := r.checkAncestryLocked(name); err != nil {
			r.linkErrs[name] = err
		}
	}
	for name, d := range linked {
		if d.Extends == "" || r.linkErrs[name] != nil {
			continue
		}
		d.Base = linked[d.Extends]
	}
	r.types = linked
	r.sealed = true
}

// checkAncestryLocked walks name's Extends chain looking for unknown or repeated types.
func (r *TypeRegistry) checkAncestryLocked(name string) error {
	var path []string
	seen := make(map[string]bool)
	for cur := name; cur != ""; {
		if seen[cur] {
			return &core.CycleError{Path: append(path, cur)}
		}
		seen[cur] = true
		path = append(path, cur)

		d, ok := r.defs[cur]
		if !ok {
			return &core.UnknownTypeError{
				Type:      cur,
				Object:    path[len(path)-2],
				Available: r.namesLocked(),
			}
		}
		cur = d.Extends
	}
	return nil
}
