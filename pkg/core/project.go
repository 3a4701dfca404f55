package core

import (
	"bytes"
	"encoding/json"
)

// ProjectConfig is a fully resolved project graph.
// Objects keep the enumeration order of the files that declared them.
type ProjectConfig struct {
	objects []*ConfigObject
	byName  map[string][]*ConfigObject
	shared  map[string]bool // names declared by more than one type
}

// NewProjectConfig assembles a graph from already-resolved objects.
func NewProjectConfig(objects []*ConfigObject) *ProjectConfig {
	p := &ProjectConfig{
		objects: objects,
		byName:  make(map[string][]*ConfigObject, len(objects)),
	}
	for _, o := range objects {
		for _, prev := range p.byName[o.Name] {
			if prev.TypeName() != o.TypeName() {
				if p.shared == nil {
					p.shared = make(map[string]bool)
				}
				p.shared[o.Name] = true
			}
		}
		p.byName[o.Name] = append(p.byName[o.Name], o)
	}
	return p
}

// Key returns the key o is listed under: its name, or "type/name" when
// another type declares the same name.
func (p *ProjectConfig) Key(o *ConfigObject) string {
	if p.shared[o.Name] {
		return o.TypeName() + "/" + o.Name
	}
	return o.Name
}

// Get returns the object with the given name.
// Names are unique per type; when several types share a name the first declared wins.
func (p *ProjectConfig) Get(name string) (*ConfigObject, bool) {
	objs := p.byName[name]
	if len(objs) == 0 {
		return nil, false
	}
	return objs[0], true
}

// GetOfType returns the object with the given type and name.
func (p *ProjectConfig) GetOfType(typeName, name string) (*ConfigObject, bool) {
	for _, o := range p.byName[name] {
		if o.TypeName() == typeName {
			return o, true
		}
	}
	return nil, false
}

// Children returns all objects in enumeration order.
func (p *ProjectConfig) Children() []*ConfigObject {
	out := make([]*ConfigObject, len(p.objects))
	copy(out, p.objects)
	return out
}

// Len returns the number of objects.
func (p *ProjectConfig) Len() int {
	return len(p.objects)
}

// ByType groups objects by their own type name, groups ordered by first appearance.
func (p *ProjectConfig) ByType() []TypeGroup {
	var groups []TypeGroup
	index := make(map[string]int)
	for _, o := range p.objects {
		name := o.TypeName()
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, TypeGroup{Name: name})
		}
		groups[i].Children = append(groups[i].Children, o)
	}
	return groups
}

// OfType returns objects whose own type is exactly typeName.
func (p *ProjectConfig) OfType(typeName string) []*ConfigObject {
	var out []*ConfigObject
	for _, o := range p.objects {
		if o.TypeName() == typeName {
			out = append(out, o)
		}
	}
	return out
}

// TopLevel returns objects that no other object depends on, in enumeration order.
func (p *ProjectConfig) TopLevel() []*ConfigObject {
	depended := make(map[*ConfigObject]bool)
	for _, o := range p.objects {
		for _, dep := range o.DirectDependencies() {
			depended[dep] = true
		}
	}
	var out []*ConfigObject
	for _, o := range p.objects {
		if !depended[o] {
			out = append(out, o)
		}
	}
	return out
}

// MarshalJSON renders an object keyed by Key, in enumeration order.
func (p *ProjectConfig) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, o := range p.objects {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Key(o))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(o)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// TypeGroup lists the objects of one type.
type TypeGroup struct {
	Name     string          `json:"name"`
	Children []*ConfigObject `json:"children"`
}
