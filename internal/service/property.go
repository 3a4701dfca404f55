package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// Property is a model property definition.
type Property struct {
	Name        string `mapstructure:"-"`
	Type        string `mapstructure:"type"`
	Required    bool   `mapstructure:"required,omitempty"`
	ID          bool   `mapstructure:"id,omitempty"`
	Default     any    `mapstructure:"default,omitempty"`
	Description string `mapstructure:"description,omitempty"`
}

// PropertyService adds properties to models.
type PropertyService struct {
	base
}

// NewPropertyService creates a property service over g.
func NewPropertyService(g Graph, logger *slog.Logger) *PropertyService {
	return &PropertyService{base: newBase(g, logger)}
}

// Create adds p to the owner model, replacing a property of the same name.
// An empty type defaults to "any".
func (s *PropertyService) Create(ctx context.Context, owner string, p Property) error {
	if p.Type == "" {
		p.Type = "any"
	}
	value, err := encode(p)
	if err != nil {
		return fmt.Errorf("property %s: %w", p.Name, err)
	}
	return s.setEntry(ctx, owner, "properties", p.Name, value)
}

// List returns the owner model's properties sorted by name.
func (s *PropertyService) List(ctx context.Context, owner string) ([]Property, error) {
	obj, err := s.model(ctx, owner)
	if err != nil {
		return nil, err
	}

	raw := entriesByName(obj.Options["properties"])
	props := make([]Property, 0, len(raw))
	for name, v := range raw {
		var p Property
		// Shorthand form: "title": "string"
		if typ, ok := v.(string); ok {
			p.Type = typ
		} else if err := decode(v, &p); err != nil {
			return nil, fmt.Errorf("%s: property %s: %w", owner, name, err)
		}
		p.Name = name
		props = append(props, p)
	}
	sort.Slice(props, func(i, j int) bool { return props[i].Name < props[j].Name })
	return props, nil
}
