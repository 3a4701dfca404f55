package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Param is a remote method argument or return value.
type Param struct {
	Arg      string `mapstructure:"arg" json:"arg"`
	Type     string `mapstructure:"type" json:"type"`
	Required bool   `mapstructure:"required,omitempty" json:"required,omitempty"`
	Root     bool   `mapstructure:"root,omitempty" json:"root,omitempty"`
}

// HTTPRoute is the REST endpoint of a remote method.
type HTTPRoute struct {
	Path string `mapstructure:"path" json:"path"`
	Verb string `mapstructure:"verb" json:"verb"`
}

// Method is a model remote method definition.
type Method struct {
	Name        string     `mapstructure:"-"`
	IsStatic    bool       `mapstructure:"isStatic"`
	Accepts     []Param    `mapstructure:"accepts,omitempty"`
	Returns     []Param    `mapstructure:"returns,omitempty"`
	HTTP        *HTTPRoute `mapstructure:"http,omitempty"`
	Description string     `mapstructure:"description,omitempty"`
}

// MethodService adds remote methods to models.
type MethodService struct {
	base
}

// NewMethodService creates a method service over g.
func NewMethodService(g Graph, logger *slog.Logger) *MethodService {
	return &MethodService{base: newBase(g, logger)}
}

// Create adds m to the owner model, replacing a method of the same name.
// HTTP verbs are stored lower case.
func (s *MethodService) Create(ctx context.Context, owner string, m Method) error {
	for _, p := range append(append([]Param{}, m.Accepts...), m.Returns...) {
		if p.Arg == "" {
			return fmt.Errorf("method %s: %w: parameter name is required", m.Name, ErrInvalidName)
		}
	}
	if m.HTTP != nil {
		route := *m.HTTP
		route.Verb = strings.ToLower(route.Verb)
		m.HTTP = &route
	}

	value, err := encode(m)
	if err != nil {
		return fmt.Errorf("method %s: %w", m.Name, err)
	}
	return s.setEntry(ctx, owner, "methods", m.Name, value)
}

// Get returns the owner model's method named name.
func (s *MethodService) Get(ctx context.Context, owner, name string) (Method, bool, error) {
	obj, err := s.model(ctx, owner)
	if err != nil {
		return Method{}, false, err
	}
	raw := entriesByName(obj.Options["methods"])
	v, ok := raw[name]
	if !ok {
		return Method{}, false, nil
	}
	var m Method
	if err := decode(v, &m); err != nil {
		return Method{}, false, fmt.Errorf("%s: method %s: %w", owner, name, err)
	}
	m.Name = name
	return m, true, nil
}
