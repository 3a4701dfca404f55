package registry

import "github.com/leapstack-labs/projgraph/pkg/core"

// Built-in type names.
const (
	TypeDataSource     = "data-source"
	TypeModel          = "model"
	TypePersistedModel = "persisted-model"
	TypeApp            = "app"
	TypeMiddleware     = "middleware"
	TypeComponent      = "component"
)

// Builtin returns a registry preloaded with the built-in module types.
func Builtin() *TypeRegistry {
	return New().MustRegister(BuiltinTypes()...)
}

// BuiltinTypes returns fresh copies of the built-in type descriptors.
func BuiltinTypes() []core.TypeDescriptor {
	return []core.TypeDescriptor{
		{
			Name:        TypeDataSource,
			Description: "A connection to a backing store",
			Options: map[string]core.OptionSpec{
				"connector": {Type: core.OptionString, Description: "Connector implementation"},
			},
		},
		{
			Name:        TypeModel,
			Description: "A named data shape attached to a data source",
			Options: map[string]core.OptionSpec{
				"name":       {Type: core.OptionString, Description: "Model name used in generated code"},
				"plural":     {Type: core.OptionString, Description: "Plural form used in generated routes"},
				"properties": {Type: core.OptionAny, Description: "Property definitions, by name or as a list"},
				"methods":    {Type: core.OptionAny, Description: "Remote method definitions, by name or as a list"},
			},
			Slots: map[string]string{TypeDataSource: TypeDataSource},
		},
		{
			Name:        TypePersistedModel,
			Extends:     TypeModel,
			Description: "A model with create/read/update/delete persistence",
		},
		{
			Name:        TypeApp,
			Description: "An application root",
			Options: map[string]core.OptionSpec{
				"host": {Type: core.OptionString},
				"port": {Type: core.OptionNumber},
			},
		},
		{
			Name:        TypeMiddleware,
			Description: "A request-processing phase handler",
			Options: map[string]core.OptionSpec{
				"phase":  {Type: core.OptionString},
				"params": {Type: core.OptionAny},
			},
		},
		{
			Name:        TypeComponent,
			Description: "A pluggable application extension",
		},
	}
}
