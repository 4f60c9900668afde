package autowire

import (
	"fmt"
	"reflect"
)

const (
	reasonNoTypeHint = "has no type hint"
	reasonBuiltin    = "is a built-in type"
)

// Inspector produces the ordered dependency type names of a type's constructor.
type Inspector interface {
	Inspect(typeName string) ([]string, error)
}

// InspectorFunc adapts a function to Inspector.
type InspectorFunc func(typeName string) ([]string, error)

// Inspect calls f(typeName).
func (f InspectorFunc) Inspect(typeName string) ([]string, error) { return f(typeName) }

// ConstructorInspector reflects on the constructors held in a Catalog.
type ConstructorInspector struct {
	catalog *Catalog
}

// NewInspector returns an inspector over catalog.
func NewInspector(catalog *Catalog) *ConstructorInspector {
	return &ConstructorInspector{catalog: catalog}
}

// Inspect returns the dependency type names of typeName's constructor in
// parameter order. Types without a constructor, or whose constructor takes
// no parameters, yield an empty, non-nil slice. A single parameter without
// a usable type fails the whole inspection.
func (i *ConstructorInspector) Inspect(typeName string) ([]string, error) {
	d, ok := i.catalog.Lookup(typeName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTypeNotRegistered, typeName)
	}

	params := d.ParameterTypes()
	deps := make([]string, 0, len(params))
	for idx, p := range params {
		name, reason := dependencyName(p)
		if reason != "" {
			return nil, &UnresolvableParameterError{
				Type:      typeName,
				Parameter: d.ParameterName(idx),
				Reason:    reason,
			}
		}
		deps = append(deps, name)
	}
	return deps, nil
}

// dependencyName returns the service name for a parameter type, or the reason
// it cannot be one. Only named struct and interface types declared in a
// package qualify, optionally behind a single pointer. The unnamed empty
// interface stands in for an untyped parameter.
func dependencyName(t reflect.Type) (string, string) {
	if t.Kind() == reflect.Interface && t.Name() == "" && t.NumMethod() == 0 {
		return "", reasonNoTypeHint
	}
	base := t
	if base.Kind() == reflect.Ptr {
		base = base.Elem()
	}
	if base.Name() == "" || base.PkgPath() == "" {
		return "", reasonBuiltin
	}
	switch base.Kind() {
	case reflect.Struct:
	case reflect.Interface:
		if t.Kind() == reflect.Ptr {
			return "", reasonBuiltin
		}
	default:
		return "", reasonBuiltin
	}
	return TypeName(t), ""
}
