package autowire

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

var errorType = reflect.TypeFor[error]()

// TypeName returns the canonical name of t: the package path and name of the
// type behind at most one pointer. Predeclared types keep their bare name and
// unnamed types their Go syntax.
//
//	TypeName(reflect.TypeFor[*app.UserService]()) // "github.com/acme/app.UserService"
func TypeName(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch {
	case t.Name() == "":
		return t.String()
	case t.PkgPath() == "":
		return t.Name()
	default:
		return t.PkgPath() + "." + t.Name()
	}
}

// NameOf returns TypeName for T.
func NameOf[T any]() string {
	return TypeName(reflect.TypeFor[T]())
}

// TypeDescriptor describes how to build one registered type: the Go type it
// produces and, when it has one, the constructor function.
type TypeDescriptor struct {
	name       string
	produces   reflect.Type
	ctor       reflect.Value
	paramNames []string
	returnsErr bool
}

// Name returns the canonical type name the descriptor is registered under.
func (d *TypeDescriptor) Name() string { return d.name }

// Type returns the Go type of the values the descriptor builds.
func (d *TypeDescriptor) Type() reflect.Type { return d.produces }

// HasConstructor is false for types registered with ProvideType.
func (d *TypeDescriptor) HasConstructor() bool { return d.ctor.IsValid() }

// ParameterTypes returns the constructor parameter types in declaration order.
func (d *TypeDescriptor) ParameterTypes() []reflect.Type {
	if !d.HasConstructor() {
		return nil
	}
	ft := d.ctor.Type()
	params := make([]reflect.Type, ft.NumIn())
	for i := range params {
		params[i] = ft.In(i)
	}
	return params
}

// ParameterName returns the name given with ParamNames, or argN.
func (d *TypeDescriptor) ParameterName(i int) string {
	if i < len(d.paramNames) {
		return d.paramNames[i]
	}
	return fmt.Sprintf("arg%d", i)
}

func (d *TypeDescriptor) build(args []reflect.Value) (any, error) {
	if !d.HasConstructor() {
		return reflect.New(d.produces.Elem()).Interface(), nil
	}
	out := d.ctor.Call(args)
	if d.returnsErr && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

// Option configures a registration.
type Option func(*TypeDescriptor)

// ParamNames names the constructor parameters for error messages. Go
// reflection does not expose them.
func ParamNames(names ...string) Option {
	return func(d *TypeDescriptor) {
		d.paramNames = names
	}
}

// Catalog is the registry of types the factory can build, keyed by canonical
// type name. It is filled at bootstrap and read by the inspector and factory.
type Catalog struct {
	mu          sync.RWMutex
	descriptors map[string]*TypeDescriptor
	order       []string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{descriptors: make(map[string]*TypeDescriptor)}
}

// Provide registers a constructor. ctor must be a non-variadic function
// returning T or (T, error), where T is a named struct or interface type or a
// pointer to a named struct. The type is registered under TypeName(T), which
// is returned. S and *S share a name: a *S parameter fed from a constructor
// returning S receives a pointer to a copy of that value.
//
//	catalog.Provide(NewUserService, autowire.ParamNames("repo", "clock"))
func (c *Catalog) Provide(ctor any, opts ...Option) (string, error) {
	fv := reflect.ValueOf(ctor)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return "", fmt.Errorf("%w: %T is not a function", ErrInvalidConstructor, ctor)
	}
	ft := fv.Type()
	if ft.IsVariadic() {
		return "", fmt.Errorf("%w: %s is variadic", ErrInvalidConstructor, ft)
	}
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return "", fmt.Errorf("%w: %s must return T or (T, error)", ErrInvalidConstructor, ft)
	}
	produces := ft.Out(0)
	if _, reason := dependencyName(produces); reason != "" {
		return "", fmt.Errorf("%w: %s returns %s, which is not a named struct or interface",
			ErrInvalidConstructor, ft, produces)
	}

	d := &TypeDescriptor{
		name:       TypeName(produces),
		produces:   produces,
		ctor:       fv,
		returnsErr: ft.NumOut() == 2,
	}
	for _, opt := range opts {
		opt(d)
	}
	if n := len(d.paramNames); n != 0 && n != ft.NumIn() {
		return "", fmt.Errorf("%w: %s takes %d parameters, %d names given",
			ErrInvalidConstructor, ft, ft.NumIn(), n)
	}
	return d.name, c.add(d)
}

// MustProvide is Provide for bootstrap code; it panics on error.
func (c *Catalog) MustProvide(ctor any, opts ...Option) string {
	name, err := c.Provide(ctor, opts...)
	if err != nil {
		panic(err)
	}
	return name
}

// ProvideType registers T without a constructor; the factory builds it as a
// pointer to its zero value.
func ProvideType[T any](c *Catalog) (string, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct || t.Name() == "" {
		return "", fmt.Errorf("%w: %s is not a named struct", ErrInvalidConstructor, t)
	}
	d := &TypeDescriptor{
		name:     TypeName(t),
		produces: reflect.PointerTo(t),
	}
	return d.name, c.add(d)
}

func (c *Catalog) add(d *TypeDescriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.descriptors[d.name]; ok {
		return fmt.Errorf("%w: %q is already registered", ErrInvalidConstructor, d.name)
	}
	c.descriptors[d.name] = d
	c.order = append(c.order, d.name)
	return nil
}

// Lookup returns the descriptor registered under name.
func (c *Catalog) Lookup(name string) (*TypeDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.descriptors[name]
	return d, ok
}

// Names returns every registered type name in registration order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.order)
}
