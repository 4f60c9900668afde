package autowire

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
)

// Container is the part of a service container the factory needs.
// *container.Container satisfies it.
type Container interface {
	Has(typeName string) bool
	Get(typeName string) (any, error)
}

// Factory builds catalog types by fetching each constructor dependency from
// a Container. Constructor dependency lists are computed once per type and
// kept in a ParameterCache, optionally persisted to a file so later processes
// skip inspection altogether.
type Factory struct {
	mu        sync.Mutex
	catalog   *Catalog
	inspector Inspector
	cache     *ParameterCache
	cacheFile string
	logger    *slog.Logger
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithInspector replaces the default ConstructorInspector.
func WithInspector(i Inspector) FactoryOption {
	return func(f *Factory) { f.inspector = i }
}

// WithCache makes the factory use pc instead of a fresh cache.
func WithCache(pc *ParameterCache) FactoryOption {
	return func(f *Factory) { f.cache = pc }
}

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(l *slog.Logger) FactoryOption {
	return func(f *Factory) { f.logger = l }
}

// NewFactory returns a factory over catalog with an empty, in-memory cache.
func NewFactory(catalog *Catalog, opts ...FactoryOption) *Factory {
	f := &Factory{
		catalog:   catalog,
		inspector: NewInspector(catalog),
		cache:     NewParameterCache(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Catalog returns the catalog the factory builds from.
func (f *Factory) Catalog() *Catalog { return f.catalog }

// EnableCache persists the parameter cache at path. The in-memory cache is
// reset and then loaded from path if the file exists; a file that cannot be
// read or decoded leaves the cache empty. Call it once during bootstrap,
// before the first Create.
func (f *Factory) EnableCache(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cacheFile = path
	if err := f.cache.LoadFrom(path); err != nil {
		f.logger.Debug("autowire: starting with empty parameter cache", "path", path, "error", err)
		return
	}
	f.logger.Debug("autowire: loaded parameter cache", "path", path, "types", f.cache.Len())
}

// CacheFile returns the configured cache path, empty when persistence is off.
func (f *Factory) CacheFile() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cacheFile
}

// Cached returns the cached dependency lists in insertion order.
func (f *Factory) Cached() []CacheEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cache.Entries()
}

// Create builds typeName. Each constructor dependency is looked up in c by
// type name and the results are passed to the constructor in parameter
// order. Errors from c and from the constructor are returned unchanged.
func (f *Factory) Create(c Container, typeName string) (any, error) {
	d, ok := f.catalog.Lookup(typeName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTypeNotRegistered, typeName)
	}

	deps, err := f.dependencies(typeName)
	if err != nil {
		return nil, err
	}

	params := d.ParameterTypes()
	if len(params) != len(deps) {
		return nil, fmt.Errorf("%w: %q has %d parameters, cache lists %d",
			ErrArityMismatch, typeName, len(params), len(deps))
	}

	args := make([]reflect.Value, len(deps))
	for i, dep := range deps {
		if !c.Has(dep) {
			return nil, &DependencyNotFoundError{
				Type:       typeName,
				Parameter:  d.ParameterName(i),
				Dependency: dep,
			}
		}
		instance, err := c.Get(dep)
		if err != nil {
			return nil, err
		}
		arg, ok := assignable(instance, params[i])
		if !ok {
			return nil, fmt.Errorf("%w: cannot create %q; parameter %q wants %s, container returned %T",
				ErrDependencyMismatch, typeName, d.ParameterName(i), params[i], instance)
		}
		args[i] = arg
	}

	return d.build(args)
}

// dependencies returns the cached dependency list for typeName, inspecting
// and persisting it on a miss. A failed save is logged and never fails the
// build. The lock is released before Create fetches
// dependencies, which may re-enter the factory.
func (f *Factory) dependencies(typeName string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if deps, ok := f.cache.Get(typeName); ok {
		return deps, nil
	}

	deps, err := f.inspector.Inspect(typeName)
	if err != nil {
		return nil, err
	}
	f.cache.Put(typeName, deps)
	f.logger.Debug("autowire: cached constructor parameters", "type", typeName, "dependencies", deps)

	if f.cacheFile != "" {
		// the entry stays in memory; only persistence is lost
		if err := f.cache.SaveTo(f.cacheFile); err != nil {
			f.logger.Warn("autowire: cannot persist parameter cache", "path", f.cacheFile, "error", err)
		}
	}
	return deps, nil
}

// assignable converts a container instance to want, dereferencing a pointer
// when the parameter takes the value and copying a value into a fresh
// pointer when the parameter takes the pointer.
func assignable(instance any, want reflect.Type) (reflect.Value, bool) {
	if instance == nil {
		switch want.Kind() {
		case reflect.Ptr, reflect.Interface:
			return reflect.Zero(want), true
		default:
			return reflect.Value{}, false
		}
	}
	v := reflect.ValueOf(instance)
	if v.Type().AssignableTo(want) {
		return v, true
	}
	if v.Kind() == reflect.Ptr && !v.IsNil() && v.Elem().Type().AssignableTo(want) {
		return v.Elem(), true
	}
	// T and *T share a type name; a value-built dependency is copied
	if want.Kind() == reflect.Ptr && v.Type().AssignableTo(want.Elem()) {
		p := reflect.New(want.Elem())
		p.Elem().Set(v)
		return p, true
	}
	return reflect.Value{}, false
}
