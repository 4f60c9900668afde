package container

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
)

var (
	// ErrNotBound is returned by Get when nothing is registered for an abstract.
	ErrNotBound = errors.New("container: no binding registered")

	// ErrCircularDependency is returned when a factory asks, directly or
	// transitively, for the abstract it is building.
	ErrCircularDependency = errors.New("container: circular dependency")
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory is a function that builds a concrete value from the container.
type Factory func(c *Container) (any, error)

// binding holds a registered factory and whether it is a singleton.
type binding struct {
	factory   Factory
	singleton bool
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is a string-keyed IoC container in the style of Laravel's
// Illuminate\Container\Container.
//
// Abstracts are plain strings. For auto-wired services the abstract is the
// canonical type name returned by TypeKey, which is also what the autowire
// package asks for when it resolves constructor parameters.
//
// Resolution runs on the calling goroutine and tracks the abstracts being
// built to detect cycles, so a container is expected to be resolved from one
// goroutine at a time.
type Container struct {
	mu sync.RWMutex

	// abstract → binding
	bindings map[string]*binding

	// abstract → resolved singleton instance
	instances map[string]any

	// alias → abstract (canonical key)
	aliases map[string]string

	// tag → abstracts, in tagging order
	tags map[string][]string

	// resolved callbacks: []func(abstract, instance)
	afterResolving []func(string, any)

	// stack of abstracts currently being resolved
	buildStack []string
}

// New creates an empty container bound to itself as "container".
func New() *Container {
	c := &Container{
		bindings:  make(map[string]*binding),
		instances: make(map[string]any),
		aliases:   make(map[string]string),
		tags:      make(map[string][]string),
	}
	c.Instance("container", c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient factory: every Get runs it again.
//
//	c.Bind("UserRepository", func(c *container.Container) (any, error) {
//	    return &MemoryUserRepository{}, nil
//	})
func (c *Container) Bind(abstract string, factory Factory) {
	c.register(abstract, factory, false)
}

// Singleton registers a factory whose result is kept after first resolution.
func (c *Container) Singleton(abstract string, factory Factory) {
	c.register(abstract, factory, true)
}

// Instance registers a pre-built value.
func (c *Container) Instance(abstract string, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	c.instances[key] = instance
}

func (c *Container) register(abstract string, factory Factory, singleton bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	// a rebind drops the previously built singleton
	delete(c.instances, key)
	c.bindings[key] = &binding{factory: factory, singleton: singleton}
}

// Alias registers an alternative name for an abstract.
func (c *Container) Alias(abstract, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if abstract == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", abstract))
	}
	c.aliases[alias] = c.canonical(abstract)
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag associates abstracts with a named group.
//
//	// Laravel: $app->tag([CpuReport::class, MemoryReport::class], 'reports')
//	c.Tag([]string{"CpuReport", "MemoryReport"}, "reports")
func (c *Container) Tag(abstracts []string, tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, abstract := range abstracts {
		if !slices.Contains(c.tags[tag], abstract) {
			c.tags[tag] = append(c.tags[tag], abstract)
		}
	}
}

// TaggedAbstracts returns the abstracts under tag in tagging order.
func (c *Container) TaggedAbstracts(tag string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.tags[tag])
}

// Tagged resolves every abstract under tag, in tagging order, stopping at
// the first failure.
//
//	// Laravel: $app->tagged('reports')
func (c *Container) Tagged(tag string) ([]any, error) {
	abstracts := c.TaggedAbstracts(tag)
	out := make([]any, 0, len(abstracts))
	for _, abstract := range abstracts {
		instance, err := c.Get(abstract)
		if err != nil {
			return nil, fmt.Errorf("tagged [%s]: %w", tag, err)
		}
		out = append(out, instance)
	}
	return out, nil
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Has reports whether an abstract has a binding or an instance.
func (c *Container) Has(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := c.canonical(abstract)
	_, hasBinding := c.bindings[key]
	_, hasInstance := c.instances[key]
	return hasBinding || hasInstance
}

// Get resolves an abstract. Errors returned by factories are passed through
// unchanged.
func (c *Container) Get(abstract string) (any, error) {
	c.mu.RLock()
	key := c.canonical(abstract)
	if inst, ok := c.instances[key]; ok {
		c.mu.RUnlock()
		return inst, nil
	}
	b, ok := c.bindings[key]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w for [%s]", ErrNotBound, abstract)
	}
	if slices.Contains(c.buildStack, key) {
		chain := append(slices.Clone(c.buildStack), key)
		return nil, fmt.Errorf("%w: %s", ErrCircularDependency, strings.Join(chain, " -> "))
	}

	c.buildStack = append(c.buildStack, key)
	instance, err := b.factory(c)
	c.buildStack = c.buildStack[:len(c.buildStack)-1]
	if err != nil {
		return nil, err
	}

	if b.singleton {
		c.mu.Lock()
		c.instances[key] = instance
		c.mu.Unlock()
	}

	c.fireAfterResolving(key, instance)
	return instance, nil
}

// Make is Get for bootstrap code that treats a failed resolution as fatal.
func (c *Container) Make(abstract string) any {
	instance, err := c.Get(abstract)
	if err != nil {
		panic(err)
	}
	return instance
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Resolved returns true if the abstract holds a built instance.
func (c *Container) Resolved(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.instances[c.canonical(abstract)]
	return ok
}

// canonical resolves an alias to its canonical key (caller holds mu).
func (c *Container) canonical(abstract string) string {
	if target, ok := c.aliases[abstract]; ok {
		return target
	}
	return abstract
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired after a factory has built an
// instance. Cached singletons and plain instances do not fire it.
func (c *Container) AfterResolving(cb func(abstract string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireAfterResolving(abstract string, instance any) {
	c.mu.RLock()
	cbs := c.afterResolving
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(abstract, instance)
	}
}

// ── Reflect helpers ───────────────────────────────────────────────────────────

// TypeKey returns the package-qualified type name of v, the abstract under
// which auto-wired services are bound.
//
//	key := container.TypeKey((*UserRepository)(nil))  // "example.com/app.UserRepository"
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.PkgPath() + "." + t.Name()
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls Get and type-asserts the result.
//
//	repo, err := container.Resolve[app.UserRepository](c, container.TypeKey((*app.UserRepository)(nil)))
func Resolve[T any](c *Container, abstract string) (T, error) {
	var zero T
	instance, err := c.Get(abstract)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: Resolve[%T]: [%s] resolved to %T", zero, abstract, instance)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container, abstract string) T {
	typed, err := Resolve[T](c, abstract)
	if err != nil {
		panic(err)
	}
	return typed
}
