package autowire_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-autowire/framework/autowire"
	"github.com/km-arc/go-autowire/framework/container"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

// FooService has no constructor.
type FooService struct{}

// QuxService has a constructor without parameters.
type QuxService struct{ ready bool }

func NewQuxService() *QuxService { return &QuxService{ready: true} }

type BarService struct {
	Foo *FooService
	Qux *QuxService
}

func NewBarService(foo *FooService, qux *QuxService) *BarService {
	return &BarService{Foo: foo, Qux: qux}
}

type Greeter interface{ Greet() string }

type englishGreeter struct{}

func (englishGreeter) Greet() string { return "hello" }

func NewGreeter() Greeter { return englishGreeter{} }

// Welcome takes an interface and a struct by value.
type Welcome struct {
	Greeter Greeter
	Qux     QuxService
}

func NewWelcome(g Greeter, qux QuxService) *Welcome {
	return &Welcome{Greeter: g, Qux: qux}
}

var errBroken = errors.New("broken constructor")

type Broken struct{}

func NewBroken(_ *FooService) (*Broken, error) { return nil, errBroken }

// ── helpers ───────────────────────────────────────────────────────────────────

// newCatalog registers Foo, Qux and Bar.
func newCatalog(t *testing.T) *autowire.Catalog {
	t.Helper()
	catalog := autowire.NewCatalog()
	_, err := autowire.ProvideType[FooService](catalog)
	require.NoError(t, err)
	_, err = catalog.Provide(NewQuxService)
	require.NoError(t, err)
	_, err = catalog.Provide(NewBarService, autowire.ParamNames("foo", "qux"))
	require.NoError(t, err)
	return catalog
}

// newHost binds every catalog type as a singleton built by f.
func newHost(f *autowire.Factory) *container.Container {
	c := container.New()
	for _, name := range f.Catalog().Names() {
		c.Singleton(name, func(c *container.Container) (any, error) {
			return f.Create(c, name)
		})
	}
	return c
}

// countingInspector records how often each type is inspected.
type countingInspector struct {
	inner autowire.Inspector
	calls map[string]int
}

func newCountingInspector(catalog *autowire.Catalog) *countingInspector {
	return &countingInspector{inner: autowire.NewInspector(catalog), calls: make(map[string]int)}
}

func (i *countingInspector) Inspect(typeName string) ([]string, error) {
	i.calls[typeName]++
	return i.inner.Inspect(typeName)
}

func (i *countingInspector) total() int {
	n := 0
	for _, c := range i.calls {
		n += c
	}
	return n
}

// mapContainer is a bare lookup table.
type mapContainer map[string]any

func (m mapContainer) Has(typeName string) bool {
	_, ok := m[typeName]
	return ok
}

func (m mapContainer) Get(typeName string) (any, error) {
	v, ok := m[typeName]
	if !ok {
		return nil, container.ErrNotBound
	}
	return v, nil
}
