// Package container provides a Laravel-style IoC container and Service
// Provider system for Go.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot()        safe to resolve everything after this
//  4. Serve requests
//
// # Bindings
//
//	// Transient: new instance every Get()
//	c.Bind("Foo", func(c *container.Container) (any, error) { return &Foo{}, nil })
//
//	// Singleton: created once, reused
//	c.Singleton("cache", func(c *container.Container) (any, error) {
//	    cfg, err := container.Resolve[*config.Config](c, "config")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return cache.New(cfg), nil
//	})
//
//	// Pre-built value
//	c.Instance("config", myConfig)
//
//	// Alias
//	c.Alias("config", "configuration")
//
// # Resolving
//
//	raw, err := c.Get("cache")
//	ok := c.Has("cache")
//	cache, err := container.Resolve[*Cache](c, "cache")
//
// # Auto-wiring
//
// Go cannot build a type from its name, so auto-wiring goes through the
// autowire package: constructors are collected in an autowire.Catalog and
// each one is bound under its TypeKey with a factory that calls
// autowire.Factory.Create. Constructor parameters are then resolved from
// this container by their own TypeKey.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    app.Singleton("mailer", newMailer)
//	    return nil
//	}
//
//	registry := container.NewProviderRegistry(c)
//	if err := registry.Register(&AppServiceProvider{}); err != nil { ... }
//	if err := registry.Boot(); err != nil { ... }
package container
