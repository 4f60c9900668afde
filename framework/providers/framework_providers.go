package providers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/km-arc/go-autowire/framework/autowire"
	"github.com/km-arc/go-autowire/framework/config"
	"github.com/km-arc/go-autowire/framework/container"
	gohttp "github.com/km-arc/go-autowire/framework/http"
	"github.com/km-arc/go-autowire/framework/logging"
	"github.com/km-arc/go-autowire/framework/routing"
)

// Abstracts bound by the framework providers.
const (
	ConfigKey   = "config"
	LoggerKey   = "logger"
	AutowireKey = "autowire"
	RouterKey   = "router"

	// AutowireTag groups every auto-wired catalog type.
	AutowireTag = "autowire.types"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// binds it into the container.
//
// Bound abstracts:
//   - "config"                → *config.Config
//   - TypeKey(config.Config)  → alias of "config", so constructors can take *config.Config
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string

	// Configure, when set, adjusts the loaded configuration (CLI overrides).
	Configure func(*config.Config)
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	app.Singleton(ConfigKey, func(c *container.Container) (any, error) {
		cfg := config.Load(p.EnvFiles...)
		if p.Configure != nil {
			p.Configure(cfg)
		}
		return cfg, nil
	})
	app.Alias(ConfigKey, "configuration")
	app.Alias(ConfigKey, container.TypeKey(&config.Config{}))
	return nil
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the application logger.
//
// Bound abstracts:
//   - "logger"             → *slog.Logger
//   - TypeKey(slog.Logger) → alias of "logger"
type LoggingServiceProvider struct {
	container.BaseProvider
	Output io.Writer // default os.Stderr
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	app.Singleton(LoggerKey, func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, ConfigKey)
		if err != nil {
			return nil, err
		}
		return logging.New(cfg.Log, p.Output), nil
	})
	app.Alias(LoggerKey, container.TypeKey(&slog.Logger{}))
	return nil
}

// Boot logs every instance the container builds from here on, at debug level.
func (p *LoggingServiceProvider) Boot(app *container.Container) error {
	logger, err := container.Resolve[*slog.Logger](app, LoggerKey)
	if err != nil {
		return err
	}
	app.AfterResolving(func(abstract string, instance any) {
		logger.Debug("container: resolved", "abstract", abstract, "instance", fmt.Sprintf("%T", instance))
	})
	return nil
}

// ── AutowireServiceProvider ───────────────────────────────────────────────────

// AutowireServiceProvider binds every type in Catalog as a singleton built by
// an autowire.Factory, so constructor parameters are resolved from the
// container by type.
//
// Bound abstracts:
//   - "autowire"           → *autowire.Factory, with the parameter cache enabled
//     when config.Autowire.CacheFile is set
//   - every Catalog name   → the instance its constructor builds, tagged AutowireTag
//
// With config.Autowire.WarmUpOnBoot, Boot resolves every AutowireTag type.
type AutowireServiceProvider struct {
	container.BaseProvider
	Catalog *autowire.Catalog
}

func (p *AutowireServiceProvider) Register(app *container.Container) error {
	if p.Catalog == nil {
		p.Catalog = autowire.NewCatalog()
	}

	app.Singleton(AutowireKey, func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, ConfigKey)
		if err != nil {
			return nil, err
		}
		logger, err := container.Resolve[*slog.Logger](c, LoggerKey)
		if err != nil {
			return nil, err
		}
		factory := autowire.NewFactory(p.Catalog, autowire.WithLogger(logger))
		if cfg.Autowire.CacheFile != "" {
			factory.EnableCache(cfg.Autowire.CacheFile)
		}
		return factory, nil
	})

	for _, name := range p.Catalog.Names() {
		app.Singleton(name, func(c *container.Container) (any, error) {
			factory, err := container.Resolve[*autowire.Factory](c, AutowireKey)
			if err != nil {
				return nil, err
			}
			return factory.Create(c, name)
		})
	}
	app.Tag(p.Catalog.Names(), AutowireTag)
	return nil
}

func (p *AutowireServiceProvider) Boot(app *container.Container) error {
	cfg, err := container.Resolve[*config.Config](app, ConfigKey)
	if err != nil {
		return err
	}
	if !cfg.Autowire.WarmUpOnBoot {
		return nil
	}
	logger, err := container.Resolve[*slog.Logger](app, LoggerKey)
	if err != nil {
		return err
	}
	return autowire.Warmup(app, app.TaggedAbstracts(AutowireTag), logger)
}

// Provides lists the auto-wired type names in registration order.
func (p *AutowireServiceProvider) Provides() []string {
	return p.Catalog.Names()
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router.
//
// Bound abstracts:
//   - "router"  → *routing.Router
//
// In debug mode Boot adds GET /_autowire/cache, which lists the constructor
// parameter cache. Responses are sent with no-cache headers.
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	app.Singleton(RouterKey, func(c *container.Container) (any, error) {
		logger, err := container.Resolve[*slog.Logger](c, LoggerKey)
		if err != nil {
			return nil, err
		}
		return routing.New(logger), nil
	})
	return nil
}

func (p *RoutingServiceProvider) Boot(app *container.Container) error {
	cfg, err := container.Resolve[*config.Config](app, ConfigKey)
	if err != nil {
		return err
	}
	if !cfg.App.Debug || !app.Has(AutowireKey) {
		return nil
	}
	router, err := container.Resolve[*routing.Router](app, RouterKey)
	if err != nil {
		return err
	}
	factory, err := container.Resolve[*autowire.Factory](app, AutowireKey)
	if err != nil {
		return err
	}
	router.Group(func(debug *routing.Router) {
		debug.Middleware(middleware.NoCache)
		debug.Get("/_autowire/cache", func(w http.ResponseWriter, r *http.Request) {
			gohttp.NewResponse(w).Success(map[string]any{
				"file":    factory.CacheFile(),
				"entries": factory.Cached(),
			})
		})
	})
	return nil
}
