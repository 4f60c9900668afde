package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/km-arc/go-autowire/framework/autowire"
	"github.com/km-arc/go-autowire/framework/config"
	"github.com/km-arc/go-autowire/framework/container"
	"github.com/km-arc/go-autowire/framework/providers"
	"github.com/km-arc/go-autowire/framework/routing"
)

// Options configures New.
type Options struct {
	// EnvFiles are loaded by godotenv; default ".env".
	EnvFiles []string

	// Configure adjusts the loaded configuration before anything uses it.
	Configure func(*config.Config)

	// Catalog holds the application's auto-wired constructors.
	Catalog *autowire.Catalog

	// LogOutput receives log lines; default os.Stderr.
	LogOutput io.Writer
}

// Application is the top-level application container.
// It embeds the IoC Container so user code can call app.Singleton() and
// app.Get() directly, like $app in Laravel's bootstrap/app.php.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New creates the application and registers the framework providers.
func New(opts Options) (*Application, error) {
	c := container.New()
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
	}

	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{EnvFiles: opts.EnvFiles, Configure: opts.Configure},
		&providers.LoggingServiceProvider{Output: opts.LogOutput},
		&providers.AutowireServiceProvider{Catalog: opts.Catalog},
		&providers.RoutingServiceProvider{},
	} {
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, providers.ConfigKey)
}

// Logger resolves *slog.Logger from the container.
func (a *Application) Logger() *slog.Logger {
	return container.MustResolve[*slog.Logger](a.Container, providers.LoggerKey)
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container, providers.RouterKey)
}

// Autowire resolves the auto-wiring factory from the container.
func (a *Application) Autowire() *autowire.Factory {
	return container.MustResolve[*autowire.Factory](a.Container, providers.AutowireKey)
}

// WarmUp resolves every auto-wired type so the parameter cache is complete
// (and, with a cache file configured, persisted) before serving. It returns
// the number of types resolved.
func (a *Application) WarmUp() (int, error) {
	names := a.TaggedAbstracts(providers.AutowireTag)
	logger := a.Logger()
	if err := autowire.Warmup(a.Container, names, logger); err != nil {
		return 0, err
	}
	logger.Info("autowire: warm-up complete",
		"types", len(names),
		"cache_file", a.Autowire().CacheFile(),
	)
	return len(names), nil
}

// Run boots the application (if needed) and starts the HTTP server.
func (a *Application) Run() error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}
	cfg := a.Config()
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: cfg.App.ReadHeaderTimeout,
	}
	a.Logger().Info(fmt.Sprintf("%s running on http://localhost%s", cfg.App.Name, srv.Addr),
		"env", cfg.App.Env)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
