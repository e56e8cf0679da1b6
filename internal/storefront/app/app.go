// Package app wires the storefront session core: configuration, session
// store, backend client and the services built on them.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/events"
	"github.com/aussiebroadwan/storefront/internal/storefront/metrics"
	"github.com/aussiebroadwan/storefront/internal/storefront/service"
	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	"github.com/aussiebroadwan/storefront/internal/storefront/store/drivers/memory"
	"github.com/aussiebroadwan/storefront/internal/storefront/store/drivers/redis"
	"github.com/aussiebroadwan/storefront/internal/storefront/store/drivers/sqlite"
	"github.com/aussiebroadwan/storefront/pkg/cryptox"
	"github.com/aussiebroadwan/storefront/pkg/httpx"
	"github.com/aussiebroadwan/storefront/pkg/shopsdk"
	"github.com/aussiebroadwan/storefront/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// BuildVersion is overridden at build time with -ldflags.
	BuildVersion = "v0.1.0"
)

// Application holds every long-lived dependency. Exported fields are the
// entry points used by the CLI.
type Application struct {
	cfg    Config
	logger *slog.Logger

	registry *prometheus.Registry
	Metrics  *metrics.Metrics

	Store     store.Store
	Bus       *events.Bus
	Messages  domain.Catalog
	Notifier  service.Notifier
	Navigator service.Navigator
	Client    *shopsdk.Client

	Validator   *service.Validator
	Invalidator *service.Invalidator
	Interceptor *service.Interceptor
	Monitor     *service.Monitor
	Guard       *service.Guard

	Auth     *service.AuthService
	Cart     *service.CartService
	Checkout *service.CheckoutService

	unsubscribe func()
}

type Option func(*Application)

// WithLogger replaces the logger built from the config.
func WithLogger(l *slog.Logger) Option {
	return func(a *Application) { a.logger = l }
}

// WithNotifier replaces the default log notifier.
func WithNotifier(n service.Notifier) Option {
	return func(a *Application) { a.Notifier = n }
}

// WithNavigator replaces the default in-memory navigator.
func WithNavigator(n service.Navigator) Option {
	return func(a *Application) { a.Navigator = n }
}

// WithStore uses st instead of opening the configured driver.
func WithStore(st store.Store) Option {
	return func(a *Application) { a.Store = st }
}

// New creates an Application with all dependencies initialised.
func New(cfg Config, opts ...Option) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg:      cfg,
		registry: prometheus.NewRegistry(),
		Messages: domain.Messages(cfg.Locale),
	}
	for _, opt := range opts {
		opt(app)
	}

	if app.logger == nil {
		app.logger = slogx.New(slogx.Config{
			Service: "storefront",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		})
	}
	if app.Notifier == nil {
		app.Notifier = service.LogNotifier{Logger: app.logger}
	}
	if app.Navigator == nil {
		app.Navigator = service.NewMemoryNavigator("/")
	}

	app.registry.MustRegister(collectors.NewGoCollector())
	app.Metrics = metrics.New(app.registry)
	app.Bus = events.NewBus(app.logger)

	if app.Store == nil {
		st, err := app.openStore()
		if err != nil {
			return nil, err
		}
		app.Store = st
	}

	app.initServices()
	return app, nil
}

// openStore opens the configured driver, sealing values when a key is set.
func (app *Application) openStore() (store.Store, error) {
	opts := store.Options{OnChange: app.sessionEntryChanged}

	if app.cfg.SealKey != "" {
		sealer, err := cryptox.NewSealer([]byte(app.cfg.SealKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create sealer: %w", err)
		}
		opts.Sealer = sealer
	}

	switch app.cfg.StoreDriver {
	case DriverMemory:
		return memory.NewStore(opts), nil

	case DriverRedis:
		st, err := redis.NewStore(redis.Config{
			Addr:     app.cfg.RedisAddr,
			Password: app.cfg.RedisPassword,
			DB:       app.cfg.RedisDB,
			TTL:      app.cfg.RedisTTL,
		}, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return st, nil

	default:
		st, err := sqlite.NewStore(app.cfg.DatabaseFile, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to open session database: %w", err)
		}
		return st, nil
	}
}

func (app *Application) initServices() {
	app.Validator = service.NewValidator(app.Store, app.Messages, app.logger)
	app.Validator.Metrics = app.Metrics

	app.Invalidator = service.NewInvalidator(app.Store, app.Bus, app.Notifier, app.Navigator, app.Messages, app.logger)
	app.Invalidator.Metrics = app.Metrics
	app.Invalidator.LoginPath = app.cfg.LoginPath
	app.Invalidator.RedirectDelay = app.cfg.RedirectDelay

	app.Interceptor = service.NewInterceptor(app.Invalidator, app.Notifier, app.Messages, app.logger)
	app.Interceptor.Metrics = app.Metrics

	app.Client = shopsdk.NewClient(app.cfg.APIURL,
		shopsdk.WithTimeout(app.cfg.HTTPTimeout),
		shopsdk.WithLogger(app.logger),
		shopsdk.WithTokenSource(service.StoreTokenSource{Store: app.Store}),
		shopsdk.WithInterceptor(app.Interceptor),
		shopsdk.WithOAuth(shopsdk.OAuthConfig{
			ClientID:    app.cfg.OAuthClientID,
			RedirectURL: app.cfg.OAuthRedirectURL,
		}),
		shopsdk.WithMiddleware(
			httpx.RateLimit(app.cfg.RateLimit),
			app.Metrics.InstrumentTransport,
		),
	)

	app.Monitor = service.NewMonitor(app.Validator, app.Invalidator, app.logger, service.MonitorOptions{
		CheckOnStart:      true,
		CheckOnInterval:   true,
		Interval:          app.cfg.MonitorInterval,
		RedirectOnInvalid: true,
	})
	app.unsubscribe = app.Bus.Subscribe(app.Monitor.SessionChanged)

	app.Guard = service.NewGuard(app.Validator, app.Navigator, app.Notifier)
	app.Guard.LoginPath = app.cfg.LoginPath
	app.Guard.Ender = app.Invalidator

	app.Auth = &service.AuthService{
		Client:    app.Client,
		Store:     app.Store,
		Bus:       app.Bus,
		Navigator: app.Navigator,
		Notifier:  app.Notifier,
		Messages:  app.Messages,
		Logger:    app.logger,
		LoginPath: app.cfg.LoginPath,
	}

	app.Cart = &service.CartService{
		Store:     app.Store,
		Client:    app.Client,
		Validator: app.Validator,
		Logger:    app.logger,
	}

	app.Checkout = &service.CheckoutService{
		Store:  app.Store,
		Client: app.Client,
		Guard:  app.Guard,
		Logger: app.logger,
	}
}

// sessionEntryChanged is the store's change hook.
func (app *Application) sessionEntryChanged(ctx context.Context, key string, deleted bool) {
	app.logger.DebugContext(ctx, "session entry changed", "key", key, "deleted", deleted)
}

func (app *Application) Logger() *slog.Logger { return app.logger }

func (app *Application) Config() Config { return app.cfg }

// MetricsHandler serves the application's registry.
func (app *Application) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{})
}

// Watch runs the auth monitor until ctx is done. When a metrics address is
// configured /metrics is served alongside.
func (app *Application) Watch(ctx context.Context) error {
	stop := app.Monitor.Start(ctx)
	defer stop()

	app.logger.InfoContext(ctx, "watching session", "interval", app.cfg.MonitorInterval)

	if app.cfg.MetricsAddr == "" {
		<-ctx.Done()
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", app.MetricsHandler())
	server := &http.Server{
		Addr:              app.cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.logger.Info("metrics listening", "addr", app.cfg.MetricsAddr)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("metrics server shutdown failed", "error", err)
	}
	return nil
}

// Close waits for a pending login redirect and releases the store.
func (app *Application) Close() error {
	if app.unsubscribe != nil {
		app.unsubscribe()
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.RedirectDelay+time.Second)
	defer cancel()
	if err := app.Invalidator.WaitRedirect(ctx); err != nil {
		app.logger.Warn("pending redirect abandoned", "error", err)
	}

	if err := app.Store.Close(); err != nil {
		app.logger.Error("error closing session store", "error", err)
		return err
	}
	return nil
}
