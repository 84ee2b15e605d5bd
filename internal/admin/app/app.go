package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/haulmatch/taxadmin/internal/admin/http"
	"github.com/haulmatch/taxadmin/internal/admin/metrics"
	"github.com/haulmatch/taxadmin/internal/admin/service"
	"github.com/haulmatch/taxadmin/internal/admin/store"
	"github.com/haulmatch/taxadmin/pkg/cryptox"
	"github.com/haulmatch/taxadmin/pkg/jwtx"
	"github.com/haulmatch/taxadmin/pkg/slogx"
)

// BuildVersion is overridden at build time via
// -ldflags "-X github.com/haulmatch/taxadmin/internal/admin/app.BuildVersion=...".
var BuildVersion = "v0.1.0"

// Application encapsulates the admin service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	codec   *jwtx.HS256Codec
	metrics *metrics.Metrics

	authService      *service.AuthService
	categoryService  *service.CategoryService
	formFieldService *service.FormFieldService
	formValueService *service.FormValueService

	server *http.Server
	router *httpapi.Router
}

// New validates cfg and builds the application. It fails when the session
// secret is missing or weak.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "taxadmin",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)
	if err := cryptox.LoadPepper(); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	codec, err := jwtx.NewHS256Codec([]byte(cfg.SessionSecret),
		jwtx.WithIssuer(cfg.Issuer),
		jwtx.WithTTL(cfg.SessionTTL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session codec: %w", err)
	}
	app.codec = codec

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("taxadmin starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"driver", app.cfg.DatabaseDriver,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down taxadmin...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("taxadmin stopped")
	return nil
}

// Handler exposes the router, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

func (app *Application) initDatabase() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := OpenStore(ctx, app.cfg)
	if err != nil {
		return err
	}
	app.db = db

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:    app.db,
		Codec:    app.codec,
		TTL:      app.codec.TTL(),
		Observer: app.metrics,
	}
	app.categoryService = &service.CategoryService{Store: app.db}
	app.formFieldService = &service.FormFieldService{Store: app.db}
	app.formValueService = &service.FormValueService{Store: app.db}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.codec,
		BuildVersion,
		app.db,
		app.metrics,
		app.logger,
	)

	router.SecureCookies = app.cfg.SecureCookies()
	router.DevErrors = app.cfg.IsDev()
	router.RateLimits = app.cfg.EffectiveRateLimits()

	router.AuthService = app.authService
	router.CategoryService = app.categoryService
	router.FormFieldService = app.formFieldService
	router.FormValueService = app.formValueService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
