// Package app assembles the storefront session service: configuration, store
// driver selection, token signer/verifier, services and the HTTP server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/kushistore/storefront/internal/auth/http"
	"github.com/kushistore/storefront/internal/auth/service"
	"github.com/kushistore/storefront/internal/auth/store"
	"github.com/kushistore/storefront/internal/auth/store/drivers/mysql"
	"github.com/kushistore/storefront/internal/auth/store/drivers/postgres"
	"github.com/kushistore/storefront/internal/auth/store/drivers/sqlite"
	"github.com/kushistore/storefront/pkg/jwtx"
	"github.com/kushistore/storefront/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the session service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	sessionService *service.SessionService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "storefront-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("session service starting",
		"port", app.cfg.Port,
		"driver", app.cfg.StoreDriver,
		"version", BuildVersion,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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

// Shutdown gracefully stops the HTTP server and closes the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down session service...")

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

	app.logger.Info("session service stopped")
	return nil
}

// initDatabase opens the configured store driver and applies migrations. The
// service semantics are identical across drivers; only the dialect differs.
func (app *Application) initDatabase() error {
	ctx := context.Background()

	var (
		db  store.Store
		err error
	)
	switch app.cfg.StoreDriver {
	case DriverSQLite:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.SQLitePath)
		db, err = sqlite.NewStore(dsn)
	case DriverMySQL:
		db, err = mysql.NewStore(ctx, app.cfg.MySQLDSN)
	case DriverPostgres:
		db, err = postgres.NewStore(ctx, app.cfg.PostgresDSN)
	default:
		return fmt.Errorf("unknown store driver %q", app.cfg.StoreDriver)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied", "driver", app.cfg.StoreDriver)
	return nil
}

func (app *Application) initServices() error {
	signer, err := jwtx.NewSignerHS256([]byte(app.cfg.SessionSecret))
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}

	app.sessionService = &service.SessionService{
		Store:         app.db,
		Signer:        signer,
		Verifier:      jwtx.NewVerifierHS256([]byte(app.cfg.SessionSecret), app.cfg.Issuer),
		Issuer:        app.cfg.Issuer,
		TokenTTL:      app.cfg.SessionTTL,
		ResetTokenTTL: app.cfg.ResetTokenTTL,
	}
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.sessionService.Verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.SessionService = app.sessionService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
