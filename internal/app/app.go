// Package app wires the application together: database, migrations,
// business services, HTTP router and graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/shortly/internal/config"
	"github.com/vadimbarashkov/shortly/internal/database/postgres"
	"github.com/vadimbarashkov/shortly/internal/service"
	"golang.org/x/sync/errgroup"

	api "github.com/vadimbarashkov/shortly/internal/api/http/v1"
)

// Run starts the application and blocks until ctx is canceled or a fatal
// error occurs.
func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	db, err := postgres.New(
		ctx,
		cfg.Postgres.DSN(),
		postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	defer db.Close()

	if err := postgres.RunMigrations("file://migrations", cfg.Postgres.DSN()); err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	urlRepo := postgres.NewURLRepository(db)
	urlSvc := service.NewURLService(urlRepo, cfg.ShortCodeLength)

	logger := httplog.NewLogger("shortly", httplog.Options{
		JSON:           cfg.Env == config.EnvProd,
		LogLevel:       logLevel(cfg.Env),
		Concise:        cfg.Env != config.EnvProd,
		RequestHeaders: true,
		Tags: map[string]string{
			"env": cfg.Env,
		},
	})

	router := api.NewRouter(logger, urlSvc, cfg.BaseURL)

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        router,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

func logLevel(env string) slog.Level {
	if env == config.EnvProd {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}
