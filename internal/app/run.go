package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sharkins95/sqlalchemy-challenge/internal/config"
	"github.com/sharkins95/sqlalchemy-challenge/internal/db"
	"github.com/sharkins95/sqlalchemy-challenge/internal/httpapi"
	"github.com/sharkins95/sqlalchemy-challenge/internal/metrics"
	"github.com/sharkins95/sqlalchemy-challenge/internal/modules/climate"
	"github.com/sharkins95/sqlalchemy-challenge/internal/modules/climate/repository"
	climateviews "github.com/sharkins95/sqlalchemy-challenge/internal/modules/climate/views"
	"github.com/sharkins95/sqlalchemy-challenge/internal/tracing"
)

const shutdownTimeout = 10 * time.Second

// Build identifies the running binary in traces.
type Build struct {
	Name    string
	Version string
}

func Run(ctx context.Context, cfg config.Config, build Build) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"dbDriver", cfg.Driver,
		"sqlitePath", cfg.Path,
		"dbMaxOpenConns", cfg.MaxOpenConns,
		"dbMaxIdleConns", cfg.MaxIdleConns,
		"dbConnMaxLifetime", cfg.ConnMaxLifetime,
		"dbLogSQL", cfg.LogSQL,
		"zipkinURL", cfg.ZipkinURL,
	)

	tp, err := tracing.Setup(build.Name, build.Version, cfg.ZipkinURL)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(flushCtx); err != nil {
			slog.Error("tracer shutdown", "error", err)
		}
	}()

	metrics.Register()

	dbConn, err := db.Open(ctx, cfg, slog.Default(), tp.Tracer("github.com/sharkins95/sqlalchemy-challenge/internal/db"))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if err := db.ValidateSchema(ctx, dbConn, repository.Tables()...); err != nil {
		return fmt.Errorf("dataset %s: %w", cfg.Path, err)
	}
	slog.Info("dataset opened", "path", cfg.Path)

	if err := climateviews.LoadTemplates(); err != nil {
		return err
	}

	mux := httpapi.NewMux(dbConn)
	climate.RegisterFeature(mux, dbConn)

	srv := httpapi.NewServer(cfg, mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
