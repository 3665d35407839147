package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"checkmaster/http-server/vision/analyze"
	"checkmaster/internal/config"
	"checkmaster/internal/service/builder"
	"checkmaster/internal/service/dashboard"
	"checkmaster/internal/service/generate-excel"
	"checkmaster/internal/service/runner"
	"checkmaster/internal/service/vision"
	"checkmaster/internal/storage"
	"checkmaster/internal/storage/mysql"
	"checkmaster/internal/storage/sqlite"
)

type backend interface {
	storage.Backend
	Close() error
}

// app holds the store and the services built on it.
type app struct {
	kv        backend
	store     *storage.Store
	builder   *builder.Service
	runner    *runner.Service
	dashboard *dashboard.Service
	excel     *generate_excel.GenerateExcelService
	analyzer  analyze.VehicleAnalyzer
}

func openBackend(cfg *config.Config) (backend, error) {
	switch cfg.StorageDriver {
	case config.DriverMySQL:
		return mysql.New(cfg.MySQL)
	default:
		return sqlite.New(cfg.StoragePath)
	}
}

func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	const op = "main.newApp"

	kv, err := openBackend(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	store := storage.New(kv)

	a := &app{
		kv:        kv,
		store:     store,
		builder:   builder.NewService(store),
		runner:    runner.NewService(store, runner.WithRequiredCheck(cfg.Runner.EnforceRequired)),
		dashboard: dashboard.NewService(store),
		excel:     generate_excel.NewGenerateService(store),
	}

	analyzer, err := vision.New(ctx, cfg.Vision)
	switch {
	case err == nil:
		a.analyzer = analyzer
	case errors.Is(err, vision.ErrDisabled):
		log.Warn("image analysis disabled: no API key configured")
	default:
		_ = kv.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

func (a *app) Close() error {
	return a.kv.Close()
}
