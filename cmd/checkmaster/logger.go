package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// dualHandler writes every record to the core handler and copies errors to a
// separate file handler.
type dualHandler struct {
	coreHandler  slog.Handler
	errorHandler slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.coreHandler.Enabled(ctx, lvl) || h.errorHandler.Enabled(ctx, lvl)
}

func (h *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error

	if h.coreHandler.Enabled(ctx, r.Level) {
		err = h.coreHandler.Handle(ctx, r)
		if err != nil {
			return err
		}
	}

	if r.Level >= slog.LevelError && h.errorHandler.Enabled(ctx, r.Level) {
		if fileErr := h.errorHandler.Handle(ctx, r.Clone()); fileErr != nil {
			// the error file is best effort; stdout already has the record
			fmt.Fprintf(os.Stderr, "error log: %v\n", fileErr)
		}
	}

	return err
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithAttrs(attrs),
		errorHandler: h.errorHandler.WithAttrs(attrs),
	}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithGroup(name),
		errorHandler: h.errorHandler.WithGroup(name),
	}
}

func newCoreHandler(env string, out io.Writer) slog.Handler {
	level := slog.LevelDebug
	if env == envProd {
		level = slog.LevelInfo
	}

	switch env {
	case envDev:
		return slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	default:
		return slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	}
}

// setupLogger returns the logger and a close func for the error file. Without
// errorLogPath, or when the file cannot be opened, only stdout is used.
func setupLogger(env, errorLogPath string) (*slog.Logger, func()) {
	coreHandler := newCoreHandler(env, os.Stdout)

	if errorLogPath == "" {
		return slog.New(coreHandler), func() {}
	}

	errorFile, err := os.OpenFile(errorLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger := slog.New(coreHandler)
		logger.Warn("cannot open error log file", slog.String("path", errorLogPath), slog.String("error", err.Error()))
		return logger, func() {}
	}

	handler := &dualHandler{
		coreHandler: coreHandler,
		errorHandler: slog.NewTextHandler(errorFile, &slog.HandlerOptions{
			Level: slog.LevelError,
		}),
	}

	return slog.New(handler), func() { _ = errorFile.Close() }
}
