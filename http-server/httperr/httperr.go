// Package httperr maps storage and service errors onto HTTP responses.
package httperr

import (
	"errors"
	"log/slog"
	"net/http"

	"checkmaster/internal/service/runner"
	"checkmaster/internal/service/vision"
	"checkmaster/internal/storage"
)

func Status(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrInvalid), errors.Is(err, runner.ErrMissingRequired):
		return http.StatusBadRequest
	case errors.Is(err, vision.ErrDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Write logs err and answers with its status. Client errors carry the error
// text, server errors a generic message.
func Write(w http.ResponseWriter, log *slog.Logger, err error) {
	status := Status(err)

	switch status {
	case http.StatusNotFound:
		log.Warn("not found", slog.String("error", err.Error()))
		http.Error(w, "Not found", status)
	case http.StatusInternalServerError:
		log.Error("request failed", slog.String("error", err.Error()))
		http.Error(w, "Internal server error", status)
	default:
		log.Warn("request rejected", slog.String("error", err.Error()))
		http.Error(w, err.Error(), status)
	}
}
