package delete

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"checkmaster/http-server/httperr"
)

type TemplateDeleter interface {
	DeleteTemplate(ctx context.Context, id string) error
}

// DeleteTemplate removes a template. Orders completed from it keep their
// own copy of the fields.
func DeleteTemplate(log *slog.Logger, deleter TemplateDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.DeleteTemplate"

		id := chi.URLParam(r, "id")
		log := log.With(
			slog.String("op", op),
			slog.String("template_id", id),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := deleter.DeleteTemplate(ctx, id); err != nil {
			httperr.Write(w, log, err)
			return
		}

		log.Info("template deleted")
		w.WriteHeader(http.StatusNoContent)
	}
}
