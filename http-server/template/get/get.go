package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"checkmaster/http-server/httperr"
	"checkmaster/internal/storage"
)

type TemplateProvider interface {
	GetTemplates(ctx context.Context) ([]storage.ChecklistTemplate, error)
	GetTemplate(ctx context.Context, id string) (*storage.ChecklistTemplate, error)
}

type ResponseAllTemplates struct {
	Templates []storage.ChecklistTemplate `json:"templates"`
}

func GetAllTemplates(log *slog.Logger, provider TemplateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.GetAllTemplates"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		templates, err := provider.GetTemplates(ctx)
		if err != nil {
			httperr.Write(w, log, err)
			return
		}

		if r.URL.Query().Get("favorites") == "true" {
			favorites := make([]storage.ChecklistTemplate, 0, len(templates))
			for _, t := range templates {
				if t.IsFavorite {
					favorites = append(favorites, t)
				}
			}
			templates = favorites
		}

		render.JSON(w, r, ResponseAllTemplates{Templates: templates})
	}
}

func GetTemplateByID(log *slog.Logger, provider TemplateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.GetTemplateByID"

		id := chi.URLParam(r, "id")
		log := log.With(
			slog.String("op", op),
			slog.String("template_id", id),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		template, err := provider.GetTemplate(ctx, id)
		if err != nil {
			httperr.Write(w, log, err)
			return
		}

		render.JSON(w, r, template)
	}
}
