package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"checkmaster/http-server/httperr"
	"checkmaster/internal/storage"
)

type TemplateUpdateProvider interface {
	SaveTemplate(ctx context.Context, t storage.ChecklistTemplate) error
	GetTemplate(ctx context.Context, id string) (*storage.ChecklistTemplate, error)
	DuplicateTemplate(ctx context.Context, id string) (*storage.ChecklistTemplate, error)
	ToggleFavorite(ctx context.Context, id string) (bool, error)
	ReorderTemplates(ctx context.Context, ids []string) ([]storage.ChecklistTemplate, error)
}

func requestLog(log *slog.Logger, op string, r *http.Request) *slog.Logger {
	return log.With(
		slog.String("op", op),
		slog.String("template_id", chi.URLParam(r, "id")),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// UpdateTemplate replaces an existing template; the id comes from the path.
func UpdateTemplate(log *slog.Logger, temp TemplateUpdateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.UpdateTemplate"
		log := requestLog(log, op, r)

		id := chi.URLParam(r, "id")

		var req storage.ChecklistTemplate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		req.ID = id
		if req.Fields == nil {
			req.Fields = []storage.ChecklistField{}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if _, err := temp.GetTemplate(ctx, id); err != nil {
			httperr.Write(w, log, err)
			return
		}

		if err := temp.SaveTemplate(ctx, req); err != nil {
			httperr.Write(w, log, err)
			return
		}

		render.JSON(w, r, req)
	}
}

func DuplicateTemplate(log *slog.Logger, temp TemplateUpdateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.DuplicateTemplate"
		log := requestLog(log, op, r)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		dup, err := temp.DuplicateTemplate(ctx, chi.URLParam(r, "id"))
		if err != nil {
			httperr.Write(w, log, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, dup)
	}
}

type FavoriteResponse struct {
	ID         string `json:"id"`
	IsFavorite bool   `json:"isFavorite"`
}

func ToggleFavorite(log *slog.Logger, temp TemplateUpdateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.ToggleFavorite"
		log := requestLog(log, op, r)

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		fav, err := temp.ToggleFavorite(ctx, id)
		if err != nil {
			httperr.Write(w, log, err)
			return
		}

		render.JSON(w, r, FavoriteResponse{ID: id, IsFavorite: fav})
	}
}

// ReorderTemplates stores the order the templates were dragged into.
func ReorderTemplates(log *slog.Logger, temp TemplateUpdateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.ReorderTemplates"
		log := requestLog(log, op, r)

		var req struct {
			IDs []string `json:"ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		templates, err := temp.ReorderTemplates(ctx, req.IDs)
		if err != nil {
			httperr.Write(w, log, err)
			return
		}

		render.JSON(w, r, map[string]any{"templates": templates})
	}
}
