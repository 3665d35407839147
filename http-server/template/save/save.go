package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"checkmaster/http-server/httperr"
	"checkmaster/internal/storage"
)

type TemplateSaver interface {
	SaveTemplate(ctx context.Context, t storage.ChecklistTemplate) error
	NewID() string
}

type Response struct {
	Status   string                    `json:"status"`
	Template storage.ChecklistTemplate `json:"template"`
}

// SaveTemplate stores the template from the request body. A template
// without an id is created under a new one.
func SaveTemplate(log *slog.Logger, saver TemplateSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.SaveTemplate"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req storage.ChecklistTemplate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		status := "updated"
		if req.ID == "" {
			req.ID = saver.NewID()
			status = "created"
		}
		if req.Fields == nil {
			req.Fields = []storage.ChecklistField{}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := saver.SaveTemplate(ctx, req); err != nil {
			httperr.Write(w, log, err)
			return
		}

		log.Info("template saved", slog.String("template_id", req.ID), slog.Int("fields", len(req.Fields)))

		render.JSON(w, r, Response{Status: status, Template: req})
	}
}
