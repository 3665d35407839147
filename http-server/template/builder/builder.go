package builder

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

// TemplateBuilder is the editing surface of the builder service. Each call
// returns the template as stored after the change.
type TemplateBuilder interface {
	AddField(ctx context.Context, templateID string, typ storage.FieldType, label string) (*storage.ChecklistTemplate, error)
	RemoveField(ctx context.Context, templateID, fieldID string) (*storage.ChecklistTemplate, error)
	MoveField(ctx context.Context, templateID string, from, to int) (*storage.ChecklistTemplate, error)
	AddOption(ctx context.Context, templateID, fieldID string) (*storage.ChecklistTemplate, error)
	RemoveOption(ctx context.Context, templateID, fieldID, optionID string) (*storage.ChecklistTemplate, error)
	LoadOptionPreset(ctx context.Context, templateID, fieldID, preset string) (*storage.ChecklistTemplate, error)
}

type AddFieldRequest struct {
	Type  storage.FieldType `json:"type"`
	Label string            `json:"label"`
}

type MoveFieldRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type PresetRequest struct {
	Preset string `json:"preset"`
}

type editFunc func(ctx context.Context, r *http.Request) (*storage.ChecklistTemplate, error)

// handle runs one builder edit with the shared logging, timeout and error
// mapping of the template routes.
func handle(log *slog.Logger, op string, edit editFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := log.With(
			slog.String("op", op),
			slog.String("template_id", chi.URLParam(r, "id")),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		tpl, err := edit(ctx, r)
		if err != nil {
			httperr.Write(w, log, err)
			return
		}

		render.JSON(w, r, tpl)
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return storage.ErrInvalid
	}
	return nil
}

func AddField(log *slog.Logger, b TemplateBuilder) http.HandlerFunc {
	return handle(log, "handlers.template.AddField", func(ctx context.Context, r *http.Request) (*storage.ChecklistTemplate, error) {
		var req AddFieldRequest
		if err := decode(r, &req); err != nil {
			return nil, err
		}
		return b.AddField(ctx, chi.URLParam(r, "id"), req.Type, req.Label)
	})
}

func RemoveField(log *slog.Logger, b TemplateBuilder) http.HandlerFunc {
	return handle(log, "handlers.template.RemoveField", func(ctx context.Context, r *http.Request) (*storage.ChecklistTemplate, error) {
		return b.RemoveField(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "fieldID"))
	})
}

func MoveField(log *slog.Logger, b TemplateBuilder) http.HandlerFunc {
	return handle(log, "handlers.template.MoveField", func(ctx context.Context, r *http.Request) (*storage.ChecklistTemplate, error) {
		var req MoveFieldRequest
		if err := decode(r, &req); err != nil {
			return nil, err
		}
		return b.MoveField(ctx, chi.URLParam(r, "id"), req.From, req.To)
	})
}

func AddOption(log *slog.Logger, b TemplateBuilder) http.HandlerFunc {
	return handle(log, "handlers.template.AddOption", func(ctx context.Context, r *http.Request) (*storage.ChecklistTemplate, error) {
		return b.AddOption(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "fieldID"))
	})
}

func RemoveOption(log *slog.Logger, b TemplateBuilder) http.HandlerFunc {
	return handle(log, "handlers.template.RemoveOption", func(ctx context.Context, r *http.Request) (*storage.ChecklistTemplate, error) {
		return b.RemoveOption(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "fieldID"), chi.URLParam(r, "optionID"))
	})
}

func LoadOptionPreset(log *slog.Logger, b TemplateBuilder) http.HandlerFunc {
	return handle(log, "handlers.template.LoadOptionPreset", func(ctx context.Context, r *http.Request) (*storage.ChecklistTemplate, error) {
		var req PresetRequest
		if err := decode(r, &req); err != nil {
			return nil, err
		}
		return b.LoadOptionPreset(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "fieldID"), req.Preset)
	})
}
