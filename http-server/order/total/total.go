package total

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"checkmaster/http-server/httperr"
	"checkmaster/internal/service/runner"
)

type TotalCalculator interface {
	Preview(ctx context.Context, sess runner.Session) (*runner.Preview, error)
}

// CalculateTotal prices a session in progress without storing anything.
func CalculateTotal(log *slog.Logger, calc TotalCalculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.order.CalculateTotal"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req runner.Session
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		preview, err := calc.Preview(ctx, req)
		if err != nil {
			httperr.Write(w, log, err)
			return
		}

		render.JSON(w, r, preview)
	}
}
