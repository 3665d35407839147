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
	"checkmaster/internal/service/runner"
	"checkmaster/internal/storage"
)

type InspectionFinisher interface {
	Finish(ctx context.Context, sess runner.Session) (*storage.ServiceOrder, error)
}

// FinishInspection stores the session as a completed order. A session with an
// orderId overwrites that order.
func FinishInspection(log *slog.Logger, finisher InspectionFinisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.order.FinishInspection"
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

		order, err := finisher.Finish(ctx, req)
		if err != nil {
			httperr.Write(w, log, err)
			return
		}

		log.Info("order saved",
			slog.String("order_id", order.ID),
			slog.Bool("edit", req.OrderID != ""),
			slog.Float64("total", order.TotalValue),
		)

		if req.OrderID == "" {
			render.Status(r, http.StatusCreated)
		}
		render.JSON(w, r, order)
	}
}
