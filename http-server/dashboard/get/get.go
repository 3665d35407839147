package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"checkmaster/http-server/httperr"
	"checkmaster/internal/service/dashboard"
)

type DashboardProvider interface {
	Get(ctx context.Context) (*dashboard.Dashboard, error)
}

func GetDashboard(log *slog.Logger, provider DashboardProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dashboard.GetDashboard"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		d, err := provider.Get(ctx)
		if err != nil {
			httperr.Write(w, log, err)
			return
		}

		render.JSON(w, r, d)
	}
}
