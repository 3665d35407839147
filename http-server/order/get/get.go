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
	"checkmaster/internal/service/runner"
	"checkmaster/internal/storage"
)

type OrderProvider interface {
	GetOrders(ctx context.Context) ([]storage.ServiceOrder, error)
	GetOrder(ctx context.Context, id string) (*storage.ServiceOrder, error)
}

type SessionProvider interface {
	Start(ctx context.Context, templateID string) (*runner.Session, error)
	Edit(ctx context.Context, orderID string) (*runner.Session, error)
}

type ResponseAllOrders struct {
	Orders []storage.ServiceOrder `json:"orders"`
}

func GetAllOrders(log *slog.Logger, provider OrderProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.order.GetAllOrders"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		orders, err := provider.GetOrders(ctx)
		if err != nil {
			httperr.Write(w, log, err)
			return
		}
		if orders == nil {
			orders = []storage.ServiceOrder{}
		}

		render.JSON(w, r, ResponseAllOrders{Orders: orders})
	}
}

func GetOrderByID(log *slog.Logger, provider OrderProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.order.GetOrderByID"

		id := chi.URLParam(r, "id")
		log := log.With(
			slog.String("op", op),
			slog.String("order_id", id),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		order, err := provider.GetOrder(ctx, id)
		if err != nil {
			httperr.Write(w, log, err)
			return
		}

		render.JSON(w, r, order)
	}
}

// EditSession reopens a completed order in the runner.
func EditSession(log *slog.Logger, provider SessionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.order.EditSession"

		id := chi.URLParam(r, "id")
		log := log.With(
			slog.String("op", op),
			slog.String("order_id", id),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		sess, err := provider.Edit(ctx, id)
		if err != nil {
			httperr.Write(w, log, err)
			return
		}

		render.JSON(w, r, sess)
	}
}

// StartSession opens a blank inspection on a template.
func StartSession(log *slog.Logger, provider SessionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.order.StartSession"

		id := chi.URLParam(r, "templateID")
		log := log.With(
			slog.String("op", op),
			slog.String("template_id", id),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		sess, err := provider.Start(ctx, id)
		if err != nil {
			httperr.Write(w, log, err)
			return
		}

		render.JSON(w, r, sess)
	}
}
