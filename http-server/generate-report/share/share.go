package share

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"checkmaster/http-server/httperr"
	"checkmaster/internal/service/report"
	"checkmaster/internal/storage"
)

type OrderProvider interface {
	GetOrder(ctx context.Context, id string) (*storage.ServiceOrder, error)
}

type ShareResponse struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

func loadOrder(w http.ResponseWriter, r *http.Request, log *slog.Logger, provider OrderProvider) (*storage.ServiceOrder, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := provider.GetOrder(ctx, chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, log, err)
		return nil, false
	}
	return order, true
}

func requestLog(log *slog.Logger, op string, r *http.Request) *slog.Logger {
	return log.With(
		slog.String("op", op),
		slog.String("order_id", chi.URLParam(r, "id")),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// ExportCSV downloads the answers of one order as Campo,Valor rows.
func ExportCSV(log *slog.Logger, provider OrderProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.ExportCSV"
		log := requestLog(log, op, r)

		order, ok := loadOrder(w, r, log, provider)
		if !ok {
			return
		}

		data, err := report.CSV(*order)
		if err != nil {
			httperr.Write(w, log, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+report.FileName(*order, "csv")+`"`)
		if _, err := w.Write(data); err != nil {
			log.Error("failed to write response", slog.String("error", err.Error()))
		}
	}
}

// ShareOrder returns the summary text handed to the device share sheet.
func ShareOrder(log *slog.Logger, provider OrderProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.ShareOrder"
		log := requestLog(log, op, r)

		order, ok := loadOrder(w, r, log, provider)
		if !ok {
			return
		}

		render.JSON(w, r, ShareResponse{
			Title: report.ShareTitle,
			Text:  report.ShareText(*order),
		})
	}
}
