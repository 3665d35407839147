package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"checkmaster/http-server/httperr"
	"checkmaster/internal/service/generate-excel"
	"checkmaster/internal/service/report"
	"checkmaster/internal/storage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type GenerateExcelHandler interface {
	GenerateExcel(ctx context.Context, filter generate_excel.OrderFilter) ([]byte, error)
	GenerateOrderExcel(ctx context.Context, orderID string) ([]byte, *storage.ServiceOrder, error)
}

// ParseFilter reads from/to (YYYY-MM-DD, both inclusive), template and client
// from the query.
func ParseFilter(r *http.Request, now time.Time) (generate_excel.OrderFilter, error) {
	q := r.URL.Query()
	return generate_excel.NewOrderFilter(q.Get("from"), q.Get("to"), q.Get("template"), q.Get("client"), now)
}

func writeXLSX(w http.ResponseWriter, fileName string, data []byte) error {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	_, err := w.Write(data)
	return err
}

func GenerateReportExcel(log *slog.Logger, gen GenerateExcelHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.GenerateReportExcel"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		filter, err := ParseFilter(r, time.Now().UTC())
		if err != nil {
			httperr.Write(w, log, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, filter)
		if err != nil {
			httperr.Write(w, log, err)
			return
		}

		fileName := fmt.Sprintf("CheckMaster_Relatorio_%s.xlsx", time.Now().Format("2006-01-02_150405"))
		if err := writeXLSX(w, fileName, excelBytes); err != nil {
			log.Error("failed to write response", slog.String("error", err.Error()))
		}
	}
}

func GenerateOrderExcel(log *slog.Logger, gen GenerateExcelHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.GenerateOrderExcel"

		id := chi.URLParam(r, "id")
		log := log.With(
			slog.String("op", op),
			slog.String("order_id", id),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, order, err := gen.GenerateOrderExcel(ctx, id)
		if err != nil {
			httperr.Write(w, log, err)
			return
		}

		if err := writeXLSX(w, report.FileName(*order, "xlsx"), excelBytes); err != nil {
			log.Error("failed to write response", slog.String("error", err.Error()))
		}
	}
}
