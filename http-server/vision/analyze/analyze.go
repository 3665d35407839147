package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"checkmaster/http-server/httperr"
	"checkmaster/internal/service/runner"
	"checkmaster/internal/service/vision"
	"checkmaster/internal/storage"
)

type VehicleAnalyzer interface {
	AnalyzeVehicleImage(ctx context.Context, image []byte, mimeType string) (*storage.Vehicle, error)
}

// Response carries the raw analysis and, when a session and field were sent
// along with the image, the session with the scanned value applied.
type Response struct {
	Vehicle storage.Vehicle `json:"vehicle"`
	Session *runner.Session `json:"session,omitempty"`
}

// writeSlack is added to the analysis timeout so the answer can still be sent
// after a slow model call.
const writeSlack = 5 * time.Second

// AnalyzeImage reads the multipart "image" file and asks the analyzer for the
// vehicle data in it. A nil analyzer answers 503. The route extends the
// server write deadline to fit timeout.
func AnalyzeImage(log *slog.Logger, analyzer VehicleAnalyzer, maxSize int64, timeout time.Duration) http.HandlerFunc {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.vision.AnalyzeImage"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if analyzer == nil {
			httperr.Write(w, log, vision.ErrDisabled)
			return
		}

		rc := http.NewResponseController(w)
		if err := rc.SetWriteDeadline(time.Now().Add(timeout + writeSlack)); err != nil && !errors.Is(err, http.ErrNotSupported) {
			log.Warn("failed to extend write deadline", slog.String("error", err.Error()))
		}

		if r.ContentLength > maxSize {
			http.Error(w, "image too large", http.StatusRequestEntityTooLarge)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxSize)
		if err := r.ParseMultipartForm(maxSize); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, "image too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			http.Error(w, "image is required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		image, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, "failed to read image", http.StatusBadRequest)
			return
		}

		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" || mimeType == "application/octet-stream" {
			mimeType = http.DetectContentType(image)
		}

		var sess *runner.Session
		fieldID := r.FormValue("field_id")
		if raw := r.FormValue("session"); raw != "" {
			sess = &runner.Session{}
			if err := json.Unmarshal([]byte(raw), sess); err != nil {
				http.Error(w, "invalid session JSON", http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		vehicle, err := analyzer.AnalyzeVehicleImage(ctx, image, mimeType)
		if err != nil {
			httperr.Write(w, log, err)
			return
		}

		log.Info("image analyzed",
			slog.String("placa", vehicle.Placa),
			slog.Int("imei_count", len(vehicle.IMEI)),
		)

		resp := Response{Vehicle: *vehicle}
		if sess != nil && fieldID != "" {
			if err := sess.ApplyScan(fieldID, *vehicle); err != nil {
				httperr.Write(w, log, fmt.Errorf("%s: %w", op, err))
				return
			}
			resp.Session = sess
		}

		render.JSON(w, r, resp)
	}
}
