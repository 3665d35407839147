package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getdashboard "checkmaster/http-server/dashboard/get"
	generate_excel "checkmaster/http-server/generate-report/generate-excel"
	"checkmaster/http-server/generate-report/share"
	getorder "checkmaster/http-server/order/get"
	saveorder "checkmaster/http-server/order/save"
	"checkmaster/http-server/order/total"
	templatebuilder "checkmaster/http-server/template/builder"
	deletetemplate "checkmaster/http-server/template/delete"
	gettemplate "checkmaster/http-server/template/get"
	savetemplate "checkmaster/http-server/template/save"
	uptemplate "checkmaster/http-server/template/update"
	"checkmaster/http-server/vision/analyze"
	"checkmaster/internal/config"
	"checkmaster/internal/middleware/auth"
)

func routes(cfg config.Config, log *slog.Logger, a *app) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Route("/api", func(r chi.Router) {
		r.Get("/templates", gettemplate.GetAllTemplates(log, a.store))
		r.Get("/templates/{id}", gettemplate.GetTemplateByID(log, a.store))

		// template editing
		r.Group(func(r chi.Router) {
			r.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

			r.Post("/templates", savetemplate.SaveTemplate(log, a.store))
			r.Put("/templates/order", uptemplate.ReorderTemplates(log, a.store))
			r.Put("/templates/{id}", uptemplate.UpdateTemplate(log, a.store))
			r.Delete("/templates/{id}", deletetemplate.DeleteTemplate(log, a.store))
			r.Post("/templates/{id}/duplicate", uptemplate.DuplicateTemplate(log, a.store))
			r.Post("/templates/{id}/favorite", uptemplate.ToggleFavorite(log, a.store))

			r.Post("/templates/{id}/fields", templatebuilder.AddField(log, a.builder))
			r.Post("/templates/{id}/fields/move", templatebuilder.MoveField(log, a.builder))
			r.Delete("/templates/{id}/fields/{fieldID}", templatebuilder.RemoveField(log, a.builder))
			r.Post("/templates/{id}/fields/{fieldID}/options", templatebuilder.AddOption(log, a.builder))
			r.Delete("/templates/{id}/fields/{fieldID}/options/{optionID}", templatebuilder.RemoveOption(log, a.builder))
			r.Post("/templates/{id}/fields/{fieldID}/preset", templatebuilder.LoadOptionPreset(log, a.builder))
		})

		r.Get("/run/{templateID}", getorder.StartSession(log, a.runner))

		r.Get("/orders", getorder.GetAllOrders(log, a.store))
		r.Post("/orders", saveorder.FinishInspection(log, a.runner))
		r.Post("/orders/total", total.CalculateTotal(log, a.runner))
		r.Get("/orders/{id}", getorder.GetOrderByID(log, a.store))
		r.Get("/orders/{id}/session", getorder.EditSession(log, a.runner))
		r.Get("/orders/{id}/export.csv", share.ExportCSV(log, a.store))
		r.Get("/orders/{id}/export.xlsx", generate_excel.GenerateOrderExcel(log, a.excel))
		r.Get("/orders/{id}/share", share.ShareOrder(log, a.store))

		r.Get("/dashboard", getdashboard.GetDashboard(log, a.dashboard))
		r.Get("/report/excel", generate_excel.GenerateReportExcel(log, a.excel))

		r.Post("/vision/analyze", analyze.AnalyzeImage(log, a.analyzer, cfg.Vision.MaxImageSize, cfg.Vision.Timeout))
	})

	mountFrontend(router, log, cfg.FrontendDir)

	return router
}

// mountFrontend serves the built SPA: existing files as-is, any other path
// falls back to index.html.
func mountFrontend(router chi.Router, log *slog.Logger, frontendDir string) {
	if info, err := os.Stat(frontendDir); err != nil || !info.IsDir() {
		log.Warn("frontend directory not found, serving API only", slog.String("path", frontendDir))
		return
	}

	index := filepath.Join(frontendDir, "index.html")

	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(frontendDir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, index)
	})
}
