package routes

import (
	"net/http"

	"discount-system/vitrina/internal/api"
	"discount-system/vitrina/internal/middleware"
	"discount-system/vitrina/internal/ui"

	"github.com/go-chi/chi/v5"
)

// RegisterUIRoutes registers the HTML pages
func RegisterUIRoutes(
	r chi.Router,
	deps *api.Dependencies,
	renderer *ui.Renderer,
	identity func(http.Handler) http.Handler,
	uploadLimiter *middleware.RateLimiter,
) {
	cfg := deps.Config

	handler := ui.NewUIHandler(
		deps.Services.Dashboard,
		deps.Services.Sync,
		deps.Services.Flash,
		renderer,
		ui.Options{
			Columns:        cfg.ExcelColumns,
			Sheet:          cfg.ExcelSheetName,
			MaxUploadBytes: cfg.MaxUploadBytes,
			CookiePath:     cfg.CookiePath(),
		},
	)

	r.Group(func(pages chi.Router) {
		pages.Use(identity)

		pages.Get("/", handler.Index)
		pages.Post("/theme", handler.SetTheme)

		// Admin pages
		pages.Group(func(admin chi.Router) {
			admin.Use(middleware.IsAdminMiddleware())
			admin.Get("/upload-excel", handler.UploadExcelPage)
			admin.Post("/upload-comment", handler.UploadComment)

			admin.With(uploadLimiter.Middleware).Post("/upload-excel", handler.UploadExcel)
		})
	})
}
