package routes

import (
	"net/http"

	"discount-system/vitrina/internal/api"
	"discount-system/vitrina/internal/jobs"
	"discount-system/vitrina/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// RegisterAPIRoutes registers the JSON endpoints under /api
func RegisterAPIRoutes(
	r chi.Router,
	deps *api.Dependencies,
	syncJob *jobs.DiscountSyncJob,
	identity func(http.Handler) http.Handler,
	uploadLimiter *middleware.RateLimiter,
) {
	handlers := api.NewHandlers(deps)
	jobsHandler := api.NewJobsHandler(syncJob)

	r.Route("/api", func(apiR chi.Router) {
		apiR.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"https://*", "http://localhost:*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "X-User-Name", "X-User-Roles"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300, // Maximum value not ignored by any of major browsers
		}))
		apiR.Use(identity) // every API call carries a gateway identity

		apiR.Get("/discounts", handlers.GetDiscounts())
		apiR.Get("/discounts/matrix", handlers.GetDiscountMatrix())
		apiR.Get("/dashboard", handlers.GetDashboard())
		apiR.Get("/user/details", handlers.CurrentUser())

		// Admin-only group
		apiR.Group(func(admin chi.Router) {
			admin.Use(middleware.IsAdminMiddleware())
			admin.Get("/sync/runs", handlers.ListSyncRuns())

			admin.Group(func(limited chi.Router) {
				limited.Use(uploadLimiter.Middleware)
				limited.Post("/sync", handlers.UploadSync())
				limited.Post("/sync/run", jobsHandler.TriggerSync())
			})
		})
	})
}
