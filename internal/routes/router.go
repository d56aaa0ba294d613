package routes

import (
	"fmt"
	"net/http"
	"time"

	"discount-system/vitrina/internal/api"
	"discount-system/vitrina/internal/auth"
	"discount-system/vitrina/internal/jobs"
	"discount-system/vitrina/internal/logging"
	"discount-system/vitrina/internal/middleware"
	"discount-system/vitrina/internal/ui"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func RegisterRoutes(deps *api.Dependencies, syncJob *jobs.DiscountSyncJob, upSince time.Time) (http.Handler, error) {
	cfg := deps.Config
	prefix := cfg.PathPrefix()

	renderer, err := ui.NewRenderer(prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	r.Use(middleware.ThemeMiddleware)
	if cfg.AppEnv == "development" {
		r.Use(middleware.GatewayHeaderLogging)
	}

	identity := middleware.IdentityMiddleware(auth.NewGatewayIdentityProvider(), deps.Services.Users)
	uploadLimiter := middleware.NewRateLimiter(cfg.UploadRatePerMin, 2)

	mount := func(root chi.Router) {
		// health check
		root.Get("/healthCheck", api.HealthCheckHandler(deps.Repo.Matrix, deps.Repo.SyncRuns, upSince))

		// Static files (CSS, JS) from the embedded tree
		fileServer := http.FileServer(http.FS(ui.StaticFS()))
		root.Handle("/static/*", http.StripPrefix(prefix+"/static/", fileServer))

		RegisterAPIRoutes(root, deps, syncJob, identity, uploadLimiter)
		RegisterUIRoutes(root, deps, renderer, identity, uploadLimiter)
	}

	if prefix == "" {
		mount(r)
	} else {
		r.Route(prefix, mount)
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, prefix+"/", http.StatusFound)
		})
	}

	logging.Info("Router initialized", "prefix", prefix, "environment", cfg.AppEnv)
	return r, nil
}
