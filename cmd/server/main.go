package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"discount-system/vitrina/internal/api"
	"discount-system/vitrina/internal/config"
	"discount-system/vitrina/internal/constants"
	"discount-system/vitrina/internal/db"
	"discount-system/vitrina/internal/jobs"
	"discount-system/vitrina/internal/logging"
	"discount-system/vitrina/internal/metrics"
	"discount-system/vitrina/internal/providers"
	"discount-system/vitrina/internal/routes"
	"discount-system/vitrina/internal/workers"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @title Discount Showcase API
// @version 1.0
// @description Discount lookup and spreadsheet sync for the sales team.
// @BasePath /
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Vitrina starting up",
		"environment", cfg.AppEnv,
		"db_driver", cfg.DBDriver,
		"cache_backend", cfg.CacheBackend,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	// Connect to DB with GORM (schema is migrated here)
	gdb, err := db.InitORM(cfg.DBDriver, cfg.DSN())
	if err != nil {
		logging.Fatal("Failed to connect to database (GORM)", "error", err.Error())
	}

	// Read side with sqlx
	readDB, err := db.InitReadDB(cfg.DBDriver, cfg.DSN(), gdb)
	if err != nil {
		logging.Fatal("Failed to connect to database (sqlx)", "error", err.Error())
	}

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	deps, err := api.InitDependencies(cfg, gdb, readDB, metricsReg)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err.Error())
	}
	defer deps.Services.Cache.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncJob := jobs.InitializeJobs(
		ctx,
		deps.Services.Sync,
		deps.Repo.SyncRuns,
		cfg.ExcelFilePath,
		providers.ReadOptions{Sheet: cfg.ExcelSheetName, Columns: readColumns(cfg)},
		cfg.SyncInterval,
	)
	workers.InitWorkers(ctx, deps.Services.Dashboard, 4*time.Minute)

	upSince := time.Now()

	router, err := routes.RegisterRoutes(deps, syncJob, upSince)
	if err != nil {
		logging.Fatal("Failed to build router", "error", err.Error())
	}

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router) // Mount Chi router at root
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "addr", cfg.HTTPAddr, "prefix", cfg.PathPrefix())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed", "error", err.Error())
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
}

// readColumns is EXCEL_COLUMNS, or the discount columns when unset
func readColumns(cfg config.Config) []string {
	if len(cfg.ExcelColumns) > 0 {
		return cfg.ExcelColumns
	}
	return constants.DiscountColumns
}
