package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"discount-system/vitrina/internal/common"
	"discount-system/vitrina/internal/config"
	"discount-system/vitrina/internal/constants"
	"discount-system/vitrina/internal/db"
	"discount-system/vitrina/internal/db/repositories"
	"discount-system/vitrina/internal/logging"
	"discount-system/vitrina/internal/providers"
	"discount-system/vitrina/internal/services"
)

// One-shot spreadsheet sync. Exits non-zero when the batch fails.
func main() {
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	path := flag.String("file", cfg.ExcelFilePath, "path to the .xlsx workbook")
	sheet := flag.String("sheet", cfg.ExcelSheetName, "sheet to read (first sheet when empty)")
	flag.Parse()

	if *path == "" {
		log.Fatal("❌ No workbook given: pass -file or set EXCEL_FILE_PATH")
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	gdb, err := db.InitORM(cfg.DBDriver, cfg.DSN())
	if err != nil {
		logging.Fatal("Failed to connect to database", "error", err.Error())
	}

	// Cache invalidation only reaches a shared backend; an in-memory cache here would be private to this process
	var cache common.CacheInterface
	if cfg.CacheBackend == config.CacheRedis {
		redisCache, err := common.NewRedisCacheService(common.NewRedisClient(cfg.RedisAddr(), cfg.RedisPassword))
		if err != nil {
			logging.Warn("Redis unavailable, cached discounts expire on their own", "error", err)
		} else {
			cache = redisCache
			defer cache.Close()
		}
	}

	var notifier common.Notifier
	if cfg.Mail.Enabled() {
		notifier = common.NewMailer(common.MailerConfig{
			Server:      cfg.Mail.Server,
			Port:        cfg.Mail.Port,
			From:        cfg.Mail.From,
			Password:    cfg.Mail.Password,
			MaxAttempts: cfg.Mail.MaxAttempts,
		})
	}

	columns := cfg.ExcelColumns
	if len(columns) == 0 {
		columns = constants.DiscountColumns
	}

	syncSvc := services.NewDiscountSyncService(
		gdb,
		providers.NewSpreadsheetProvider(*sheet),
		cache,
		repositories.NewSyncRunRepo(gdb),
		nil,
		notifier,
		cfg.Mail.NotifyTo,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := syncSvc.SyncFromFile(ctx, constants.SyncTriggerFile, *path, providers.ReadOptions{Sheet: *sheet, Columns: columns})
	syncSvc.WaitNotifications()
	if err != nil {
		logging.Error("Sync failed", "file", *path, "error", err.Error())
		logging.Close()
		os.Exit(1)
	}

	logging.Info("Sync completed",
		"file", *path,
		"batch_id", report.BatchID,
		"rows", report.RowsTotal,
		"created", report.Created,
		"updated", report.Updated,
		"skipped", len(report.Skipped),
	)
}
