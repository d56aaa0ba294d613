package api

import (
	"time"

	"discount-system/vitrina/internal/common"
	"discount-system/vitrina/internal/config"
	"discount-system/vitrina/internal/db/repositories"
	"discount-system/vitrina/internal/logging"
	"discount-system/vitrina/internal/metrics"
	"discount-system/vitrina/internal/providers"
	"discount-system/vitrina/internal/services"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

type Repositories struct {
	Catalog   *repositories.CatalogRepo
	Discounts *repositories.DiscountRepo
	Matrix    *repositories.DiscountMatrixRepo
	Users     *repositories.UserRepositoryGORM
	Comments  *repositories.CommentRepo
	SyncRuns  *repositories.SyncRunRepo
}

type Services struct {
	Cache     common.CacheInterface
	Flash     *common.FlashService
	Notifier  common.Notifier
	Source    providers.TabularSource
	Users     *services.UserService
	Sync      *services.DiscountSyncService
	Discounts *services.DiscountQueryService
	Dashboard *services.DashboardService
}

type Dependencies struct {
	Config   config.Config
	Metrics  *metrics.MetricsRegistry
	Repo     *Repositories
	Services *Services
}

func InitDependencies(cfg config.Config, gdb *gorm.DB, readDB *sqlx.DB, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		Catalog:   repositories.NewCatalogRepo(gdb),
		Discounts: repositories.NewDiscountRepo(gdb),
		Matrix:    repositories.NewDiscountMatrixRepo(readDB),
		Users:     repositories.NewUserRepositoryGORM(gdb),
		Comments:  repositories.NewCommentRepo(gdb),
		SyncRuns:  repositories.NewSyncRunRepo(gdb),
	}

	cacheSvc := newCache(cfg)

	var notifier common.Notifier
	if cfg.Mail.Enabled() {
		notifier = common.NewMailer(common.MailerConfig{
			Server:      cfg.Mail.Server,
			Port:        cfg.Mail.Port,
			From:        cfg.Mail.From,
			Password:    cfg.Mail.Password,
			MaxAttempts: cfg.Mail.MaxAttempts,
			BaseDelay:   2 * time.Second,
		})
		logging.Info("Sync notifications enabled", "to", cfg.Mail.NotifyTo)
	}

	source := providers.NewSpreadsheetProvider(cfg.ExcelSheetName)

	discountTTL := services.LocalDiscountCacheTTL
	if _, shared := cacheSvc.(*common.RedisCacheService); shared {
		discountTTL = services.SharedDiscountCacheTTL
	}

	svcs := &Services{
		Cache:     cacheSvc,
		Flash:     common.NewFlashService([]byte(cfg.SecretKey), cfg.CookiePath()),
		Notifier:  notifier,
		Source:    source,
		Users:     services.NewUserService(repos.Users),
		Sync:      services.NewDiscountSyncService(gdb, source, cacheSvc, repos.SyncRuns, metricsReg, notifier, cfg.Mail.NotifyTo),
		Discounts: services.NewDiscountQueryService(repos.Discounts, repos.Matrix, cacheSvc, discountTTL, metricsReg),
		Dashboard: services.NewDashboardService(repos.Catalog, repos.Comments, repos.SyncRuns, cacheSvc),
	}

	return &Dependencies{
		Config:   cfg,
		Metrics:  metricsReg,
		Repo:     repos,
		Services: svcs,
	}, nil

}

// newCache picks the configured backend and falls back to memory when Redis is unreachable
func newCache(cfg config.Config) common.CacheInterface {
	if cfg.CacheBackend == config.CacheRedis {
		client := common.NewRedisClient(cfg.RedisAddr(), cfg.RedisPassword)
		redisCache, err := common.NewRedisCacheService(client)
		if err == nil {
			logging.Info("Using Redis cache", "addr", cfg.RedisAddr())
			return redisCache
		}
		logging.Warn("Redis unavailable, falling back to in-memory cache", "error", err)
		_ = client.Close()
	}
	return common.NewCacheService(600, 60)
}
