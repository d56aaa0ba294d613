package jobs

import (
	"context"
	"time"

	"discount-system/vitrina/internal/db/repositories"
	"discount-system/vitrina/internal/logging"
	"discount-system/vitrina/internal/providers"
	"discount-system/vitrina/internal/services"
)

// InitializeJobs builds the sync job and, when interval is positive and a path is set,
// starts its schedule in the background
func InitializeJobs(
	ctx context.Context,
	sync *services.DiscountSyncService,
	runs *repositories.SyncRunRepo,
	path string,
	opts providers.ReadOptions,
	interval time.Duration,
) *DiscountSyncJob {
	job := NewDiscountSyncJob(sync, runs, path, opts)

	if path == "" || interval <= 0 {
		logging.Info("Scheduled discount sync disabled", "path", path, "interval", interval.String())
		return job
	}

	go job.RunScheduled(ctx, interval)
	logging.Info("Scheduled discount sync started", "path", path, "interval", interval.String())

	return job
}
