package jobs

import (
	"context"
	"errors"
	"time"

	"discount-system/vitrina/internal/constants"
	"discount-system/vitrina/internal/db/repositories"
	"discount-system/vitrina/internal/logging"
	"discount-system/vitrina/internal/models/dtos"
	"discount-system/vitrina/internal/providers"
	"discount-system/vitrina/internal/services"
)

var ErrNoSourceConfigured = errors.New("no spreadsheet path configured")

// DiscountSyncJob re-reads the configured spreadsheet and applies it
type DiscountSyncJob struct {
	sync *services.DiscountSyncService
	runs *repositories.SyncRunRepo
	path string
	opts providers.ReadOptions
}

// NewDiscountSyncJob creates a new discount sync job instance
func NewDiscountSyncJob(
	sync *services.DiscountSyncService,
	runs *repositories.SyncRunRepo,
	path string,
	opts providers.ReadOptions,
) *DiscountSyncJob {
	return &DiscountSyncJob{
		sync: sync,
		runs: runs,
		path: path,
		opts: opts,
	}
}

// Path is the spreadsheet the job reads
func (j *DiscountSyncJob) Path() string {
	return j.path
}

// Run executes one batch with the given trigger
func (j *DiscountSyncJob) Run(ctx context.Context, trigger string) (*dtos.SyncReport, error) {
	if j.path == "" {
		return nil, ErrNoSourceConfigured
	}

	start := time.Now()
	logging.Info("Discount sync job started", "trigger", trigger, "path", j.path)

	report, err := j.sync.SyncFromFile(ctx, trigger, j.path, j.opts)
	if err != nil {
		return nil, err
	}

	logging.Info("Discount sync job completed",
		"trigger", trigger,
		"duration", time.Since(start).Truncate(time.Millisecond).String(),
		"applied", report.RowsApplied(),
		"skipped", len(report.Skipped),
	)
	return report, nil
}

// RunScheduled runs the job every interval until ctx is cancelled
func (j *DiscountSyncJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if j.shouldRunInitialSync(ctx, interval) {
		if _, err := j.Run(ctx, constants.SyncTriggerScheduled); err != nil {
			logging.Error("Discount sync job failed in initial run", "error", err)
		}
	}

	for {
		select {
		case <-ticker.C:
			if _, err := j.Run(ctx, constants.SyncTriggerScheduled); err != nil {
				logging.Error("Discount sync job failed in scheduled run", "error", err)
			}
		case <-ctx.Done():
			logging.Info("Discount sync job shutting down")
			return
		}
	}
}

// shouldRunInitialSync is true when no batch succeeded within the last interval
func (j *DiscountSyncJob) shouldRunInitialSync(ctx context.Context, interval time.Duration) bool {
	last, err := j.runs.GetLastSuccess(ctx)
	if err != nil {
		logging.Warn("Could not read last sync time, running sync anyway", "error", err)
		return true
	}

	if last == nil {
		logging.Info("No previous sync found, running initial sync")
		return true
	}

	since := time.Since(last.FinishedAt)
	if since > interval {
		logging.Info("Last sync is older than the interval, running sync", "since", since.Truncate(time.Minute).String())
		return true
	}

	logging.Info("Last sync is recent, skipping initial sync", "since", since.Truncate(time.Minute).String())
	return false
}
