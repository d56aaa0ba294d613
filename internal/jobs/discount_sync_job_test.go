package jobs

import (
	"context"
	"testing"
	"time"

	"discount-system/vitrina/internal/constants"
	"discount-system/vitrina/internal/db/repositories"
	gormModels "discount-system/vitrina/internal/models/gorm"
	"discount-system/vitrina/internal/providers"
	"discount-system/vitrina/internal/services"
	"discount-system/vitrina/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newJob(gdb *gorm.DB, path string) *DiscountSyncJob {
	runs := repositories.NewSyncRunRepo(gdb)
	svc := services.NewDiscountSyncService(gdb, providers.NewSpreadsheetProvider(""), nil, runs, nil, nil, "")
	return NewDiscountSyncJob(svc, runs, path, providers.ReadOptions{Columns: constants.DiscountColumns})
}

func TestDiscountSyncJob_Run(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	job := newJob(gdb, testutil.WriteWorkbook(t, testutil.DiscountSheet()))

	report, err := job.Run(context.Background(), constants.SyncTriggerFile)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)

	var n int64
	require.NoError(t, gdb.Model(&gormModels.DiscountObject{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestDiscountSyncJob_NoPath(t *testing.T) {
	job := newJob(testutil.NewTestDB(t), "")
	_, err := job.Run(context.Background(), constants.SyncTriggerFile)
	assert.ErrorIs(t, err, ErrNoSourceConfigured)
}

func TestDiscountSyncJob_ShouldRunInitialSync(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	job := newJob(gdb, testutil.WriteWorkbook(t, testutil.DiscountSheet()))
	ctx := context.Background()

	assert.True(t, job.shouldRunInitialSync(ctx, time.Hour))

	_, err := job.Run(ctx, constants.SyncTriggerFile)
	require.NoError(t, err)
	assert.False(t, job.shouldRunInitialSync(ctx, time.Hour))
}

func TestDiscountSyncJob_RunScheduledStopsOnCancel(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	job := newJob(gdb, testutil.WriteWorkbook(t, testutil.DiscountSheet()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.RunScheduled(ctx, time.Hour)
		close(done)
	}()

	require.Eventually(t, func() bool {
		last, err := repositories.NewSyncRunRepo(gdb).GetLastSuccess(context.Background())
		return err == nil && last != nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
