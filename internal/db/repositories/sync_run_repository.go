package repositories

import (
	"context"
	"errors"

	"discount-system/vitrina/internal/constants"
	gormModels "discount-system/vitrina/internal/models/gorm"

	"gorm.io/gorm"
)

// SyncRunRepo handles sync history operations
type SyncRunRepo struct {
	db *gorm.DB
}

// NewSyncRunRepo creates a new sync history repository
func NewSyncRunRepo(db *gorm.DB) *SyncRunRepo {
	return &SyncRunRepo{db: db}
}

// RecordRun stores the outcome of one batch
func (r *SyncRunRepo) RecordRun(ctx context.Context, run *gormModels.SyncRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// ListRecent returns the newest runs first
func (r *SyncRunRepo) ListRecent(ctx context.Context, limit int) ([]gormModels.SyncRun, error) {
	var runs []gormModels.SyncRun

	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error

	return runs, err
}

// GetLastSuccess returns the most recent successful run, or nil
func (r *SyncRunRepo) GetLastSuccess(ctx context.Context) (*gormModels.SyncRun, error) {
	var run gormModels.SyncRun

	err := r.db.WithContext(ctx).
		Where("status = ?", constants.SyncStatusSuccess).
		Order("finished_at DESC").
		First(&run).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // No sync history found
		}
		return nil, err
	}

	return &run, nil
}
