package gorm

import "time"

// SyncRun records the outcome of one spreadsheet sync batch
type SyncRun struct {
	ID          string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	Trigger     string    `gorm:"column:trigger_kind;type:varchar(20);not null"`
	Source      string    `gorm:"column:source;type:varchar(255)"`
	Status      string    `gorm:"column:status;type:varchar(20);not null"`
	RowsTotal   int       `gorm:"column:rows_total"`
	RowsApplied int       `gorm:"column:rows_applied"`
	RowsSkipped int       `gorm:"column:rows_skipped"`
	Error       string    `gorm:"column:error;type:text"`
	StartedAt   time.Time `gorm:"column:started_at;not null;index"`
	FinishedAt  time.Time `gorm:"column:finished_at"`
}

// TableName specifies the table name for GORM
func (SyncRun) TableName() string {
	return "sync_runs"
}

// AllModels lists every table the service owns, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Complex{},
		&PropertyType{},
		&PaymentType{},
		&DiscountObject{},
		&User{},
		&Comment{},
		&SyncRun{},
	}
}
