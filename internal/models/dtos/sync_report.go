package dtos

import "time"

// RowSkip explains why one spreadsheet row was left out of a batch
type RowSkip struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

// SyncReport summarises one committed sync batch
type SyncReport struct {
	BatchID              string        `json:"batch_id"`
	Trigger              string        `json:"trigger"`
	Source               string        `json:"source"`
	RowsTotal            int           `json:"rows_total"`
	Created              int           `json:"created"`
	Updated              int           `json:"updated"`
	Skipped              []RowSkip     `json:"skipped"`
	ComplexesCreated     int           `json:"complexes_created"`
	PropertyTypesCreated int           `json:"property_types_created"`
	PaymentTypesCreated  int           `json:"payment_types_created"`
	StartedAt            time.Time     `json:"started_at"`
	Duration             time.Duration `json:"duration"`
}

// RowsApplied counts rows that created or updated a discount.
func (r *SyncReport) RowsApplied() int {
	return r.Created + r.Updated
}

// SyncRunView is a sync_runs record for the admin page
type SyncRunView struct {
	ID          string    `json:"id"`
	Trigger     string    `json:"trigger"`
	Source      string    `json:"source"`
	Status      string    `json:"status"`
	RowsTotal   int       `json:"rows_total"`
	RowsApplied int       `json:"rows_applied"`
	RowsSkipped int       `json:"rows_skipped"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}
