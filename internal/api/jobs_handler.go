package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"discount-system/vitrina/internal/auth"
	"discount-system/vitrina/internal/common"
	"discount-system/vitrina/internal/constants"
	"discount-system/vitrina/internal/jobs"
	"discount-system/vitrina/internal/logging"
	"discount-system/vitrina/internal/models/dtos"
	"discount-system/vitrina/internal/services"
)

// JobsHandler handles manual job triggering endpoints
type JobsHandler struct {
	syncJob *jobs.DiscountSyncJob
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(syncJob *jobs.DiscountSyncJob) *JobsHandler {
	return &JobsHandler{
		syncJob: syncJob,
	}
}

// TriggerSync manually runs the spreadsheet sync from EXCEL_FILE_PATH
// @Summary Trigger discount sync
// @Description Re-reads the configured spreadsheet and applies it as one batch
// @Tags admin,jobs
// @Produce json
// @Success 200 {object} responses.APIResponse[TriggerSyncResult]
// @Failure 400 {object} responses.APIResponse[any]
// @Failure 403 {object} responses.APIResponse[any]
// @Failure 500 {object} responses.APIResponse[any]
// @Router /api/sync/run [post]
func (h *JobsHandler) TriggerSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		triggeredBy := ""
		if claims := auth.GetUserClaims(r.Context()); claims != nil {
			triggeredBy = claims.Login()
		}

		logging.Info("Discount sync manually triggered", "login", triggeredBy)

		report, err := h.syncJob.Run(r.Context(), constants.SyncTriggerFile)
		if err != nil {
			logging.Error("Manual discount sync failed", "login", triggeredBy, "error", err)
			status := http.StatusInternalServerError
			if errors.Is(err, jobs.ErrNoSourceConfigured) || services.IsSourceError(err) {
				status = http.StatusBadRequest
			}
			respondWithError(w, status, fmt.Sprintf("Failed to run sync: %v", err))
			return
		}

		result := TriggerSyncResult{
			TriggeredBy:  triggeredBy,
			TriggeredAt:  start.UTC().Format(time.RFC3339),
			CompletedAt:  time.Now().UTC().Format(time.RFC3339),
			DurationMs:   time.Since(start).Milliseconds(),
			ResponseTime: common.GetResponseTime(start),
			Report:       report,
		}
		respondWithSuccess(w, http.StatusOK, "Discount sync completed successfully", &result)
	}
}

type TriggerSyncResult struct {
	TriggeredBy  string           `json:"triggered_by"`
	TriggeredAt  string           `json:"triggered_at"`
	CompletedAt  string           `json:"completed_at"`
	DurationMs   int64            `json:"duration_ms"`
	ResponseTime string           `json:"response_time"`
	Report       *dtos.SyncReport `json:"report"`
}
