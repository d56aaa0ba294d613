package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"discount-system/vitrina/internal/auth"
	"discount-system/vitrina/internal/common"
	"discount-system/vitrina/internal/constants"
	"discount-system/vitrina/internal/logging"
	"discount-system/vitrina/internal/models/dtos"
	"discount-system/vitrina/internal/providers"
	"discount-system/vitrina/internal/services"
)

const uploadMemory = 32 << 20

// UploadSync handles POST /api/sync
//
// @Summary      Upload a discount spreadsheet
// @Description  Applies the uploaded workbook as one batch and returns the batch report.
// @Tags         Sync
// @Accept       multipart/form-data
// @Produce      json
// @Param        excel_file  formData  file    true   "Workbook (.xlsx)"
// @Param        sheet_name  formData  string  false  "Sheet to read"
// @Success      200  {object}  responses.APIResponse[dtos.SyncReport]
// @Failure      400  {object}  responses.APIResponse[any]
// @Failure      403  {object}  responses.APIResponse[any]
// @Failure      413  {object}  responses.APIResponse[any]
// @Failure      500  {object}  responses.APIResponse[any]
// @Router       /api/sync [post]
func (h *Handlers) UploadSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > h.deps.Config.MaxUploadBytes {
			respondWithError(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.deps.Config.MaxUploadBytes)

		file, header, err := common.UploadedFile(r, "excel_file", uploadMemory)
		if err != nil {
			switch {
			case common.IsBodyTooLarge(err):
				respondWithError(w, http.StatusRequestEntityTooLarge, "File is too large")
			case errors.Is(err, common.ErrNoFilePart), errors.Is(err, common.ErrNoSelectedFile):
				respondWithError(w, http.StatusBadRequest, err.Error())
			default:
				respondWithError(w, http.StatusBadRequest, "Invalid multipart form")
			}
			return
		}
		defer file.Close()

		opts := providers.ReadOptions{Sheet: strings.TrimSpace(r.FormValue("sheet_name"))}

		login := ""
		if claims := auth.GetUserClaims(r.Context()); claims != nil {
			login = claims.Login()
		}
		logging.Info("Spreadsheet upload received", "login", login, "filename", header.Filename, "size", header.Size)

		report, err := h.deps.Services.Sync.SyncFromUpload(r.Context(), header.Filename, file, opts)
		if err != nil {
			if services.IsSourceError(err) {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithSuccess(w, http.StatusOK, constants.MsgDataUpdated, report)
	}
}

// ListSyncRuns handles GET /api/sync/runs
// Returns the most recent batches, newest first. `limit` defaults to 20.
func (h *Handlers) ListSyncRuns() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > 200 {
				respondWithError(w, http.StatusBadRequest, "limit must be between 1 and 200")
				return
			}
			limit = n
		}

		runs, err := h.deps.Services.Dashboard.RecentRuns(r.Context(), limit)
		if err != nil {
			logging.Error("Failed to list sync runs", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to list sync runs")
			return
		}
		if runs == nil {
			runs = []dtos.SyncRunView{}
		}
		respondWithSuccess(w, http.StatusOK, "", &runs)
	}
}

// CurrentUser handles GET /api/user/details
// Returns the identity the gateway headers resolved to.
func (h *Handlers) CurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized: missing claims")
			return
		}

		details := dtos.UserDetails{
			Login:    claims.Login(),
			FullName: claims.FullName(),
			Role:     string(claims.Role()),
			IsAdmin:  claims.IsAdmin(),
		}
		respondWithSuccess(w, http.StatusOK, "", &details)
	}
}
