package ui

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"discount-system/vitrina/internal/auth"
	"discount-system/vitrina/internal/common"
	"discount-system/vitrina/internal/constants"
	"discount-system/vitrina/internal/logging"
	"discount-system/vitrina/internal/middleware"
	"discount-system/vitrina/internal/providers"
	"discount-system/vitrina/internal/services"
)

const (
	uploadMemory = 32 << 20
	recentRuns   = 10
	themeMaxAge  = 365 * 24 * 60 * 60
)

// Options carries the settings the pages display or enforce
type Options struct {
	Columns        []string
	Sheet          string
	MaxUploadBytes int64
	CookiePath     string
}

// UIHandler manages all UI routes
type UIHandler struct {
	dashboard *services.DashboardService
	sync      *services.DiscountSyncService
	flash     *common.FlashService
	renderer  *Renderer
	opts      Options
}

// NewUIHandler creates a new UI handler
func NewUIHandler(
	dashboard *services.DashboardService,
	sync *services.DiscountSyncService,
	flash *common.FlashService,
	renderer *Renderer,
	opts Options,
) *UIHandler {
	if opts.CookiePath == "" {
		opts.CookiePath = "/"
	}
	return &UIHandler{
		dashboard: dashboard,
		sync:      sync,
		flash:     flash,
		renderer:  renderer,
		opts:      opts,
	}
}

func (h *UIHandler) pageData(w http.ResponseWriter, r *http.Request, title string) map[string]interface{} {
	data := map[string]interface{}{
		"Title":   title,
		"Theme":   middleware.ThemeFromContext(r.Context()),
		"Flashes": h.flash.Pop(w, r),
		"User":    nil,
	}
	if claims := auth.GetUserClaims(r.Context()); claims != nil {
		data["User"] = claims
	}
	return data
}

// Index renders the dashboard: catalogs for the lookup form and the newest comment
func (h *UIHandler) Index(w http.ResponseWriter, r *http.Request) {
	view, err := h.dashboard.Load(r.Context())
	if err != nil {
		logging.Error("Dashboard load failed", "error", err)
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	data := h.pageData(w, r, "Витрина скидок")
	data["View"] = view
	data["MaxCommentLength"] = constants.MaxCommentLength
	_ = h.renderer.Render(w, http.StatusOK, PageDashboard, data)
}

// UploadExcelPage renders the admin upload form with recent sync runs
func (h *UIHandler) UploadExcelPage(w http.ResponseWriter, r *http.Request) {
	h.renderUpload(w, r, http.StatusOK, nil)
}

func (h *UIHandler) renderUpload(w http.ResponseWriter, r *http.Request, status int, extra *common.Flash) {
	data := h.pageData(w, r, "Загрузка данных")
	if extra != nil {
		flashes, _ := data["Flashes"].([]common.Flash)
		data["Flashes"] = append(flashes, *extra)
	}

	runs, err := h.dashboard.RecentRuns(r.Context(), recentRuns)
	if err != nil {
		logging.Warn("Failed to list sync runs", "error", err)
	}

	columns := h.opts.Columns
	if len(columns) == 0 {
		columns = constants.DiscountColumns
	}

	data["Columns"] = columns
	data["Sheet"] = h.opts.Sheet
	data["Runs"] = runs
	_ = h.renderer.Render(w, status, PageUpload, data)
}

// UploadExcel applies an uploaded workbook. Success redirects to the dashboard;
// a failed batch re-renders the upload page with the error.
func (h *UIHandler) UploadExcel(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)

	file, header, err := common.UploadedFile(r, "excel_file", uploadMemory)
	if err != nil {
		msg := err.Error()
		switch {
		case common.IsBodyTooLarge(err):
			msg = "File is too large"
		case errors.Is(err, common.ErrNoFilePart), errors.Is(err, common.ErrNoSelectedFile):
		default:
			msg = constants.MsgSyncFailedPrefix + err.Error()
		}
		h.addFlash(w, r, common.FlashError, msg)
		http.Redirect(w, r, h.renderer.URL("/upload-excel"), http.StatusFound)
		return
	}
	defer file.Close()

	opts := providers.ReadOptions{Sheet: strings.TrimSpace(r.FormValue("sheet_name"))}

	login := ""
	if claims := auth.GetUserClaims(r.Context()); claims != nil {
		login = claims.Login()
	}

	report, err := h.sync.SyncFromUpload(r.Context(), header.Filename, file, opts)
	if err != nil {
		logging.Error("Spreadsheet upload failed", "login", login, "filename", header.Filename, "error", err)
		h.renderUpload(w, r, http.StatusOK, &common.Flash{
			Category: common.FlashError,
			Message:  constants.MsgSyncFailedPrefix + err.Error(),
		})
		return
	}

	logging.Info("Spreadsheet upload applied",
		"login", login,
		"filename", header.Filename,
		"batch_id", report.BatchID,
		"applied", report.RowsApplied(),
		"skipped", len(report.Skipped),
	)
	h.addFlash(w, r, common.FlashSuccess, constants.MsgDataUpdated)
	http.Redirect(w, r, h.renderer.URL("/"), http.StatusFound)
}

// UploadComment stores a dashboard note and returns to the referring page
func (h *UIHandler) UploadComment(w http.ResponseWriter, r *http.Request) {
	_, err := h.dashboard.AddComment(r.Context(), r.FormValue("comment_text"))
	switch {
	case err == nil:
		h.addFlash(w, r, common.FlashSuccess, constants.MsgCommentAdded)
	case errors.Is(err, services.ErrCommentEmpty):
		h.addFlash(w, r, common.FlashError, constants.MsgCommentEmpty)
	case errors.Is(err, services.ErrCommentTooLong):
		h.addFlash(w, r, common.FlashError, constants.MsgCommentTooLong)
	default:
		logging.Error("Failed to add comment", "error", err)
		h.addFlash(w, r, common.FlashError, "Error adding comment: "+err.Error())
	}

	http.Redirect(w, r, h.backURL(r), http.StatusFound)
}

// SetTheme stores the theme preference in the gh_theme cookie
func (h *UIHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	theme := r.FormValue("theme")
	if theme == "" {
		theme = middleware.ThemeLight
	}
	if !middleware.IsValidTheme(theme) {
		http.Error(w, "Unknown theme", http.StatusBadRequest)
		return
	}

	// Readable from JS so the theme applies before first paint
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.ThemeCookieName,
		Value:    theme,
		Path:     h.opts.CookiePath,
		MaxAge:   themeMaxAge,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "theme": theme})
}

func (h *UIHandler) addFlash(w http.ResponseWriter, r *http.Request, category, message string) {
	if err := h.flash.Add(w, r, category, message); err != nil {
		logging.Warn("Failed to set flash", "error", err)
	}
}

// backURL is the referrer when it points at this host, the dashboard otherwise
func (h *UIHandler) backURL(r *http.Request) string {
	fallback := h.renderer.URL("/")

	ref := r.Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) {
		return fallback
	}
	if u.Path == "" {
		return fallback
	}
	back := u.Path
	if u.RawQuery != "" {
		back += "?" + u.RawQuery
	}
	return back
}
