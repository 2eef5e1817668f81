package handlers

import (
	"net/http"
	"strconv"

	"github.com/snaplink/snaplink/internal/middleware"
	"github.com/snaplink/snaplink/internal/services"
)

// Analytics window bounds for the days query parameter.
const (
	minWindowDays = 1
	maxWindowDays = 365
)

// CleanupResponse reports the outcome of a retention sweep.
type CleanupResponse struct {
	Deleted    int64 `json:"deleted"`
	DaysToKeep int   `json:"days_to_keep"`
}

// AnalyticsHandler handles click analytics endpoints.
type AnalyticsHandler struct {
	service       services.AnalyticsService
	defaultWindow int
	retentionDays int
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(svc services.AnalyticsService, defaultWindow, retentionDays int) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:       svc,
		defaultWindow: defaultWindow,
		retentionDays: retentionDays,
	}
}

// URLAnalytics handles GET /analytics/{code} requests.
func (h *AnalyticsHandler) URLAnalytics(w http.ResponseWriter, r *http.Request) {
	days, ok := h.windowDays(w, r)
	if !ok {
		return
	}

	summary, err := h.service.SummarizeURL(r.Context(), r.PathValue("code"), days)
	if err != nil {
		status, errResp := mapErrorToResponse(err)
		writeJSON(w, status, errResp)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// GlobalAnalytics handles GET /analytics/global requests.
func (h *AnalyticsHandler) GlobalAnalytics(w http.ResponseWriter, r *http.Request) {
	days, ok := h.windowDays(w, r)
	if !ok {
		return
	}

	summary, err := h.service.SummarizeGlobal(r.Context(), days)
	if err != nil {
		status, errResp := mapErrorToResponse(err)
		writeJSON(w, status, errResp)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// UserAnalytics handles GET /user/analytics requests for the authenticated
// user's links.
func (h *AnalyticsHandler) UserAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required", Code: "UNAUTHORIZED"})
		return
	}

	days, ok := h.windowDays(w, r)
	if !ok {
		return
	}

	summary, err := h.service.SummarizeUser(r.Context(), userID, days)
	if err != nil {
		status, errResp := mapErrorToResponse(err)
		writeJSON(w, status, errResp)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Cleanup handles POST /admin/analytics/cleanup requests. The optional
// days_to_keep query parameter overrides the configured retention horizon.
func (h *AnalyticsHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	daysToKeep := h.retentionDays
	if v := r.URL.Query().Get("days_to_keep"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "days_to_keep must be a positive integer", Code: "INVALID_DAYS"})
			return
		}
		daysToKeep = n
	}

	deleted, err := h.service.CleanupOldClicks(r.Context(), daysToKeep)
	if err != nil {
		status, errResp := mapErrorToResponse(err)
		writeJSON(w, status, errResp)
		return
	}

	writeJSON(w, http.StatusOK, CleanupResponse{
		Deleted:    deleted,
		DaysToKeep: daysToKeep,
	})
}

// windowDays parses the days query parameter, falling back to the
// configured default.
func (h *AnalyticsHandler) windowDays(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("days")
	if v == "" {
		return h.defaultWindow, true
	}

	days, err := strconv.Atoi(v)
	if err != nil || days < minWindowDays || days > maxWindowDays {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "days must be between 1 and 365", Code: "INVALID_DAYS"})
		return 0, false
	}
	return days, true
}
