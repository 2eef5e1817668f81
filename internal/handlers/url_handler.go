// Package handlers contains HTTP request handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/snaplink/snaplink/internal/middleware"
	"github.com/snaplink/snaplink/internal/models"
	"github.com/snaplink/snaplink/internal/services"
	"github.com/snaplink/snaplink/internal/shortcode"
)

// Pagination bounds for listing endpoints.
const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ShortenRequest represents the request body for creating a short URL.
type ShortenRequest struct {
	URL string `json:"url"`
}

// ShortenResponse represents the response for a successfully created short URL.
type ShortenResponse struct {
	ID          int64  `json:"id"`
	ShortURL    string `json:"short_url"`
	ShortCode   string `json:"short_code"`
	OriginalURL string `json:"original_url"`
	CreatedAt   string `json:"created_at"`
}

// URLInfoResponse represents the response for URL info retrieval.
type URLInfoResponse struct {
	ID          int64  `json:"id"`
	ShortCode   string `json:"short_code"`
	OriginalURL string `json:"original_url"`
	Clicks      int64  `json:"clicks"`
	CreatedAt   string `json:"created_at"`
}

// UpdateURLRequest represents the request body for changing a destination.
type UpdateURLRequest struct {
	URL string `json:"url"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// URLHandler handles short link management endpoints.
type URLHandler struct {
	service services.URLService
}

// NewURLHandler creates a new URLHandler.
func NewURLHandler(svc services.URLService) *URLHandler {
	return &URLHandler{service: svc}
}

// Shorten handles POST /shorten requests from anonymous callers.
func (h *URLHandler) Shorten(w http.ResponseWriter, r *http.Request) {
	h.shorten(w, r, nil)
}

// ShortenForUser handles POST /user/shorten requests. The created link is
// owned by the authenticated user.
func (h *URLHandler) ShortenForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required", Code: "UNAUTHORIZED"})
		return
	}
	h.shorten(w, r, &userID)
}

func (h *URLHandler) shorten(w http.ResponseWriter, r *http.Request, userID *int64) {
	var req ShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.service.Create(r.Context(), services.CreateURLRequest{
		OriginalURL: req.URL,
		UserID:      userID,
	})
	if err != nil {
		status, errResp := mapErrorToResponse(err)
		writeJSON(w, status, errResp)
		return
	}

	writeJSON(w, http.StatusCreated, ShortenResponse{
		ID:          resp.ID,
		ShortURL:    resp.ShortURL,
		ShortCode:   resp.ShortCode,
		OriginalURL: resp.OriginalURL,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	})
}

// Stats handles GET /stats/{code} requests.
func (h *URLHandler) Stats(w http.ResponseWriter, r *http.Request) {
	shortCode := r.PathValue("code")

	url, err := h.service.Get(r.Context(), shortCode)
	if err != nil {
		status, errResp := mapErrorToResponse(err)
		writeJSON(w, status, errResp)
		return
	}

	writeJSON(w, http.StatusOK, urlInfo(url))
}

// ListForUser handles GET /user/urls requests.
func (h *URLHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required", Code: "UNAUTHORIZED"})
		return
	}

	offset, limit := pagination(r)
	urls, err := h.service.ListForUser(r.Context(), userID, offset, limit)
	if err != nil {
		status, errResp := mapErrorToResponse(err)
		writeJSON(w, status, errResp)
		return
	}

	infos := make([]URLInfoResponse, 0, len(urls))
	for _, url := range urls {
		infos = append(infos, urlInfo(url))
	}

	writeJSON(w, http.StatusOK, infos)
}

// GetForUser handles GET /user/urls/{id} requests.
func (h *URLHandler) GetForUser(w http.ResponseWriter, r *http.Request) {
	userID, urlID, ok := h.ownedURL(w, r)
	if !ok {
		return
	}

	url, err := h.service.GetForUser(r.Context(), urlID, userID)
	if err != nil {
		status, errResp := mapErrorToResponse(err)
		writeJSON(w, status, errResp)
		return
	}

	writeJSON(w, http.StatusOK, urlInfo(url))
}

// UpdateForUser handles PUT /user/urls/{id} requests. Only the destination
// changes; the short code keeps working.
func (h *URLHandler) UpdateForUser(w http.ResponseWriter, r *http.Request) {
	userID, urlID, ok := h.ownedURL(w, r)
	if !ok {
		return
	}

	var req UpdateURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	url, err := h.service.UpdateDestination(r.Context(), urlID, userID, req.URL)
	if err != nil {
		status, errResp := mapErrorToResponse(err)
		writeJSON(w, status, errResp)
		return
	}

	writeJSON(w, http.StatusOK, urlInfo(url))
}

// DeleteForUser handles DELETE /user/urls/{id} requests.
func (h *URLHandler) DeleteForUser(w http.ResponseWriter, r *http.Request) {
	userID, urlID, ok := h.ownedURL(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteForUser(r.Context(), urlID, userID); err != nil {
		status, errResp := mapErrorToResponse(err)
		writeJSON(w, status, errResp)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ownedURL extracts the authenticated user and the {id} path segment.
func (h *URLHandler) ownedURL(w http.ResponseWriter, r *http.Request) (userID, urlID int64, ok bool) {
	userID, authed := middleware.GetUserID(r.Context())
	if !authed {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required", Code: "UNAUTHORIZED"})
		return 0, 0, false
	}

	urlID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || urlID <= 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid url id", Code: "INVALID_ID"})
		return 0, 0, false
	}

	return userID, urlID, true
}

func urlInfo(url *models.URL) URLInfoResponse {
	return URLInfoResponse{
		ID:          url.ID,
		ShortCode:   url.ShortCode,
		OriginalURL: url.OriginalURL,
		Clicks:      url.Clicks,
		CreatedAt:   url.CreatedAt.Format(time.RFC3339),
	}
}

// pagination parses offset/limit query parameters with sane bounds.
func pagination(r *http.Request) (offset, limit int) {
	limit = defaultPageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			offset = n
		}
	}
	return offset, limit
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// mapErrorToResponse maps service errors to HTTP status codes and error responses.
func mapErrorToResponse(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, models.ErrEmptyURL):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "EMPTY_URL"}
	case errors.Is(err, models.ErrInvalidURL):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_URL"}
	case errors.Is(err, models.ErrURLNotFound):
		return http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "NOT_FOUND"}
	case errors.Is(err, shortcode.ErrAllocationExhausted):
		return http.StatusServiceUnavailable, ErrorResponse{Error: "service temporarily unavailable", Code: "ALLOCATION_EXHAUSTED"}
	case errors.Is(err, models.ErrInvalidUsername),
		errors.Is(err, models.ErrInvalidEmail),
		errors.Is(err, models.ErrWeakPassword):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REGISTRATION"}
	case errors.Is(err, models.ErrUsernameTaken):
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "USERNAME_TAKEN"}
	case errors.Is(err, models.ErrEmailTaken):
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "EMAIL_TAKEN"}
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrorResponse{Error: err.Error(), Code: "INVALID_CREDENTIALS"}
	case errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "USER_NOT_FOUND"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"}
	}
}
