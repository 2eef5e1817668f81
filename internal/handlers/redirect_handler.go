package handlers

import (
	"errors"
	"net/http"

	"github.com/snaplink/snaplink/internal/middleware"
	"github.com/snaplink/snaplink/internal/models"
	"github.com/snaplink/snaplink/internal/services"
	"github.com/snaplink/snaplink/internal/shortcode"
)

// RedirectHandler handles short link redirect requests.
type RedirectHandler struct {
	service services.RedirectService
}

// NewRedirectHandler creates a new RedirectHandler.
func NewRedirectHandler(svc services.RedirectService) *RedirectHandler {
	return &RedirectHandler{service: svc}
}

// Redirect handles GET /{code} requests. The click is recorded before the
// 302 is sent; a storage failure turns into a 500 instead of losing the
// event.
func (h *RedirectHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if !shortcode.IsValid(code) {
		http.Error(w, "URL not found", http.StatusNotFound)
		return
	}

	result, err := h.service.Redirect(r.Context(), code, services.ClickContext{
		IPAddress: middleware.GetClientIP(r.Context()),
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	http.Redirect(w, r, result.OriginalURL, http.StatusFound)
}

// handleError maps service errors to HTTP responses for redirect endpoints.
func (h *RedirectHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrURLNotFound):
		http.Error(w, "URL not found", http.StatusNotFound)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
