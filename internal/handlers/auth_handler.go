package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/snaplink/snaplink/internal/middleware"
	"github.com/snaplink/snaplink/internal/models"
	"github.com/snaplink/snaplink/internal/services"
)

// RegisterRequest represents the request body for account registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for login. The username field
// also accepts an email address.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	User      UserResponse `json:"user"`
}

// UserResponse represents a user profile.
type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// AuthHandler handles account endpoints.
type AuthHandler struct {
	service services.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc services.UserService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Register handles POST /register requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "INVALID_REQUEST"})
		return
	}

	result, err := h.service.Register(r.Context(), &models.UserCreate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		status, errResp := mapErrorToResponse(err)
		writeJSON(w, status, errResp)
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse(result))
}

// Login handles POST /login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "INVALID_REQUEST"})
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		status, errResp := mapErrorToResponse(err)
		writeJSON(w, status, errResp)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse(result))
}

// Me handles GET /me requests.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required", Code: "UNAUTHORIZED"})
		return
	}

	user, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		status, errResp := mapErrorToResponse(err)
		writeJSON(w, status, errResp)
		return
	}

	writeJSON(w, http.StatusOK, userResponse(user))
}

// DeleteMe handles DELETE /me requests. The account's links and their click
// history go with it.
func (h *AuthHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required", Code: "UNAUTHORIZED"})
		return
	}

	if err := h.service.DeleteAccount(r.Context(), userID); err != nil {
		status, errResp := mapErrorToResponse(err)
		writeJSON(w, status, errResp)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func tokenResponse(result *services.AuthResult) TokenResponse {
	return TokenResponse{
		Token:     result.Token,
		ExpiresIn: int64(result.ExpiresIn.Seconds()),
		User:      userResponse(result.User),
	}
}

func userResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}
