package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"proshop/internal/auth"
	"proshop/internal/middleware"
	"proshop/internal/model"
	"proshop/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UserHandler handles user and session HTTP requests.
type UserHandler struct {
	service      service.UserService
	tokens       *auth.TokenManager
	cookieName   string
	cookieSecure bool
	logger       zerolog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service service.UserService, tokens *auth.TokenManager, cookieName string, cookieSecure bool, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service:      service,
		tokens:       tokens,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
		logger:       logger.With().Str("handler", "user").Logger(),
	}
}

// setSessionCookie issues a signed token for the user as an HttpOnly cookie.
func (h *UserHandler) setSessionCookie(w http.ResponseWriter, userID uuid.UUID) error {
	token, err := h.tokens.Issue(userID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokens.TTL()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

// clearSessionCookie expires the session cookie.
func (h *UserHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Register handles POST /api/users requests. A successful registration also
// starts a session.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if err := h.setSessionCookie(w, user.ID); err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to start session", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/users/auth requests.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	user, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if err := h.setSessionCookie(w, user.ID); err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to start session", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/users/logout requests.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// GetProfile handles GET /api/users/profile requests.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "not authorized", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /api/users/profile requests.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "not authorized", h.logger)
		return
	}

	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), user.ID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// GetAll handles GET /api/users requests (admin only).
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if users == nil {
		users = []model.User{}
	}

	writeJSON(w, http.StatusOK, users)
}

// GetByID handles GET /api/users/{id} requests (admin only).
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, model.ErrCodeUserNotFound, "User not found", h.logger)
		return
	}

	user, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeUserNotFound, "User not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Update handles PUT /api/users/{id} requests (admin only).
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, model.ErrCodeUserNotFound, "User not found", h.logger)
		return
	}

	var req model.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Delete handles DELETE /api/users/{id} requests (admin only).
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, model.ErrCodeUserNotFound, "User not found", h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), userID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User removed"})
}
