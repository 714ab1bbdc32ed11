package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/collectops/agentboard/backend/internal/auth"
	"github.com/rs/zerolog"
)

// AuthHandler serves login and logout
type AuthHandler struct {
	sessions *auth.Manager
	logger   zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(sessions *auth.Manager, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		logger:   logger.With().Str("component", "auth_handler").Logger(),
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	token, expires, err := h.sessions.Login(strings.ToLower(strings.TrimSpace(req.Username)), req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrLocked) {
			respondError(w, http.StatusLocked, err.Error())
			return
		}
		respondError(w, http.StatusUnauthorized, auth.ErrBadCredentials.Error())
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expires})
}

// Logout handles POST /api/logout, revoking the presented session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenString := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if tokenString != "" {
		h.sessions.Logout(tokenString)
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
