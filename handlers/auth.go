package handlers

import (
	"net/http"
	"time"

	"nfl-pool-go/interfaces"
	"nfl-pool-go/middleware"
	"nfl-pool-go/models"
)

// AuthHandler handles operator login
type AuthHandler struct {
	authService  interfaces.AuthService
	secureCookie bool
	cookieTTL    time.Duration
}

// NewAuthHandler creates a new auth handler. secureCookie should be false
// only when TLS terminates at a proxy that talks plain HTTP to us.
func NewAuthHandler(authService interfaces.AuthService, secureCookie bool, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
		cookieTTL:    cookieTTL,
	}
}

// Login handles JSON login requests
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq models.LoginRequest
	if err := decodeJSON(w, r, &loginReq); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if loginReq.Email == "" || loginReq.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, token, err := h.authService.Login(loginReq.Email, loginReq.Password)
	if err != nil {
		logger().Warnf("Login failed for %s: %v", loginReq.Email, err)
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	logger().Infof("User %s (%s) logged in", user.Name, user.Email)
	h.setAuthCookie(w, token)
	writeJSON(w, http.StatusOK, models.AuthResponse{User: *user, Token: token})
}

// Logout clears the auth cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the current user's information
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, user.ToSafeUser())
}

func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.cookieTTL),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}
