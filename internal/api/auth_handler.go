package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/01072k1anhCong2/kinhkong/internal/auth"
	"github.com/01072k1anhCong2/kinhkong/internal/metrics"
)

type AuthHandler struct {
	svc     *auth.Service
	gate    auth.Gate
	metrics *metrics.Registry
}

func NewAuthHandler(svc *auth.Service, gate auth.Gate, m *metrics.Registry) *AuthHandler {
	return &AuthHandler{svc: svc, gate: gate, metrics: m}
}

type RegisterRequestDTO struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Authenticated bool           `json:"authenticated"`
	IsAdmin       bool           `json:"isAdmin"`
	Identity      *auth.Identity `json:"identity,omitempty"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Password != req.ConfirmPassword {
		respondError(w, http.StatusBadRequest, "password_mismatch", "passwords do not match")
		return
	}

	identity, token, err := h.svc.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		handleAuthError(w, err)
		return
	}

	setTokenCookie(w, token)
	respondJSON(w, http.StatusCreated, SessionResponse{
		Authenticated: true,
		IsAdmin:       h.gate.IsAdmin(identity),
		Identity:      identity,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	identity, token, err := h.svc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.SignInFailures.Inc()
		handleAuthError(w, err)
		return
	}

	h.metrics.SignIns.Inc()
	setTokenCookie(w, token)
	respondJSON(w, http.StatusOK, SessionResponse{
		Authenticated: true,
		IsAdmin:       h.gate.IsAdmin(identity),
		Identity:      identity,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(tokenCookie); err == nil && c.Value != "" {
		h.svc.SignOut(c.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// Session reports the current identity the way the old client observed
// auth state at startup.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	respondJSON(w, http.StatusOK, SessionResponse{
		Authenticated: h.gate.Authenticated(identity),
		IsAdmin:       h.gate.IsAdmin(identity),
		Identity:      identity,
	})
}

func setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidEmail):
		respondError(w, http.StatusBadRequest, "invalid_email", "invalid email address")
	case errors.Is(err, auth.ErrWeakPassword):
		respondError(w, http.StatusBadRequest, "weak_password", "password must be at least 6 characters")
	case errors.Is(err, auth.ErrEmailInUse):
		respondError(w, http.StatusConflict, "email_in_use", "email already in use")
	case errors.Is(err, auth.ErrInvalidCredential):
		respondError(w, http.StatusUnauthorized, "invalid_credential", "email or password is incorrect")
	case errors.Is(err, auth.ErrTooManyAttempts):
		respondError(w, http.StatusTooManyRequests, "too_many_attempts", "too many sign-in attempts, try again later")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
