package user

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/saulo-duarte/cars-prep/internal/auth"
	"github.com/saulo-duarte/cars-prep/internal/config"
	"github.com/saulo-duarte/cars-prep/internal/profile"
)

const (
	stateCookie = "oauth_state"
	stateTTL    = 10 * time.Minute
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.OptionalClaims(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	config.JSON(w, http.StatusOK, map[string]string{
		"login_url": "/auth/google/login",
	})
}

func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   config.App.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.service.LoginURL(state), http.StatusFound)
}

func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	c, err := r.Cookie(stateCookie)
	if err != nil || c.Value == "" || c.Value != r.URL.Query().Get("state") {
		log.Warn("OAuth state mismatch")
		http.Error(w, "Sign-in expired. Please try again.", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/auth/google", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing authorization code", http.StatusBadRequest)
		return
	}

	_, token, err := h.service.SignIn(r.Context(), code)
	if err != nil {
		if errors.Is(err, profile.ErrProfileCorrupt) {
			http.Error(w, "Your profile could not be read. Please contact support.", http.StatusInternalServerError)
			return
		}
		http.Error(w, "Sign-in failed. Please try again.", http.StatusUnauthorized)
		return
	}

	auth.SetSessionCookie(w, token, auth.AccessTokenTTL)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	me, err := h.service.Me(r.Context(), claims)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to load user")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusOK, me)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.OptionalClaims(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	token, err := h.service.Refresh(r.Context(), claims)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	auth.SetSessionCookie(w, token, auth.AccessTokenTTL)
	config.JSON(w, http.StatusOK, map[string]string{
		"message": "token refreshed",
	})
}
