package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/saulo-duarte/cars-prep/internal/config"
)

// SessionClearer drops any server-side state tied to a user session.
type SessionClearer interface {
	Clear(ctx context.Context, userID string) error
}

type Handler struct {
	sessions SessionClearer
}

func NewHandler(sessions SessionClearer) *Handler {
	return &Handler{sessions: sessions}
}

func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Domain:   config.App.CookieDomain,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   config.App.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	if claims, ok := OptionalClaims(r); ok && h.sessions != nil {
		if err := h.sessions.Clear(r.Context(), claims.UserID); err != nil {
			log.WithError(err).Warn("Failed to clear study session on logout")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Domain:   config.App.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.App.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	config.JSON(w, http.StatusOK, map[string]string{
		"message": "logout successful",
	})
}
