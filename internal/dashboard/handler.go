package dashboard

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saulo-duarte/cars-prep/internal/auth"
	"github.com/saulo-duarte/cars-prep/internal/config"
	"github.com/saulo-duarte/cars-prep/internal/profile"
	"github.com/saulo-duarte/cars-prep/internal/question"
	"github.com/saulo-duarte/cars-prep/internal/recommend"
)

type Handler struct {
	service     Service
	recommender recommend.Service
}

func NewHandler(s Service, r recommend.Service) *Handler {
	return &Handler{service: s, recommender: r}
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	overview, err := h.service.Overview(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, overview)
}

func (h *Handler) ReviewPassage(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	review, err := h.service.ReviewPassage(r.Context(), claims.UserID, chi.URLParam(r, "passageId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, review)
}

func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	res, err := h.recommender.Recommend(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, res)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		http.Error(w, "No profile data yet.", http.StatusNotFound)
	case errors.Is(err, question.ErrMissingData):
		http.Error(w, "Missing required data. Please contact support.", http.StatusServiceUnavailable)
	default:
		config.WithContext(r.Context()).WithError(err).Error("Dashboard request failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
