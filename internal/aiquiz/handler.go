package aiquiz

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saulo-duarte/cars-prep/internal/config"
	"github.com/saulo-duarte/cars-prep/internal/question"
)

type Handler struct {
	service Service
}

// NewHandler accepts a nil service; requests are then answered with 503.
func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())
	if h.service == nil {
		http.Error(w, "question generation is not configured", http.StatusServiceUnavailable)
		return
	}

	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PassageID == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Preview(r.Context(), req)
	switch {
	case err == nil:
		config.JSON(w, http.StatusOK, resp)
	case errors.Is(err, ErrPassageNotFound):
		http.Error(w, "passage not found", http.StatusNotFound)
	case errors.Is(err, question.ErrMissingData):
		http.Error(w, "Missing required data. Please contact support.", http.StatusServiceUnavailable)
	case errors.Is(err, ErrMalformedOutput), errors.Is(err, ErrEmptyResponse):
		log.WithError(err).Warn("Model output unusable")
		http.Error(w, "the model returned an unusable response", http.StatusBadGateway)
	default:
		log.WithError(err).Error("Failed to generate questions")
		http.Error(w, "failed to generate questions", http.StatusInternalServerError)
	}
}
