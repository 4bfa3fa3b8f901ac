package study

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/saulo-duarte/cars-prep/internal/auth"
	"github.com/saulo-duarte/cars-prep/internal/config"
	"github.com/saulo-duarte/cars-prep/internal/question"
)

type Handler struct {
	engine   *Engine
	sessions SessionStore
}

func NewHandler(engine *Engine, sessions SessionStore) *Handler {
	return &Handler{engine: engine, sessions: sessions}
}

// Prompt is a question as shown while it is being answered: no correct
// answer, explanations or traps.
type Prompt struct {
	Index           int                  `json:"index"`
	Total           int                  `json:"total"`
	Mode            Mode                 `json:"feedback_mode"`
	QuestionID      string               `json:"question_id"`
	QuestionType    string               `json:"question_type"`
	QuestionText    string               `json:"question_text"`
	Labels          []string             `json:"labels"`
	Choices         map[string]string    `json:"choices"`
	LinkedParagraph *int                 `json:"linked_paragraph,omitempty"`
	LinkedText      string               `json:"linked_text,omitempty"`
	PassageTitle    string               `json:"passage_title"`
	PassageSource   string               `json:"passage_source"`
	FullPassage     []question.Paragraph `json:"full_passage"`
}

type ReviewResponse struct {
	Total   int      `json:"total"`
	Correct int      `json:"correct"`
	Results []Result `json:"results"`
}

func questionURL(i int) string {
	return fmt.Sprintf("/study/question/%d", i)
}

const reviewURL = "/study/review"

func (h *Handler) StartOptions(w http.ResponseWriter, r *http.Request) {
	mode := ModeImmediate
	if claims, err := auth.GetUserClaimsFromContext(r.Context()); err == nil {
		if s, err := h.sessions.Load(r.Context(), claims.UserID); err == nil && s.Mode != "" {
			mode = s.Mode
		}
	}
	config.JSON(w, http.StatusOK, map[string]interface{}{
		"modes":   Modes,
		"current": mode,
	})
}

func (h *Handler) ChooseMode(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	value, err := readField(r, "mode")
	if err != nil {
		log.WithError(err).Warn("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	mode, err := ParseMode(value)
	if err != nil {
		http.Error(w, "Choose either immediate or deferred feedback.", http.StatusBadRequest)
		return
	}
	h.begin(w, r, mode)
}

// Begin starts a round with the mode of the previous round, or immediate
// feedback for a first round.
func (h *Handler) Begin(w http.ResponseWriter, r *http.Request) {
	mode := ModeImmediate
	if claims, err := auth.GetUserClaimsFromContext(r.Context()); err == nil {
		if s, err := h.sessions.Load(r.Context(), claims.UserID); err == nil && s.Mode != "" {
			mode = s.Mode
		}
	}
	h.begin(w, r, mode)
}

func (h *Handler) begin(w http.ResponseWriter, r *http.Request, mode Mode) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	s, err := h.engine.Start(r.Context(), claims.UserID, mode)
	if err != nil {
		if errors.Is(err, ErrMissingData) {
			log.WithError(err).Warn("Study round not started")
			http.Error(w, "Missing required data. Sign in again or wait for questions to be added.", http.StatusServiceUnavailable)
			return
		}
		log.WithError(err).Error("Failed to start study round")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.sessions.Save(r.Context(), claims.UserID, s); err != nil {
		log.WithError(err).Error("Failed to save study round")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, questionURL(0), http.StatusSeeOther)
}

func (h *Handler) ShowQuestion(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	index, ok := indexParam(w, r)
	if !ok {
		return
	}

	item, err := h.engine.Present(s, index)
	if err != nil && !errors.Is(err, ErrSessionFinished) {
		http.Error(w, "question not found", http.StatusNotFound)
		return
	}
	if err := h.sessions.Save(r.Context(), userID, s); err != nil {
		log.WithError(err).Error("Failed to save study round")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if item == nil {
		http.Redirect(w, r, reviewURL, http.StatusSeeOther)
		return
	}

	config.JSON(w, http.StatusOK, Prompt{
		Index:           index,
		Total:           s.Len(),
		Mode:            s.Mode,
		QuestionID:      item.QuestionID,
		QuestionType:    item.QuestionType,
		QuestionText:    item.QuestionText,
		Labels:          item.Labels(),
		Choices:         item.Choices,
		LinkedParagraph: item.LinkedParagraph,
		LinkedText:      item.LinkedText,
		PassageTitle:    item.PassageTitle,
		PassageSource:   item.PassageSource,
		FullPassage:     item.FullPassage,
	})
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	answer, err := readField(r, "answer")
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	feedback, err := h.engine.Submit(s, index, answer)
	switch {
	case errors.Is(err, ErrSessionFinished):
		http.Redirect(w, r, reviewURL, http.StatusSeeOther)
		return
	case errors.Is(err, ErrInvalidChoice):
		http.Error(w, "Pick one of the listed answers.", http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, "question not found", http.StatusNotFound)
		return
	}

	if err := h.sessions.Save(r.Context(), userID, s); err != nil {
		log.WithError(err).Error("Failed to save study round")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if feedback == nil {
		http.Redirect(w, r, questionURL(index+1), http.StatusSeeOther)
		return
	}
	config.JSON(w, http.StatusOK, map[string]interface{}{
		"feedback": feedback,
		"next":     questionURL(index + 1),
	})
}

func (h *Handler) RecordConfidence(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	label, err := readField(r, "confidence")
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.engine.RecordConfidence(s, index, label); err != nil {
		if errors.Is(err, ErrEmptyConfidence) {
			http.Error(w, "Choose a confidence level.", http.StatusBadRequest)
			return
		}
		http.Error(w, "question not found", http.StatusNotFound)
		return
	}

	if err := h.sessions.Save(r.Context(), userID, s); err != nil {
		log.WithError(err).Error("Failed to save study round")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, reviewURL, http.StatusSeeOther)
}

func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, s, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	results, reviewErr := h.engine.Review(r.Context(), userID, s)
	// Saved even on failure so events already logged are not logged twice.
	if err := h.sessions.Save(r.Context(), userID, s); err != nil {
		log.WithError(err).Error("Failed to save study round")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if reviewErr != nil {
		http.Error(w, "Your results could not be saved. Please try again.", http.StatusInternalServerError)
		return
	}

	resp := ReviewResponse{Total: len(results), Results: results}
	for _, res := range results {
		if res.IsCorrect {
			resp.Correct++
		}
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request) (string, *Session, bool) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", nil, false
	}

	s, err := h.sessions.Load(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			http.Error(w, "No study round in progress. Start one from /study/start.", http.StatusNotFound)
			return "", nil, false
		}
		log.WithError(err).Error("Failed to load study round")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return "", nil, false
	}
	return claims.UserID, s, true
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		http.Error(w, "invalid question index", http.StatusBadRequest)
		return 0, false
	}
	return index, true
}

// readField accepts both form posts and JSON bodies.
func readField(r *http.Request, name string) (string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return "", err
		}
		return body[name], nil
	}
	if err := r.ParseForm(); err != nil {
		return "", err
	}
	return r.PostFormValue(name), nil
}
