package study_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/cars-prep/internal/auth"
	"github.com/saulo-duarte/cars-prep/internal/study"
)

func newTestRouter(h *study.Handler, userID string) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := auth.WithClaims(req.Context(), &auth.Claims{UserID: userID, Role: auth.DefaultRole})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	study.Routes(r, h)
	return r
}

func postForm(t *testing.T, h http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandlerDeferredRound(t *testing.T) {
	qs, ps := mixedCorpus()
	f := newFixture(t, nil, qs, ps)
	store := study.NewMemoryStore()
	router := newTestRouter(study.NewHandler(f.engine, store), "u1")

	rec := postForm(t, router, "/study/start", url.Values{"mode": {"deferred"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/study/question/0", rec.Header().Get("Location"))

	rec = get(t, router, "/study/question/0")
	require.Equal(t, http.StatusOK, rec.Code)
	var prompt map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prompt))
	assert.Equal(t, "p1_q1", prompt["question_id"])
	assert.NotContains(t, prompt, "correct_answer")
	assert.NotContains(t, prompt, "explanations")
	assert.Equal(t, []any{"A", "B", "C", "D"}, prompt["labels"])

	rec = postForm(t, router, "/study/question/0", url.Values{"answer": {"B"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/study/question/1", rec.Header().Get("Location"))

	rec = postForm(t, router, "/study/question/1", url.Values{"answer": {"Q"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postForm(t, router, "/review/confidence/0", url.Values{"confidence": {"high"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/study/review", rec.Header().Get("Location"))

	rec = get(t, router, "/study/question/99")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/study/review", rec.Header().Get("Location"))

	rec = get(t, router, "/study/review")
	require.Equal(t, http.StatusOK, rec.Code)
	var review study.ReviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &review))
	assert.Equal(t, 5, review.Total)
	assert.Equal(t, 1, review.Correct)
	assert.Equal(t, "high", review.Results[0].Confidence)
	assert.Len(t, f.logger.calls, 1)

	rec = get(t, router, "/study/review")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, f.logger.calls, 1)
}

func TestHandlerImmediateFeedback(t *testing.T) {
	qs, ps := mixedCorpus()
	f := newFixture(t, nil, qs, ps)
	router := newTestRouter(study.NewHandler(f.engine, study.NewMemoryStore()), "u1")

	rec := postForm(t, router, "/study/start", url.Values{"mode": {"immediate"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, http.StatusOK, get(t, router, "/study/question/0").Code)

	req := httptest.NewRequest(http.MethodPost, "/study/question/0", strings.NewReader(`{"answer":"A"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Feedback study.Feedback `json:"feedback"`
		Next     string         `json:"next"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "A", body.Feedback.Selected)
	assert.Equal(t, "B", body.Feedback.CorrectAnswer)
	assert.False(t, body.Feedback.IsCorrect)
	assert.Equal(t, "/study/question/1", body.Next)

	rec = get(t, router, "/study/start")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"current":"immediate"`)
}

func TestHandlerWithoutRound(t *testing.T) {
	qs, ps := mixedCorpus()
	f := newFixture(t, nil, qs, ps)
	router := newTestRouter(study.NewHandler(f.engine, study.NewMemoryStore()), "u1")

	assert.Equal(t, http.StatusNotFound, get(t, router, "/study/question/0").Code)
	assert.Equal(t, http.StatusNotFound, get(t, router, "/study/review").Code)
	assert.Equal(t, http.StatusBadRequest, postForm(t, router, "/study/start", url.Values{"mode": {"sometimes"}}).Code)
}

func TestHandlerMissingData(t *testing.T) {
	qs, ps := mixedCorpus()
	f := newFixture(t, nil, qs, ps)
	router := newTestRouter(study.NewHandler(f.engine, study.NewMemoryStore()), "stranger")

	rec := get(t, router, "/study")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing required data")
}

func TestSessionsArePerUser(t *testing.T) {
	store := study.NewMemoryStore()
	s := &study.Session{ID: "one", Mode: study.ModeDeferred}
	require.NoError(t, store.Save(t.Context(), "u1", s))

	_, err := store.Load(t.Context(), "u2")
	assert.ErrorIs(t, err, study.ErrNoSession)

	loaded, err := store.Load(t.Context(), "u1")
	require.NoError(t, err)
	loaded.Index = 4
	again, err := store.Load(t.Context(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, again.Index)

	require.NoError(t, store.Clear(t.Context(), "u1"))
	_, err = store.Load(t.Context(), "u1")
	assert.ErrorIs(t, err, study.ErrNoSession)
}
