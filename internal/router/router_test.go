package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/cars-prep/internal/aiquiz"
	"github.com/saulo-duarte/cars-prep/internal/auth"
	"github.com/saulo-duarte/cars-prep/internal/dashboard"
	"github.com/saulo-duarte/cars-prep/internal/performance"
	"github.com/saulo-duarte/cars-prep/internal/profile"
	"github.com/saulo-duarte/cars-prep/internal/question"
	"github.com/saulo-duarte/cars-prep/internal/router"
	"github.com/saulo-duarte/cars-prep/internal/study"
	"github.com/saulo-duarte/cars-prep/internal/user"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	t.Setenv("JWT_SECRET", "a-long-and-secure-secret-used-only-in-tests")
	auth.Init()

	dir := t.TempDir()
	questions := question.NewRepository(dir)
	profiles := profile.NewContainer(nil, dir)
	perf := performance.NewContainer(nil, dir, profiles.Repo)
	studyContainer := study.NewContainer(questions, profiles.Repo, perf.Logger, nil)

	return router.New(router.RouterConfig{
		UserHandler:      user.NewUserContainer(profiles.Service).Handler,
		StudyHandler:     studyContainer.Handler,
		DashboardHandler: dashboard.NewContainer(profiles, perf.Logger, questions).Handler,
		AIQuizHandler:    aiquiz.NewHandler(nil),
		Sessions:         studyContainer.Sessions,
	})
}

func TestRouter(t *testing.T) {
	r := newRouter(t)

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	t.Run("Healthz", func(t *testing.T) {
		rec := serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
	})

	t.Run("ProtectedWithoutToken", func(t *testing.T) {
		for _, path := range []string{"/dashboard", "/study/start", "/recommendations", "/users/me"} {
			rec := serve(httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		}
	})

	t.Run("ProtectedWithToken", func(t *testing.T) {
		token, err := auth.GenerateJWT("u1", auth.DefaultRole, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
		assert.Equal(t, http.StatusNotFound, serve(req).Code, "no profile yet")

		req = httptest.NewRequest(http.MethodPost, "/ai/questions", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		assert.Equal(t, http.StatusServiceUnavailable, serve(req).Code)
	})

	t.Run("Logout", func(t *testing.T) {
		rec := serve(httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, auth.CookieName, cookies[0].Name)
		assert.Less(t, cookies[0].MaxAge, 0)
	})
}
