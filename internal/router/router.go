package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saulo-duarte/cars-prep/internal/aiquiz"
	"github.com/saulo-duarte/cars-prep/internal/auth"
	"github.com/saulo-duarte/cars-prep/internal/config"
	"github.com/saulo-duarte/cars-prep/internal/dashboard"
	"github.com/saulo-duarte/cars-prep/internal/study"
	"github.com/saulo-duarte/cars-prep/internal/user"
)

type RouterConfig struct {
	UserHandler      *user.Handler
	StudyHandler     *study.Handler
	DashboardHandler *dashboard.Handler
	AIQuizHandler    *aiquiz.Handler
	Sessions         auth.SessionClearer
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", cfg.UserHandler.Home)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		config.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	logout := auth.NewHandler(cfg.Sessions).Logout
	r.Route("/auth", func(r chi.Router) {
		r.Mount("/", user.AuthRoutes(cfg.UserHandler))
		r.Get("/logout", logout)
		r.Post("/logout", logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/users", user.Routes(cfg.UserHandler))
		r.Mount("/ai/questions", aiquiz.Routes(cfg.AIQuizHandler))

		study.Routes(r, cfg.StudyHandler)
		dashboard.Routes(r, cfg.DashboardHandler)
	})
	return r
}
