package user

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/me", h.GetUser)
	return r
}

func AuthRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/google/login", h.GoogleLogin)
	r.Get("/google/callback", h.GoogleCallback)
	r.Post("/refresh", h.RefreshToken)
	return r
}
