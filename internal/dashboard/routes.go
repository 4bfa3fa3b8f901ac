package dashboard

import "github.com/go-chi/chi/v5"

func Routes(r chi.Router, h *Handler) {
	r.Get("/dashboard", h.Dashboard)
	r.Get("/review/{passageId}", h.ReviewPassage)
	r.Get("/recommendations", h.Recommendations)
}
