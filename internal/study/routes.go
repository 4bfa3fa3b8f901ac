package study

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the study flow at the root; the paths are part of the public
// surface and are kept flat.
func Routes(r chi.Router, h *Handler) {
	r.Get("/study/start", h.StartOptions)
	r.Post("/study/start", h.ChooseMode)
	r.Get("/study", h.Begin)
	r.Post("/study", h.Begin)
	r.Get("/study/question/{index}", h.ShowQuestion)
	r.Post("/study/question/{index}", h.SubmitAnswer)
	r.Post("/review/confidence/{index}", h.RecordConfidence)
	r.Get("/study/review", h.Review)
}
