package calculator

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RegisterRoutes mounts all calculator endpoints onto the given router
// under the /calculator prefix.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/calculator", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/evaluate", h.Evaluate)
		r.Post("/translate", h.Translate)
		r.Post("/keypress", h.Keypress)
	})
}
