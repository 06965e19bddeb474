package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all lot routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/lots", func(r chi.Router) {
		r.Get("/{symbol}", func(w http.ResponseWriter, r *http.Request) {
			h.HandleGetLots(w, r, chi.URLParam(r, "symbol"))
		})
	})
}
