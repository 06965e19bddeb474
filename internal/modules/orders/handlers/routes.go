package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all recommendation routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/recommendations", func(r chi.Router) {
		r.Get("/{symbol}", func(w http.ResponseWriter, r *http.Request) {
			h.HandleGetRecommendations(w, r, chi.URLParam(r, "symbol"))
		})
		r.Get("/{symbol}/orders", func(w http.ResponseWriter, r *http.Request) {
			h.HandleGetOrderCandidates(w, r, chi.URLParam(r, "symbol"))
		})
	})
}
