// Package handlers provides HTTP handlers for order recommendations.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/lotwatch/internal/modules/orders"
)

// RecommendationProvider runs the sizing engine for a symbol.
type RecommendationProvider interface {
	GetRecommendations(symbol string) (*orders.Recommendation, error)
}

// Handler handles order recommendation HTTP requests
type Handler struct {
	service RecommendationProvider
	log     zerolog.Logger
}

// NewHandler creates a new orders handler
func NewHandler(service RecommendationProvider, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "orders").Logger(),
	}
}

// HandleGetRecommendations handles GET /api/recommendations/{symbol}
func (h *Handler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request, symbol string) {
	rec, ok := h.recommend(w, symbol)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

// HandleGetOrderCandidates handles GET /api/recommendations/{symbol}/orders.
// It returns the flattened candidate list, sells first.
func (h *Handler) HandleGetOrderCandidates(w http.ResponseWriter, r *http.Request, symbol string) {
	rec, ok := h.recommend(w, symbol)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id": rec.RunID,
		"symbol": rec.Symbol,
		"orders": rec.Candidates(),
	})
}

func (h *Handler) recommend(w http.ResponseWriter, symbol string) (*orders.Recommendation, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		h.writeError(w, http.StatusBadRequest, "Symbol is required")
		return nil, false
	}

	rec, err := h.service.GetRecommendations(symbol)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to compute recommendations")
		h.writeError(w, http.StatusBadGateway, "Failed to compute recommendations: "+err.Error())
		return nil, false
	}
	return rec, true
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
