// Package handlers provides HTTP handlers for lot reconstruction.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/lotwatch/internal/modules/lots"
)

// SnapshotProvider reconstructs the open lots for a symbol.
type SnapshotProvider interface {
	GetSnapshot(symbol string) (*lots.Snapshot, error)
}

// Handler handles lot HTTP requests
type Handler struct {
	service SnapshotProvider
	log     zerolog.Logger
}

// NewHandler creates a new lots handler
func NewHandler(service SnapshotProvider, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "lots").Logger(),
	}
}

// HandleGetLots handles GET /api/lots/{symbol}
func (h *Handler) HandleGetLots(w http.ResponseWriter, r *http.Request, symbol string) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		h.writeError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	snapshot, err := h.service.GetSnapshot(symbol)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to reconstruct lots")
		h.writeError(w, http.StatusBadGateway, "Failed to reconstruct lots: "+err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, snapshot)
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
