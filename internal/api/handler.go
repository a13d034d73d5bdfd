// Package api exposes the HTTP surface of the rankprobe service: scan
// submission and status polling, the keyword highlighter, and service
// health.
package api

import (
	"net/http"
	"time"

	"github.com/jerilmartin/rankprobe/internal/scan"
)

// Handler holds the collaborators behind the HTTP endpoints.
type Handler struct {
	store       scan.Store
	runner      *scan.Runner
	maxBodySize int64
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// handleHealth returns service health status
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   "rankprobe",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
