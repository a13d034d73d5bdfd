package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/jerilmartin/rankprobe/internal/scan"
)

// ScanRequest represents a scan submission request
type ScanRequest struct {
	// URL is the page or domain to assess
	URL string `json:"url"`
}

// ScanAccepted carries the id of a newly enqueued scan
type ScanAccepted struct {
	// ScanID identifies the scan for status polling
	ScanID string `json:"scan_id"`
}

// ScanSubmitResponse is the API response envelope for scan submission
type ScanSubmitResponse struct {
	// Success indicates whether the scan was accepted
	Success bool `json:"success"`
	// Data holds the scan id when accepted
	Data *ScanAccepted `json:"data,omitempty"`
	// Error is the normalized error payload when submission is rejected
	Error *Error `json:"error,omitempty"`
}

// ScanStatusResponse is the API response envelope for scan status polling
type ScanStatusResponse struct {
	// Success indicates whether the scan was found
	Success bool `json:"success"`
	// Data holds the scan record, including the result once terminal
	Data *scan.Scan `json:"data,omitempty"`
	// Error is the normalized error payload when the lookup fails
	Error *Error `json:"error,omitempty"`
}

// handleSubmitScan validates and enqueues a scan, replying immediately with
// its id. Callers poll the status endpoint until the scan is terminal.
func (h *Handler) handleSubmitScan(w http.ResponseWriter, r *http.Request) {
	if h.runner == nil {
		respondScanSubmitError(w, http.StatusServiceUnavailable, errCodeUnavailable, ErrRunnerNotConfigured.Error())
		return
	}

	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var req ScanRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondScanSubmitError(w, http.StatusBadRequest, errCodeInvalidRequest, ErrInvalidRequestBody.Error())
		return
	}

	if req.URL == "" {
		respondScanSubmitError(w, http.StatusBadRequest, errCodeValidation, ErrURLRequired.Error())
		return
	}

	id, err := h.runner.Submit(req.URL)

	switch {
	case errors.Is(err, scan.ErrInvalidTarget):
		respondScanSubmitError(w, http.StatusBadRequest, errCodeValidation, err.Error())
		return
	case errors.Is(err, scan.ErrQueueFull):
		respondScanSubmitError(w, http.StatusServiceUnavailable, errCodeUnavailable, err.Error())
		return
	case err != nil:
		log.Error().Err(err).Str("url", req.URL).Msg("scan submission failed")
		respondScanSubmitError(w, http.StatusInternalServerError, errCodeInternal, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, ScanSubmitResponse{
		Success: true,
		Data:    &ScanAccepted{ScanID: id},
	})
}

// handleGetScan returns the scan record for status polling.
func (h *Handler) handleGetScan(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondScanStatusError(w, http.StatusServiceUnavailable, errCodeUnavailable, ErrStoreNotConfigured.Error())
		return
	}

	id := chi.URLParam(r, "scanID")

	sc, ok := h.store.Get(id)
	if !ok {
		respondScanStatusError(w, http.StatusNotFound, errCodeNotFound, ErrScanNotFound.Error())
		return
	}

	writeJSON(w, http.StatusOK, ScanStatusResponse{
		Success: true,
		Data:    &sc,
	})
}

func respondScanSubmitError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ScanSubmitResponse{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

func respondScanStatusError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ScanStatusResponse{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}
