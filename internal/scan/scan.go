// Package scan orchestrates the full assessment of one target: it tracks
// each scan through its lifecycle, fans the probes out, and folds their
// outputs into the final result.
package scan

import (
	"time"

	"github.com/jerilmartin/rankprobe/internal/types"
)

// Status is the lifecycle state of a scan.
type Status string

const (
	// StatusEnqueued means the scan is waiting for a worker
	StatusEnqueued Status = "ENQUEUED"
	// StatusScanning means a worker is running the probes
	StatusScanning Status = "SCANNING"
	// StatusComplete means the scan finished and carries a result
	StatusComplete Status = "COMPLETE"
	// StatusFailed means the scan ended without a result
	StatusFailed Status = "FAILED"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// Scan is one assessment request and its lifecycle state. A record is
// created on submission, mutated only by the runner that picked it up, and
// immutable once terminal. Clients poll it until the status is terminal.
type Scan struct {
	// ID identifies the scan
	ID string `json:"id"`
	// URL is the normalized target URL as submitted
	URL string `json:"url"`
	// Domain is the registrable domain under assessment
	Domain string `json:"domain"`
	// Status is the lifecycle state
	Status Status `json:"status"`
	// Progress is the percent complete, monotonic and below 100 until done
	Progress int `json:"progress"`
	// CurrentStep describes the probe group currently running
	CurrentStep string `json:"current_step,omitempty"`
	// CreatedAt is when the scan was submitted
	CreatedAt time.Time `json:"created_at"`
	// StartedAt is when a worker picked the scan up
	StartedAt *time.Time `json:"started_at,omitempty"`
	// CompletedAt is when the scan reached a terminal state
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	// ErrorMessage explains a FAILED scan
	ErrorMessage string `json:"error_message,omitempty"`
	// Result is the aggregate assessment, set once on completion
	Result *types.ScanResult `json:"results,omitempty"`
}
