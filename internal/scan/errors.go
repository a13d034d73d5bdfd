package scan

import "errors"

var (
	// ErrInvalidTarget is returned when the submitted URL cannot be parsed
	// into a scannable domain
	ErrInvalidTarget = errors.New("invalid scan target")
	// ErrQueueFull is returned when the scan backlog is at capacity
	ErrQueueFull = errors.New("scan queue is full")
	// ErrTargetUnreachable is returned when no probe could produce any
	// signal for the target
	ErrTargetUnreachable = errors.New("target unreachable")
)
