package entity

import "errors"

var (
	// ErrMissingAPIKey is returned when no API key is provided
	ErrMissingAPIKey = errors.New("entity API key is required")
	// ErrEmptyQuery is returned when the brand query is empty
	ErrEmptyQuery = errors.New("entity query cannot be empty")
	// ErrRequestFailed is returned when a provider request cannot be sent
	ErrRequestFailed = errors.New("entity request failed")
	// ErrUnexpectedStatus is returned when a provider responds with a non-200 status
	ErrUnexpectedStatus = errors.New("unexpected entity response status")
)
