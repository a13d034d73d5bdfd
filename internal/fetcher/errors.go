package fetcher

import "errors"

var (
	// ErrRequestFailed is returned when the page request cannot be completed
	ErrRequestFailed = errors.New("page request failed")
	// ErrUnexpectedStatus is returned when the page responds with a non-success status
	ErrUnexpectedStatus = errors.New("unexpected page response status")
	// ErrParseFailed is returned when the response body is not parseable HTML
	ErrParseFailed = errors.New("page parse failed")
	// ErrRenderFailed is returned when the headless browser cannot render the page
	ErrRenderFailed = errors.New("page render failed")
)
