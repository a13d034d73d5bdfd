package api

import "errors"

// Error codes carried in response envelopes.
const (
	errCodeInvalidRequest = "invalid_request"
	errCodeValidation     = "validation_failed"
	errCodeNotFound       = "not_found"
	errCodeInternal       = "internal_error"
	errCodeUnavailable    = "service_unavailable"
)

var (
	// ErrInvalidRequestBody is returned when the request body cannot be decoded
	ErrInvalidRequestBody = errors.New("invalid request body")
	// ErrMultipleJSONObjects is returned when the request body contains more than one JSON object
	ErrMultipleJSONObjects = errors.New("request body must contain a single JSON object")
	// ErrURLRequired is returned when a scan submission carries no url
	ErrURLRequired = errors.New("url is required")
	// ErrScanNotFound is returned when no scan exists under the requested id
	ErrScanNotFound = errors.New("scan not found")
	// ErrRunnerNotConfigured is returned when the scan runner is nil
	ErrRunnerNotConfigured = errors.New("scan runner not configured")
	// ErrStoreNotConfigured is returned when the scan store is nil
	ErrStoreNotConfigured = errors.New("scan store not configured")
	// ErrArticleTextRequired is returned when a highlight request carries no article text
	ErrArticleTextRequired = errors.New("article_text is required")
	// ErrKeywordsRequired is returned when a highlight request carries no keywords
	ErrKeywordsRequired = errors.New("at least one keyword is required")
)
