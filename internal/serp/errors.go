package serp

import "errors"

var (
	// ErrMissingAPIKey is returned when no search API key is configured
	ErrMissingAPIKey = errors.New("missing search API key")
	// ErrEmptyKeyword is returned when a query has no keyword
	ErrEmptyKeyword = errors.New("empty keyword")
	// ErrRequestFailed is returned when the search request cannot be sent
	ErrRequestFailed = errors.New("search request failed")
	// ErrUnexpectedStatus is returned when the provider responds with a non-200 status
	ErrUnexpectedStatus = errors.New("unexpected search response status")
	// ErrProviderError is returned when the provider reports an error in its payload
	ErrProviderError = errors.New("search provider error")
	// ErrPlannerNotConfigured is returned when keyword planner credentials are incomplete
	ErrPlannerNotConfigured = errors.New("keyword planner not configured")
	// ErrTokenRefresh is returned when the planner OAuth token cannot be refreshed
	ErrTokenRefresh = errors.New("token refresh failed")
)
