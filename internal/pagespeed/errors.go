package pagespeed

import "errors"

var (
	// ErrMissingAPIKey is returned when no API key is provided
	ErrMissingAPIKey = errors.New("pagespeed API key is required")
	// ErrRequestFailed is returned when the audit request cannot be sent
	ErrRequestFailed = errors.New("pagespeed request failed")
	// ErrUnexpectedStatus is returned when the API responds with a non-200 status
	ErrUnexpectedStatus = errors.New("unexpected pagespeed response status")
	// ErrAuditFailed is returned when the API reports an audit error
	ErrAuditFailed = errors.New("pagespeed audit failed")
	// ErrAuditUnavailable is returned when both mobile and desktop audits fail
	ErrAuditUnavailable = errors.New("pagespeed audit unavailable")
)
