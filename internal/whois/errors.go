package whois

import "errors"

var (
	// ErrCommandUnavailable is returned when no whois binary is installed on the host
	ErrCommandUnavailable = errors.New("whois command unavailable")
	// ErrCommandFailed is returned when the whois command exits with an error
	ErrCommandFailed = errors.New("whois command failed")
	// ErrRequestFailed is returned when the provider request cannot be sent
	ErrRequestFailed = errors.New("whois request failed")
	// ErrUnexpectedStatus is returned when the provider responds with a non-200 status
	ErrUnexpectedStatus = errors.New("unexpected whois response status")
	// ErrNoRegistrationDate is returned when no registration date can be parsed
	ErrNoRegistrationDate = errors.New("no registration date found")
)
