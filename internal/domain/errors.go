package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrNotSupported is returned when a backend cannot serve an operation
	ErrNotSupported = errors.New("operation not supported by backend")

	// ErrCooldownNotElapsed is returned when a challenger resubmits before the
	// cooldown of its pending transition has passed. The registry still reports
	// a Rejected outcome alongside it.
	ErrCooldownNotElapsed = errors.New("cooldown period not over")

	// ErrVerdictMismatch is returned when a verdict is applied to a domain it
	// was not computed for
	ErrVerdictMismatch = errors.New("verdict does not match domain")
)

// MissingParameterError is a caller error raised before any network call.
type MissingParameterError struct {
	Param  string
	Reason string
}

func (e MissingParameterError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("missing required parameter %q: %s", e.Param, e.Reason)
	}
	return fmt.Sprintf("missing required parameter %q", e.Param)
}

// UpstreamUnavailableError is returned once the manifest fetch exhausted its
// retry budget.
type UpstreamUnavailableError struct {
	JobID    string
	Domain   string
	Attempts int
	Cause    error
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("upstream unavailable for %s (job %s) after %d attempts: %v",
		e.Domain, e.JobID, e.Attempts, e.Cause)
}

func (e *UpstreamUnavailableError) Unwrap() error {
	return e.Cause
}

// MalformedManifestError means the manifest body did not have the expected shape.
type MalformedManifestError struct {
	Domain string
	Cause  error
}

func (e *MalformedManifestError) Error() string {
	return fmt.Sprintf("malformed manifest for %s: %v", e.Domain, e.Cause)
}

func (e *MalformedManifestError) Unwrap() error {
	return e.Cause
}

// ErrorName returns the short error class name used in job error envelopes.
func ErrorName(err error) string {
	var (
		missing   MissingParameterError
		upstream  *UpstreamUnavailableError
		malformed *MalformedManifestError
	)
	switch {
	case errors.As(err, &missing):
		return "MissingParameter"
	case errors.As(err, &upstream):
		return "UpstreamUnavailable"
	case errors.As(err, &malformed):
		return "MalformedManifest"
	case errors.Is(err, ErrCooldownNotElapsed):
		return "CooldownNotElapsed"
	default:
		return "AdapterError"
	}
}

// StatusCode maps an error to the HTTP-style status reported to callers.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var (
		missing   MissingParameterError
		malformed *MalformedManifestError
	)
	switch {
	case errors.As(err, &missing):
		return http.StatusBadRequest
	case errors.As(err, &malformed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
