package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// Kind classifies a failure so callers can react without inspecting messages.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindCredentialExchange Kind = "credential_exchange"
	KindUpstreamData       Kind = "upstream_data"
	KindTransport          Kind = "transport"
	KindTimeout            Kind = "timeout"
	KindInternal           Kind = "internal"
)

// maxBodyBytes caps how much of an upstream error body is kept.
const maxBodyBytes = 512

// ErrProviderUnavailable is returned when no provider is configured.
var ErrProviderUnavailable = errors.New("provider unavailable")

// Error is the typed outcome of a failed counter or token operation.
// StatusCode and Body are set only when the upstream actually answered.
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int
	Body       string
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// MetricKind labels the failure in metrics.
func (e *Error) MetricKind() string { return string(e.Kind) }

// Retryable reports whether repeating the call could succeed.
func (e *Error) Retryable() bool {
	return e.Kind == KindTransport || e.Kind == KindTimeout
}

// Timeout reports whether the failure was caused by a deadline, whatever stage it is attributed to.
func (e *Error) Timeout() bool {
	return e.Kind == KindTimeout || isTimeout(e.Err)
}

// IsTimeout reports whether err is a typed failure caused by a deadline.
func IsTimeout(err error) bool {
	pErr, ok := AsError(err)
	return ok && pErr.Timeout()
}

// AsError attempts to unwrap err into an *Error.
func AsError(err error) (*Error, bool) {
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	if pErr, ok := AsError(err); ok {
		return pErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	pErr, ok := AsError(err)
	return ok && pErr.Kind == kind
}

// NewValidationError wraps a local validation failure.
func NewValidationError(op string, err error) *Error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

// NewCredentialError wraps a token exchange failure, keeping the upstream status/body when present.
func NewCredentialError(op string, status int, body string, err error) *Error {
	return &Error{Kind: KindCredentialExchange, Op: op, StatusCode: status, Body: truncate(body), Err: err}
}

// NewUpstreamDataError wraps a non-2xx or malformed response from the data endpoint.
func NewUpstreamDataError(op string, status int, body string, err error) *Error {
	return &Error{Kind: KindUpstreamData, Op: op, StatusCode: status, Body: truncate(body), Err: err}
}

// NewTransportError classifies a network-level failure as transport or timeout.
func NewTransportError(op string, err error) *Error {
	kind := KindTransport
	if isTimeout(err) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(op string, err error) *Error {
	return &Error{Kind: KindInternal, Op: op, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(body string) string {
	if len(body) <= maxBodyBytes {
		return body
	}
	return body[:maxBodyBytes]
}
