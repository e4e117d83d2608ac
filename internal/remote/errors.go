package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotSent wraps failures that happened before the request left the
	// client: an open circuit breaker, the rate limiter, a full bulkhead or
	// a context that ended while the call was queued.
	ErrNotSent = errors.New("remote: request not sent")

	// ErrRateLimited is returned when the local rate limiter rejects a call
	ErrRateLimited = errors.New("remote: local rate limit exceeded")
)

// RemoteError is a non-2xx response from the API
type RemoteError struct {
	Method     string
	Path       string
	Status     int
	DomainCode string // first code of the error envelope, if any
	RawBody    []byte
}

func (e *RemoteError) Error() string {
	if e.DomainCode != "" {
		return fmt.Sprintf("%s %s: status %d (%s)", e.Method, e.Path, e.Status, e.DomainCode)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

// Transient reports whether the failure may succeed on retry
func (e *RemoteError) Transient() bool {
	return e.Status >= http.StatusInternalServerError
}

// SchemaViolation means a response body did not match its declared shape.
// It indicates a contract break and is never retried.
type SchemaViolation struct {
	Method string
	Path   string
	Field  string
	Rule   string
	cause  error
}

func (e *SchemaViolation) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: response schema violation", e.Method, e.Path)
	if e.Field != "" {
		fmt.Fprintf(&b, " at %s", e.Field)
	}
	if e.Rule != "" {
		fmt.Fprintf(&b, " (%s)", e.Rule)
	}
	if e.cause != nil {
		fmt.Fprintf(&b, ": %v", e.cause)
	}
	return b.String()
}

func (e *SchemaViolation) Unwrap() error {
	return e.cause
}

// TransportError is a network-level failure: connection refused or reset,
// timeout, or an unreadable body.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ErrorEnvelope is the body shape of every non-2xx response
type ErrorEnvelope struct {
	Message *string       `json:"message,omitempty"`
	Errors  []ErrorDetail `json:"errors,omitempty" validate:"omitempty,dive"`
}

// ErrorDetail is one entry of ErrorEnvelope.Errors
type ErrorDetail struct {
	Code    string              `json:"code" validate:"required"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details"`
}

// DecodeEnvelope parses raw as an error envelope. It fails when the body is
// not JSON, does not match the shape, or carries no error entries.
func DecodeEnvelope(raw []byte) (*ErrorEnvelope, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty error body")
	}
	var env ErrorEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode error envelope: %w", err)
	}
	if err := validate.Struct(&env); err != nil {
		return nil, fmt.Errorf("validate error envelope: %w", err)
	}
	if len(env.Errors) == 0 {
		return nil, errors.New("error envelope has no errors")
	}
	return &env, nil
}

// IsTransient reports whether err is worth retrying: transport failures and
// 5xx responses. Everything else, 4xx included, is final.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var te *TransportError
	if errors.As(err, &te) {
		return true
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Transient()
	}
	return false
}

// StatusOf returns the HTTP status carried by err, or 0
func StatusOf(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
