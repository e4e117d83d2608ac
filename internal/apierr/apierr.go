// Package apierr classifies failed API calls into the closed set of domain
// error codes callers are expected to branch on.
package apierr

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/matchme/internal/remote"
)

// Code is a domain error code carried in the error envelope
type Code string

const (
	CodeUserNotFound         Code = "USER_NOT_FOUND"
	CodeMatchCandidateEmpty  Code = "MATCH_CANDIDATE_EMPTY"
	CodeExpiredAuth          Code = "EXPIRED_AUTH"
	CodeInvalidAuthorization Code = "INVALID_AUTHORIZATION"
	CodeUnauthorized         Code = "UNAUTHORIZED"
)

// Known reports whether c is one of the codes callers can recover from
func (c Code) Known() bool {
	switch c {
	case CodeUserNotFound, CodeMatchCandidateEmpty,
		CodeExpiredAuth, CodeInvalidAuthorization, CodeUnauthorized:
		return true
	}
	return false
}

// DomainError is a classified API failure
type DomainError struct {
	Code    Code
	Status  int
	Message string
	Details map[string][]string
	cause   error
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return string(e.Code)
}

func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches any DomainError with the same code, so sentinels below work
// with errors.Is.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NeedsReauth reports whether the session is invalid
func (e *DomainError) NeedsReauth() bool {
	switch e.Code {
	case CodeExpiredAuth, CodeInvalidAuthorization, CodeUnauthorized:
		return true
	}
	return false
}

// NeedsProfile reports whether the caller should route to profile creation
func (e *DomainError) NeedsProfile() bool {
	return e.Code == CodeUserNotFound
}

// Sentinels for errors.Is
var (
	ErrUserNotFound         = &DomainError{Code: CodeUserNotFound}
	ErrMatchCandidateEmpty  = &DomainError{Code: CodeMatchCandidateEmpty}
	ErrExpiredAuth          = &DomainError{Code: CodeExpiredAuth}
	ErrInvalidAuthorization = &DomainError{Code: CodeInvalidAuthorization}
	ErrUnauthorized         = &DomainError{Code: CodeUnauthorized}
)

// New creates a DomainError raised by the client itself rather than the API
func New(code Code, status int, message string) *DomainError {
	return &DomainError{Code: code, Status: status, Message: message}
}

// Classify turns a failed API call into a *DomainError when the response
// carried an error envelope whose first code is a known one. Any other
// error, including envelopes that fail to decode, is returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var de *DomainError
	if errors.As(err, &de) {
		return err
	}

	var re *remote.RemoteError
	if !errors.As(err, &re) {
		return err
	}

	env, decodeErr := remote.DecodeEnvelope(re.RawBody)
	if decodeErr != nil {
		return err
	}

	first := env.Errors[0]
	code := Code(first.Code)
	if !code.Known() {
		return err
	}

	return &DomainError{
		Code:    code,
		Status:  re.Status,
		Message: first.Message,
		Details: first.Details,
		cause:   err,
	}
}

// As returns the DomainError carried by err, if any
func As(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// NeedsReauth reports whether err means the session must be renewed
func NeedsReauth(err error) bool {
	de, ok := As(err)
	return ok && de.NeedsReauth()
}
