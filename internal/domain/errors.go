package domain

import "errors"

// -----------------------------------------------------------------------------
// Domain Errors
// These errors are raised before any remote call is made and are shared by
// the services that validate caller input.
// -----------------------------------------------------------------------------

// Session errors
var (
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Match errors
var (
	ErrInvalidMatchStatus = errors.New("invalid match status")
	ErrInvalidMatchID     = errors.New("invalid match id")
)

// Profile errors
var (
	ErrInvalidEnumValue = errors.New("value not in enumeration")
)

// General errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidPagination = errors.New("invalid pagination")
)
