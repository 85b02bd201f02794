package domain

import "errors"

// Error kinds. Every concrete domain error wraps exactly one of these so the
// transport layer can map it to a status code with errors.Is.
var (
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("authentication error")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUpstream        = errors.New("upstream error")
	ErrRateLimited     = errors.New("rate limit exceeded")
)

// Error is a domain failure carrying a kind and a caller-safe message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// NewError builds an Error of the given kind.
func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Validation returns an ErrValidation-kind error with msg.
func Validation(msg string) *Error {
	return NewError(ErrValidation, msg)
}

// Identity, credentials and authorization.
var (
	ErrInvalidCredentials = NewError(ErrUnauthenticated, "invalid credentials")
	ErrInvalidToken       = NewError(ErrUnauthenticated, "token is not valid")
	ErrDuplicateEmail     = NewError(ErrConflict, "user already exists")
	ErrForbiddenRole      = NewError(ErrValidation, "admin registration is not allowed")
	ErrUserNotFound       = NewError(ErrNotFound, "user not found")
	ErrNotVendor          = NewError(ErrForbidden, "only vendors can submit quotes")
	ErrNotOwner           = NewError(ErrForbidden, "access denied")
)

// Request and quote lifecycle.
var (
	ErrRequestNotFound = NewError(ErrNotFound, "request not found")
	ErrRequestClosed   = NewError(ErrConflict, "this request is no longer open for quotes")
	ErrQuoteNotFound   = NewError(ErrNotFound, "quote not found")
	ErrQuoteDecided    = NewError(ErrConflict, "quote has already been accepted or rejected")
)

// Catalog lookup proxy.
var (
	ErrInvalidISBN          = NewError(ErrValidation, "ISBN must be 10 or 13 digits (hyphens allowed)")
	ErrCatalogNotFound      = NewError(ErrNotFound, "book not found")
	ErrCatalogMisconfigured = NewError(ErrUpstream, "catalog service is not configured correctly")
	ErrCatalogTimeout       = NewError(ErrUpstream, "catalog service timed out, try again later")
	ErrCatalogUnavailable   = NewError(ErrUpstream, "catalog service is temporarily unavailable, try again later")
)
