// Package errs defines the error kinds shared by the repository, service and
// handler layers. Lower layers return (or wrap) one of the sentinels below and
// the handler layer maps the kind to an HTTP status.
package errs

import "errors"

// Error kinds.
var (
	// ErrNotFound indicates a lookup of a user or resource by id/email missed.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials indicates a password mismatch at sign-in.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateEmail indicates a registration collided with an existing email.
	ErrDuplicateEmail = errors.New("duplicate email")

	// ErrInvalidToken indicates an expired, tampered or revoked token.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnauthorized indicates the ownership/role check failed on mutate/delete.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the role guard rejected the caller.
	ErrForbidden = errors.New("forbidden")

	// ErrUnknownEntity indicates the pagination engine was given an entity
	// name that is not registered. This is a programming/config error.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrInvalidParameter indicates a bad filter/sort/where field or sort order.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrValidation indicates a malformed request body.
	ErrValidation = errors.New("validation failed")
)

// Error carries an error kind together with a human readable message.
type Error struct {
	Kind    error
	Message string
}

// New returns an *Error of the given kind.
func New(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// Message returns the human readable message of err: the Message of the first
// *Error in its chain, or err.Error() otherwise.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}
