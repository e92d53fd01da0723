// Package errors provides the error kinds returned by the product service and its stores.
package errors

import "errors"

// Store sentinels.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrNameTaken       = errors.New("product name already taken")
)

// Kinds reported to callers of the service.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
)

// Error is a service error carrying a human-readable message and a kind.
// errors.Is(err, ErrBadRequest) and errors.Is(err, ErrNotFound) match on the kind.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

// BadRequest returns an error of kind ErrBadRequest.
func BadRequest(msg string) error {
	return &Error{kind: ErrBadRequest, msg: msg}
}

// NotFound returns an error of kind ErrNotFound.
func NotFound(msg string) error {
	return &Error{kind: ErrNotFound, msg: msg}
}
