package core

import "errors"

// ValidationError marks malformed caller input. The web adapter maps it to
// HTTP 400; everything else wrapped with %w is treated as an internal failure.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err (or anything it wraps) is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrNotFound is returned when an entity referenced by id does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateClient is returned by CreateClient when another client already
// carries the same CUIT.
var ErrDuplicateClient = errors.New("ya existe un cliente con ese CUIT")
