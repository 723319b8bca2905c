package snippets

import "errors"

// ErrForbidden is returned when a user modifies a snippet they do not own.
var ErrForbidden = errors.New("not allowed to modify this snippet")

// ValidationError reports unacceptable snippet input.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }
