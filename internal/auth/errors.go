package auth

import "errors"

var (
	// ErrInvalidCredentials is returned by Login for an unknown email and
	// for a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthorized indicates a missing, invalid or expired token, or a
	// token whose user no longer exists.
	ErrUnauthorized = errors.New("invalid or expired token")
)

// ValidationError reports unacceptable registration or login input.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }
