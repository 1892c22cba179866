package auth

import "errors"

// Domain outcomes the HTTP layer maps to client-visible responses. Anything
// else coming out of the service is a dependency failure and gets the
// opaque internal-error treatment.
var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)
