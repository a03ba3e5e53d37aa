package auth

import (
	"context"
	"errors"
)

// ErrAccessDenied is returned when no usable backend key can be resolved
// for the supplied credentials.
var ErrAccessDenied = errors.New("access denied")

// Authenticator exchanges legacy credentials for an opaque backend token.
type Authenticator interface {
	// Authenticate returns the token to send to the backend, or an error
	// wrapping ErrAccessDenied.
	Authenticate(ctx context.Context, username, password string) (string, error)
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
type AuthenticatorFunc func(ctx context.Context, username, password string) (string, error)

// Authenticate calls f.
func (f AuthenticatorFunc) Authenticate(ctx context.Context, username, password string) (string, error) {
	return f(ctx, username, password)
}
