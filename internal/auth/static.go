package auth

import "context"

// StaticAuthenticator hands every caller the same configured key. It ignores
// the credentials entirely and exists until an identity provider is wired in.
type StaticAuthenticator struct {
	apiKey string
}

var _ Authenticator = (*StaticAuthenticator)(nil)

// NewStaticAuthenticator creates a StaticAuthenticator for apiKey. An empty
// key denies every request.
func NewStaticAuthenticator(apiKey string) *StaticAuthenticator {
	return &StaticAuthenticator{apiKey: apiKey}
}

// Authenticate implements Authenticator.
func (a *StaticAuthenticator) Authenticate(ctx context.Context, username, password string) (string, error) {
	if a.apiKey == "" {
		return "", ErrAccessDenied
	}
	return a.apiKey, nil
}
