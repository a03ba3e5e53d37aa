package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// APIKeyClaim is the claim carrying the backend key in identity tokens.
const APIKeyClaim = "apikey"

// MinTokenSecretLength is the shortest HMAC secret accepted.
const MinTokenSecretLength = 32

// IdentityClaims are the claims read from an identity-provider token.
type IdentityClaims struct {
	APIKey string `json:"apikey"`
	jwt.RegisteredClaims
}

// TokenAuthenticator accepts an access token issued by the identity provider
// in place of the legacy password. The token is an HS256 JWT signed with a
// secret shared with the provider; its apikey claim is the backend key.
type TokenAuthenticator struct {
	secret    []byte
	timeFunc  func() time.Time
	clockSkew time.Duration
}

var _ Authenticator = (*TokenAuthenticator)(nil)

// NewTokenAuthenticator creates a TokenAuthenticator.
func NewTokenAuthenticator(secret string) (*TokenAuthenticator, error) {
	if len(secret) < MinTokenSecretLength {
		return nil, fmt.Errorf("token secret must be at least %d characters", MinTokenSecretLength)
	}
	return &TokenAuthenticator{
		secret:    []byte(secret),
		timeFunc:  time.Now,
		clockSkew: 2 * time.Minute,
	}, nil
}

// Authenticate implements Authenticator. password carries the token; when a
// username is given it must match the token subject.
func (a *TokenAuthenticator) Authenticate(ctx context.Context, username, password string) (string, error) {
	if password == "" {
		return "", ErrAccessDenied
	}

	claims := &IdentityClaims{}
	_, err := jwt.ParseWithClaims(password, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return a.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(a.clockSkew),
		jwt.WithTimeFunc(a.timeFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: identity token expired", ErrAccessDenied)
		}
		return "", fmt.Errorf("%w: invalid identity token: %v", ErrAccessDenied, err)
	}

	if username != "" && claims.Subject != username {
		return "", fmt.Errorf("%w: token subject does not match %s", ErrAccessDenied, username)
	}
	if claims.APIKey == "" {
		return "", fmt.Errorf("%w: token carries no %s claim", ErrAccessDenied, APIKeyClaim)
	}

	return claims.APIKey, nil
}
