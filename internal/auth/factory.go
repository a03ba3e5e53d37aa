package auth

import (
	"fmt"

	"github.com/saeondata/jsonapi-facade/internal/config"
)

// New builds the Authenticator selected by cfg.Auth.Mode.
func New(cfg *config.Config) (Authenticator, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeStatic, "":
		return NewStaticAuthenticator(cfg.CKAN.APIKey), nil
	case config.AuthModeCredentials:
		return LoadCredentialsFile(cfg.Auth.CredentialsFile)
	case config.AuthModeToken:
		return NewTokenAuthenticator(cfg.Auth.TokenSecret)
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}
}
