package auth

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Account is one entry of a credentials file.
type Account struct {
	Username     string `yaml:"username" validate:"required"`
	PasswordHash string `yaml:"password_hash" validate:"required,startswith=$2"`
	APIKey       string `yaml:"api_key" validate:"required"`
}

type credentialsFile struct {
	Accounts []Account `yaml:"accounts"`
}

// CredentialsAuthenticator checks legacy usernames and passwords against
// bcrypt hashes and returns the backend key stored for the account.
//
// A credentials file looks like:
//
//	accounts:
//	  - username: admin
//	    password_hash: $2a$10$...
//	    api_key: 5b0c...
type CredentialsAuthenticator struct {
	accounts map[string]Account
}

var _ Authenticator = (*CredentialsAuthenticator)(nil)

// NewCredentialsAuthenticator indexes accounts by username.
func NewCredentialsAuthenticator(accounts []Account) (*CredentialsAuthenticator, error) {
	validate := validator.New()
	index := make(map[string]Account, len(accounts))
	for i, acct := range accounts {
		if err := validate.Struct(acct); err != nil {
			return nil, fmt.Errorf("account %d (%s) is invalid: %w", i, acct.Username, err)
		}
		if _, dup := index[acct.Username]; dup {
			return nil, fmt.Errorf("account %s listed twice", acct.Username)
		}
		index[acct.Username] = acct
	}
	return &CredentialsAuthenticator{accounts: index}, nil
}

// LoadCredentialsFile reads a YAML credentials file.
func LoadCredentialsFile(path string) (*CredentialsAuthenticator, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var file credentialsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	return NewCredentialsAuthenticator(file.Accounts)
}

// Authenticate implements Authenticator.
func (a *CredentialsAuthenticator) Authenticate(ctx context.Context, username, password string) (string, error) {
	acct, ok := a.accounts[username]
	if !ok || password == "" {
		return "", ErrAccessDenied
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("%w: password mismatch for %s", ErrAccessDenied, username)
	}

	return acct.APIKey, nil
}
