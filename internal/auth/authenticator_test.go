package auth_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/saeondata/jsonapi-facade/internal/auth"
	"github.com/saeondata/jsonapi-facade/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "thisisasecretkeythatis32charslong!!"

func TestStaticAuthenticator(t *testing.T) {
	ctx := context.Background()

	key, err := auth.NewStaticAuthenticator("static-key").Authenticate(ctx, "anyone", "anything")
	require.NoError(t, err)
	assert.Equal(t, "static-key", key)

	_, err = auth.NewStaticAuthenticator("").Authenticate(ctx, "admin", "secret")
	assert.ErrorIs(t, err, auth.ErrAccessDenied)
}

func writeCredentials(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	content := "accounts:\n" +
		"  - username: admin\n" +
		"    password_hash: " + string(hash) + "\n" +
		"    api_key: admin-key\n"

	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCredentialsAuthenticator(t *testing.T) {
	authenticator, err := auth.LoadCredentialsFile(writeCredentials(t, "correct horse"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantKey  string
	}{
		{name: "valid credentials", username: "admin", password: "correct horse", wantKey: "admin-key"},
		{name: "wrong password", username: "admin", password: "battery staple"},
		{name: "unknown user", username: "guest", password: "correct horse"},
		{name: "empty password", username: "admin", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := authenticator.Authenticate(context.Background(), tt.username, tt.password)
			if tt.wantKey == "" {
				assert.ErrorIs(t, err, auth.ErrAccessDenied)
				assert.Empty(t, key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestNewCredentialsAuthenticator_RejectsBadAccounts(t *testing.T) {
	const hash = "$2a$10$abcdefghijklmnopqrstuv"

	tests := []struct {
		name     string
		accounts []auth.Account
	}{
		{name: "missing username", accounts: []auth.Account{{PasswordHash: hash, APIKey: "k"}}},
		{name: "missing api key", accounts: []auth.Account{{Username: "a", PasswordHash: hash}}},
		{name: "hash is not bcrypt", accounts: []auth.Account{{Username: "a", PasswordHash: "plaintext", APIKey: "k"}}},
		{name: "duplicate username", accounts: []auth.Account{
			{Username: "a", PasswordHash: hash, APIKey: "k"},
			{Username: "a", PasswordHash: hash, APIKey: "l"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.NewCredentialsAuthenticator(tt.accounts)
			assert.Error(t, err)
		})
	}

	_, err := auth.LoadCredentialsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func signToken(t *testing.T, secret string, claims auth.IdentityClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestTokenAuthenticator(t *testing.T) {
	authenticator, err := auth.NewTokenAuthenticator(testSecret)
	require.NoError(t, err)

	now := time.Now()
	valid := auth.IdentityClaims{
		APIKey: "user-key",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))

	noKey := valid
	noKey.APIKey = ""

	tests := []struct {
		name     string
		username string
		token    string
		wantKey  string
	}{
		{name: "valid token", username: "admin", token: signToken(t, testSecret, valid), wantKey: "user-key"},
		{name: "valid token without username", token: signToken(t, testSecret, valid), wantKey: "user-key"},
		{name: "subject mismatch", username: "guest", token: signToken(t, testSecret, valid)},
		{name: "expired token", username: "admin", token: signToken(t, testSecret, expired)},
		{name: "missing apikey claim", username: "admin", token: signToken(t, testSecret, noKey)},
		{name: "wrong secret", username: "admin", token: signToken(t, testSecret+"x", valid)},
		{name: "not a token", username: "admin", token: "plain-password"},
		{name: "empty token", username: "admin", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := authenticator.Authenticate(context.Background(), tt.username, tt.token)
			if tt.wantKey == "" {
				assert.ErrorIs(t, err, auth.ErrAccessDenied)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestNewTokenAuthenticator_ShortSecret(t *testing.T) {
	_, err := auth.NewTokenAuthenticator("short")
	assert.Error(t, err)
}

func TestNew_SelectsMode(t *testing.T) {
	cfg := &config.Config{CKAN: config.CKANConfig{APIKey: "k"}, Auth: config.AuthConfig{Mode: config.AuthModeStatic}}
	a, err := auth.New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &auth.StaticAuthenticator{}, a)

	cfg.Auth = config.AuthConfig{Mode: config.AuthModeToken, TokenSecret: testSecret}
	a, err = auth.New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &auth.TokenAuthenticator{}, a)

	cfg.Auth = config.AuthConfig{Mode: config.AuthModeCredentials, CredentialsFile: writeCredentials(t, "pw")}
	a, err = auth.New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &auth.CredentialsAuthenticator{}, a)

	cfg.Auth = config.AuthConfig{Mode: "ldap"}
	_, err = auth.New(cfg)
	assert.Error(t, err)
}
