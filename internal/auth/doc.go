// Package auth resolves legacy portal credentials into the API key used
// against the backend. The Translator only sees the Authenticator interface;
// which variant runs is a configuration choice.
package auth
