package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	CKAN   CKANConfig   `mapstructure:"ckan" validate:"required"`
	Auth   AuthConfig   `mapstructure:"auth" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// TrustProxyHeaders makes links in responses follow X-Forwarded-Proto and
	// X-Forwarded-Host. Enable it only behind a proxy that sets both.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers"`
}

// CKANConfig describes the backend action API the facade forwards to.
type CKANConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
	// APIKey is the static fallback key handed out by the static authenticator.
	APIKey         string `mapstructure:"api_key"`
	FieldVersion   string `mapstructure:"field_version" validate:"required,oneof=metadata content"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// Authentication modes accepted in AuthConfig.Mode.
const (
	AuthModeStatic      = "static"
	AuthModeCredentials = "credentials"
	AuthModeToken       = "token"
)

// AuthConfig selects how legacy credentials are resolved into a backend API key.
type AuthConfig struct {
	Mode            string `mapstructure:"mode" validate:"required,oneof=static credentials token"`
	CredentialsFile string `mapstructure:"credentials_file" validate:"required_if=Mode credentials"`
	TokenSecret     string `mapstructure:"token_secret" validate:"required_if=Mode token"`
}
