// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config file. Environment
// variables use the JSONAPI_ prefix, e.g. JSONAPI_CKAN_URL.
package config
