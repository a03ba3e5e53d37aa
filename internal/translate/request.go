package translate

import (
	"encoding/json"
	"fmt"
)

// Legacy credential fields. They are stripped from every payload.
const (
	FieldUsername = "__ac_name"
	FieldPassword = "__ac_password"
)

// Request is one inbound legacy call.
type Request struct {
	// Fields holds the decoded body (and query) values.
	Fields map[string]any
	Path   PathParams
	// BaseURL is the scheme and host the caller reached us on, e.g.
	// "https://portal.example.org". Used to build links in listings.
	BaseURL string
}

// PathParams are the route segments of a legacy URL.
type PathParams struct {
	Institution string
	Repository  string
	Username    string
}

// Credentials are the legacy login fields carried with a request.
type Credentials struct {
	Username string
	Password string
}

// Payload is a private copy of a request's fields with credentials removed.
type Payload map[string]any

// Extract splits fields into credentials and payload. fields is not modified.
func Extract(fields map[string]any) (Credentials, Payload) {
	payload := make(Payload, len(fields))
	for k, v := range fields {
		payload[k] = v
	}

	creds := Credentials{
		Username: payload.Pop(FieldUsername),
		Password: payload.Pop(FieldPassword),
	}
	return creds, payload
}

// Pop removes key and returns its value as a string, "" when absent.
func (p Payload) Pop(key string) string {
	v, ok := p[key]
	if !ok {
		return ""
	}
	delete(p, key)
	return stringValue(v)
}

// PopFirst removes every key in keys and returns the first non-empty value.
// Later keys are aliases for earlier ones.
func (p Payload) PopFirst(keys ...string) string {
	var found string
	for _, key := range keys {
		if v := p.Pop(key); found == "" && v != "" {
			found = v
		}
	}
	return found
}

// PopRaw removes key and returns its value untouched.
func (p Payload) PopRaw(key string) (any, bool) {
	v, ok := p[key]
	if ok {
		delete(p, key)
	}
	return v, ok
}

func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		if len(val) == 0 {
			return ""
		}
		return val[0]
	case json.Number:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
