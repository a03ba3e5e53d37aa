package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// maxBodyBytes caps the size of a legacy request body.
const maxBodyBytes = 10 << 20

// ErrInvalidBody is returned when a request body cannot be decoded.
var ErrInvalidBody = errors.New("invalid request body")

// DecodeLegacyFields reads a legacy request into a flat field map.
//
// JSON bodies must be an object; nested values are kept as decoded.
// Form-encoded and multipart bodies contribute the first value of each field.
// Query parameters fill in any field the body did not set.
func DecodeLegacyFields(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	fields := map[string]any{}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		if err := decodeJSONObject(http.MaxBytesReader(w, r.Body, maxBodyBytes), fields); err != nil {
			return nil, err
		}
	case mediaType == "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		copyFirstValues(fields, r.PostForm)
	default:
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		copyFirstValues(fields, r.PostForm)
	}

	for key, values := range r.URL.Query() {
		if _, set := fields[key]; !set && len(values) > 0 {
			fields[key] = values[0]
		}
	}

	return fields, nil
}

func decodeJSONObject(body io.Reader, into map[string]any) error {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: expected a JSON object", ErrInvalidBody)
	}
	for k, v := range obj {
		into[k] = v
	}
	return nil
}

func copyFirstValues(into map[string]any, values map[string][]string) {
	for key, vals := range values {
		if len(vals) > 0 {
			into[key] = vals[0]
		}
	}
}

// BaseURL returns the scheme and host the request arrived on. With
// trustForwarded set, X-Forwarded-Proto and X-Forwarded-Host from a fronting
// proxy take precedence; otherwise they are ignored, since any client can
// send them.
func BaseURL(r *http.Request, trustForwarded bool) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host

	if trustForwarded {
		if proto := firstListValue(r.Header.Get("X-Forwarded-Proto")); proto == "http" || proto == "https" {
			scheme = proto
		}
		if fwd := firstListValue(r.Header.Get("X-Forwarded-Host")); fwd != "" {
			host = fwd
		}
	}

	return scheme + "://" + host
}

func firstListValue(header string) string {
	return strings.TrimSpace(strings.Split(header, ",")[0])
}
