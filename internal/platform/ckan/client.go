package ckan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/saeondata/jsonapi-facade/internal/config"
	"github.com/saeondata/jsonapi-facade/internal/platform/logger"
	"github.com/saeondata/jsonapi-facade/internal/redact"
)

// maxResponseBytes caps how much of a backend response is read.
const maxResponseBytes = 16 << 20

const userAgent = "jsonapi-facade/0.1"

// Client sends actions to one CKAN instance. It holds no connections of its
// own: every call opens a Session, uses it once and closes it.
type Client struct {
	baseURL   string
	timeout   time.Duration
	transport *http.Transport
	logger    *slog.Logger
}

// NewClient creates a Client for the configured backend.
func NewClient(cfg config.CKANConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: backend url %q is not absolute", ErrInvalidConfig, cfg.URL)
	}

	if cfg.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}

	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		base = &http.Transport{}
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		transport: base.Clone(),
		logger:    logger.With("component", "ckan_client"),
	}, nil
}

// BaseURL returns the backend root the client talks to, without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Open starts a session authenticated with apiKey. The session owns its own
// connection pool and must be closed by the caller.
func (c *Client) Open(apiKey string) *Session {
	return &Session{
		client: c,
		apiKey: apiKey,
		http: &http.Client{
			Transport: c.transport.Clone(),
			Timeout:   c.timeout,
		},
	}
}

// Call runs exactly one action in a fresh session, closing the session before
// returning whatever the outcome.
func (c *Client) Call(ctx context.Context, apiKey string, call ActionCall) (any, error) {
	session := c.Open(apiKey)
	defer session.Close()

	return session.CallAction(ctx, call)
}

// Session is a single authenticated conversation with the backend.
type Session struct {
	client *Client
	apiKey string
	http   *http.Client
	closed bool
}

// Close releases the session's connections. It is safe to call more than once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.http.CloseIdleConnections()
}

// CallAction sends call and returns the decoded "result" member on success.
// Backend failures come back as *ActionError.
func (s *Session) CallAction(ctx context.Context, call ActionCall) (any, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}

	log := logger.FromContextOrDefault(ctx, s.client.logger).With("action", call.Action)
	start := time.Now()

	req, err := s.newRequest(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", call.Action, err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		actionDuration.WithLabelValues(call.Action).Observe(time.Since(start).Seconds())
		actionsTotal.WithLabelValues(call.Action, outcomeTransportError).Inc()
		log.Error("ckan action transport failure", "error", redact.Error(err))
		return nil, fmt.Errorf("%s request failed: %w", call.Action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	actionDuration.WithLabelValues(call.Action).Observe(time.Since(start).Seconds())
	if err != nil {
		actionsTotal.WithLabelValues(call.Action, outcomeTransportError).Inc()
		return nil, fmt.Errorf("failed to read %s response: %w", call.Action, err)
	}

	result, err := decodeResponse(call.Action, resp.StatusCode, body)
	if err != nil {
		actionsTotal.WithLabelValues(call.Action, outcomeActionError).Inc()
		log.Debug("ckan action failed",
			"status_code", resp.StatusCode,
			"error", redact.Error(err))
		return nil, err
	}

	actionsTotal.WithLabelValues(call.Action, outcomeSuccess).Inc()
	log.Debug("ckan action succeeded",
		"status_code", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

func (s *Session) newRequest(ctx context.Context, call ActionCall) (*http.Request, error) {
	endpoint := s.client.baseURL + "/api/action/" + url.PathEscape(call.Action)

	var (
		req *http.Request
		err error
	)
	if call.ReadOnly() {
		query, qerr := encodeQuery(call.Params)
		if qerr != nil {
			return nil, qerr
		}
		if len(query) > 0 {
			endpoint += "?" + query.Encode()
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	} else {
		params := call.Params
		if params == nil {
			params = Params{}
		}
		payload, merr := json.Marshal(params)
		if merr != nil {
			return nil, merr
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if s.apiKey != "" {
		req.Header.Set("Authorization", s.apiKey)
	}
	return req, nil
}

// encodeQuery flattens params for GET actions. Strings go through as-is,
// booleans and numbers in their literal form, everything else as JSON.
func encodeQuery(params Params) (url.Values, error) {
	query := url.Values{}
	for key, value := range params {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			query.Set(key, v)
		case bool:
			query.Set(key, strconv.FormatBool(v))
		case int:
			query.Set(key, strconv.Itoa(v))
		case float64:
			query.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("failed to encode parameter %s: %w", key, err)
			}
			query.Set(key, string(encoded))
		}
	}
	return query, nil
}

// responseWrapper is the envelope every CKAN action response uses. The error
// member is usually an object but older servers and proxies send a string.
type responseWrapper struct {
	Success *bool           `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   json.RawMessage `json:"error"`
}

func decodeResponse(action string, status int, body []byte) (any, error) {
	var wrapper responseWrapper
	if err := json.Unmarshal(body, &wrapper); err != nil || wrapper.Success == nil {
		return nil, &ActionError{
			Action:     action,
			StatusCode: status,
			Body:       string(body),
		}
	}

	if !*wrapper.Success {
		return nil, decodeActionError(action, status, wrapper.Error)
	}

	if len(wrapper.Result) == 0 {
		return nil, nil
	}

	var result any
	if err := json.Unmarshal(wrapper.Result, &result); err != nil {
		return nil, &ActionError{
			Action:     action,
			StatusCode: status,
			Body:       string(body),
		}
	}
	return result, nil
}

// decodeActionError builds the error for a success=false response. Only an
// object becomes Detail; a string is kept as the error text; null or any
// other shape leaves just the status code.
func decodeActionError(action string, status int, raw json.RawMessage) *ActionError {
	actionErr := &ActionError{Action: action, StatusCode: status}

	var decoded any
	if len(raw) == 0 || json.Unmarshal(raw, &decoded) != nil {
		return actionErr
	}

	switch v := decoded.(type) {
	case map[string]any:
		detail := make(map[string]any, len(v))
		for k, val := range v {
			if k == "__type" {
				actionErr.Type, _ = val.(string)
				continue
			}
			detail[k] = val
		}
		actionErr.Detail = detail
	case string:
		actionErr.Body = v
	}
	return actionErr
}
