package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/saeondata/jsonapi-facade/internal/auth"
	"github.com/saeondata/jsonapi-facade/internal/platform/ckan"
	"github.com/saeondata/jsonapi-facade/internal/platform/logger"
	"github.com/saeondata/jsonapi-facade/internal/redact"
)

// ActionCaller runs one backend action with the given key. *ckan.Client
// satisfies it, opening and closing a session around each call.
type ActionCaller interface {
	Call(ctx context.Context, apiKey string, call ckan.ActionCall) (any, error)
}

// Translator serves the legacy operations. It holds no per-request state and
// is safe for concurrent use.
type Translator struct {
	caller        ActionCaller
	authenticator auth.Authenticator
	version       FieldVersion
	backendURL    string
	logger        *slog.Logger
}

// Options configures a Translator.
type Options struct {
	// BackendURL is the public root of the backend, used in returned links.
	BackendURL   string
	FieldVersion FieldVersion
}

// NewTranslator creates a Translator.
func NewTranslator(
	caller ActionCaller,
	authenticator auth.Authenticator,
	opts Options,
	logger *slog.Logger,
) (*Translator, error) {
	if caller == nil {
		return nil, errors.New("action caller cannot be nil")
	}
	if authenticator == nil {
		return nil, errors.New("authenticator cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	version := opts.FieldVersion
	if version == "" {
		version = FieldVersionMetadata
	}
	if _, err := ParseFieldVersion(string(version)); err != nil {
		return nil, err
	}

	return &Translator{
		caller:        caller,
		authenticator: authenticator,
		version:       version,
		backendURL:    opts.BackendURL,
		logger:        logger.With("component", "translator"),
	}, nil
}

// CreateMetadata stores a metadata record in the request's repository.
func (t *Translator) CreateMetadata(ctx context.Context, req Request) Response {
	creds, payload := Extract(req.Fields)

	call, err := BuildCreateMetadata(t.version, req.Path, payload)
	if err != nil {
		return t.fail(ctx, "create_metadata", err)
	}

	result, err := t.invoke(ctx, creds, call)
	if err != nil {
		return t.fail(ctx, "create_metadata", err)
	}

	return NormalizeCreated(result, t.backendURL, ActionMetadataRecordShow)
}

// GetMetadata lists the records of the request's repository.
func (t *Translator) GetMetadata(ctx context.Context, req Request) Response {
	creds, _ := Extract(req.Fields)

	call, err := BuildGetMetadata(req.Path)
	if err != nil {
		return t.fail(ctx, "get_metadata", err)
	}

	result, err := t.invoke(ctx, creds, call)
	if err != nil {
		return t.fail(ctx, "get_metadata", err)
	}

	return NormalizeRead(result)
}

// CreateInstitution creates an organization and its default repository.
//
// If the repository cannot be created the organization is deleted again so
// it is not left without one. The delete is best effort: when it fails too
// the organization stays behind, the failure is logged, and the caller still
// gets the repository error.
func (t *Translator) CreateInstitution(ctx context.Context, req Request) Response {
	creds, payload := Extract(req.Fields)

	call, err := BuildCreateInstitution(payload)
	if err != nil {
		return t.fail(ctx, "create_institution", err)
	}

	apiKey, err := t.authenticate(ctx, creds)
	if err != nil {
		return t.fail(ctx, "create_institution", err)
	}

	result, err := t.caller.Call(ctx, apiKey, call)
	if err != nil {
		return t.fail(ctx, "create_institution", err)
	}

	name, _ := call.Params["name"].(string)
	title, _ := call.Params["title"].(string)

	repoCall := BuildDefaultRepository(name, title)
	if _, repoErr := t.caller.Call(ctx, apiKey, repoCall); repoErr != nil {
		t.compensate(ctx, apiKey, result, name)
		return t.fail(ctx, "create_institution", repoErr)
	}

	return NormalizeCreated(result, t.backendURL, ActionOrganizationShow)
}

// compensate deletes an organization whose default repository could not be
// created. Its own failure is only logged.
func (t *Translator) compensate(ctx context.Context, apiKey string, created any, name string) {
	log := logger.FromContextOrDefault(ctx, t.logger)

	id := name
	if record, ok := created.(map[string]any); ok {
		if v := stringValue(record["id"]); v != "" {
			id = v
		}
	}

	if _, err := t.caller.Call(ctx, apiKey, BuildDeleteInstitution(id)); err != nil {
		log.Error("failed to roll back organization after repository creation failed; organization is orphaned",
			"organization", name,
			"organization_id", id,
			"error", redact.Error(err))
		return
	}

	log.Warn("rolled back organization after repository creation failed",
		"organization", name,
		"organization_id", id)
}

// ListInstitutions lists organizations, tagging each with its legacy URL.
func (t *Translator) ListInstitutions(ctx context.Context, req Request) Response {
	creds, payload := Extract(req.Fields)

	call, err := BuildListInstitutions(payload)
	if err != nil {
		return t.fail(ctx, "list_institutions", err)
	}

	result, err := t.invoke(ctx, creds, call)
	if err != nil {
		return t.fail(ctx, "list_institutions", err)
	}

	return NormalizeRead(AttachContextPaths(result, req.BaseURL))
}

// ListUsers lists users, optionally restricted to a pipe-delimited user_id set.
func (t *Translator) ListUsers(ctx context.Context, req Request) Response {
	creds, payload := Extract(req.Fields)

	call, names := BuildListUsers(payload)

	result, err := t.invoke(ctx, creds, call)
	if err != nil {
		return t.fail(ctx, "list_users", err)
	}

	return NormalizeRead(FilterByName(result, names))
}

// GetUser shows one user.
func (t *Translator) GetUser(ctx context.Context, req Request) Response {
	creds, _ := Extract(req.Fields)

	call, err := BuildGetUser(req.Path)
	if err != nil {
		return t.fail(ctx, "get_user", err)
	}

	result, err := t.invoke(ctx, creds, call)
	if err != nil {
		return t.fail(ctx, "get_user", err)
	}

	return NormalizeRead(result)
}

// invoke authenticates and runs a single action.
func (t *Translator) invoke(ctx context.Context, creds Credentials, call ckan.ActionCall) (any, error) {
	apiKey, err := t.authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}
	return t.caller.Call(ctx, apiKey, call)
}

func (t *Translator) authenticate(ctx context.Context, creds Credentials) (string, error) {
	apiKey, err := t.authenticator.Authenticate(ctx, creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrAccessDenied) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", auth.ErrAccessDenied, err)
	}
	return apiKey, nil
}

func (t *Translator) fail(ctx context.Context, operation string, err error) Response {
	resp := NormalizeError(err)

	log := logger.FromContextOrDefault(ctx, t.logger)
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		log.Debug("request rejected", "operation", operation, "reason", validationErr.Message)
	case errors.Is(err, auth.ErrAccessDenied):
		log.Warn("access denied", "operation", operation, "error", redact.Error(err))
	default:
		log.Info("backend action failed", "operation", operation, "error", redact.Error(err))
	}

	return resp
}
