package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saeondata/jsonapi-facade/internal/api/shared"
	"github.com/saeondata/jsonapi-facade/internal/translate"
)

// Operations is the set of legacy operations the handler serves.
// *translate.Translator implements it.
type Operations interface {
	CreateMetadata(ctx context.Context, req translate.Request) translate.Response
	GetMetadata(ctx context.Context, req translate.Request) translate.Response
	CreateInstitution(ctx context.Context, req translate.Request) translate.Response
	ListInstitutions(ctx context.Context, req translate.Request) translate.Response
	ListUsers(ctx context.Context, req translate.Request) translate.Response
	GetUser(ctx context.Context, req translate.Request) translate.Response
}

type operation func(ctx context.Context, req translate.Request) translate.Response

// LegacyHandler exposes Operations on the legacy URL layout.
type LegacyHandler struct {
	ops               Operations
	trustProxyHeaders bool
}

// NewLegacyHandler creates a new LegacyHandler. trustProxyHeaders decides
// whether X-Forwarded-* headers shape the links returned in listings.
func NewLegacyHandler(ops Operations, trustProxyHeaders bool) *LegacyHandler {
	return &LegacyHandler{ops: ops, trustProxyHeaders: trustProxyHeaders}
}

// Routes registers the legacy endpoints on r.
func (h *LegacyHandler) Routes(r chi.Router) {
	r.Route("/Institutions", func(r chi.Router) {
		r.Post("/jsonCreateInstitution", h.CreateInstitution)
		r.Get("/jsonContent", h.ListInstitutions)
		r.Post("/jsonContent", h.ListInstitutions)

		r.Route("/{institution}/{repository}/metadata", func(r chi.Router) {
			r.Post("/jsonCreateMetadataAsJson", h.CreateMetadata)
			r.Get("/jsonContent", h.GetMetadata)
			r.Post("/jsonContent", h.GetMetadata)
		})
	})

	r.Route("/Users", func(r chi.Router) {
		r.Get("/jsonContent", h.ListUsers)
		r.Post("/jsonContent", h.ListUsers)
		r.Get("/{username}/jsonContent", h.GetUser)
		r.Post("/{username}/jsonContent", h.GetUser)
	})
}

// CreateMetadata handles POST /Institutions/{institution}/{repository}/metadata/jsonCreateMetadataAsJson
func (h *LegacyHandler) CreateMetadata(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.ops.CreateMetadata)
}

// GetMetadata handles /Institutions/{institution}/{repository}/metadata/jsonContent
func (h *LegacyHandler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.ops.GetMetadata)
}

// CreateInstitution handles POST /Institutions/jsonCreateInstitution
func (h *LegacyHandler) CreateInstitution(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.ops.CreateInstitution)
}

// ListInstitutions handles /Institutions/jsonContent
func (h *LegacyHandler) ListInstitutions(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.ops.ListInstitutions)
}

// ListUsers handles /Users/jsonContent
func (h *LegacyHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.ops.ListUsers)
}

// GetUser handles /Users/{username}/jsonContent
func (h *LegacyHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.ops.GetUser)
}

func (h *LegacyHandler) serve(w http.ResponseWriter, r *http.Request, op operation) {
	fields, err := shared.DecodeLegacyFields(w, r)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidBody) {
			shared.RespondWithFailure(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
		shared.RespondWithFailure(w, r, http.StatusInternalServerError, translate.MsgServerError)
		return
	}

	req := translate.Request{
		Fields: fields,
		Path: translate.PathParams{
			Institution: chi.URLParam(r, "institution"),
			Repository:  chi.URLParam(r, "repository"),
			Username:    chi.URLParam(r, "username"),
		},
		BaseURL: shared.BaseURL(r, h.trustProxyHeaders),
	}

	shared.RespondWithTranslation(w, r, op(r.Context(), req))
}
