package translate

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"github.com/saeondata/jsonapi-facade/internal/auth"
	"github.com/saeondata/jsonapi-facade/internal/platform/ckan"
)

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Messages substituted for errors that must not reach callers verbatim.
const (
	MsgAccessDenied = "Access denied"
	MsgServerError  = "Server Error"
)

// Response is what a legacy caller receives: an HTTP status and a JSON body.
type Response struct {
	StatusCode int
	Body       any
}

// Created is the envelope returned for a successful creation.
type Created struct {
	Status string `json:"status"`
	Token  string `json:"token"`
	URL    string `json:"url"`
	UID    string `json:"uid"`
	DOI    string `json:"doi"`
}

// Failed is the envelope returned for every failure. Msg is either a string
// or the structured error detail reported by the backend.
type Failed struct {
	Status string `json:"status"`
	Msg    any    `json:"msg"`
}

var htmlDocument = regexp.MustCompile(`(?is)<!DOCTYPE html.*</html>`)

// NormalizeCreated wraps a creation result. showAction names the backend
// action that displays the created entity.
func NormalizeCreated(result any, backendURL, showAction string) Response {
	record, _ := result.(map[string]any)
	id := stringValue(record["id"])

	return Response{
		StatusCode: http.StatusOK,
		Body: Created{
			Status: StatusSuccess,
			Token:  stringValue(record["name"]),
			URL:    fmt.Sprintf("%s/api/action/%s?id=%s", backendURL, showAction, url.QueryEscape(id)),
			UID:    id,
			DOI:    "",
		},
	}
}

// NormalizeRead returns a read result as-is.
func NormalizeRead(result any) Response {
	return Response{StatusCode: http.StatusOK, Body: result}
}

// NormalizeError turns any error into a failure envelope.
//
// Structured backend detail is passed through untouched. Everything else is
// reduced to its message with embedded HTML error pages replaced.
func NormalizeError(err error) Response {
	var (
		validationErr *ValidationError
		actionErr     *ckan.ActionError
	)

	switch {
	case errors.Is(err, auth.ErrAccessDenied):
		return failed(http.StatusForbidden, MsgAccessDenied)
	case errors.As(err, &validationErr):
		return failed(http.StatusOK, validationErr.Message)
	case errors.As(err, &actionErr):
		if actionErr.Structured() {
			return failed(http.StatusOK, actionErr.Detail)
		}
		return failed(http.StatusOK, SanitizeMessage(actionErr.Error()))
	case err == nil:
		return failed(http.StatusInternalServerError, MsgServerError)
	default:
		return failed(http.StatusOK, SanitizeMessage(err.Error()))
	}
}

// SanitizeMessage replaces an HTML document inside msg with MsgServerError.
func SanitizeMessage(msg string) string {
	return htmlDocument.ReplaceAllLiteralString(msg, MsgServerError)
}

func failed(status int, msg any) Response {
	return Response{StatusCode: status, Body: Failed{Status: StatusFailed, Msg: msg}}
}
