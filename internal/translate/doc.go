// Package translate maps legacy portal requests onto CKAN actions and turns
// whatever the backend answers into the envelopes legacy callers expect.
//
// The pipeline for every operation is the same: extract credentials and
// payload fields, build an action call (pure), authenticate, invoke the
// backend, normalize. Builders live in actions.go and never do I/O; the
// Translator in translator.go strings the steps together.
package translate
