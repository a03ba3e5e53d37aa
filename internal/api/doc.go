// Package api handles incoming legacy HTTP requests. It decodes the body and
// path of each call into a translate.Request, hands it to the translator and
// writes back the envelope the legacy clients expect.
package api
