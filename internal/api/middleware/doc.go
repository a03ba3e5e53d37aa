// Package middleware provides the HTTP middleware shared by every route.
//
// Cross-origin headers, trace IDs and request metrics wrap every call, and a
// panic anywhere below the recoverer still yields the legacy failure envelope.
package middleware
