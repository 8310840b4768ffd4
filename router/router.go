// Package router defines the contract net/http based hosts mount routes on,
// plus the context keys shared between router adapters and hosts.
package router

import (
	"net/http"
)

// ctxKey is a private type for context keys to avoid collisions with other packages.
type ctxKey string

const (
	// StateKey provides access to the [adapter.State] holding the matched
	// path parameters and the cached request body.
	StateKey ctxKey = "___warpchain_state___"
	// RouteKey identifies the route pattern being executed.
	RouteKey ctxKey = "___warpchain_route___"
)

// MethodAny registers a handler for every method.
const MethodAny = ""

// Router is what a net/http host needs from a router engine. Paths use
// ":name" placeholders and an optional trailing "*name" catch-all.
type Router interface {
	http.Handler

	// GET registers a new GET route with optional middlewares.
	GET(path string, h http.HandlerFunc, mws ...func(http.Handler) http.Handler)
	// POST registers a new POST route with optional middlewares.
	POST(path string, h http.HandlerFunc, mws ...func(http.Handler) http.Handler)
	// PUT registers a new PUT route with optional middlewares.
	PUT(path string, h http.HandlerFunc, mws ...func(http.Handler) http.Handler)
	// DELETE registers a new DELETE route with optional middlewares.
	DELETE(path string, h http.HandlerFunc, mws ...func(http.Handler) http.Handler)
	// ANY registers h for every method.
	ANY(path string, h http.HandlerFunc, mws ...func(http.Handler) http.Handler)

	// Handle registers h for method, or for every method when method is
	// MethodAny.
	Handle(method, path string, h http.Handler, mws ...func(http.Handler) http.Handler)

	// Use adds middlewares to routes registered afterwards on this router
	// and on groups created from it.
	Use(mws ...func(http.Handler) http.Handler)
	// Param retrieves a path parameter by its key from the given request.
	Param(r *http.Request, key string) string
	// Params returns a copy of every path parameter matched for r.
	Params(r *http.Request) map[string]string
	// Group creates a new route group with a common prefix.
	Group(prefix string) Router
	// Engine returns the underlying router instance (e.g., *chi.Mux).
	Engine() any
}
