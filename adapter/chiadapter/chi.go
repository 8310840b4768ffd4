// Package chiadapter implements router.Router on go-chi.
package chiadapter

import (
	"maps"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iaconlabs/warpchain/adapter"
	"github.com/iaconlabs/warpchain/router"
)

// ChiAdapter implements router.Router using the chi v5 router.
type ChiAdapter struct {
	mux         *chi.Mux
	prefix      string
	middlewares []func(http.Handler) http.Handler // group-local, not chi's global stack
}

// NewChiAdapter initializes a new adapter with an empty chi router.
func NewChiAdapter() *ChiAdapter {
	return &ChiAdapter{
		mux: chi.NewRouter(),
	}
}

// Param extracts a path parameter synchronized from chi's route context.
func (a *ChiAdapter) Param(r *http.Request, key string) string {
	state := adapter.StateFrom(r.Context())
	if state == nil {
		return ""
	}
	return state.Params[key]
}

func (a *ChiAdapter) Params(r *http.Request) map[string]string {
	state := adapter.StateFrom(r.Context())
	if state == nil {
		return map[string]string{}
	}
	return maps.Clone(state.Params)
}

// ServeHTTP dispatches requests to the chi multiplexer.
func (a *ChiAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, adapter.WithParams(r, nil))
}

// Use adds middlewares to the local stack to ensure group isolation.
func (a *ChiAdapter) Use(mws ...func(http.Handler) http.Handler) {
	a.middlewares = append(a.middlewares, mws...)
}

// Group returns a new adapter instance for the specified prefix.
func (a *ChiAdapter) Group(prefix string) router.Router {
	mwsCopy := make([]func(http.Handler) http.Handler, len(a.middlewares))
	copy(mwsCopy, a.middlewares)

	return &ChiAdapter{
		mux:         a.mux,
		prefix:      adapter.JoinPaths(a.prefix, prefix),
		middlewares: mwsCopy,
	}
}

func (a *ChiAdapter) GET(p string, h http.HandlerFunc, m ...func(http.Handler) http.Handler) {
	a.register(http.MethodGet, p, h, m...)
}

func (a *ChiAdapter) POST(p string, h http.HandlerFunc, m ...func(http.Handler) http.Handler) {
	a.register(http.MethodPost, p, h, m...)
}

func (a *ChiAdapter) PUT(p string, h http.HandlerFunc, m ...func(http.Handler) http.Handler) {
	a.register(http.MethodPut, p, h, m...)
}

func (a *ChiAdapter) DELETE(p string, h http.HandlerFunc, m ...func(http.Handler) http.Handler) {
	a.register(http.MethodDelete, p, h, m...)
}

func (a *ChiAdapter) ANY(p string, h http.HandlerFunc, m ...func(http.Handler) http.Handler) {
	a.register(router.MethodAny, p, h, m...)
}

func (a *ChiAdapter) Handle(method, p string, h http.Handler, m ...func(http.Handler) http.Handler) {
	a.register(method, p, h, m...)
}

func (a *ChiAdapter) Engine() any { return a.mux }

func (a *ChiAdapter) transformPathForChi(path string) (string, string) {
	prefix, wildcard, ok := adapter.SplitWildcard(path)
	translated, _ := adapter.TranslatePath(prefix, nil)
	if ok {
		translated += "*"
	}
	return translated, wildcard
}

func (a *ChiAdapter) wrapState(onion http.Handler, wildcardName string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := make(map[string]string)
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			for i, key := range rctx.URLParams.Keys {
				val := rctx.URLParams.Values[i]
				if key == "*" && wildcardName != "" {
					params[wildcardName] = val
					continue
				}
				params[key] = val
			}
		}
		onion.ServeHTTP(w, adapter.WithParams(r, params))
	})
}

func (a *ChiAdapter) register(method, path string, h http.Handler, routeMws ...func(http.Handler) http.Handler) {
	chiPath, wildcardName := a.transformPathForChi(path)
	fullPath := adapter.JoinPaths(a.prefix, chiPath)

	// Route middlewares wrap innermost, group middlewares outside them.
	finalHandler := h
	for i := len(routeMws) - 1; i >= 0; i-- {
		finalHandler = routeMws[i](finalHandler)
	}
	for i := len(a.middlewares) - 1; i >= 0; i-- {
		finalHandler = a.middlewares[i](finalHandler)
	}

	if method == router.MethodAny {
		a.mux.Handle(fullPath, a.wrapState(finalHandler, wildcardName))
		return
	}
	a.mux.Method(method, fullPath, a.wrapState(finalHandler, wildcardName))
}
