// Package muxadapter implements router.Router on the standard library's
// [http.ServeMux].
package muxadapter

import (
	"fmt"
	"maps"
	"net/http"
	"strings"

	"github.com/iaconlabs/warpchain/adapter"
	"github.com/iaconlabs/warpchain/router"
)

const replazor = "___replazor___"

// PathParamCleaner defines the strategy for encoding/decoding parameter names
// that ServeMux does not accept as wildcard names (like hyphens).
type PathParamCleaner struct {
	encode func(string) string
	decode func(string) string
}

// MuxConfig holds configuration for the ServeMux adapter.
type MuxConfig struct {
	PathParamCleaner PathParamCleaner
}

// NewDefaultMuxConfig returns a configuration that makes hyphenated names
// such as ":user-id" safe for ServeMux.
func NewDefaultMuxConfig() *MuxConfig {
	return &MuxConfig{PathParamCleaner: PathParamCleaner{
		encode: func(s string) string {
			return strings.ReplaceAll(s, "-", replazor)
		},
		decode: func(s string) string {
			return strings.ReplaceAll(s, replazor, "-")
		},
	}}
}

// MuxAdapter implements router.Router using [http.ServeMux].
type MuxAdapter struct {
	mux         *http.ServeMux
	prefix      string
	middlewares []func(http.Handler) http.Handler
	cfg         *MuxConfig
}

// NewMuxAdapter creates a new adapter. If cfg is nil, defaults are used.
func NewMuxAdapter(cfg *MuxConfig) *MuxAdapter {
	if cfg == nil {
		cfg = NewDefaultMuxConfig()
	}
	return &MuxAdapter{
		mux: http.NewServeMux(),
		cfg: cfg,
	}
}

func (a *MuxAdapter) Param(r *http.Request, key string) string {
	state := adapter.StateFrom(r.Context())
	if state == nil {
		return ""
	}
	if val, ok := state.Params[key]; ok {
		return val
	}
	if key == "*" {
		return state.Params["any"]
	}
	return ""
}

func (a *MuxAdapter) Params(r *http.Request) map[string]string {
	state := adapter.StateFrom(r.Context())
	if state == nil {
		return map[string]string{}
	}
	return maps.Clone(state.Params)
}

func (a *MuxAdapter) GET(path string, h http.HandlerFunc, mws ...func(http.Handler) http.Handler) {
	a.register(http.MethodGet, path, h, mws...)
}

func (a *MuxAdapter) POST(path string, h http.HandlerFunc, mws ...func(http.Handler) http.Handler) {
	a.register(http.MethodPost, path, h, mws...)
}

func (a *MuxAdapter) PUT(path string, h http.HandlerFunc, mws ...func(http.Handler) http.Handler) {
	a.register(http.MethodPut, path, h, mws...)
}

func (a *MuxAdapter) DELETE(path string, h http.HandlerFunc, mws ...func(http.Handler) http.Handler) {
	a.register(http.MethodDelete, path, h, mws...)
}

func (a *MuxAdapter) ANY(path string, h http.HandlerFunc, mws ...func(http.Handler) http.Handler) {
	a.register(router.MethodAny, path, h, mws...)
}

func (a *MuxAdapter) Handle(method, path string, h http.Handler, mws ...func(http.Handler) http.Handler) {
	a.register(method, path, h, mws...)
}

func (a *MuxAdapter) Group(prefix string) router.Router {
	mwsCopy := make([]func(http.Handler) http.Handler, len(a.middlewares))
	copy(mwsCopy, a.middlewares)
	return &MuxAdapter{
		mux:         a.mux,
		prefix:      adapter.JoinPaths(a.prefix, prefix),
		middlewares: mwsCopy,
		cfg:         a.cfg,
	}
}

func (a *MuxAdapter) Use(mws ...func(http.Handler) http.Handler) {
	a.middlewares = append(a.middlewares, mws...)
}

func (a *MuxAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, adapter.WithParams(r, nil))
}

func (a *MuxAdapter) Engine() any { return a.mux }

func (a *MuxAdapter) register(method, path string, h http.Handler, routeMws ...func(http.Handler) http.Handler) {
	translatedPath, keys := a.translate(path)
	pattern := adapter.JoinPaths(a.prefix, translatedPath)
	if method != router.MethodAny {
		pattern = fmt.Sprintf("%s %s", method, pattern)
	}

	finalHandler := h
	for i := len(routeMws) - 1; i >= 0; i-- {
		finalHandler = routeMws[i](finalHandler)
	}
	for i := len(a.middlewares) - 1; i >= 0; i-- {
		finalHandler = a.middlewares[i](finalHandler)
	}

	a.mux.Handle(pattern, a.wrapState(finalHandler, keys))
}

func (a *MuxAdapter) wrapState(onion http.Handler, keys []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := make(map[string]string, len(keys))
		for _, k := range keys {
			params[k] = r.PathValue(a.cfg.PathParamCleaner.encode(k))
		}
		onion.ServeHTTP(w, adapter.WithParams(r, params))
	})
}

// translate turns "/files/:id/*rest" into "/files/{id}/{rest...}".
func (a *MuxAdapter) translate(path string) (string, []string) {
	prefix, wildcard, hasWildcard := adapter.SplitWildcard(path)

	translated, keys := adapter.TranslatePath(prefix, a.cfg.PathParamCleaner.encode)
	switch {
	case hasWildcard:
		keys = append(keys, wildcard)
		translated += "{" + a.cfg.PathParamCleaner.encode(wildcard) + "...}"
	case strings.HasSuffix(translated, "/"):
		// A trailing slash would otherwise match the whole subtree.
		translated += "{$}"
	}
	return translated, keys
}
