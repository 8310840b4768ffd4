// Package adapter holds the plumbing shared by router adapters and host
// packages: per-request state, path translation and the response recorder
// used to run native middleware.
package adapter

import (
	"bytes"
	"context"
	"errors"
	"io"
	"maps"
	"net/http"

	"github.com/iaconlabs/warpchain/router"
)

// ErrBodyTooLarge is returned by ReadBody when the body exceeds the limit.
var ErrBodyTooLarge = errors.New("adapter: request body too large")

// State centralizes what a router adapter learned about a request: the
// matched path parameters and, once read, the request body.
type State struct {
	// Params holds the path parameters keyed by placeholder name.
	Params map[string]string
	// Body caches the request body for repeated reads.
	Body []byte

	bodyRead bool
}

// StateFrom returns the state stored in ctx, or nil.
func StateFrom(ctx context.Context) *State {
	s, _ := ctx.Value(router.StateKey).(*State)
	return s
}

// WithParams returns r carrying a state whose params are the existing ones
// overlaid with params. The previous state is not modified.
func WithParams(r *http.Request, params map[string]string) *http.Request {
	next := &State{Params: make(map[string]string, len(params))}
	if prev := StateFrom(r.Context()); prev != nil {
		maps.Copy(next.Params, prev.Params)
		next.Body, next.bodyRead = prev.Body, prev.bodyRead
	}
	maps.Copy(next.Params, params)
	return r.WithContext(context.WithValue(r.Context(), router.StateKey, next))
}

// ReadBody reads r's body once, caching it in the request state when there is
// one, and rewinds r.Body so later readers see the same bytes. limit <= 0
// means no limit.
func ReadBody(r *http.Request, limit int64) ([]byte, error) {
	state := StateFrom(r.Context())
	if state != nil && state.bodyRead {
		return state.Body, nil
	}
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	src := io.Reader(r.Body)
	if limit > 0 {
		src = io.LimitReader(r.Body, limit+1)
	}
	body, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	if limit > 0 && int64(len(body)) > limit {
		return nil, ErrBodyTooLarge
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	if state != nil {
		state.Body, state.bodyRead = body, true
	}
	return body, nil
}
