// Package middleware runs ordered middleware chains against a growing request
// context.
//
// Each middleware either continues, contributing fields and optionally a
// finalizer, or stops the chain with a response. Finalizers are drained in
// reverse registration order on every exit path: a completed chain (by the
// caller, after its handler settles), a stop, an error or a panic.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/iaconlabs/warpchain/response"
)

type config struct {
	logger *slog.Logger
}

// Option configures Execute.
type Option func(*config)

// WithLogger sets the logger finalizer failures are reported to. The default
// is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Result is the terminal outcome of a chain.
//
// When Response is non-nil the chain stopped and its finalizers have already
// run. Otherwise Request holds the merged request and the caller owns the
// pending finalizers: it must call Finalize once its handler has settled.
type Result[B any] struct {
	Request  *Request[B]
	Response *response.Response

	finalizers []Finalizer
	logger     *slog.Logger
	drained    bool
}

// Stopped reports whether a middleware short-circuited the chain.
func (r *Result[B]) Stopped() bool { return r.Response != nil }

// Finalize drains the pending finalizers in reverse registration order.
// Failing finalizers are logged and skipped. Calls after the first are no-ops.
func (r *Result[B]) Finalize(ctx context.Context) {
	if r.drained {
		return
	}
	r.drained = true
	drain(ctx, r.logger, r.finalizers)
	r.finalizers = nil
}

// Execute runs chain over req in order. Each middleware sees the fields
// merged by the ones before it.
//
// If a middleware returns an error, finalizers registered so far are drained
// and the error is returned unchanged. A panicking middleware gets the same
// cleanup before the panic continues.
func Execute[B any](ctx context.Context, req *Request[B], chain []Func[B], opts ...Option) (*Result[B], error) {
	cfg := config{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	res := &Result[B]{Request: req, logger: cfg.logger}

	settled := false
	defer func() {
		if !settled {
			res.Finalize(ctx)
		}
	}()

	for _, mw := range chain {
		out, err := mw(ctx, req)
		if err != nil {
			res.Finalize(ctx)
			settled = true
			return nil, err
		}

		if resp, stopped := out.Response(); stopped {
			res.Finalize(ctx)
			res.Response = &resp
			settled = true
			return res, nil
		}

		if out.fragment != nil {
			req.Merge(out.fragment)
		}
		res.finalizers = append(res.finalizers, out.finalizers...)
	}

	settled = true
	return res, nil
}

func drain(ctx context.Context, logger *slog.Logger, finalizers []Finalizer) {
	for i := len(finalizers) - 1; i >= 0; i-- {
		if err := runFinalizer(ctx, finalizers[i]); err != nil {
			logger.ErrorContext(ctx, "ignoring middleware finalizer failure",
				slog.Int("finalizer", i),
				slog.Any("error", err),
			)
		}
	}
}

// runFinalizer runs f, turning a panic into an error so the remaining
// finalizers still run.
func runFinalizer(ctx context.Context, f Finalizer) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("finalizer panic: %v\n\n%s", p, debug.Stack())
		}
	}()
	return f(ctx)
}
