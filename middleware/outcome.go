package middleware

import (
	"context"

	"github.com/iaconlabs/warpchain/response"
)

// Finalizer is a cleanup callback registered by a middleware. Finalizers run
// once per request, last registered first, however the request ends.
type Finalizer func(ctx context.Context) error

// Outcome is what a middleware decides: continue with a fragment (and maybe a
// finalizer), or stop with a response.
type Outcome struct {
	fragment   Fields
	finalizers []Finalizer
	response   *response.Response
}

// Next continues the chain, merging fragment into the request. Every non-nil
// finalizer is registered for cleanup, in the order given.
func Next(fragment Fields, finalizers ...Finalizer) Outcome {
	o := Outcome{fragment: fragment}
	for _, f := range finalizers {
		if f != nil {
			o.finalizers = append(o.finalizers, f)
		}
	}
	return o
}

// Continue continues the chain without contributing fields.
func Continue() Outcome {
	return Outcome{}
}

// Stop ends the chain with resp. No further middleware and no handler run.
func Stop(resp response.Response) Outcome {
	return Outcome{response: &resp}
}

// Stopped reports whether the outcome carries a response.
func (o Outcome) Stopped() bool { return o.response != nil }

// Response returns the stop response, if any.
func (o Outcome) Response() (response.Response, bool) {
	if o.response == nil {
		return response.Response{}, false
	}
	return *o.response, true
}

// Fragment returns the fields contributed on continue.
func (o Outcome) Fragment() Fields { return o.fragment }

// Func is a middleware: it sees the request as merged so far and decides how
// the chain proceeds. A returned error aborts the request after cleanup.
type Func[B any] func(ctx context.Context, req *Request[B]) (Outcome, error)

// Chain is an ordered list of middleware.
type Chain[B any] []Func[B]

// Append returns a new chain with mws after c. c is never modified.
func (c Chain[B]) Append(mws ...Func[B]) Chain[B] {
	out := make(Chain[B], 0, len(c)+len(mws))
	out = append(out, c...)
	return append(out, mws...)
}
