// Package route assembles URL patterns, middleware chains and terminal
// handlers into routes a host framework can dispatch to.
//
// A route parses the host's raw path parameters first and answers 404 when
// they do not satisfy the pattern. The typed captures are merged into the
// request under the routeParams field before the chain runs, so middleware
// can see them. A chain that stops produces the route's response; otherwise
// the handler runs with the merged request and the chain's finalizers drain
// once it returns, panics included.
package route

import (
	"context"
	"net/http"

	"github.com/iaconlabs/warpchain/middleware"
	"github.com/iaconlabs/warpchain/response"
	"github.com/iaconlabs/warpchain/urlpattern"
)

// MethodAll registers a route for every method.
const MethodAll = "ALL"

// Methods lists the concrete methods a MethodAll route is mounted for.
var Methods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodHead,
	http.MethodOptions,
	http.MethodPatch,
}

// Func is a compiled route: everything a host needs to answer one request.
// Errors are returned unchanged so the host can hand them to its own error
// path.
type Func[B any] func(ctx context.Context, base B) (response.Response, error)

// HandlerFunc is the terminal handler of a route. It receives the request as
// merged by the chain.
type HandlerFunc[B any] func(ctx context.Context, req *middleware.Request[B]) (response.Response, error)

// ParamsFunc reads the raw path parameters the host router matched.
type ParamsFunc[B any] func(base B) map[string]string

// Route is one method and pattern bound to its compiled handler.
type Route[B any] struct {
	// Method is an upper-case HTTP method or MethodAll.
	Method string
	// Pattern is the host-facing path with ":name" placeholders.
	Pattern string
	// Captures lists the placeholder names in path order.
	Captures []string
	Handle   Func[B]
}

func assemble[B any](p *urlpattern.Pattern, params ParamsFunc[B], chain middleware.Chain[B], h HandlerFunc[B], opts []middleware.Option) Func[B] {
	return func(ctx context.Context, base B) (response.Response, error) {
		var raw map[string]string
		if params != nil {
			raw = params(base)
		}
		caps, err := p.Parse(raw)
		if err != nil {
			return response.NotFound(nil), nil
		}

		req := middleware.NewRequest(base, middleware.Fields{middleware.RouteParamsField: caps})
		return invoke(ctx, req, chain, h, opts)
	}
}

func invoke[B any](ctx context.Context, req *middleware.Request[B], chain middleware.Chain[B], h HandlerFunc[B], opts []middleware.Option) (response.Response, error) {
	res, err := middleware.Execute(ctx, req, chain, opts...)
	if err != nil {
		return response.Response{}, err
	}
	if res.Stopped() {
		return *res.Response, nil
	}

	defer res.Finalize(ctx)
	return h(ctx, res.Request)
}
