package route

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/iaconlabs/warpchain/middleware"
	"github.com/iaconlabs/warpchain/response"
	"github.com/iaconlabs/warpchain/urlpattern"
)

// Option configures a Builder.
type Option func(*options)

type options struct {
	conv   urlpattern.Conversions
	engine []middleware.Option
}

// WithLogger sets the logger finalizer failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.engine = append(o.engine, middleware.WithLogger(l))
	}
}

// WithConversions adds named path conversions on top of the built-in ones.
func WithConversions(c urlpattern.Conversions) Option {
	return func(o *options) {
		o.conv = o.conv.Merge(c)
	}
}

// Builder creates routes sharing a parameter accessor, conversions and a
// middleware prefix. Builders are values; every method returns a new one.
type Builder[B any] struct {
	params ParamsFunc[B]
	chain  middleware.Chain[B]
	opts   options
}

// New returns a Builder reading raw path parameters with params.
func New[B any](params ParamsFunc[B], opts ...Option) Builder[B] {
	o := options{conv: urlpattern.Builtin()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return Builder[B]{params: params, opts: o}
}

// Use returns a builder whose routes run mws before their own middleware.
func (b Builder[B]) Use(mws ...middleware.Func[B]) Builder[B] {
	b.chain = b.chain.Append(mws...)
	return b
}

// WithConversions returns a builder that also knows the conversions in c.
func (b Builder[B]) WithConversions(c urlpattern.Conversions) Builder[B] {
	b.opts.conv = b.opts.conv.Merge(c)
	return b
}

// Route starts a route for method and path. It panics when path does not
// compile: route tables are built at startup and a bad path is a bug.
func (b Builder[B]) Route(method, path string) Constructor[B] {
	return b.Pattern(urlpattern.MustCompile(method, path, b.opts.conv))
}

// Pattern starts a route for an already compiled pattern, such as one built
// with urlpattern.FromSegments.
func (b Builder[B]) Pattern(p *urlpattern.Pattern) Constructor[B] {
	return Constructor[B]{
		pattern: p,
		params:  b.params,
		chain:   b.chain,
		engine:  b.opts.engine,
	}
}

func (b Builder[B]) Get(path string) Constructor[B]    { return b.Route(http.MethodGet, path) }
func (b Builder[B]) Post(path string) Constructor[B]   { return b.Route(http.MethodPost, path) }
func (b Builder[B]) Put(path string) Constructor[B]    { return b.Route(http.MethodPut, path) }
func (b Builder[B]) Delete(path string) Constructor[B] { return b.Route(http.MethodDelete, path) }
func (b Builder[B]) Head(path string) Constructor[B]   { return b.Route(http.MethodHead, path) }
func (b Builder[B]) Patch(path string) Constructor[B]  { return b.Route(http.MethodPatch, path) }
func (b Builder[B]) All(path string) Constructor[B]    { return b.Route(MethodAll, path) }

func (b Builder[B]) Options(path string) Constructor[B] {
	return b.Route(http.MethodOptions, path)
}

// Constructor is a route waiting for its handler.
type Constructor[B any] struct {
	pattern *urlpattern.Pattern
	params  ParamsFunc[B]
	chain   middleware.Chain[B]
	engine  []middleware.Option
}

// Use appends route-specific middleware.
func (c Constructor[B]) Use(mws ...middleware.Func[B]) Constructor[B] {
	c.chain = c.chain.Append(mws...)
	return c
}

// Handler finishes the route with h.
func (c Constructor[B]) Handler(h HandlerFunc[B]) Route[B] {
	return Route[B]{
		Method:   c.pattern.Method(),
		Pattern:  c.pattern.Pattern(),
		Captures: c.pattern.Captures(),
		Handle:   assemble(c.pattern, c.params, c.chain, h, c.engine),
	}
}

// HandlerBuilder assembles a chain and handler without a URL pattern. Hosts
// that do their own routing can call the resulting Func directly.
type HandlerBuilder[B any] struct {
	chain  middleware.Chain[B]
	engine []middleware.Option
}

// Handler starts a pattern-less handler running mws.
func Handler[B any](mws ...middleware.Func[B]) HandlerBuilder[B] {
	return HandlerBuilder[B]{chain: middleware.Chain[B](nil).Append(mws...)}
}

// Use appends middleware.
func (hb HandlerBuilder[B]) Use(mws ...middleware.Func[B]) HandlerBuilder[B] {
	hb.chain = hb.chain.Append(mws...)
	return hb
}

// WithLogger sets the logger finalizer failures are reported to.
func (hb HandlerBuilder[B]) WithLogger(l *slog.Logger) HandlerBuilder[B] {
	hb.engine = append(append([]middleware.Option(nil), hb.engine...), middleware.WithLogger(l))
	return hb
}

// Handler finishes the chain with h.
func (hb HandlerBuilder[B]) Handler(h HandlerFunc[B]) Func[B] {
	chain, engine := hb.chain, hb.engine
	return func(ctx context.Context, base B) (response.Response, error) {
		return invoke(ctx, middleware.NewRequest(base), chain, h, engine)
	}
}
