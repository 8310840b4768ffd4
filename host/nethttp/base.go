// Package nethttp runs routes on net/http, mounting them on any
// router.Router.
package nethttp

import (
	"maps"
	"net/http"

	"github.com/iaconlabs/warpchain/adapter"
	"github.com/iaconlabs/warpchain/middleware"
	"github.com/iaconlabs/warpchain/parser"
	"github.com/iaconlabs/warpchain/route"
)

// Base is the host request handle routes run against.
type Base struct {
	Request *http.Request
	Writer  http.ResponseWriter
}

// MaxBodyBytes bounds how much of a request body GetBody reads.
var MaxBodyBytes int64 = 10 << 20

// GetBody returns the raw request body bytes, cached for repeated reads.
func GetBody(b Base) (any, error) {
	return adapter.ReadBody(b.Request, MaxBodyBytes)
}

// GetQuery returns the parsed query string.
func GetQuery(b Base) (any, error) {
	return b.Request.URL.Query(), nil
}

// GetHeaders returns a case-insensitive view of the request headers.
func GetHeaders(b Base) (any, error) {
	return parser.NewHeaders(b.Request.Header), nil
}

// GetCookies returns the request cookies by name. The first cookie of a
// repeated name wins.
func GetCookies(b Base) (any, error) {
	out := make(map[string]string)
	for _, c := range b.Request.Cookies() {
		if _, ok := out[c.Name]; !ok {
			out[c.Name] = c.Value
		}
	}
	return out, nil
}

// GetRouteParams returns the raw path parameters.
func GetRouteParams(b Base) (any, error) {
	return PathParams(b), nil
}

// PathParams returns the raw path parameters the router matched.
func PathParams(b Base) map[string]string {
	state := adapter.StateFrom(b.Request.Context())
	if state == nil {
		return map[string]string{}
	}
	return maps.Clone(state.Params)
}

// New returns a route builder for this host.
func New(opts ...route.Option) route.Builder[Base] {
	return route.New(PathParams, opts...)
}

// Body decodes the request body into T.
func Body[T any]() middleware.Func[Base] { return parser.Body[T](GetBody) }

// BodyP is Body with a custom error response.
func BodyP[T any](onError parser.ErrorHandler) middleware.Func[Base] {
	return parser.BodyP[T](GetBody, onError)
}

// Query decodes the query string into T.
func Query[T any]() middleware.Func[Base] { return parser.Query[T](GetQuery) }

// QueryP is Query with a custom error response.
func QueryP[T any](onError parser.ErrorHandler) middleware.Func[Base] {
	return parser.QueryP[T](GetQuery, onError)
}

// Headers decodes the request headers into T.
func Headers[T any]() middleware.Func[Base] { return parser.Headers[T](GetHeaders) }

// HeadersP is Headers with a custom error response.
func HeadersP[T any](onError parser.ErrorHandler) middleware.Func[Base] {
	return parser.HeadersP[T](GetHeaders, onError)
}

// Cookies decodes the request cookies into T.
func Cookies[T any]() middleware.Func[Base] { return parser.Cookies[T](GetCookies) }

// CookiesP is Cookies with a custom error response.
func CookiesP[T any](onError parser.ErrorHandler) middleware.Func[Base] {
	return parser.CookiesP[T](GetCookies, onError)
}

// RouteParams decodes the path parameters into T.
func RouteParams[T any]() middleware.Func[Base] { return parser.RouteParams[T](GetRouteParams) }

// RouteParamsP is RouteParams with a custom error response.
func RouteParamsP[T any](onError parser.ErrorHandler) middleware.Func[Base] {
	return parser.RouteParamsP[T](GetRouteParams, onError)
}
