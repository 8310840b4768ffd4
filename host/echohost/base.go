// Package echohost runs routes on echo v5. Route errors are returned to echo
// so its HTTPErrorHandler answers them.
package echohost

import (
	"github.com/labstack/echo/v5"

	"github.com/iaconlabs/warpchain/adapter"
	"github.com/iaconlabs/warpchain/middleware"
	"github.com/iaconlabs/warpchain/parser"
	"github.com/iaconlabs/warpchain/route"
)

// Base is the host request handle.
type Base = *echo.Context

// MaxBodyBytes bounds how much of a request body GetBody reads.
var MaxBodyBytes int64 = 10 << 20

func GetBody(c Base) (any, error) {
	return adapter.ReadBody(c.Request(), MaxBodyBytes)
}

func GetQuery(c Base) (any, error) {
	return c.QueryParams(), nil
}

func GetHeaders(c Base) (any, error) {
	return parser.NewHeaders(c.Request().Header), nil
}

// GetCookies returns the request cookies by name; the first of a repeated
// name wins.
func GetCookies(c Base) (any, error) {
	out := make(map[string]string)
	for _, ck := range c.Cookies() {
		if _, ok := out[ck.Name]; !ok {
			out[ck.Name] = ck.Value
		}
	}
	return out, nil
}

func GetRouteParams(c Base) (any, error) {
	return PathParams(c), nil
}

// PathParams returns the path values echo matched.
func PathParams(c Base) map[string]string {
	values := c.PathValues()
	out := make(map[string]string, len(values))
	for _, p := range values {
		out[p.Name] = p.Value
	}
	return out
}

// New returns a route builder for echo.
func New(opts ...route.Option) route.Builder[Base] {
	return route.New(PathParams, opts...)
}

func Body[T any]() middleware.Func[Base] { return parser.Body[T](GetBody) }

func BodyP[T any](onError parser.ErrorHandler) middleware.Func[Base] {
	return parser.BodyP[T](GetBody, onError)
}

func Query[T any]() middleware.Func[Base] { return parser.Query[T](GetQuery) }

func QueryP[T any](onError parser.ErrorHandler) middleware.Func[Base] {
	return parser.QueryP[T](GetQuery, onError)
}

func Headers[T any]() middleware.Func[Base] { return parser.Headers[T](GetHeaders) }

func HeadersP[T any](onError parser.ErrorHandler) middleware.Func[Base] {
	return parser.HeadersP[T](GetHeaders, onError)
}

func Cookies[T any]() middleware.Func[Base] { return parser.Cookies[T](GetCookies) }

func CookiesP[T any](onError parser.ErrorHandler) middleware.Func[Base] {
	return parser.CookiesP[T](GetCookies, onError)
}

func RouteParams[T any]() middleware.Func[Base] { return parser.RouteParams[T](GetRouteParams) }

func RouteParamsP[T any](onError parser.ErrorHandler) middleware.Func[Base] {
	return parser.RouteParamsP[T](GetRouteParams, onError)
}
