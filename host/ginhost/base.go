// Package ginhost runs routes on gin. The request handle routes see is the
// *gin.Context itself.
package ginhost

import (
	"github.com/gin-gonic/gin"

	"github.com/iaconlabs/warpchain/adapter"
	"github.com/iaconlabs/warpchain/middleware"
	"github.com/iaconlabs/warpchain/parser"
	"github.com/iaconlabs/warpchain/route"
)

// Base is the host request handle.
type Base = *gin.Context

// MaxBodyBytes bounds how much of a request body GetBody reads.
var MaxBodyBytes int64 = 10 << 20

// GetBody returns the raw request body. The body is rewound so gin's own
// binders can read it again.
func GetBody(c Base) (any, error) {
	return adapter.ReadBody(c.Request, MaxBodyBytes)
}

// GetQuery returns the parsed query string.
func GetQuery(c Base) (any, error) {
	return c.Request.URL.Query(), nil
}

// GetHeaders returns a case-insensitive view of the request headers.
func GetHeaders(c Base) (any, error) {
	return parser.NewHeaders(c.Request.Header), nil
}

// GetCookies returns the request cookies by name.
func GetCookies(c Base) (any, error) {
	return parser.CookieMap(c.GetHeader("Cookie"), func(name string) string {
		v, _ := c.Cookie(name)
		return v
	}), nil
}

// GetRouteParams returns the raw path parameters.
func GetRouteParams(c Base) (any, error) {
	return PathParams(c), nil
}

// PathParams returns the path parameters gin matched.
func PathParams(c Base) map[string]string {
	out := make(map[string]string, len(c.Params))
	for _, p := range c.Params {
		out[p.Key] = p.Value
	}
	return out
}

// New returns a route builder for gin.
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
