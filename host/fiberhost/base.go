// Package fiberhost runs routes on fiber v3. Route errors are returned to
// fiber so the app's ErrorHandler answers them.
package fiberhost

import (
	"bytes"
	"net/url"

	"github.com/gofiber/fiber/v3"

	"github.com/iaconlabs/warpchain/middleware"
	"github.com/iaconlabs/warpchain/parser"
	"github.com/iaconlabs/warpchain/route"
)

// Base is the host request handle.
type Base = fiber.Ctx

// GetBody returns a copy of the request body; fasthttp reuses its buffers.
func GetBody(c Base) (any, error) {
	return bytes.Clone(c.Body()), nil
}

// GetQuery parses the raw query string, keeping repeated keys.
func GetQuery(c Base) (any, error) {
	return url.ParseQuery(string(c.Request().URI().QueryString()))
}

func GetHeaders(c Base) (any, error) {
	return parser.NewHeaders(c.GetReqHeaders()), nil
}

func GetCookies(c Base) (any, error) {
	return parser.CookieMap(c.Get(fiber.HeaderCookie), func(name string) string {
		return c.Cookies(name)
	}), nil
}

func GetRouteParams(c Base) (any, error) {
	return PathParams(c), nil
}

// PathParams returns the route parameters fiber matched.
func PathParams(c Base) map[string]string {
	names := c.Route().Params
	out := make(map[string]string, len(names))
	for _, name := range names {
		if v, err := url.PathUnescape(c.Params(name)); err == nil {
			out[name] = v
		} else {
			out[name] = c.Params(name)
		}
	}
	return out
}

// New returns a route builder for fiber.
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
