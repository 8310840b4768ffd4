// Package parser turns raw host request inputs into typed, validated values
// and contributes them to the request as middleware.
//
// Every parser reads one source through a host accessor, decodes it with a
// Schema and either continues with the decoded value under the source's field
// key or stops with the response built by its ErrorHandler.
package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/iaconlabs/warpchain/adapter"
	"github.com/iaconlabs/warpchain/middleware"
	"github.com/iaconlabs/warpchain/response"
)

// Field keys the parsers contribute under.
const (
	BodyField        = "body"
	QueryField       = "query"
	HeadersField     = "headers"
	CookiesField     = "cookies"
	RouteParamsField = middleware.RouteParamsField
)

// GetInput reads one raw input from a host's request handle. An accessor
// error aborts the request; it is not a decode failure.
type GetInput[B any] func(base B) (any, error)

// ErrorHandler builds the response sent when decoding fails.
type ErrorHandler func(errs Errors) response.Response

// InvalidInput returns the default handler for key: 400 with a body of
// "Invalid <key>: <details>".
func InvalidInput(key string) ErrorHandler {
	return func(errs Errors) response.Response {
		return response.BadRequest(fmt.Sprintf("Invalid %s: %s", key, errs.Error()))
	}
}

// NotFound is the default handler for route parameters. A path that does not
// decode does not name the resource.
func NotFound(Errors) response.Response {
	return response.NotFound(nil)
}

// Decode is the general parser: read with get, decode with schema, contribute
// the value under key, or stop with onError. A body over the host's limit
// stops with 413 instead.
func Decode[T any, B any](key string, get GetInput[B], schema Schema[T], onError ErrorHandler) middleware.Func[B] {
	if onError == nil {
		onError = InvalidInput(key)
	}
	return func(_ context.Context, req *middleware.Request[B]) (middleware.Outcome, error) {
		raw, err := get(req.Base)
		if errors.Is(err, adapter.ErrBodyTooLarge) {
			return middleware.Stop(response.RequestEntityTooLarge("Request body too large")), nil
		}
		if err != nil {
			return middleware.Outcome{}, fmt.Errorf("parser: reading %s: %w", key, err)
		}
		value, errs := schema.Decode(raw)
		if len(errs) > 0 {
			return middleware.Stop(onError(errs)), nil
		}
		return middleware.Next(middleware.Fields{key: value}), nil
	}
}

// Body decodes the request body into T.
func Body[T any, B any](get GetInput[B]) middleware.Func[B] {
	return Decode(BodyField, get, Struct[T](), nil)
}

// BodyP is Body with a custom error response.
func BodyP[T any, B any](get GetInput[B], onError ErrorHandler) middleware.Func[B] {
	return Decode(BodyField, get, Struct[T](), onError)
}

// Query decodes the query string into T.
func Query[T any, B any](get GetInput[B]) middleware.Func[B] {
	return Decode(QueryField, get, Struct[T](), nil)
}

// QueryP is Query with a custom error response.
func QueryP[T any, B any](get GetInput[B], onError ErrorHandler) middleware.Func[B] {
	return Decode(QueryField, get, Struct[T](), onError)
}

// Headers decodes the request headers into T. Header names match
// case-insensitively.
func Headers[T any, B any](get GetInput[B]) middleware.Func[B] {
	return Decode(HeadersField, get, Struct[T](), nil)
}

// HeadersP is Headers with a custom error response.
func HeadersP[T any, B any](get GetInput[B], onError ErrorHandler) middleware.Func[B] {
	return Decode(HeadersField, get, Struct[T](), onError)
}

// Cookies decodes the request cookies into T.
func Cookies[T any, B any](get GetInput[B]) middleware.Func[B] {
	return Decode(CookiesField, get, Struct[T](), nil)
}

// CookiesP is Cookies with a custom error response.
func CookiesP[T any, B any](get GetInput[B], onError ErrorHandler) middleware.Func[B] {
	return Decode(CookiesField, get, Struct[T](), onError)
}

// RouteParams decodes the route captures into T, replacing the captures
// under the routeParams field. Failures answer 404.
func RouteParams[T any, B any](get GetInput[B]) middleware.Func[B] {
	return Decode(RouteParamsField, get, Struct[T](), NotFound)
}

// RouteParamsP is RouteParams with a custom error response.
func RouteParamsP[T any, B any](get GetInput[B], onError ErrorHandler) middleware.Func[B] {
	return Decode(RouteParamsField, get, Struct[T](), onError)
}
