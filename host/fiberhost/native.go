package fiberhost

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v3"
	"github.com/valyala/fasthttp"

	"github.com/iaconlabs/warpchain/adapter"
	"github.com/iaconlabs/warpchain/middleware"
	"github.com/iaconlabs/warpchain/response"
)

var fctxPool = sync.Pool{
	New: func() any { return new(fasthttp.RequestCtx) },
}

type nativeKey struct{}

type nativeCall struct {
	once      sync.Once
	continued chan struct{}
	extract   func(fiber.Ctx) middleware.Fields

	header map[string]string
	locals map[any]any
	fields middleware.Fields
}

// WrapNative runs a fiber middleware as a chain step on a private app. If it
// calls c.Next, the chain continues: response headers it set and values it
// stored with c.Locals are carried onto the route's context. Otherwise its
// response stops the chain.
func WrapNative(mw fiber.Handler, opts ...adapter.NativeOption) middleware.Func[Base] {
	return WrapNativeWith(mw, nil, opts...)
}

// WrapNativeWith is WrapNative that also contributes the fields extract
// derives from the middleware's context once it continues.
func WrapNativeWith(mw fiber.Handler, extract func(fiber.Ctx) middleware.Fields, opts ...adapter.NativeOption) middleware.Func[Base] {
	cfg := adapter.NewNativeConfig(opts...)

	app := fiber.New(fiber.Config{Immutable: true})
	app.Use(mw)
	app.All("/*", func(c fiber.Ctx) error {
		call, ok := c.Locals(nativeKey{}).(*nativeCall)
		if !ok {
			return nil
		}
		call.once.Do(func() {
			call.header = make(map[string]string)
			c.Response().Header.VisitAll(func(k, v []byte) {
				key := string(k)
				if strings.EqualFold(key, fiber.HeaderContentType) || strings.EqualFold(key, fiber.HeaderContentLength) {
					return
				}
				call.header[key] = string(v)
			})
			call.locals = make(map[any]any)
			c.RequestCtx().VisitUserValuesAll(func(k, v any) {
				if _, own := k.(nativeKey); !own {
					call.locals[k] = v
				}
			})
			if call.extract != nil {
				call.fields = call.extract(c)
			}
			close(call.continued)
		})
		return nil
	})
	handler := app.Handler()

	return func(ctx context.Context, req *middleware.Request[Base]) (middleware.Outcome, error) {
		c := req.Base
		call := &nativeCall{continued: make(chan struct{}), extract: extract}

		fctx := fctxPool.Get().(*fasthttp.RequestCtx)
		fctx.ResetUserValues()
		fctx.Response.Reset()
		c.Request().CopyTo(&fctx.Request)
		fctx.SetUserValue(nativeKey{}, call)

		var resp response.Response
		err := adapter.Await(ctx, cfg.Timeout, call.continued, func() {
			handler(fctx)
			select {
			case <-call.continued:
			default:
				resp = snapshot(&fctx.Response)
			}
		})
		if cfg.Timeout <= 0 {
			fctxPool.Put(fctx)
		}
		if err != nil {
			return middleware.Outcome{}, err
		}

		select {
		case <-call.continued:
		default:
			return middleware.Stop(resp), nil
		}

		for k, v := range call.header {
			c.Set(k, v)
		}
		for k, v := range call.locals {
			c.Locals(k, v)
		}
		if call.fields == nil {
			return middleware.Continue(), nil
		}
		return middleware.Next(call.fields), nil
	}
}

// snapshot copies a fasthttp response out of its pooled buffers.
func snapshot(r *fasthttp.Response) response.Response {
	headers := make(response.Headers)
	r.Header.VisitAll(func(k, v []byte) {
		key := string(k)
		if strings.EqualFold(key, fiber.HeaderContentLength) {
			return
		}
		if prev, ok := headers[key]; ok {
			headers[key] = prev + ", " + string(v)
			return
		}
		headers[key] = string(v)
	})
	body := bytes.Clone(r.Body())
	return response.New(r.StatusCode(), body, headers)
}
