package ginhost

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/iaconlabs/warpchain/adapter"
	"github.com/iaconlabs/warpchain/middleware"
)

type nativeKey struct{}

// nativeCall carries one invocation through the private engine.
type nativeCall struct {
	once      sync.Once
	rec       *adapter.Recorder
	continued chan struct{}
	extract   func(*gin.Context) middleware.Fields

	next   *http.Request
	header http.Header
	keys   map[string]any
	fields middleware.Fields
}

// WrapNative runs a gin middleware as a chain step. If it aborts or writes,
// the chain stops with what it wrote; if it calls c.Next, the chain continues
// and the values it stored with c.Set are copied onto the route's context.
func WrapNative(mw gin.HandlerFunc, opts ...adapter.NativeOption) middleware.Func[Base] {
	return WrapNativeWith(mw, nil, opts...)
}

// WrapNativeWith is WrapNative that also contributes the fields extract
// derives from the middleware's gin context once it continues.
//
// The middleware runs on a private gin engine, which follows gin's global
// mode: in debug mode gin logs that engine's catch-all route once per call
// to WrapNativeWith. Call gin.SetMode(gin.ReleaseMode) before building
// routes to keep it quiet; [Handler] switches modes too late for that.
func WrapNativeWith(mw gin.HandlerFunc, extract func(*gin.Context) middleware.Fields, opts ...adapter.NativeOption) middleware.Func[Base] {
	cfg := adapter.NewNativeConfig(opts...)

	engine := gin.New()
	engine.Use(mw)
	engine.Any("/*path", func(c *gin.Context) {
		call, ok := c.Request.Context().Value(nativeKey{}).(*nativeCall)
		if !ok {
			return
		}
		call.once.Do(func() {
			call.next = c.Request
			call.header = call.rec.Header().Clone()
			call.keys = make(map[string]any, len(c.Keys))
			for k, v := range c.Keys {
				call.keys[k] = v
			}
			if call.extract != nil {
				call.fields = call.extract(c)
			}
			// gin flushes a pending status when the chain unwinds.
			c.Writer.WriteHeaderNow()
			call.rec.Detach()
			close(call.continued)
		})
	})

	return func(ctx context.Context, req *middleware.Request[Base]) (middleware.Outcome, error) {
		c := req.Base
		call := &nativeCall{
			rec:       adapter.NewRecorder(c.Writer.Header(), cfg.Logger),
			continued: make(chan struct{}),
			extract:   extract,
		}
		in := c.Request.WithContext(context.WithValue(c.Request.Context(), nativeKey{}, call))

		err := adapter.Await(ctx, cfg.Timeout, call.continued, func() {
			engine.ServeHTTP(call.rec, in)
		})
		if err != nil {
			call.rec.Detach()
			return middleware.Outcome{}, err
		}

		select {
		case <-call.continued:
		default:
			call.rec.Detach()
			return middleware.Stop(call.rec.Response()), nil
		}

		adapter.CopyHeader(c.Writer.Header(), call.header)
		for k, v := range call.keys {
			c.Set(k, v)
		}
		c.Request = call.next
		if call.fields == nil {
			return middleware.Continue(), nil
		}
		return middleware.Next(call.fields), nil
	}
}
