package echohost

import (
	"context"
	"net/http"
	"sync"

	"github.com/labstack/echo/v5"

	"github.com/iaconlabs/warpchain/adapter"
	"github.com/iaconlabs/warpchain/middleware"
)

// WrapNative runs an echo middleware as a chain step. An error it returns
// before calling next is rendered by echo's HTTPErrorHandler and stops the
// chain, as does anything it writes.
func WrapNative(mw echo.MiddlewareFunc, opts ...adapter.NativeOption) middleware.Func[Base] {
	return WrapNativeWith(mw, nil, opts...)
}

// WrapNativeWith is WrapNative that also contributes the fields extract
// derives from the middleware's context once it calls next.
func WrapNativeWith(mw echo.MiddlewareFunc, extract func(*echo.Context) middleware.Fields, opts ...adapter.NativeOption) middleware.Func[Base] {
	cfg := adapter.NewNativeConfig(opts...)
	e := echo.New()

	return func(ctx context.Context, req *middleware.Request[Base]) (middleware.Outcome, error) {
		c := req.Base
		rec := adapter.NewRecorder(c.Response().Header(), cfg.Logger)

		var (
			once      sync.Once
			continued = make(chan struct{})
			next      *http.Request
			header    http.Header
			fields    middleware.Fields
		)
		terminal := func(ec *echo.Context) error {
			once.Do(func() {
				next, header = ec.Request(), rec.Header().Clone()
				if extract != nil {
					fields = extract(ec)
				}
				rec.Detach()
				close(continued)
			})
			return nil
		}

		err := adapter.Await(ctx, cfg.Timeout, continued, func() {
			ec := e.NewContext(c.Request(), rec)
			if err := mw(terminal)(ec); err != nil {
				if rec.Written() {
					return
				}
				e.HTTPErrorHandler(ec, err)
			}
		})
		if err != nil {
			rec.Detach()
			return middleware.Outcome{}, err
		}

		select {
		case <-continued:
		default:
			rec.Detach()
			return middleware.Stop(rec.Response()), nil
		}

		adapter.CopyHeader(c.Response().Header(), header)
		c.SetRequest(next)
		if fields == nil {
			return middleware.Continue(), nil
		}
		return middleware.Next(fields), nil
	}
}
