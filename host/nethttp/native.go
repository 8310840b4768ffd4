package nethttp

import (
	"context"
	"net/http"
	"sync"

	"github.com/iaconlabs/warpchain/adapter"
	"github.com/iaconlabs/warpchain/middleware"
)

// WrapNative runs a standard net/http middleware as a chain step. If it
// writes a response, the chain stops with that response; if it calls next,
// the chain continues with the request it passed on.
func WrapNative(mw func(http.Handler) http.Handler, opts ...adapter.NativeOption) middleware.Func[Base] {
	return WrapNativeWith(mw, nil, opts...)
}

// WrapNativeWith is WrapNative that also contributes the fields extract
// derives from the request the native middleware passed to next.
func WrapNativeWith(mw func(http.Handler) http.Handler, extract func(*http.Request) middleware.Fields, opts ...adapter.NativeOption) middleware.Func[Base] {
	cfg := adapter.NewNativeConfig(opts...)

	return func(ctx context.Context, req *middleware.Request[Base]) (middleware.Outcome, error) {
		var initial http.Header
		if req.Base.Writer != nil {
			initial = req.Base.Writer.Header()
		}
		rec := adapter.NewRecorder(initial, cfg.Logger)

		var (
			once      sync.Once
			continued = make(chan struct{})
			nextReq   *http.Request
			header    http.Header
		)
		terminal := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			once.Do(func() {
				nextReq, header = r, rec.Header().Clone()
				rec.Detach()
				close(continued)
			})
		})

		in := req.Base.Request
		err := adapter.Await(ctx, cfg.Timeout, continued, func() {
			mw(terminal).ServeHTTP(rec, in)
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

		if req.Base.Writer != nil {
			adapter.CopyHeader(req.Base.Writer.Header(), header)
		}
		req.Base.Request = nextReq
		if extract == nil {
			return middleware.Continue(), nil
		}
		return middleware.Next(extract(nextReq)), nil
	}
}
