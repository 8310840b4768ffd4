package adaptertest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iaconlabs/warpchain/adapter"
	"github.com/iaconlabs/warpchain/middleware"
	"github.com/iaconlabs/warpchain/parser"
	"github.com/iaconlabs/warpchain/response"
	"github.com/iaconlabs/warpchain/route"
	"github.com/iaconlabs/warpchain/router"
)

// RunSuiteBenchmarks measures what a typed route costs on top of a
// [router.Router]: plain dispatch as the baseline, capture parsing, and a
// deep middleware chain with finalizers and a body parser.
func RunSuiteBenchmarks(b *testing.B, factory func() router.Router) {
	b.Run("Static/Plain", func(b *testing.B) {
		runStaticBenchmark(b, factory())
	})

	b.Run("Route/Captures", func(b *testing.B) {
		runCaptureBenchmark(b, factory())
	})

	// Five middleware, each contributing a field and a finalizer, then the
	// body is decoded and validated.
	b.Run("Route/DeepChain", func(b *testing.B) {
		runChainBenchmark(b, factory())
	})
}

func benchParams(r *http.Request) map[string]string {
	if s := adapter.StateFrom(r.Context()); s != nil {
		return s.Params
	}
	return nil
}

func serveRoute(h route.Func[*http.Request]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h(r.Context(), r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(resp.Status)
	}
}

func runStaticBenchmark(b *testing.B, adp router.Router) {
	adp.GET("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		adp.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func runCaptureBenchmark(b *testing.B, adp router.Router) {
	rt := route.New[*http.Request](benchParams).Get("/user/:id(int)").Handler(
		func(_ context.Context, r *middleware.Request[*http.Request]) (response.Response, error) {
			id, _ := r.RouteParams().Int("id")
			return response.OK(id), nil
		})
	adp.Handle(rt.Method, rt.Pattern, serveRoute(rt.Handle))

	req := httptest.NewRequest(http.MethodGet, "/user/12345", nil)
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		adp.ServeHTTP(httptest.NewRecorder(), req)
	}
}

type benchPayload struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"gte=0"`
}

func runChainBenchmark(b *testing.B, adp router.Router) {
	step := func(key string) middleware.Func[*http.Request] {
		return func(context.Context, *middleware.Request[*http.Request]) (middleware.Outcome, error) {
			return middleware.Next(middleware.Fields{key: true}, func(context.Context) error { return nil }), nil
		}
	}
	getBody := func(r *http.Request) (any, error) {
		return adapter.ReadBody(r, 1<<20)
	}

	rt := route.New[*http.Request](benchParams).
		Use(step("a"), step("b"), step("c"), step("d"), step("e")).
		Post("/items/:id").
		Use(parser.Body[benchPayload](getBody)).
		Handler(func(context.Context, *middleware.Request[*http.Request]) (response.Response, error) {
			return response.NoContent(nil), nil
		})
	adp.Handle(rt.Method, rt.Pattern, serveRoute(rt.Handle))

	const body = `{"name":"bench","count":3}`
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		req := httptest.NewRequest(http.MethodPost, "/items/7", strings.NewReader(body))
		adp.ServeHTTP(httptest.NewRecorder(), req)
	}
}
