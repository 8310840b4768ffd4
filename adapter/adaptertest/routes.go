package adaptertest

import (
	"context"
	"encoding/json"
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

type routeReq = middleware.Request[*http.Request]

// RunRouteContract checks that compiled routes behave the same on any
// [router.Router]: the router supplies every capture the pattern declares,
// conversions reject bad values with 404, and a body read by router
// middleware is still there for the body parser.
func RunRouteContract(t *testing.T, factory func() router.Router) {
	t.Run("Typed Captures", func(t *testing.T) {
		testTypedCaptures(t, factory())
	})

	t.Run("Hyphenated Capture Names", func(t *testing.T) {
		testHyphenatedCaptures(t, factory())
	})

	t.Run("Chain Stop Through Router", func(t *testing.T) {
		testChainStop(t, factory())
	})

	t.Run("Body Parser After Router Middleware", func(t *testing.T) {
		testBodyAfterRouterMiddleware(t, factory())
	})
}

func mount(adp router.Router, routes ...route.Route[*http.Request]) {
	for _, r := range routes {
		method := r.Method
		if method == route.MethodAll {
			method = router.MethodAny
		}
		adp.Handle(method, r.Pattern, writeRoute(r.Handle))
	}
}

// writeRoute is serveRoute that also writes the encoded body.
func writeRoute(h route.Func[*http.Request]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h(r.Context(), r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		payload, contentType, err := response.Encode(resp.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(resp.Status)
		_, _ = w.Write(payload)
	}
}

func testTypedCaptures(t *testing.T, adp router.Router) {
	var seenByMiddleware any
	peek := func(_ context.Context, r *routeReq) (middleware.Outcome, error) {
		seenByMiddleware = r.RouteParams()["y"]
		return middleware.Continue(), nil
	}

	mount(adp, route.New[*http.Request](benchParams).Get("/a/:x/:y(int)").Use(peek).Handler(
		func(_ context.Context, r *routeReq) (response.Response, error) {
			x, _ := r.RouteParams().String("x")
			y, _ := r.RouteParams().Int("y")
			return response.OK(map[string]any{"x": x, "y": y}), nil
		}))

	rec := serve(adp, http.MethodGet, "/a/foo/42", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got struct {
		X string `json:"x"`
		Y int    `json:"y"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if got.X != "foo" || got.Y != 42 {
		t.Errorf("expected x=foo y=42, got %+v", got)
	}
	if seenByMiddleware != 42 {
		t.Errorf("middleware should see the converted capture, got %v", seenByMiddleware)
	}

	seenByMiddleware = nil
	rec = serve(adp, http.MethodGet, "/a/foo/bar", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a non-integer capture, got %d", rec.Code)
	}
	if seenByMiddleware != nil {
		t.Error("middleware must not run when captures do not convert")
	}
}

func testHyphenatedCaptures(t *testing.T, adp router.Router) {
	mount(adp, route.New[*http.Request](benchParams).Get("/orgs/:org-id/users/:user-id(int)").Handler(
		func(_ context.Context, r *routeReq) (response.Response, error) {
			org, _ := r.RouteParams().String("org-id")
			user, _ := r.RouteParams().Int("user-id")
			return response.OK(map[string]any{"org": org, "user": user}), nil
		}))

	rec := serve(adp, http.MethodGet, "/orgs/acme/users/7", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"org":"acme","user":7}` {
		t.Errorf("unexpected body %s", body)
	}
}

func testChainStop(t *testing.T, adp router.Router) {
	finalized := 0
	guard := func(_ context.Context, r *routeReq) (middleware.Outcome, error) {
		if r.Base.Header.Get("X-Allow") == "" {
			return middleware.Stop(response.Forbidden("no")), nil
		}
		return middleware.Next(nil, func(context.Context) error {
			finalized++
			return nil
		}), nil
	}

	mount(adp, route.New[*http.Request](benchParams).Use(guard).All("/guarded").Handler(
		func(_ context.Context, r *routeReq) (response.Response, error) {
			return response.OK(r.Base.Method), nil
		}))

	rec := serve(adp, http.MethodDelete, "/guarded", nil)
	if rec.Code != http.StatusForbidden || rec.Body.String() != "no" {
		t.Errorf("expected 403 no, got %d %q", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodPatch, "/guarded", nil)
	req.Header.Set("X-Allow", "1")
	rec = httptest.NewRecorder()
	adp.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != http.MethodPatch {
		t.Errorf("expected 200 PATCH, got %d %q", rec.Code, rec.Body.String())
	}
	if finalized != 1 {
		t.Errorf("expected one finalizer run, got %d", finalized)
	}
}

func testBodyAfterRouterMiddleware(t *testing.T, adp router.Router) {
	type payload struct {
		Name string `json:"name" validate:"required"`
	}

	var peeked string
	adp.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := adapter.ReadBody(r, 0)
			peeked = string(body)
			next.ServeHTTP(w, r)
		})
	})

	getBody := func(r *http.Request) (any, error) {
		return adapter.ReadBody(r, 1<<20)
	}
	mount(adp, route.New[*http.Request](benchParams).Post("/people").Use(parser.Body[payload](getBody)).Handler(
		func(_ context.Context, r *routeReq) (response.Response, error) {
			return response.Created(middleware.MustField[payload](r, parser.BodyField).Name), nil
		}))

	rec := serve(adp, http.MethodPost, "/people", strings.NewReader(`{"name":"grace"}`))
	if rec.Code != http.StatusCreated || rec.Body.String() != "grace" {
		t.Errorf("expected 201 grace, got %d %q", rec.Code, rec.Body.String())
	}
	if peeked != `{"name":"grace"}` {
		t.Errorf("router middleware saw %q", peeked)
	}

	rec = serve(adp, http.MethodPost, "/people", strings.NewReader(`{}`))
	if rec.Code != http.StatusBadRequest || !strings.HasPrefix(rec.Body.String(), "Invalid body:") {
		t.Errorf("expected 400 Invalid body, got %d %q", rec.Code, rec.Body.String())
	}
}
