package nethttp_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaconlabs/warpchain/adapter"
	"github.com/iaconlabs/warpchain/adapter/chiadapter"
	"github.com/iaconlabs/warpchain/host/nethttp"
	"github.com/iaconlabs/warpchain/middleware"
	"github.com/iaconlabs/warpchain/response"
	"github.com/iaconlabs/warpchain/route"
	"github.com/iaconlabs/warpchain/server"
)

type req = middleware.Request[nethttp.Base]

func serve(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, body))
	return rec
}

func TestGetFooScenario(t *testing.T) {
	mw := func(_ context.Context, r *req) (middleware.Outcome, error) {
		if r.Base.Request.URL.Query().Has("err") {
			return middleware.Stop(response.BadRequest("quux")), nil
		}
		return middleware.Next(middleware.Fields{"foo": "bar"}), nil
	}

	rt := route.NewRouter(nethttp.New().Get("/foo").Use(mw).Handler(func(_ context.Context, r *req) (response.Response, error) {
		return response.OK(middleware.MustField[string](r, "foo")), nil
	}))
	h := nethttp.Handler(rt)

	rec := serve(h, http.MethodGet, "/foo", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bar", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = serve(h, http.MethodGet, "/foo?err=true", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "quux", rec.Body.String())
}

func TestParsersAndCaptures(t *testing.T) {
	type Payload struct {
		Foo int `json:"foo"`
	}
	type Params struct {
		ID int `param:"id"`
	}

	b := nethttp.New()
	rt := route.NewRouter(
		b.Post("/items/:id(int)").Use(nethttp.Body[Payload]()).Handler(func(_ context.Context, r *req) (response.Response, error) {
			id, _ := r.RouteParams().Int("id")
			p := middleware.MustField[Payload](r, "body")
			return response.Created(map[string]int{"id": id, "foo": p.Foo}), nil
		}),
		b.Get("/typed/:id").Use(nethttp.RouteParams[Params]()).Handler(func(_ context.Context, r *req) (response.Response, error) {
			return response.OK(middleware.MustField[Params](r, "routeParams").ID), nil
		}),
	)
	h := nethttp.Handler(rt)

	rec := serve(h, http.MethodPost, "/items/7", strings.NewReader(`{"foo":3}`))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":7,"foo":3}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = serve(h, http.MethodPost, "/items/7", strings.NewReader(`{"foo":"bar"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid body: ")
	assert.Contains(t, rec.Body.String(), "foo")
	assert.Contains(t, rec.Body.String(), "int")

	rec = serve(h, http.MethodPost, "/items/seven", strings.NewReader(`{}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(h, http.MethodGet, "/typed/12", nil)
	assert.Equal(t, "12", rec.Body.String())

	rec = serve(h, http.MethodGet, "/typed/twelve", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHeadersAndCookies(t *testing.T) {
	type Auth struct {
		Key string `header:"api-key" validate:"required"`
	}
	type Session struct {
		Theme string `cookie:"theme"`
	}

	rt := route.NewRouter(nethttp.New().Get("/me").
		Use(nethttp.Headers[Auth](), nethttp.Cookies[Session]()).
		Handler(func(_ context.Context, r *req) (response.Response, error) {
			a := middleware.MustField[Auth](r, "headers")
			s := middleware.MustField[Session](r, "cookies")
			return response.OK(a.Key + "/" + s.Theme), nil
		}))
	h := nethttp.Handler(rt)

	r := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.Header.Set("API-KEY", "k1")
	r.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, "k1/dark", rec.Body.String())

	rec = serve(h, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid headers: api-key")
}

func TestStreamingAndHeaders(t *testing.T) {
	rt := route.NewRouter(nethttp.New().Get("/stream").Handler(func(context.Context, *req) (response.Response, error) {
		return response.OK(response.Stream(func(w io.Writer) error {
			_, err := io.WriteString(w, "chunk-1;chunk-2")
			return err
		}), response.Headers{"X-Stream": "yes"}), nil
	}))

	rec := serve(nethttp.Handler(rt), http.MethodGet, "/stream", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "yes", rec.Header().Get("X-Stream"))
	assert.Equal(t, "chunk-1;chunk-2", rec.Body.String())
}

func TestErrors(t *testing.T) {
	boom := errors.New("boom")
	var finalized bool
	mw := func(context.Context, *req) (middleware.Outcome, error) {
		return middleware.Next(nil, func(context.Context) error {
			finalized = true
			return nil
		}), nil
	}

	rt := route.NewRouter(
		nethttp.New().Get("/fail").Use(mw).Handler(func(context.Context, *req) (response.Response, error) {
			return response.Response{}, boom
		}),
		nethttp.New().Get("/panic").Use(mw).Handler(func(context.Context, *req) (response.Response, error) {
			panic("handler exploded")
		}),
	)

	rec := serve(nethttp.Handler(rt), http.MethodGet, "/fail", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, finalized)

	var seen error
	custom := nethttp.Handler(rt, nethttp.WithErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
		seen = err
		w.WriteHeader(http.StatusTeapot)
	}))
	rec = serve(custom, http.MethodGet, "/fail", nil)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Same(t, boom, seen)

	finalized = false
	rec = serve(nethttp.Handler(rt), http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, finalized, "finalizers drain before the panic reaches recovery")
}

func TestBodyOverLimit(t *testing.T) {
	prev := nethttp.MaxBodyBytes
	nethttp.MaxBodyBytes = 8
	t.Cleanup(func() { nethttp.MaxBodyBytes = prev })

	type Payload struct {
		Name string `json:"name"`
	}
	rt := route.NewRouter(nethttp.New().Post("/items").Use(nethttp.Body[Payload]()).Handler(func(context.Context, *req) (response.Response, error) {
		return response.NoContent(nil), nil
	}))
	h := nethttp.Handler(rt)

	rec := serve(h, http.MethodPost, "/items", strings.NewReader(`{"name":"far too long"}`))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = serve(h, http.MethodPost, "/items", strings.NewReader(`{}`))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMountOnChi(t *testing.T) {
	rt := route.NewRouter(nethttp.New().All("/any/:name").Handler(func(_ context.Context, r *req) (response.Response, error) {
		name, _ := r.RouteParams().String("name")
		return response.OK(r.Base.Request.Method + " " + name), nil
	}))

	target := chiadapter.NewChiAdapter()
	nethttp.Mount(target, rt)

	assert.Equal(t, "PUT warp", serve(target, http.MethodPut, "/any/warp", nil).Body.String())
	assert.Equal(t, "GET chain", serve(target, http.MethodGet, "/any/chain", nil).Body.String())
}

func TestWrapNative(t *testing.T) {
	type ctxKey string

	auth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				w.Header().Set("WWW-Authenticate", "Bearer")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte("denied"))
				return
			}
			w.Header().Set("X-Authed", "true")
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey("user"), "ada")))
		})
	}
	extract := func(r *http.Request) middleware.Fields {
		return middleware.Fields{"user": r.Context().Value(ctxKey("user"))}
	}

	var handled bool
	rt := route.NewRouter(nethttp.New().Get("/private").
		Use(nethttp.WrapNativeWith(auth, extract)).
		Handler(func(_ context.Context, r *req) (response.Response, error) {
			handled = true
			return response.OK(r.Get("user")), nil
		}))
	h := nethttp.Handler(rt)

	rec := serve(h, http.MethodGet, "/private", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "denied", rec.Body.String())
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.False(t, handled)

	r := httptest.NewRequest(http.MethodGet, "/private", nil)
	r.Header.Set("Authorization", "Bearer t")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada", rec.Body.String())
	assert.Equal(t, "true", rec.Header().Get("X-Authed"), "headers set before next are kept")
}

func TestWrapNative_Timeout(t *testing.T) {
	stuck := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		})
	}

	var seen error
	rt := route.NewRouter(nethttp.New().Get("/slow").
		Use(nethttp.WrapNative(stuck, adapter.WithTimeout(20*time.Millisecond))).
		Handler(func(context.Context, *req) (response.Response, error) {
			return response.OK(nil), nil
		}))
	h := nethttp.Handler(rt, nethttp.WithErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
		seen = err
		w.WriteHeader(http.StatusGatewayTimeout)
	}))

	rec := serve(h, http.MethodGet, "/slow", nil)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.ErrorIs(t, seen, adapter.ErrNativeTimeout)
	assert.Equal(t, "middleware timed out", seen.Error())
}

func TestWrapNative_Silent(t *testing.T) {
	silent := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	}

	rt := route.NewRouter(nethttp.New().Get("/silent").
		Use(nethttp.WrapNative(silent)).
		Handler(func(context.Context, *req) (response.Response, error) {
			return response.Accepted("unreachable"), nil
		}))

	rec := serve(nethttp.Handler(rt), http.MethodGet, "/silent", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestFullStack_SmokeTest(t *testing.T) {
	rt := route.NewRouter(nethttp.New().Get("/api/v1/users/:id").Handler(func(_ context.Context, r *req) (response.Response, error) {
		id, _ := r.RouteParams().String("id")
		return response.OK(map[string]string{"status": "ok", "id": id}), nil
	}))

	srv := server.New(server.Config{Addr: "127.0.0.1:0"}, nethttp.Handler(rt))
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + srv.Addr() + "/api/v1/users/admin")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.JSONEq(t, `{"status":"ok","id":"admin"}`, string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
