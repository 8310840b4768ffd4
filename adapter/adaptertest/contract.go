// Package adaptertest holds the contract suites every router.Router
// implementation must pass.
package adaptertest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iaconlabs/warpchain/adapter"
	"github.com/iaconlabs/warpchain/router"
)

const (
	count           = 50
	firstLetterRune = 65 // 'A'
)

// RunRouterContract executes the core functional contract tests for any [router.Router].
// It ensures consistency in parameter extraction, middleware propagation, and group isolation.
func RunRouterContract(t *testing.T, factory func() router.Router) {
	t.Run("Parameters", func(t *testing.T) {
		testParameters(t, factory())
	})

	t.Run("Native Context Propagation", func(t *testing.T) {
		testNativeContextPropagation(t, factory())
	})

	t.Run("Middleware Short-circuit", func(t *testing.T) {
		testMiddlewareShortCircuit(t, factory())
	})

	t.Run("Multiple Complex Parameters", func(t *testing.T) {
		testMultipleComplexParameters(t, factory())
	})

	t.Run("Group and Middleware Isolation", func(t *testing.T) {
		testGroupIsolation(t, factory())
	})

	t.Run("Group Union Normalization", func(t *testing.T) {
		testGroupNormalization(t, factory())
	})

	t.Run("Handle Method", func(t *testing.T) {
		testHandle(t, factory())
	})

	t.Run("ANY Method", func(t *testing.T) {
		testAnyMethod(t, factory())
	})
}

// RunAdvancedRouterContract covers edge cases: priority, deep nesting,
// wildcards, header sync, concurrency and body access.
func RunAdvancedRouterContract(t *testing.T, factory func() router.Router) {
	t.Run("Route Priority: Static vs Dynamic", func(t *testing.T) {
		testRoutePriority(t, factory())
	})

	t.Run("Deep Nesting and Onion Middleware", func(t *testing.T) {
		testDeepNestingOnion(t, factory())
	})

	t.Run("Catch-All Wildcard Routes", func(t *testing.T) {
		testWildcardRoutes(t, factory())
	})

	t.Run("Middleware Status and Header Sync", func(t *testing.T) {
		testHeaderSync(t, factory())
	})

	t.Run("Concurrency Security and Race Conditions", func(t *testing.T) {
		testConcurrency(t, factory())
	})

	t.Run("Cached Request Body", func(t *testing.T) {
		testCachedBody(t, factory())
	})

	t.Run("Ambiguity Torture Test", func(t *testing.T) {
		testAmbiguity(t, factory())
	})
}

func serve(adp router.Router, method, target string, body io.Reader) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	adp.ServeHTTP(rec, httptest.NewRequest(method, target, body))
	return rec
}

func testParameters(t *testing.T, adp router.Router) {
	adp.GET("/user/:id", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("plain:" + adp.Param(r, "id")))
	})
	adp.GET("/account/:account-id", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("account:" + adp.Param(r, "account-id")))
	})

	if got := serve(adp, http.MethodGet, "/user/123", nil).Body.String(); got != "plain:123" {
		t.Errorf("Expected plain:123, got %s", got)
	}
	if got := serve(adp, http.MethodGet, "/account/a-9", nil).Body.String(); got != "account:a-9" {
		t.Errorf("Hyphenated parameter lost. Expected account:a-9, got %s", got)
	}
}

func testNativeContextPropagation(t *testing.T, adp router.Router) {
	type ctxKey string
	const key ctxKey = "user_id"

	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), key, "warp-77")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	adp.Use(mw)
	adp.GET("/profile", func(w http.ResponseWriter, r *http.Request) {
		val, _ := r.Context().Value(key).(string)
		_, _ = w.Write([]byte(val))
	})

	if got := serve(adp, http.MethodGet, "/profile", nil).Body.String(); got != "warp-77" {
		t.Errorf("Context lost. Expected warp-77, got %s", got)
	}
}

func testMiddlewareShortCircuit(t *testing.T, adp router.Router) {
	handlerReached := false
	authMw := func(_ http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}

	adp.GET("/secret", func(_ http.ResponseWriter, _ *http.Request) {
		handlerReached = true
	}, authMw)

	rec := serve(adp, http.MethodGet, "/secret", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
	if handlerReached {
		t.Error("Handler executed despite middleware abort")
	}
}

func testMultipleComplexParameters(t *testing.T, adp router.Router) {
	adp.GET("/org/:org_id/repo/:repo_name/files/:path", func(w http.ResponseWriter, r *http.Request) {
		p := adp.Params(r)
		_, _ = w.Write([]byte(p["org_id"] + "|" + p["repo_name"] + "|" + p["path"]))
	})

	got := serve(adp, http.MethodGet, "/org/warp/repo/chain/files/main.go", nil).Body.String()
	if got != "warp|chain|main.go" {
		t.Errorf("Parameter extraction failed. Got: %s", got)
	}
}

func testGroupIsolation(t *testing.T, adp router.Router) {
	admin := adp.Group("/admin")
	admin.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Admin", "true")
			next.ServeHTTP(w, r)
		})
	})
	admin.GET("/dashboard", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("admin"))
	})

	public := adp.Group("/public")
	public.GET("/home", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("public"))
	})

	if rec := serve(adp, http.MethodGet, "/admin/dashboard", nil); rec.Header().Get("X-Admin") != "true" {
		t.Error("Group middleware was not applied")
	}
	if rec := serve(adp, http.MethodGet, "/public/home", nil); rec.Header().Get("X-Admin") != "" {
		t.Error("Group middleware leaked into a sibling group")
	}
}

func testGroupNormalization(t *testing.T, adp router.Router) {
	api := adp.Group("/api/")
	api.GET("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	if got := serve(adp, http.MethodGet, "/api/health", nil).Body.String(); got != "ok" {
		t.Errorf("Double slash not normalized. Got: %s", got)
	}
}

func testHandle(t *testing.T, adp router.Router) {
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Handle", "true")
			next.ServeHTTP(w, r)
		})
	}
	adp.Handle(http.MethodPatch, "/test/handle", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("handler_ok"))
	}), mw)

	rec := serve(adp, http.MethodPatch, "/test/handle", nil)
	if rec.Body.String() != "handler_ok" || rec.Header().Get("X-Handle") != "true" {
		t.Errorf("Handle failed. Body: %s", rec.Body.String())
	}
	if rec := serve(adp, http.MethodGet, "/test/handle", nil); rec.Body.String() == "handler_ok" {
		t.Error("Handle registered for the wrong method")
	}
}

func testAnyMethod(t *testing.T, adp router.Router) {
	adp.ANY("/any", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Method))
	})

	for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		if got := serve(adp, m, "/any", nil).Body.String(); got != m {
			t.Errorf("ANY did not answer %s. Got: %s", m, got)
		}
	}
}

func testRoutePriority(t *testing.T, adp router.Router) {
	adp.GET("/post/:id", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("dynamic:" + adp.Param(r, "id")))
	})
	adp.GET("/post/featured", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("static"))
	})

	if got := serve(adp, http.MethodGet, "/post/featured", nil).Body.String(); got != "static" {
		t.Errorf("Static route should win. Got: %s", got)
	}
	if got := serve(adp, http.MethodGet, "/post/42", nil).Body.String(); got != "dynamic:42" {
		t.Errorf("Dynamic route failed. Got: %s", got)
	}
}

func testDeepNestingOnion(t *testing.T, adp router.Router) {
	var trace []string
	mw := func(tag string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trace = append(trace, tag+">")
				next.ServeHTTP(w, r)
				trace = append(trace, "<"+tag)
			})
		}
	}

	g1 := adp.Group("/g1")
	g1.Use(mw("1"))
	g2 := g1.Group("/g2")
	g2.Use(mw("2"))
	g2.GET("/end", func(_ http.ResponseWriter, _ *http.Request) {
		trace = append(trace, "H")
	}, mw("R"))

	serve(adp, http.MethodGet, "/g1/g2/end", nil)

	want := "1> 2> R> H <R <2 <1"
	if got := strings.Join(trace, " "); got != want {
		t.Errorf("Onion order broken. Expected %q, got %q", want, got)
	}
}

func testWildcardRoutes(t *testing.T, adp router.Router) {
	adp.GET("/static/*path", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("path:" + adp.Param(r, "path")))
	})

	got := serve(adp, http.MethodGet, "/static/images/logo/brand.png", nil).Body.String()
	if got != "path:images/logo/brand.png" {
		t.Errorf("Wildcard failed. Got: %s", got)
	}
}

func testHeaderSync(t *testing.T, adp router.Router) {
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Middleware", "true")
			next.ServeHTTP(w, r)
		})
	}

	adp.GET("/headers", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Handler", "true")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	}, mw)

	rec := serve(adp, http.MethodGet, "/headers", nil)
	if rec.Code != http.StatusCreated {
		t.Errorf("Status code lost. Expected 201, got %d", rec.Code)
	}
	if rec.Header().Get("X-Middleware") != "true" || rec.Header().Get("X-Handler") != "true" {
		t.Error("Header synchronization failed")
	}
}

func testConcurrency(t *testing.T, adp router.Router) {
	adp.GET("/worker/:id", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(adp.Param(r, "id")))
	})

	results := make(chan bool, count)
	for i := range count {
		go func(val string) {
			results <- serve(adp, http.MethodGet, "/worker/"+val, nil).Body.String() == val
		}(string(rune(i + firstLetterRune)))
	}

	for range count {
		if !<-results {
			t.Error("Concurrency failure: parameters leaked between parallel requests")
			break
		}
	}
}

func testCachedBody(t *testing.T, adp router.Router) {
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := adapter.ReadBody(r, 0); err != nil {
				t.Errorf("ReadBody: %v", err)
			}
			next.ServeHTTP(w, r)
		})
	}

	adp.POST("/body", func(w http.ResponseWriter, r *http.Request) {
		cached, _ := adapter.ReadBody(r, 0)
		raw, _ := io.ReadAll(r.Body)
		_, _ = w.Write([]byte(string(cached) + "|" + string(raw)))
	}, mw)

	payload := `{"cmd":"ping"}`
	got := serve(adp, http.MethodPost, "/body", strings.NewReader(payload)).Body.String()
	if got != payload+"|"+payload {
		t.Errorf("Body lost after middleware reading. Got: %s", got)
	}
}

func testAmbiguity(t *testing.T, adp router.Router) {
	adp.GET("/a/b/c", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("static")) })
	adp.GET("/a/:b/c", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("param:" + adp.Param(r, "b")))
	})
	adp.GET("/a/*", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("wildcard")) })

	if got := serve(adp, http.MethodGet, "/a/b/c", nil).Body.String(); got != "static" {
		t.Errorf("Ambiguity failure (static). Got: %s", got)
	}
	if got := serve(adp, http.MethodGet, "/a/other/c", nil).Body.String(); got != "param:other" {
		t.Errorf("Ambiguity failure (param). Got: %s", got)
	}
	if got := serve(adp, http.MethodGet, "/a/x/y/z", nil).Body.String(); got != "wildcard" {
		t.Errorf("Ambiguity failure (wildcard). Got: %s", got)
	}
}
