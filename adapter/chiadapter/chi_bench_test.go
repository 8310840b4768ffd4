package chiadapter_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iaconlabs/warpchain/adapter/adaptertest"
	"github.com/iaconlabs/warpchain/adapter/chiadapter"
	"github.com/iaconlabs/warpchain/router"
)

func BenchmarkChi(b *testing.B) {
	adaptertest.RunSuiteBenchmarks(b, func() router.Router {
		return chiadapter.NewChiAdapter()
	})
}

func BenchmarkChi_Native(b *testing.B) {
	r := chi.NewRouter()
	r.Get("/bench", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	req := httptest.NewRequest(http.MethodGet, "/bench", nil)
	w := httptest.NewRecorder()
	b.ResetTimer()
	for range b.N {
		r.ServeHTTP(w, req)
	}
}
