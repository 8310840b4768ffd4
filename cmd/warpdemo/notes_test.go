package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaconlabs/warpchain/host/nethttp"
)

func TestNotesAPI(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := nethttp.Handler(routes(newStore(), log), nethttp.WithLogger(log))

	call := func(method, target, body string, headers ...string) *httptest.ResponseRecorder {
		var rd io.Reader
		if body != "" {
			rd = strings.NewReader(body)
		}
		r := httptest.NewRequest(method, target, rd)
		for i := 0; i+1 < len(headers); i += 2 {
			r.Header.Set(headers[i], headers[i+1])
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	rec := call(http.MethodPost, "/notes", `{"title":"first","tags":["go"]}`, "X-Request-ID", "req-1")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))
	var created note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 1, created.ID)

	rec = call(http.MethodPost, "/notes", `{"title":"second"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = call(http.MethodPost, "/notes", `{"body":"no title"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid body:")

	rec = call(http.MethodGet, "/notes?tag=go", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "first", listed[0].Title)

	rec = call(http.MethodGet, "/notes?limit=0x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(http.MethodGet, "/notes/2", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"second"`)

	rec = call(http.MethodGet, "/notes/two", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(http.MethodDelete, "/notes/2", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(http.MethodGet, "/notes/2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"note not found"}`, rec.Body.String())

	rec = call(http.MethodGet, "/health", "")
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
