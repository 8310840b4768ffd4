package server_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaconlabs/warpchain/server"
)

func TestServer_GracefulShutdown(t *testing.T) {
	// The handler takes a second; Shutdown must wait for it.
	requestStarted := make(chan struct{})

	slowHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(requestStarted)
		time.Sleep(1 * time.Second)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("finished"))
	})

	srv := server.New(server.Config{Addr: "127.0.0.1:0"}, slowHandler)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start(t.Context())
	}()

	addr := srv.Addr()
	require.NotEmpty(t, addr)

	clientResult := make(chan string, 1)
	go func() {
		resp, err := http.Get("http://" + addr)
		if err != nil {
			clientResult <- "error: " + err.Error()
			return
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		clientResult <- string(body)
	}()

	<-requestStarted

	shutdownStart := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case res := <-clientResult:
		assert.Equal(t, "finished", res, "in-flight requests complete")
	case <-time.After(2 * time.Second):
		t.Error("timed out waiting for the client")
	}

	select {
	case err := <-serverErr:
		assert.NoError(t, err)
	case <-time.After(1 * time.Second):
		t.Error("server did not stop after Shutdown")
	}

	assert.GreaterOrEqual(t, time.Since(shutdownStart), time.Second, "Shutdown waited for the handler")
}

func TestServer_RunStopsWithContext(t *testing.T) {
	srv := server.New(server.Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second},
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("pong"))
		}))

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	resp, err := http.Get("http://" + srv.Addr())
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("WARP_ADDR", "127.0.0.1:9999")
	t.Setenv("WARP_READ_TIMEOUT", "3s")

	cfg, err := server.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.Addr)
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.WriteTimeout, "unset values use envDefault")

	t.Setenv("WARP_IDLE_TIMEOUT", "forever")
	_, err = server.LoadConfig()
	assert.Error(t, err)
}
