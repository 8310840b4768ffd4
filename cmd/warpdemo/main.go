// Command warpdemo serves a small notes API built from typed routes on the
// net/http host.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/iaconlabs/warpchain/host/nethttp"
	"github.com/iaconlabs/warpchain/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// A missing .env is fine; the environment alone is enough.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Error("failed to load .env", slog.Any("error", err))
		os.Exit(1)
	}

	cfg, err := server.LoadConfig()
	if err != nil {
		log.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	rt := routes(newStore(), log)
	srv := server.New(cfg, nethttp.Handler(rt, nethttp.WithLogger(log)), server.WithLogger(log))

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return srv.Run(ctx) })

	if err := eg.Wait(); err != nil {
		log.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("warpdemo stopped")
}
