package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	// RequestIDField holds the id contributed by RequestID.
	RequestIDField = "requestID"
	// StartedAtField holds the time AccessLog saw the request.
	StartedAtField = "startedAt"
)

// RequestIDConfig configures RequestID.
type RequestIDConfig struct {
	// Generator creates new ids. Defaults to UUID v4.
	Generator func() string
	// UseExisting keeps an id supplied by the client when non-empty.
	UseExisting bool
}

// RequestID contributes a per-request id under RequestIDField. incoming reads
// the id the client sent, if any; it may be nil.
func RequestID[B any](incoming func(B) string, cfg RequestIDConfig) Func[B] {
	if cfg.Generator == nil {
		cfg.Generator = func() string {
			return uuid.New().String()
		}
	}

	return func(_ context.Context, req *Request[B]) (Outcome, error) {
		var id string
		if cfg.UseExisting && incoming != nil {
			id = incoming(req.Base)
		}
		if id == "" {
			id = cfg.Generator()
		}
		return Next(Fields{RequestIDField: id}), nil
	}
}

// AccessLog records when the request entered the chain and registers a
// finalizer logging one line once the request is done. describe adds host
// specific attributes such as method and path; it may be nil.
func AccessLog[B any](logger *slog.Logger, describe func(B) []slog.Attr) Func[B] {
	if logger == nil {
		logger = slog.Default()
	}

	return func(_ context.Context, req *Request[B]) (Outcome, error) {
		started := time.Now()

		finalize := func(ctx context.Context) error {
			attrs := []slog.Attr{slog.Duration("elapsed", time.Since(started))}
			if id, ok := Field[string](req, RequestIDField); ok {
				attrs = append(attrs, slog.String("request_id", id))
			}
			if describe != nil {
				attrs = append(attrs, describe(req.Base)...)
			}
			logger.LogAttrs(ctx, slog.LevelInfo, "request finished", attrs...)
			return nil
		}

		return Next(Fields{StartedAtField: started}, finalize), nil
	}
}
