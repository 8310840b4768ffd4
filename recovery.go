// Package warpchain composes typed routes out of URL patterns, middleware
// chains and handlers, and runs them on existing HTTP frameworks.
//
// The building blocks live in subpackages: response, urlpattern, middleware,
// parser and route form the framework-independent core, and the host
// packages (host/nethttp, host/ginhost, host/echohost, host/fiberhost) run
// routes on a concrete framework. This package holds net/http helpers shared
// by hosts and applications.
package warpchain

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recovery returns a middleware that recovers from panics, logs the error,
// and returns an Internal Server Error (500) to the client.
// If stack is true, it includes the stack trace in the log and response.
func Recovery(stack bool) func(http.Handler) http.Handler {
	return RecoveryWithLogger(slog.Default(), stack)
}

// RecoveryWithLogger is Recovery reporting to logger.
func RecoveryWithLogger(logger *slog.Logger, stack bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}

				attrs := []any{
					slog.Any("panic", err),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				}
				message := fmt.Sprintf("panic recovered: %v", err)
				if stack {
					trace := string(debug.Stack())
					attrs = append(attrs, slog.String("stack", trace))
					message = fmt.Sprintf("%s\n\n%s", message, trace)
				}
				logger.ErrorContext(r.Context(), "panic recovered", attrs...)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)

				body := `{"error": "Internal Server Error"}`
				if stack {
					body = fmt.Sprintf(`{"error": %q}`, message)
				}
				_, _ = w.Write([]byte(body))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
