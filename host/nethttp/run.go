package nethttp

import (
	"log/slog"
	"net/http"

	"github.com/iaconlabs/warpchain"
	"github.com/iaconlabs/warpchain/adapter/muxadapter"
	"github.com/iaconlabs/warpchain/response"
	"github.com/iaconlabs/warpchain/route"
	"github.com/iaconlabs/warpchain/router"
)

// ErrorHandler answers a request whose route returned an error.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type config struct {
	logger  *slog.Logger
	onError ErrorHandler
}

// Option configures Run, Mount and Handler.
type Option func(*config)

// WithLogger sets the logger for route errors and failed writes.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithErrorHandler replaces the default error handler, which logs the error
// and answers 500.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) {
		if h != nil {
			c.onError = h
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.onError == nil {
		logger := cfg.logger
		cfg.onError = func(w http.ResponseWriter, r *http.Request, err error) {
			logger.ErrorContext(r.Context(), "route failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("error", err),
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
	return cfg
}

// Run adapts a compiled route to an http.HandlerFunc. Route errors go to the
// configured ErrorHandler.
func Run(h route.Func[Base], opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts)
	return run(h, cfg)
}

func run(h route.Func[Base], cfg config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h(r.Context(), Base{Request: r, Writer: w})
		if err != nil {
			cfg.onError(w, r, err)
			return
		}
		written, err := Write(w, resp)
		if err == nil {
			return
		}
		if !written {
			cfg.onError(w, r, err)
			return
		}
		cfg.logger.ErrorContext(r.Context(), "writing response failed", slog.Any("error", err))
	}
}

// Write sends resp: headers, then status, then the body. Streaming bodies
// receive w. written reports whether the status line went out, after which
// an error can no longer be answered.
func Write(w http.ResponseWriter, resp response.Response) (written bool, err error) {
	if sb, ok := response.IsStreaming(resp.Body); ok {
		setHeaders(w, resp.Headers)
		w.WriteHeader(resp.Status)
		return true, sb.Callback(w)
	}

	payload, contentType, err := response.Encode(resp.Body)
	if err != nil {
		return false, err
	}

	setHeaders(w, resp.Headers)
	if contentType != "" && w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(resp.Status)
	if len(payload) > 0 {
		_, err = w.Write(payload)
	}
	return true, err
}

func setHeaders(w http.ResponseWriter, h response.Headers) {
	for k, v := range h {
		w.Header().Set(k, v)
	}
}

// Mount registers every route of rt on target.
func Mount(target router.Router, rt *route.Router[Base], opts ...Option) {
	cfg := newConfig(opts)
	for _, r := range rt.Routes() {
		method := r.Method
		if method == route.MethodAll {
			method = router.MethodAny
		}
		target.Handle(method, r.Pattern, run(r.Handle, cfg))
	}
}

// Handler compiles rt onto a fresh ServeMux-backed router with panic
// recovery installed.
func Handler(rt *route.Router[Base], opts ...Option) http.Handler {
	cfg := newConfig(opts)
	target := muxadapter.NewMuxAdapter(nil)
	target.Use(warpchain.RecoveryWithLogger(cfg.logger, false))
	Mount(target, rt, opts...)
	return target
}
