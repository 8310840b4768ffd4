package ginhost

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iaconlabs/warpchain/response"
	"github.com/iaconlabs/warpchain/route"
)

// ErrorHandler answers a request whose route returned an error.
type ErrorHandler func(c *gin.Context, err error)

type config struct {
	logger  *slog.Logger
	onError ErrorHandler
}

// Option configures Run, Mount and Handler.
type Option func(*config)

// WithLogger sets the logger for route errors.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithErrorHandler replaces the default error handler. The default records
// the error on the gin context, logs it and aborts with 500.
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
		cfg.onError = func(c *gin.Context, err error) {
			_ = c.Error(err)
			logger.ErrorContext(c.Request.Context(), "route failed",
				slog.String("method", c.Request.Method),
				slog.String("path", c.FullPath()),
				slog.Any("error", err),
			)
			c.AbortWithStatus(http.StatusInternalServerError)
		}
	}
	return cfg
}

// Run adapts a compiled route to a gin handler.
func Run(h route.Func[Base], opts ...Option) gin.HandlerFunc {
	return run(h, newConfig(opts))
}

func run(h route.Func[Base], cfg config) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := h(c.Request.Context(), c)
		if err != nil {
			cfg.onError(c, err)
			return
		}
		if err := Write(c, resp); err != nil {
			if c.Writer.Written() {
				cfg.logger.ErrorContext(c.Request.Context(), "writing response failed", slog.Any("error", err))
				return
			}
			cfg.onError(c, err)
		}
	}
}

// Write sends resp through gin's writer.
func Write(c *gin.Context, resp response.Response) error {
	if sb, ok := response.IsStreaming(resp.Body); ok {
		setHeaders(c, resp.Headers)
		c.Status(resp.Status)
		c.Writer.WriteHeaderNow()
		return sb.Callback(c.Writer)
	}

	payload, contentType, err := response.Encode(resp.Body)
	if err != nil {
		return err
	}
	setHeaders(c, resp.Headers)
	if contentType == "" {
		c.Status(resp.Status)
		c.Writer.WriteHeaderNow()
		return nil
	}
	c.Data(resp.Status, contentType, payload)
	return nil
}

func setHeaders(c *gin.Context, h response.Headers) {
	for k, v := range h {
		c.Header(k, v)
	}
}

// Mount registers every route of rt on r. MethodAll routes use r.Any.
func Mount(r gin.IRoutes, rt *route.Router[Base], opts ...Option) {
	cfg := newConfig(opts)
	for _, rte := range rt.Routes() {
		if rte.Method == route.MethodAll {
			r.Any(rte.Pattern, run(rte.Handle, cfg))
			continue
		}
		r.Handle(rte.Method, rte.Pattern, run(rte.Handle, cfg))
	}
}

// Handler returns a gin engine in release mode with panic recovery and
// every route of rt mounted.
func Handler(rt *route.Router[Base], opts ...Option) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	Mount(engine, rt, opts...)
	return engine
}
