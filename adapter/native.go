package adapter

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/iaconlabs/warpchain/response"
)

// ErrNativeTimeout is returned when a wrapped native middleware neither
// responded nor continued within its timeout.
var ErrNativeTimeout = errors.New("middleware timed out")

// NativeConfig configures how a native middleware is run.
type NativeConfig struct {
	// Timeout bounds how long the middleware may take to respond or
	// continue. Zero means no bound and the middleware runs inline.
	Timeout time.Duration
	// Logger receives warnings about output the middleware produced after
	// continuing.
	Logger *slog.Logger
}

// NativeOption configures a wrapped native middleware.
type NativeOption func(*NativeConfig)

// WithTimeout fails the middleware step with ErrNativeTimeout if it does not
// settle within d.
func WithTimeout(d time.Duration) NativeOption {
	return func(c *NativeConfig) { c.Timeout = d }
}

// WithNativeLogger sets the logger used for dropped-output warnings.
func WithNativeLogger(l *slog.Logger) NativeOption {
	return func(c *NativeConfig) {
		if l != nil {
			c.Logger = l
		}
	}
}

// NewNativeConfig applies opts over the defaults.
func NewNativeConfig(opts ...NativeOption) NativeConfig {
	cfg := NativeConfig{Logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Recorder is an [http.ResponseWriter] that captures what a native
// middleware writes instead of sending it. Once Detach is called, further
// writes are dropped.
type Recorder struct {
	mu       sync.Mutex
	header   http.Header
	status   int
	body     bytes.Buffer
	wrote    bool
	detached bool
	warned   bool
	logger   *slog.Logger
}

// NewRecorder returns a recorder whose header map starts as a copy of
// initial, so the middleware sees headers set earlier in the request.
func NewRecorder(initial http.Header, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	h := make(http.Header, len(initial))
	for k, v := range initial {
		h[k] = append([]string(nil), v...)
	}
	return &Recorder{header: h, logger: logger}
}

func (r *Recorder) Header() http.Header {
	return r.header
}

func (r *Recorder) WriteHeader(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dropLocked() || r.status != 0 {
		return
	}
	r.status = code
	r.wrote = true
}

func (r *Recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dropLocked() {
		return len(p), nil
	}
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.wrote = true
	return r.body.Write(p)
}

// Flush is a no-op; recorded output is replayed as a whole.
func (r *Recorder) Flush() {}

func (r *Recorder) dropLocked() bool {
	if !r.detached {
		return false
	}
	if !r.warned {
		r.warned = true
		r.logger.Warn("native middleware wrote after it continued or timed out; output dropped")
	}
	return true
}

// Detach stops recording. Later writes are discarded.
func (r *Recorder) Detach() {
	r.mu.Lock()
	r.detached = true
	r.mu.Unlock()
}

// Written reports whether the middleware wrote a status or body.
func (r *Recorder) Written() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wrote
}

// Response turns the recorded output into a response whose streaming body
// replays the recorded bytes. A recorder nothing was written to yields an
// empty 200.
func (r *Recorder) Response() response.Response {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := r.status
	if status == 0 {
		status = http.StatusOK
	}
	payload := bytes.Clone(r.body.Bytes())
	body := response.Stream(func(w io.Writer) error {
		_, err := w.Write(payload)
		return err
	})
	return response.New(status, body, FlattenHeader(r.header))
}

// FlattenHeader folds a multi-valued header into response headers, joining
// repeated values with ", ".
func FlattenHeader(h http.Header) response.Headers {
	if len(h) == 0 {
		return nil
	}
	out := make(response.Headers, len(h))
	for k, v := range h {
		out[k] = strings.Join(v, ", ")
	}
	return out
}

// CopyHeader overwrites dst with every key of src.
func CopyHeader(dst, src http.Header) {
	for k, v := range src {
		dst[k] = append([]string(nil), v...)
	}
}

// Await runs run and waits until it returns or continued is closed.
//
// With a zero timeout run executes on the calling goroutine. Otherwise it
// runs on its own goroutine and Await gives up after timeout with
// ErrNativeTimeout, or when ctx is done. A panic inside run is re-raised on
// the caller.
func Await(ctx context.Context, timeout time.Duration, continued <-chan struct{}, run func()) error {
	if timeout <= 0 {
		run()
		return nil
	}

	done := make(chan struct{})
	var panicked any
	go func() {
		defer close(done)
		defer func() {
			if p := recover(); p != nil {
				panicked = p
			}
		}()
		run()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		if panicked != nil {
			panic(panicked)
		}
		return nil
	case <-continued:
		return nil
	case <-timer.C:
		return ErrNativeTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}
