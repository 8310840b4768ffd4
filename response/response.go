// Package response describes the values route handlers and middleware return
// instead of writing to a host framework directly.
//
// A Response is plain data. Host packages turn it into bytes on the wire; the
// engine never touches a writer itself.
package response

//go:generate go run ../internal/cmd/genresponses -o statuses.go

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
)

const (
	contentTypeText   = "text/plain; charset=utf-8"
	contentTypeJSON   = "application/json"
	contentTypeBinary = "application/octet-stream"
)

// Headers is the optional header set attached to a Response.
type Headers map[string]string

// Response is an HTTP status, an optional body and optional headers.
//
// Body may be nil, a string, a []byte, an io.Reader, a StreamingBody or any
// other value, which is encoded as JSON when the response is written.
type Response struct {
	Status  int
	Body    any
	Headers Headers
}

// New builds a response with a copy of the first non-nil header map given.
func New(status int, body any, headers ...Headers) Response {
	r := Response{Status: status, Body: body}
	for _, h := range headers {
		if h != nil {
			r.Headers = maps.Clone(h)
			break
		}
	}
	return r
}

// WithHeader returns a copy of r with the header key set to value.
func (r Response) WithHeader(key, value string) Response {
	h := make(Headers, len(r.Headers)+1)
	maps.Copy(h, r.Headers)
	h[key] = value
	r.Headers = h
	return r
}

// Header returns the header value for key, if any.
func (r Response) Header(key string) (string, bool) {
	v, ok := r.Headers[key]
	return v, ok
}

// StreamingCallback writes a response body to the host's sink.
type StreamingCallback func(w io.Writer) error

// StreamingBody marks a body that is produced lazily by writing to the host's
// output sink instead of being materialized up front.
type StreamingBody struct {
	Callback StreamingCallback
}

// Stream wraps cb into a streaming body marker.
func Stream(cb StreamingCallback) StreamingBody {
	return StreamingBody{Callback: cb}
}

// IsStreaming reports whether body is a usable streaming body marker.
func IsStreaming(body any) (StreamingBody, bool) {
	switch b := body.(type) {
	case StreamingBody:
		return b, b.Callback != nil
	case *StreamingBody:
		if b == nil {
			return StreamingBody{}, false
		}
		return *b, b.Callback != nil
	}
	return StreamingBody{}, false
}

// Encode materializes a non-streaming body. It returns the payload together
// with the content type a host should use when the handler did not set one.
// A nil body yields a nil payload and an empty content type.
func Encode(body any) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return []byte(b), contentTypeText, nil
	case []byte:
		return b, contentTypeBinary, nil
	case io.Reader:
		payload, err := io.ReadAll(b)
		if err != nil {
			return nil, "", fmt.Errorf("response: read body: %w", err)
		}
		return payload, contentTypeBinary, nil
	case StreamingBody, *StreamingBody:
		return nil, "", ErrStreamingBody
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("response: encode body: %w", err)
	}
	return payload, contentTypeJSON, nil
}
