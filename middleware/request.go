package middleware

import (
	"maps"
	"reflect"

	"github.com/iaconlabs/warpchain/urlpattern"
)

// RouteParamsField is the reserved field under which route captures are
// merged into the request.
const RouteParamsField = "routeParams"

// Fields is a request fragment contributed by a middleware.
type Fields map[string]any

// Request is the request context a chain builds up. Base is the host
// framework's own request handle; the field map grows as middleware
// contribute fragments.
//
// A Request belongs to a single in-flight request and must not be shared.
type Request[B any] struct {
	Base   B
	fields Fields
}

// NewRequest starts a request context around base with optional initial
// fields.
func NewRequest[B any](base B, initial ...Fields) *Request[B] {
	r := &Request[B]{Base: base, fields: make(Fields)}
	for _, f := range initial {
		r.Merge(f)
	}
	return r
}

// Merge shallow-merges fragment into the request. Later values overwrite
// earlier ones under the same key; nil values, typed or not, are skipped.
func (r *Request[B]) Merge(fragment Fields) {
	if r.fields == nil {
		r.fields = make(Fields, len(fragment))
	}
	for k, v := range fragment {
		if isNil(v) {
			continue
		}
		r.fields[k] = v
	}
}

// isNil reports whether v is nil, including a typed nil held in an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Lookup returns the field value and whether it is present.
func (r *Request[B]) Lookup(key string) (any, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Get returns the field value or nil.
func (r *Request[B]) Get(key string) any {
	return r.fields[key]
}

// Fields returns a copy of the merged fields.
func (r *Request[B]) Fields() Fields {
	return maps.Clone(r.fields)
}

// RouteParams returns the typed route captures, or nil when the request did
// not come through a route with a URL pattern.
func (r *Request[B]) RouteParams() urlpattern.Captures {
	caps, _ := r.fields[RouteParamsField].(urlpattern.Captures)
	return caps
}

// Field returns the field key asserted to T.
func Field[T any, B any](r *Request[B], key string) (T, bool) {
	v, ok := r.fields[key].(T)
	return v, ok
}

// MustField is like Field but panics when the field is missing or has
// another type. Use it for fields a preceding middleware always contributes.
func MustField[T any, B any](r *Request[B], key string) T {
	v, ok := Field[T](r, key)
	if !ok {
		panic("middleware: field " + key + " missing or of unexpected type")
	}
	return v
}
