// Package urlpattern turns route paths with typed captures into a pattern a
// host router understands plus a function that converts the host's raw path
// parameters into typed captures.
//
// Paths use ":name" for string captures and ":name(conv)" to apply a named
// conversion, e.g. "/users/:id(int)/files/:file". The pattern handed to the
// host keeps only ":name".
package urlpattern

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrNoMatch means the raw parameters do not satisfy the pattern's
	// captures. Routes answer it with 404.
	ErrNoMatch = errors.New("urlpattern: no match")
	// ErrUnknownConversion is returned when a capture names a conversion that
	// is not registered.
	ErrUnknownConversion = errors.New("urlpattern: unknown conversion")
	// ErrInvalidPattern is returned for malformed or ambiguous patterns.
	ErrInvalidPattern = errors.New("urlpattern: invalid pattern")
)

// captureRegex matches ":name" with an optional "(conversion)" suffix.
var captureRegex = regexp.MustCompile(`:([a-zA-Z0-9_-]+)(?:\(([a-zA-Z0-9_]*)\))?`)

type capture struct {
	name    string
	convert Conversion
}

// Pattern is a compiled route path. It is immutable and safe for concurrent
// use.
type Pattern struct {
	method   string
	pattern  string
	captures []capture
}

// Method returns the HTTP method the pattern was compiled for.
func (p *Pattern) Method() string { return p.method }

// Pattern returns the host-facing pattern with ":name" placeholders.
func (p *Pattern) Pattern() string { return p.pattern }

// Captures lists the capture names in path order.
func (p *Pattern) Captures() []string {
	names := make([]string, len(p.captures))
	for i, c := range p.captures {
		names[i] = c.name
	}
	return names
}

// Parse converts raw, the host's string path parameters, into typed captures.
// Every declared capture must be present and convert; keys the pattern does
// not declare are copied through unchanged.
func (p *Pattern) Parse(raw map[string]string) (Captures, error) {
	out := make(Captures, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	for _, c := range p.captures {
		v, ok := raw[c.name]
		if !ok {
			return nil, fmt.Errorf("%w: capture %q missing", ErrNoMatch, c.name)
		}
		converted, ok := c.convert(v)
		if !ok {
			return nil, fmt.Errorf("%w: capture %q rejects %q", ErrNoMatch, c.name, v)
		}
		out[c.name] = converted
	}
	return out, nil
}

// Compile parses a path with embedded ":name" and ":name(conv)" tokens.
// A nil conv uses the built-in conversions.
func Compile(method, path string, conv Conversions) (*Pattern, error) {
	if conv == nil {
		conv = Builtin()
	}
	if path == "" {
		path = "/"
	}

	var segs []Segment
	last := 0
	for _, m := range captureRegex.FindAllStringSubmatchIndex(path, -1) {
		if m[0] > last {
			segs = append(segs, Lit(path[last:m[0]]))
		}
		name := path[m[2]:m[3]]
		conversion := "string"
		if m[4] != -1 {
			conversion = path[m[4]:m[5]]
			if conversion == "" {
				return nil, fmt.Errorf("%w: empty conversion for %q in %q", ErrInvalidPattern, name, path)
			}
		}
		segs = append(segs, Capture(name, conversion))
		last = m[1]
	}
	if last < len(path) {
		segs = append(segs, Lit(path[last:]))
	}
	return FromSegments(method, conv, segs...)
}

// MustCompile is like Compile but panics on error. It is meant for route
// tables built at startup.
func MustCompile(method, path string, conv Conversions) *Pattern {
	p, err := Compile(method, path, conv)
	if err != nil {
		panic(err)
	}
	return p
}

// FromSegments builds a pattern from literal and capture segments. An empty
// segment list yields "/".
func FromSegments(method string, conv Conversions, segs ...Segment) (*Pattern, error) {
	if conv == nil {
		conv = Builtin()
	}

	p := &Pattern{method: strings.ToUpper(method)}
	seen := make(map[string]bool, len(segs))

	var b strings.Builder
	for _, s := range segs {
		if !s.capture {
			if strings.Contains(s.literal, ":") {
				return nil, fmt.Errorf("%w: literal %q contains ':'", ErrInvalidPattern, s.literal)
			}
			b.WriteString(s.literal)
			continue
		}
		if s.name == "" {
			return nil, fmt.Errorf("%w: capture without name", ErrInvalidPattern)
		}
		if seen[s.name] {
			return nil, fmt.Errorf("%w: duplicate capture %q", ErrInvalidPattern, s.name)
		}
		seen[s.name] = true

		fn, ok := conv[s.conversion]
		if !ok || fn == nil {
			return nil, fmt.Errorf("%w: %q for capture %q", ErrUnknownConversion, s.conversion, s.name)
		}
		p.captures = append(p.captures, capture{name: s.name, convert: fn})
		b.WriteString(":" + s.name)
	}

	p.pattern = b.String()
	if p.pattern == "" {
		p.pattern = "/"
	}
	return p, nil
}
