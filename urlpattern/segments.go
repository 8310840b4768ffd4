package urlpattern

// Segment is one piece of a path: either literal text or a named capture.
type Segment struct {
	literal    string
	name       string
	conversion string
	capture    bool
}

// Lit is a literal path piece, copied verbatim into the pattern.
func Lit(s string) Segment { return Segment{literal: s} }

// Str captures a path segment as a string.
func Str(name string) Segment { return Capture(name, "string") }

// Int captures a path segment as an int; non-integers make the route not
// match.
func Int(name string) Segment { return Capture(name, "int") }

// Capture captures a path segment with the named conversion.
func Capture(name, conversion string) Segment {
	return Segment{name: name, conversion: conversion, capture: true}
}

// Captures holds typed route captures keyed by name.
type Captures map[string]any

// String returns the capture as a string.
func (c Captures) String(name string) (string, bool) {
	return Get[string](c, name)
}

// Int returns the capture as an int.
func (c Captures) Int(name string) (int, bool) {
	return Get[int](c, name)
}

// Get returns the capture name asserted to T.
func Get[T any](c Captures, name string) (T, bool) {
	v, ok := c[name].(T)
	return v, ok
}
