package parser

import (
	"net/textproto"
	"regexp"
)

// HeaderMap is a case-insensitive view over request headers. Keys are stored in
// canonical MIME form, and lookups canonicalize too, so "API-KEY", "api-key"
// and "Api-Key" all resolve to the same entry.
type HeaderMap map[string][]string

// NewHeaders canonicalizes src into a HeaderMap view. Values are shared with
// src, not copied.
func NewHeaders(src map[string][]string) HeaderMap {
	h := make(HeaderMap, len(src))
	for k, v := range src {
		ck := textproto.CanonicalMIMEHeaderKey(k)
		h[ck] = append(h[ck], v...)
	}
	return h
}

// Get returns the first value for key, or "".
func (h HeaderMap) Get(key string) string {
	if v := h[textproto.CanonicalMIMEHeaderKey(key)]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// Values returns all values for key.
func (h HeaderMap) Values(key string) []string {
	return h[textproto.CanonicalMIMEHeaderKey(key)]
}

// Has reports whether key is present.
func (h HeaderMap) Has(key string) bool {
	_, ok := h[textproto.CanonicalMIMEHeaderKey(key)]
	return ok
}

// cookieNameRegex matches each "name=" at the start of a cookie pair.
var cookieNameRegex = regexp.MustCompile(`(?:^|;\s*)([^=;\s]+)=`)

// CookieNames lists the cookie names present in a raw Cookie header, in order
// and without duplicates. It is for hosts that can look cookies up by name but
// cannot enumerate them.
func CookieNames(header string) []string {
	matches := cookieNameRegex.FindAllStringSubmatch(header, -1)
	names := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		names = append(names, m[1])
	}
	return names
}

// CookieMap resolves every cookie named in header through lookup.
func CookieMap(header string, lookup func(name string) string) map[string]string {
	names := CookieNames(header)
	out := make(map[string]string, len(names))
	for _, name := range names {
		out[name] = lookup(name)
	}
	return out
}
