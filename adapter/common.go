package adapter

import (
	"regexp"
	"strings"
)

// colonRegex identifies parameter placeholders in the format ":name" (e.g., :id, :user-id).
var colonRegex = regexp.MustCompile(`:([a-zA-Z0-9_-]+)`)

// TranslatePath converts ":param" placeholders into brace-style "{param}"
// ones, as go-chi and [http.ServeMux] expect, and returns the placeholder
// names in order. encode, when non-nil, rewrites names the target router
// cannot accept.
func TranslatePath(path string, encode func(string) string) (string, []string) {
	var keys []string
	out := colonRegex.ReplaceAllStringFunc(path, func(m string) string {
		key := strings.TrimPrefix(m, ":")
		keys = append(keys, key)
		if encode != nil {
			key = encode(key)
		}
		return "{" + key + "}"
	})
	return out, keys
}

// SplitWildcard separates a trailing "*name" catch-all from path. A bare "*"
// is named "any". ok is false when path has no catch-all.
func SplitWildcard(path string) (prefix, name string, ok bool) {
	before, after, found := strings.Cut(path, "*")
	if !found {
		return path, "", false
	}
	if after == "" {
		after = "any"
	}
	return before, after, true
}

// JoinPaths joins a group prefix and a route path without doubling slashes.
func JoinPaths(base, next string) string {
	if next == "" {
		return "/" + strings.Trim(base, "/")
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(next, "/")
}
