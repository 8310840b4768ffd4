package response

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrStreamingBody is returned by Encode for streaming bodies, which have to
// be written through their callback instead.
var ErrStreamingBody = errors.New("response: streaming body cannot be encoded")

// Redirect builds a 3xx response with a Location header and a short
// human-readable body. Only 301, 302, 303, 307 and 308 are accepted; any other
// status is a programming error and panics.
func Redirect(status int, location string) Response {
	name := redirectName(status)
	if name == "" {
		panic(fmt.Sprintf("response: %d is not a redirect status", status))
	}
	return Response{
		Status:  status,
		Body:    fmt.Sprintf("%s. Redirecting to %s", name, location),
		Headers: Headers{"Location": location},
	}
}

func redirectName(status int) string {
	switch status {
	case http.StatusMovedPermanently:
		return "Moved permanently"
	case http.StatusFound:
		return "Found"
	case http.StatusSeeOther:
		return "See other"
	case http.StatusTemporaryRedirect:
		return "Temporary redirect"
	case http.StatusPermanentRedirect:
		return "Permanent redirect"
	}
	return ""
}
