package echohost

import (
	"net/http"

	"github.com/labstack/echo/v5"
	echomw "github.com/labstack/echo/v5/middleware"

	"github.com/iaconlabs/warpchain/response"
	"github.com/iaconlabs/warpchain/route"
)

// Run adapts a compiled route to an echo handler.
func Run(h route.Func[Base]) echo.HandlerFunc {
	return func(c *echo.Context) error {
		resp, err := h(c.Request().Context(), c)
		if err != nil {
			return err
		}
		return Write(c, resp)
	}
}

// Write sends resp through echo's response writer.
func Write(c *echo.Context, resp response.Response) error {
	w := c.Response()
	if sb, ok := response.IsStreaming(resp.Body); ok {
		setHeaders(w.Header(), resp.Headers)
		w.WriteHeader(resp.Status)
		return sb.Callback(w)
	}

	payload, contentType, err := response.Encode(resp.Body)
	if err != nil {
		return err
	}
	setHeaders(w.Header(), resp.Headers)
	if contentType == "" {
		return c.NoContent(resp.Status)
	}
	if ct := w.Header().Get(echo.HeaderContentType); ct != "" {
		contentType = ct
	}
	return c.Blob(resp.Status, contentType, payload)
}

func setHeaders(h http.Header, src response.Headers) {
	for k, v := range src {
		h.Set(k, v)
	}
}

// Mount registers every route of rt on e. MethodAll routes use e.Any.
func Mount(e *echo.Echo, rt *route.Router[Base]) {
	for _, r := range rt.Routes() {
		if r.Method == route.MethodAll {
			e.Any(r.Pattern, Run(r.Handle))
			continue
		}
		e.Add(r.Method, r.Pattern, Run(r.Handle))
	}
}

// Handler returns an echo instance with panic recovery and every route of rt
// mounted.
func Handler(rt *route.Router[Base]) *echo.Echo {
	e := echo.New()
	e.Use(echomw.Recover())
	Mount(e, rt)
	return e
}
