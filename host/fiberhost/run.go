package fiberhost

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/iaconlabs/warpchain/response"
	"github.com/iaconlabs/warpchain/route"
)

// Run adapts a compiled route to a fiber handler.
func Run(h route.Func[Base]) fiber.Handler {
	return func(c fiber.Ctx) error {
		resp, err := h(c.Context(), c)
		if err != nil {
			return err
		}
		return Write(c, resp)
	}
}

// Write sends resp through the fasthttp response. Streaming bodies write to
// the response body writer. Headers on resp override the default content
// type.
func Write(c fiber.Ctx, resp response.Response) error {
	if sb, ok := response.IsStreaming(resp.Body); ok {
		setHeaders(c, resp.Headers)
		c.Status(resp.Status)
		return sb.Callback(c.Response().BodyWriter())
	}

	payload, contentType, err := response.Encode(resp.Body)
	if err != nil {
		return err
	}
	if contentType != "" {
		c.Set(fiber.HeaderContentType, contentType)
	}
	setHeaders(c, resp.Headers)
	c.Status(resp.Status)
	if payload == nil {
		return nil
	}
	return c.Send(payload)
}

func setHeaders(c fiber.Ctx, h response.Headers) {
	for k, v := range h {
		c.Set(k, v)
	}
}

// Mount registers every route of rt on app. MethodAll routes use app.All.
func Mount(app *fiber.App, rt *route.Router[Base]) {
	for _, r := range rt.Routes() {
		if r.Method == route.MethodAll {
			app.All(r.Pattern, Run(r.Handle))
			continue
		}
		app.Add([]string{r.Method}, r.Pattern, Run(r.Handle))
	}
}

// Handler returns a fiber app with panic recovery and every route of rt
// mounted.
func Handler(rt *route.Router[Base], cfg ...fiber.Config) *fiber.App {
	app := fiber.New(cfg...)
	app.Use(recoverer.New())
	Mount(app, rt)
	return app
}
