package route

import "slices"

// Router is an ordered, immutable set of routes. Hosts compile it into their
// own dispatch table.
type Router[B any] struct {
	routes []Route[B]
}

// NewRouter returns a router holding routes.
func NewRouter[B any](routes ...Route[B]) *Router[B] {
	return &Router[B]{routes: slices.Clone(routes)}
}

// Add returns a new router with routes appended. r is left untouched.
func (r *Router[B]) Add(routes ...Route[B]) *Router[B] {
	out := make([]Route[B], 0, len(r.routes)+len(routes))
	out = append(out, r.routes...)
	return &Router[B]{routes: append(out, routes...)}
}

// Routes returns the routes in registration order.
func (r *Router[B]) Routes() []Route[B] {
	return slices.Clone(r.routes)
}
