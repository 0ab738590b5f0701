package bwire

import (
	"context"

	"github.com/advdv/bwire/internal/pathpattern"
)

type route struct {
	method Method
	pat    *pathpattern.Pattern
	h      Handler
}

// Router is a [Handler] that evaluates route entries in registration order. The first entry whose method
// selector and path pattern both match is served; if its handler passes, evaluation continues with the next
// entry. Registering a specific route after a catch-all that covers it makes it unreachable.
//
// The route table must be complete before the router serves its first request; it is read without locking.
type Router struct {
	routes   []route
	reverser *Reverser
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{reverser: NewReverser()}
}

// Handle registers h for requests with the given method (or [MethodAny]) whose path matches pattern. The
// pattern is a '/'-separated template of literal segments, ":name" parameters and an optional final "*".
// Passing a name makes the route available to [Router.Reverse]. Invalid patterns panic.
func (rt *Router) Handle(method Method, pattern string, h Handler, name ...string) {
	pat, err := pathpattern.Parse(pattern)
	if err != nil {
		panic("bwire: invalid route pattern: " + err.Error())
	}

	if len(name) > 0 {
		rt.reverser.Named(name[0], pattern)
	}

	rt.routes = append(rt.routes, route{method: method, pat: pat, h: h})
}

// HandleFunc registers a function for the method and pattern.
func (rt *Router) HandleFunc(method Method, pattern string, f HandlerFunc, name ...string) {
	rt.Handle(method, pattern, f, name...)
}

// All registers f for every method.
func (rt *Router) All(pattern string, f HandlerFunc, name ...string) {
	rt.Handle(MethodAny, pattern, f, name...)
}

// Get registers f for GET requests.
func (rt *Router) Get(pattern string, f HandlerFunc, name ...string) {
	rt.Handle(MethodGet, pattern, f, name...)
}

// Head registers f for HEAD requests.
func (rt *Router) Head(pattern string, f HandlerFunc, name ...string) {
	rt.Handle(MethodHead, pattern, f, name...)
}

// Post registers f for POST requests.
func (rt *Router) Post(pattern string, f HandlerFunc, name ...string) {
	rt.Handle(MethodPost, pattern, f, name...)
}

// Put registers f for PUT requests.
func (rt *Router) Put(pattern string, f HandlerFunc, name ...string) {
	rt.Handle(MethodPut, pattern, f, name...)
}

// Patch registers f for PATCH requests.
func (rt *Router) Patch(pattern string, f HandlerFunc, name ...string) {
	rt.Handle(MethodPatch, pattern, f, name...)
}

// Delete registers f for DELETE requests.
func (rt *Router) Delete(pattern string, f HandlerFunc, name ...string) {
	rt.Handle(MethodDelete, pattern, f, name...)
}

// Options registers f for OPTIONS requests.
func (rt *Router) Options(pattern string, f HandlerFunc, name ...string) {
	rt.Handle(MethodOptions, pattern, f, name...)
}

// Reverse returns the path for a named route with the parameter values substituted in order.
func (rt *Router) Reverse(name string, vals ...string) (string, error) {
	return rt.reverser.Reverse(name, vals...)
}

// ServeWire implements the [Handler] interface. Matching ignores one trailing slash of the request path.
func (rt *Router) ServeWire(ctx context.Context, r *Request) (*Response, error) {
	path := pathpattern.StripTrailingSlash(r.Path())

	for _, e := range rt.routes {
		if !e.method.accepts(r.Method()) {
			continue
		}

		params, ok := e.pat.Match(path)
		if !ok {
			continue
		}

		r.setPathParams(params)

		resp, err := serveOne(ctx, e.h, r)
		if err != nil || resp != nil {
			return resp, err
		}
	}

	return nil, nil
}
