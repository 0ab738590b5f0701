package bwire

import (
	"context"
	"strings"

	"github.com/advdv/bwire/internal/pathpattern"
)

// Mount serves h for every method under prefix. The mounted handler sees the request path with the prefix
// stripped ("/" for the prefix itself); the path parameters of the outer router stay visible to it.
func (rt *Router) Mount(prefix string, h Handler) {
	prefix = pathpattern.StripTrailingSlash(prefix)
	if prefix == "" || strings.Contains(prefix, pathpattern.Wildcard) {
		panic("bwire: invalid mount prefix: " + prefix)
	}

	rt.Handle(MethodAny, prefix, stripPrefix(h, true))
	rt.Handle(MethodAny, prefix+"/"+pathpattern.Wildcard, stripPrefix(h, false))
}

// MountFunc mounts a function under prefix.
func (rt *Router) MountFunc(prefix string, f HandlerFunc) {
	rt.Mount(prefix, f)
}

// stripPrefix serves h with the part of the path after the prefix. The exact prefix route always serves
// "/": a "*" binding it sees was left behind by an earlier route that passed.
func stripPrefix(h Handler, exact bool) Handler {
	return HandlerFunc(func(ctx context.Context, r *Request) (*Response, error) {
		var rest string
		if !exact {
			rest, _ = r.PathParam(pathpattern.Wildcard)
		}

		r2 := r.withPath("/" + rest)
		delete(r2.params, pathpattern.Wildcard)

		return h.ServeWire(ctx, r2)
	})
}
