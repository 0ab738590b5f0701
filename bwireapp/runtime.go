package bwireapp

import "github.com/advdv/bwire"

// Runtime provides access to app-scoped dependencies.
// Inject this into handler constructors via fx instead of pulling from context.
//
// Example:
//
//	type Handlers struct {
//	    rt *bwireapp.Runtime[Env]
//	}
//
//	func NewHandlers(rt *bwireapp.Runtime[Env]) *Handlers {
//	    return &Handlers{rt: rt}
//	}
//
//	func (h *Handlers) GetItem(ctx context.Context, r *bwire.Request) (*bwire.Response, error) {
//	    env := h.rt.Env()
//	    url, _ := h.rt.Reverse("get-item", id)
//	    // ...
//	}
type Runtime[E Environment] struct {
	env    E
	router *Router
	server *bwire.Server
}

// NewRuntime creates a new Runtime with the given dependencies.
func NewRuntime[E Environment](env E, router *Router, server *bwire.Server) *Runtime[E] {
	return &Runtime[E]{
		env:    env,
		router: router,
		server: server,
	}
}

// Env returns the environment configuration.
func (r *Runtime[E]) Env() E {
	return r.env
}

// Reverse returns the URL for a named route with the given parameters.
// The route must have been registered with a name.
func (r *Runtime[E]) Reverse(name string, params ...string) (string, error) {
	return r.router.Reverse(name, params...)
}

// Conns returns the connections the server is handling right now.
func (r *Runtime[E]) Conns() []bwire.ConnInfo {
	return r.server.Conns()
}
