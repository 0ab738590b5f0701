package bwireapp

import "github.com/advdv/bwire"

// Router is an alias for bwire.Router.
type Router = bwire.Router

// NewRouter creates the router that the routing function registers its routes on.
func NewRouter() *Router {
	return bwire.NewRouter()
}
