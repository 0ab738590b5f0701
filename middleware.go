package bwire

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
)

// Middleware for cross-cutting concerns around handlers.
type Middleware func(Handler) Handler

// Wrap takes the inner handler h and wraps it with middleware. The order is that of the Gorilla and Chi router. That
// is: the middleware provided first is called first and is the "outer" most wrapping, the middleware provided last
// will be the "inner most" wrapping (closest to the handler).
func Wrap(h Handler, m ...Middleware) Handler {
	if len(m) < 1 {
		return h
	}

	wrapped := h
	for i := len(m) - 1; i >= 0; i-- {
		wrapped = m[i](wrapped)
	}

	return wrapped
}

// Recoverer turns a panic in the wrapped handler into an error, so it is answered like any other handler
// failure.
func Recoverer() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, r *Request) (resp *Response, err error) {
			defer func() {
				if e := recover(); e != nil {
					resp, err = nil, errors.WithStack(fmt.Errorf("recovered: %v", e))
				}
			}()

			return next.ServeWire(ctx, r)
		})
	}
}
