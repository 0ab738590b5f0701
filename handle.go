package bwire

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrNoResponse is the failure reported for a handler that was required to answer but passed.
var ErrNoResponse = errors.New("handler returned no response")

// Handler serves a parsed request. A nil response with a nil error passes the request on to whatever comes
// next in the chain. A returned error ends the chain; it becomes an error response at the dispatch boundary.
type Handler interface {
	ServeWire(ctx context.Context, r *Request) (*Response, error)
}

// HandlerFunc allow casting a function to imple [Handler].
type HandlerFunc func(context.Context, *Request) (*Response, error)

// ServeWire implements the [Handler] interface.
func (f HandlerFunc) ServeWire(ctx context.Context, r *Request) (*Response, error) {
	return f(ctx, r)
}

// Pass is what a handler returns when it does not answer the request.
func Pass() (*Response, error) { return nil, nil }

// Chain evaluates handlers front to back. The first handler that returns a response or an error decides the
// outcome; when all of them pass the chain passes too.
type Chain []Handler

// ServeWire implements the [Handler] interface.
func (c Chain) ServeWire(ctx context.Context, r *Request) (*Response, error) {
	for _, h := range c {
		resp, err := serveOne(ctx, h, r)
		if err != nil || resp != nil {
			return resp, err
		}
	}

	return nil, nil
}

// Final marks h as the end of a chain: if it passes, that is reported as [ErrNoResponse].
func Final(h Handler) Handler {
	return HandlerFunc(func(ctx context.Context, r *Request) (*Response, error) {
		resp, err := serveOne(ctx, h, r)
		if err == nil && resp == nil {
			return nil, errors.Wrapf(ErrNoResponse, "%s %s", r.Method(), r.Path())
		}

		return resp, err
	})
}

// serveOne calls h and drops a response that came with an error, releasing its body.
func serveOne(ctx context.Context, h Handler, r *Request) (*Response, error) {
	resp, err := h.ServeWire(ctx, r)
	if err != nil {
		if resp != nil {
			_ = resp.Close()
		}

		return nil, err
	}

	return resp, nil
}
