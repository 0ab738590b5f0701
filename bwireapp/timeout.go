package bwireapp

import (
	"context"
	"time"

	"github.com/advdv/bwire"
)

// Timeouts are applied at two levels. The connection deadlines bound reading the request and writing the
// response, so a slow or silent client cannot hold a connection forever. The handler deadline is derived
// from the write timeout minus a buffer, so a handler that runs out of time still leaves room to write the
// error response before the connection deadline hits.

// DefaultDeadlineBuffer is the default time reserved before the write deadline for writing the response.
const DefaultDeadlineBuffer = 500 * time.Millisecond

// TimeoutConfig holds timeout configuration for the server.
type TimeoutConfig struct {
	// ReadTimeout bounds reading one request from the connection. Zero disables it.
	ReadTimeout time.Duration

	// WriteTimeout bounds handling the request and writing its response. Zero disables it.
	WriteTimeout time.Duration

	// DeadlineBuffer is subtracted from WriteTimeout for the handler deadline. Defaults to
	// DefaultDeadlineBuffer.
	DeadlineBuffer time.Duration
}

// ServerOptions returns the connection deadline options for the configured timeouts.
func (tc TimeoutConfig) ServerOptions() []bwire.Option {
	var opts []bwire.Option
	if tc.ReadTimeout > 0 {
		opts = append(opts, bwire.WithReadTimeout(tc.ReadTimeout))
	}

	if tc.WriteTimeout > 0 {
		opts = append(opts, bwire.WithWriteTimeout(tc.WriteTimeout))
	}

	return opts
}

// HandlerTimeout returns the time handlers get before their context expires, or zero for no deadline.
func (tc TimeoutConfig) HandlerTimeout() time.Duration {
	if tc.WriteTimeout <= 0 {
		return 0
	}

	buffer := tc.DeadlineBuffer
	if buffer <= 0 {
		buffer = DefaultDeadlineBuffer
	}

	// fallback if buffer >= timeout
	timeout := tc.WriteTimeout - buffer
	if timeout <= 0 {
		timeout = tc.WriteTimeout
	}

	return timeout
}

// WithRequestDeadline returns middleware that gives every request context a deadline of timeout from now.
// A zero or negative timeout passes the context through unchanged.
func WithRequestDeadline(timeout time.Duration) bwire.Middleware {
	return func(next bwire.Handler) bwire.Handler {
		if timeout <= 0 {
			return next
		}

		return bwire.HandlerFunc(func(ctx context.Context, r *bwire.Request) (*bwire.Response, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next.ServeWire(ctx, r)
		})
	}
}

// RequestDeadline returns the context deadline for the current request.
// Returns the zero time and false if no deadline is set.
func RequestDeadline(ctx context.Context) (time.Time, bool) {
	return ctx.Deadline()
}

// RequestRemainingTime returns the duration until the request context deadline.
// Returns 0 if no deadline is set or if the deadline has passed.
func RequestRemainingTime(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	remaining := time.Until(deadline)
	if remaining < 0 {
		return 0
	}
	return remaining
}
