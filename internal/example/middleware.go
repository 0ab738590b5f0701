// Package example implements example middleware in an outside package.
package example

import (
	"context"
	"log/slog"

	"github.com/advdv/bwire"
)

// ctxKey type scopes middlware values.
type ctxKey string

// Middleware provides an example for middleware that adds a logger to the context.
func Middleware(logs *slog.Logger) bwire.Middleware {
	return func(n bwire.Handler) bwire.Handler {
		return bwire.HandlerFunc(func(c context.Context, r *bwire.Request) (*bwire.Response, error) {
			logs := logs.With(slog.String("method", r.Method().String()), slog.String("path", r.Path()))
			c = context.WithValue(c, ctxKey("slog"), logs)

			return n.ServeWire(c, r)
		})
	}
}

func Log(ctx context.Context) *slog.Logger {
	v, _ := ctx.Value(ctxKey("slog")).(*slog.Logger)

	return v
}
