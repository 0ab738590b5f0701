package bwire_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/advdv/bwire"
	"github.com/advdv/bwire/internal/example"
	"github.com/stretchr/testify/require"
)

func TestWrapWithoutMiddleware(t *testing.T) {
	var calls []string

	h := answering(&calls, "a")
	resp, err := bwire.Wrap(h).ServeWire(context.Background(), mustRequest(t, "GET / HTTP/1.1\r\n\r\n"))
	require.NoError(t, err)
	require.Equal(t, bwire.StatusOK, resp.Status())
}

func TestWrapOrder(t *testing.T) {
	var res string

	mw := func(name string) bwire.Middleware {
		return func(next bwire.Handler) bwire.Handler {
			return bwire.HandlerFunc(func(ctx context.Context, r *bwire.Request) (*bwire.Response, error) {
				res += name + "("
				resp, err := next.ServeWire(ctx, r)
				res += ")"

				return resp, err
			})
		}
	}

	inner := bwire.HandlerFunc(func(context.Context, *bwire.Request) (*bwire.Response, error) {
		res += "inner"
		return bwire.Pass()
	})

	_, err := bwire.Wrap(inner, mw("1"), mw("2")).ServeWire(context.Background(),
		mustRequest(t, "GET / HTTP/1.1\r\n\r\n"))
	require.NoError(t, err)
	require.Equal(t, "1(2(inner))", res)
}

func TestRecoverer(t *testing.T) {
	h := bwire.Wrap(bwire.HandlerFunc(func(context.Context, *bwire.Request) (*bwire.Response, error) {
		panic("boom")
	}), bwire.Recoverer())

	resp, err := h.ServeWire(context.Background(), mustRequest(t, "GET / HTTP/1.1\r\n\r\n"))
	require.Nil(t, resp)
	require.EqualError(t, err, "recovered: boom")
}

func TestExampleMiddleware(t *testing.T) {
	var buf bytes.Buffer

	logs := slog.New(slog.NewTextHandler(&buf, nil))
	h := bwire.Wrap(bwire.HandlerFunc(func(ctx context.Context, _ *bwire.Request) (*bwire.Response, error) {
		example.Log(ctx).Info("in handler")
		return bwire.NewResponse(bwire.StatusNoContent), nil
	}), example.Middleware(logs))

	resp, err := h.ServeWire(context.Background(), mustRequest(t, "DELETE /items/1 HTTP/1.1\r\n\r\n"))
	require.NoError(t, err)
	require.Equal(t, bwire.StatusNoContent, resp.Status())
	require.Contains(t, buf.String(), "method=DELETE")
	require.Contains(t, buf.String(), "path=/items/1")
}
