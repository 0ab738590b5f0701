package bwireapp_test

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/advdv/bwire"
	"github.com/advdv/bwire/bwireapp"
	"github.com/advdv/bwire/bwireapp/bwiretest"
	"github.com/cockroachdb/errors"
)

// TestEnv is a test environment with app-specific fields beyond BaseEnvironment.
type TestEnv struct {
	bwireapp.BaseEnvironment
	Greeting string `env:"GREETING" envDefault:"hello"`
}

// setTestEnv is a convenience that calls SetBaseEnv and sets the TestEnv-specific vars.
func setTestEnv(t *testing.T, port int) *bwiretest.Env {
	t.Helper()
	env := bwiretest.SetBaseEnv(t, port)
	t.Setenv("GREETING", "hi there")
	return env
}

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

type Handlers struct {
	rt *bwireapp.Runtime[TestEnv]
}

func NewHandlers(rt *bwireapp.Runtime[TestEnv]) *Handlers {
	return &Handlers{rt: rt}
}

func (h *Handlers) TestContext(ctx context.Context, _ *bwire.Request) (*bwire.Response, error) {
	env := h.rt.Env()

	itemURL, err := h.rt.Reverse("get-item", "test-123")
	if err != nil {
		return nil, errors.Wrap(err, "reverse")
	}

	bwireapp.Span(ctx).AddEvent("context-test")
	bwireapp.Log(ctx).Info("testing context features")

	_, hasDeadline := bwireapp.RequestDeadline(ctx)

	return jsonResponse(bwire.StatusOK, map[string]any{
		"service_name": env.ServiceName,
		"greeting":     env.Greeting,
		"span_valid":   bwireapp.Span(ctx).SpanContext().IsValid(),
		"has_deadline": hasDeadline,
		"reversed_url": itemURL,
		"conns":        len(h.rt.Conns()),
	})
}

func (h *Handlers) CreateItem(ctx context.Context, r *bwire.Request) (*bwire.Response, error) {
	name := r.BodyJSON("name")
	if !name.Exists() {
		return nil, bwire.NewError(bwire.CodeBadRequest, errors.New("missing name"))
	}

	bwireapp.Log(ctx).Info("creating item")

	return jsonResponse(bwire.StatusCreated, map[string]any{
		"id":    "item-123",
		"name":  name.String(),
		"value": r.BodyJSON("value").Int(),
	})
}

func (h *Handlers) GetItem(_ context.Context, r *bwire.Request) (*bwire.Response, error) {
	id, _ := r.PathParam("id")
	selfURL, _ := h.rt.Reverse("get-item", id)

	return jsonResponse(bwire.StatusOK, map[string]any{
		"id":       id,
		"self_url": selfURL,
	})
}

func (h *Handlers) Session(_ context.Context, r *bwire.Request) (*bwire.Response, error) {
	session, ok := r.Cookie("session")
	if !ok {
		session = "none"
	}

	return bwire.NewResponse(bwire.StatusOK).
		Cookie(bwire.NewCookie("seen", "yes").Path("/").HTTPOnly(true)).
		Text(session), nil
}

func (h *Handlers) Broken(context.Context, *bwire.Request) (*bwire.Response, error) {
	return nil, errors.New("database unreachable")
}

func jsonResponse(status bwire.Status, v any) (*bwire.Response, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshal response")
	}

	return bwire.NewResponse(status).ContentType("application/json").Bytes(data), nil
}
