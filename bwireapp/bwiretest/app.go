// Package bwiretest helps test bwireapp services against a real listener.
//
// [New] builds the dependency graph of [bwireapp.NewApp] on top of fxtest, so a missing provider or a failing
// start hook fails the test instead of exiting the process. [SetBaseEnv] gives every test its own address,
// [Client] talks to it, and [CallHandler] runs a single handler without any listener at all:
//
//	bwiretest.SetBaseEnv(t, 18081).StaticDir(t.TempDir())
//	app := bwiretest.New[Env](t, func(r *bwireapp.Router) {
//	    r.Get("/items/:id", getItem, "get-item")
//	})
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
//
//	var body string
//	err := bwiretest.Client(18081).Path("/items/42").ToString(&body).Fetch(ctx)
package bwiretest

import (
	"testing"

	"github.com/advdv/bwire/bwireapp"
	"go.uber.org/fx/fxtest"
)

// App is a started or startable service under test. RequireStart binds BW_ADDR and RequireStop waits for
// open connections to finish.
type App struct {
	*fxtest.App
}

// New wires routing and opts exactly like [bwireapp.NewApp] with E as the environment type.
func New[E bwireapp.Environment](t testing.TB, routing any, opts ...bwireapp.Option) *App {
	return &App{App: fxtest.New(t, bwireapp.FxOptions[E](routing, opts...)...)}
}
