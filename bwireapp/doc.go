// Package bwireapp provides a batteries-included way to run a bwire server as a service.
//
// # Overview
//
// bwireapp handles the boilerplate around a [bwire.Server]: environment parsing, structured logging,
// OpenTelemetry tracing, static files, connection deadlines and graceful shutdown. A complete application
// is created in a single call:
//
//	bwireapp.NewApp[Env](func(r *bwireapp.Router, h *Handlers) {
//	    r.Get("/items", h.ListItems)
//	    r.Get("/items/:id", h.GetItem, "get-item")
//	},
//	    bwireapp.WithFx(fx.Provide(NewHandlers)),
//	).Run()
//
// # Environment Configuration
//
// Define your environment by embedding [BaseEnvironment]:
//
//	type Env struct {
//	    bwireapp.BaseEnvironment
//	    Greeting string `env:"GREETING" envDefault:"hello"`
//	}
//
// BaseEnvironment provides the following environment variables:
//
//	| Variable           | Required | Default  | Description                                      |
//	|--------------------|----------|----------|--------------------------------------------------|
//	| BW_SERVICE_NAME    | Yes      | -        | Service name for logging, tracing and Server     |
//	| BW_ADDR            | No       | :8080    | Address the server listens on                    |
//	| BW_HEALTH_PATH     | No       | /health  | Health check path, never traced                  |
//	| BW_LOG_LEVEL       | No       | info     | Log level (debug, info, warn, error)             |
//	| BW_OTEL_EXPORTER   | No       | stdout   | Trace exporter: "stdout" or "none"               |
//	| BW_PARSE_COOKIES   | No       | true     | Parse the Cookie request header                  |
//	| BW_STATIC_DIR      | No       | -        | Directory with static files, disabled when empty |
//	| BW_STATIC_PREFIX   | No       | /static  | Path prefix the static files are mounted on      |
//	| BW_MAX_BODY_BYTES  | No       | 1048576  | Largest accepted request body, 0 for no limit    |
//	| BW_MAX_CONNS       | No       | 0        | Concurrent connection limit, 0 for no limit      |
//	| BW_READ_TIMEOUT    | No       | 10s      | Deadline for reading one request                 |
//	| BW_WRITE_TIMEOUT   | No       | 30s      | Deadline for handling and writing the response   |
//
// # Runtime
//
// [Runtime] provides access to app-scoped dependencies and should be injected into handler constructors
// via fx. App-level dependencies are passed explicitly, not pulled from context.
//
// Runtime provides:
//   - [Runtime.Env] returns the typed environment configuration
//   - [Runtime.Reverse] generates paths for named routes
//   - [Runtime.Conns] lists the connections the server is handling
//
// # Request Context
//
// Request-scoped values are read from the handler's context:
//
//	func (h *Handlers) GetItem(ctx context.Context, r *bwire.Request) (*bwire.Response, error) {
//	    bwireapp.Log(ctx).Info("getting item")     // trace-correlated logger
//	    bwireapp.Span(ctx).AddEvent("lookup")      // current server span
//	    left := bwireapp.RequestRemainingTime(ctx) // time until the handler deadline
//	    // ...
//	}
//
// # Middleware
//
// Every request passes through, from outer to inner: request dependencies, tracing (skipped for the
// health path), the access log, the handler deadline, middleware added with [WithMiddleware], and panic
// recovery. The health route is tried first, then static files, then the app's routes. Requests nothing
// answers get a 404.
//
// # Testing
//
// The bwiretest package builds the same dependency graph on top of fxtest:
//
//	bwiretest.SetBaseEnv(t, 18081)
//	app := bwiretest.New[Env](t, routing, bwireapp.WithFx(fx.Provide(NewHandlers)))
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
package bwireapp
