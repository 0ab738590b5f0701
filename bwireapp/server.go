package bwireapp

import (
	"context"
	"net"
	"time"

	"github.com/advdv/bwire"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ServerConfig holds optional configuration for the server.
type ServerConfig struct {
	HealthHandler bwire.HandlerFunc
	Middleware    []bwire.Middleware
}

// ServerParams holds the dependencies for creating a server.
type ServerParams struct {
	fx.In

	Env        Environment
	Router     *Router
	Logger     *zap.Logger
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
}

// NewServer creates a server with all middleware and routing configured.
func NewServer(params ServerParams, cfg ServerConfig) *bwire.Server {
	d := &requestDep{
		logger: params.Logger,
	}

	// The health route is evaluated before the app's routes so they cannot shadow it. Tracing is
	// disabled for this path to avoid noisy traces from probes.
	healthPath := params.Env.healthPath()
	healthHandler := cfg.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}

	health := bwire.NewRouter()
	health.Get(healthPath, healthHandler)

	chain := bwire.Chain{health}
	if dir := params.Env.staticDir(); dir != "" {
		static := bwire.NewRouter()
		static.Mount(params.Env.staticPrefix(), bwire.FileServer(dir))
		chain = append(chain, static)
	}

	chain = append(chain, params.Router, bwire.HandlerFunc(notFound))

	tc := TimeoutConfig{ReadTimeout: params.Env.readTimeout(), WriteTimeout: params.Env.writeTimeout()}

	mws := []bwire.Middleware{
		withRequestDep(d),
		withTracing(params.TracerProv, params.Propagator, healthPath),
		withAccessLog(),
		WithRequestDeadline(tc.HandlerTimeout()),
	}
	mws = append(mws, cfg.Middleware...)
	mws = append(mws, bwire.Recoverer())

	opts := []bwire.Option{
		bwire.WithLogger(newZapWireLogger(params.Logger)),
		bwire.WithServerName(params.Env.serviceName()),
		bwire.WithParseCookies(params.Env.parseCookies()),
		bwire.WithMaxBodyBytes(params.Env.maxBodyBytes()),
		bwire.WithMaxConns(params.Env.maxConns()),
	}
	opts = append(opts, tc.ServerOptions()...)

	return bwire.NewServer(opts...).Use(bwire.Wrap(chain, mws...))
}

// drainInterval is how often shutdown checks for connections still in progress.
const drainInterval = 10 * time.Millisecond

// startServerHook registers lifecycle hooks for the server. The address is bound during start so a port
// conflict fails the app instead of being logged later.
func startServerHook(lc fx.Lifecycle, server *bwire.Server, env Environment, logger *zap.Logger) {
	var (
		cancel context.CancelFunc
		done   = make(chan error, 1)
	)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", env.addr())
			if err != nil {
				return errors.Wrapf(err, "listen on %s", env.addr())
			}

			logger.Info("starting server", zap.String("addr", ln.Addr().String()))

			var serveCtx context.Context
			serveCtx, cancel = context.WithCancel(context.Background())

			go func() { done <- server.Serve(serveCtx, ln) }()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			cancel()

			if err := <-done; err != nil {
				logger.Error("server error", zap.Error(err))
			}

			ticker := time.NewTicker(drainInterval)
			defer ticker.Stop()

			for len(server.Conns()) > 0 {
				select {
				case <-ctx.Done():
					return errors.Wrapf(ctx.Err(), "%d connections still active", len(server.Conns()))
				case <-ticker.C:
				}
			}

			return nil
		},
	})
}

func defaultHealthHandler(context.Context, *bwire.Request) (*bwire.Response, error) {
	return bwire.NewResponse(bwire.StatusOK).Text("OK"), nil
}

func notFound(_ context.Context, r *bwire.Request) (*bwire.Response, error) {
	return nil, bwire.NewError(bwire.CodeNotFound, errors.Newf("no route for %s %s", r.Method(), r.Path()))
}
