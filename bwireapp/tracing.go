package bwireapp

import (
	"context"
	"fmt"

	"github.com/advdv/bwire"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx"
)

const instrumentationName = "github.com/advdv/bwire/bwireapp"

// NewTracerProvider creates and configures the OpenTelemetry TracerProvider.
// Supported exporters via BW_OTEL_EXPORTER: "stdout" (default) and "none".
// Shutdown is handled automatically via fx.Lifecycle.
func NewTracerProvider(lc fx.Lifecycle, env Environment) (trace.TracerProvider, error) {
	exporterType := env.otelExporter()
	if exporterType == "none" {
		return noop.NewTracerProvider(), nil
	}

	exporter, err := newExporter(exporterType)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(newResource(env.serviceName())),
	)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})

	return tp, nil
}

// NewPropagator creates the W3C TraceContext + Baggage composite propagator.
func NewPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// newExporter creates a span exporter based on the exporter type.
func newExporter(exporterType string) (sdktrace.SpanExporter, error) {
	switch exporterType {
	case "stdout", "":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("unsupported BW_OTEL_EXPORTER: %q (supported: stdout, none)", exporterType)
	}
}

func newResource(serviceName string) *resource.Resource {
	return resource.NewSchemaless(attribute.String("service.name", serviceName))
}

// requestCarrier exposes the request headers to a propagator.
type requestCarrier struct{ r *bwire.Request }

func (c requestCarrier) Get(key string) string {
	v, _ := c.r.Header(key)
	return v
}

func (c requestCarrier) Set(string, string) {}

func (c requestCarrier) Keys() []string { return c.r.HeaderNames() }

// withTracing starts a server span per request, continuing a trace propagated in the request headers.
// Requests to excludePaths are not traced.
// The TracerProvider and Propagator are explicitly injected to avoid global state.
func withTracing(tp trace.TracerProvider, prop propagation.TextMapPropagator, excludePaths ...string) bwire.Middleware {
	excludeSet := make(map[string]struct{}, len(excludePaths))
	for _, p := range excludePaths {
		excludeSet[p] = struct{}{}
	}

	tracer := tp.Tracer(instrumentationName)

	return func(next bwire.Handler) bwire.Handler {
		return bwire.HandlerFunc(func(ctx context.Context, r *bwire.Request) (*bwire.Response, error) {
			if _, excluded := excludeSet[r.Path()]; excluded {
				return next.ServeWire(ctx, r)
			}

			ctx = prop.Extract(ctx, requestCarrier{r})
			ctx, span := tracer.Start(ctx, r.Method().String()+" "+r.Path(),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", r.Method().String()),
					attribute.String("url.path", r.Path()),
					attribute.String("network.protocol.version", r.Proto()),
					attribute.String("client.address", r.RemoteAddr()),
				))
			defer span.End()

			resp, err := next.ServeWire(ctx, r)

			status := 0
			switch {
			case err != nil:
				span.RecordError(err)

				status = int(bwire.CodeOf(err))
				if status == int(bwire.CodeUnknown) {
					status = int(bwire.CodeInternalServerError)
				}
			case resp != nil:
				status = resp.Status().Code()
			}

			if status != 0 {
				span.SetAttributes(attribute.Int("http.response.status_code", status))
			}

			if status >= int(bwire.CodeInternalServerError) {
				span.SetStatus(codes.Error, bwire.Status(status).Reason())
			}

			return resp, err
		})
	}
}
