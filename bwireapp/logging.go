package bwireapp

import (
	"context"
	"time"

	"github.com/advdv/bwire"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger configured from the environment.
// Uses JSON encoding; BW_LOG_LEVEL controls the level (debug, info, warn, error).
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogUnhandledServeError(err error) {
	l.Logger.Error("unhandled server error", zap.Error(err))
}

func (l zapLogger) LogRejectedRequest(err error) {
	l.Logger.Info("rejected request", zap.Int("status", int(bwire.CodeOf(err))), zap.Error(err))
}

func (l zapLogger) LogConnError(err error) {
	l.Logger.Warn("connection error", zap.Error(err))
}

func newZapWireLogger(l *zap.Logger) bwire.Logger {
	return zapLogger{l.Named("bwire").Named("app")}
}

// withAccessLog logs one line per dispatched request. Errors are logged with the status they will be
// answered with.
func withAccessLog() bwire.Middleware {
	return func(next bwire.Handler) bwire.Handler {
		return bwire.HandlerFunc(func(ctx context.Context, r *bwire.Request) (*bwire.Response, error) {
			start := time.Now()
			resp, err := next.ServeWire(ctx, r)

			fields := []zap.Field{
				zap.String("method", r.Method().String()),
				zap.String("path", r.Path()),
				zap.String("remote_addr", r.RemoteAddr()),
				zap.Duration("duration", time.Since(start)),
			}

			switch {
			case err != nil:
				code := bwire.CodeOf(err)
				if code == bwire.CodeUnknown {
					code = bwire.CodeInternalServerError
				}

				Log(ctx).Info("request failed", append(fields, zap.Int("status", int(code)), zap.Error(err))...)
			case resp != nil:
				Log(ctx).Info("request served", append(fields,
					zap.Int("status", resp.Status().Code()), zap.Int64("body_bytes", resp.BodyLen()))...)
			}

			return resp, err
		})
	}
}
