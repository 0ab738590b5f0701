package bwire

import (
	"log"
	"sync/atomic"
	"testing"
)

// Logger can be implemented to get informed about important states. It is injected into the [Server]; the
// library never logs through a global.
type Logger interface {
	// LogUnhandledServeError reports a handler failure that was answered with an error response.
	LogUnhandledServeError(err error)
	// LogRejectedRequest reports a request that was answered before dispatch because it could not be parsed.
	LogRejectedRequest(err error)
	// LogConnError reports an I/O failure on a connection.
	LogConnError(err error)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogUnhandledServeError(err error) {
	l.Logger.Printf("bwire: unhandled server error: %s", err)
}

func (l stdLogger) LogRejectedRequest(err error) {
	l.Logger.Printf("bwire: rejected request: %s", err)
}

func (l stdLogger) LogConnError(err error) {
	l.Logger.Printf("bwire: connection error: %s", err)
}

// NewStdLogger logs through a standard library logger. A nil logger means [log.Default].
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}

	return stdLogger{l}
}

type TestLogger struct {
	tb testing.TB

	NumLogUnhandledServeError int64
	NumLogRejectedRequest     int64
	NumLogConnError           int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogUnhandledServeError(err error) {
	atomic.AddInt64(&l.NumLogUnhandledServeError, 1)
	l.tb.Logf("bwire: unhandled server error: %s", err)
}

func (l *TestLogger) LogRejectedRequest(err error) {
	atomic.AddInt64(&l.NumLogRejectedRequest, 1)
	l.tb.Logf("bwire: rejected request: %s", err)
}

func (l *TestLogger) LogConnError(err error) {
	atomic.AddInt64(&l.NumLogConnError, 1)
	l.tb.Logf("bwire: connection error: %s", err)
}

var _ Logger = &TestLogger{}
