package bwire

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"net"
	"slices"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/net/netutil"
)

// ConnInfo describes an active connection.
type ConnInfo struct {
	ID         uint64
	RemoteAddr string
	AcceptedAt time.Time
}

// Option configures a [Server].
type Option func(*Server)

// WithParseCookies enables or disables parsing of the Cookie request header. It is enabled by default.
func WithParseCookies(v bool) Option { return func(s *Server) { s.parseOpts.ParseCookies = v } }

// WithLogger sets the observer that is informed of handler failures, rejected requests and I/O errors.
func WithLogger(l Logger) Option { return func(s *Server) { s.logger = l } }

// WithServerName sets the default Server response header.
func WithServerName(name string) Option { return func(s *Server) { s.serverName = name } }

// WithMaxBodyBytes rejects requests declaring a larger body with 413.
func WithMaxBodyBytes(n int64) Option { return func(s *Server) { s.parseOpts.MaxBodyBytes = n } }

// WithReadTimeout bounds the time spent reading a request from a connection.
func WithReadTimeout(d time.Duration) Option { return func(s *Server) { s.readTimeout = d } }

// WithWriteTimeout bounds the time spent handling a request and writing its response.
func WithWriteTimeout(d time.Duration) Option { return func(s *Server) { s.writeTimeout = d } }

// WithMaxConns limits the number of connections [Server.Serve] handles at the same time.
func WithMaxConns(n int) Option { return func(s *Server) { s.maxConns = n } }

// Server answers exactly one request per connection with the responses of its handler chain.
type Server struct {
	chain      Chain
	logger     Logger
	serverName string
	parseOpts  ParseOptions

	readTimeout  time.Duration
	writeTimeout time.Duration
	maxConns     int

	nextID atomic.Uint64
	conns  *xsync.MapOf[uint64, ConnInfo]
}

// NewServer inits a server. Without handlers every request is answered with 404.
func NewServer(opts ...Option) *Server {
	srv := &Server{
		logger:     NewStdLogger(nil),
		serverName: DefaultServerName,
		parseOpts:  ParseOptions{ParseCookies: true},
		conns:      xsync.NewMapOf[uint64, ConnInfo](),
	}

	for _, opt := range opts {
		opt(srv)
	}

	return srv
}

// Use appends handlers to the chain. Handlers run in the order they were added. All handlers must be added
// before the server starts serving.
func (s *Server) Use(h ...Handler) *Server {
	s.chain = append(s.chain, h...)

	return s
}

// Dispatch runs the handler chain and always returns a response. A [*Error] is answered with its code and
// status text, any other failure or a panic with 500. When every handler passes the answer is 404.
func (s *Server) Dispatch(ctx context.Context, r *Request) (resp *Response) {
	defer func() {
		if e := recover(); e != nil {
			if resp != nil {
				_ = resp.Close()
			}

			s.logger.LogUnhandledServeError(errors.WithStack(fmt.Errorf("recovered: %v", e))) //nolint:goerr113
			resp = errorResponse(CodeInternalServerError)
		}
	}()

	resp, err := s.chain.ServeWire(ctx, r)

	switch {
	case err != nil:
		code := CodeOf(err)
		if code == CodeUnknown {
			code = CodeInternalServerError
		}

		if code >= CodeInternalServerError {
			s.logger.LogUnhandledServeError(err)
		}

		return errorResponse(code)
	case resp == nil:
		return errorResponse(CodeNotFound)
	default:
		return resp
	}
}

func errorResponse(c Code) *Response {
	return NewResponse(Status(c)).Text(Status(c).Reason())
}

// deadliner is implemented by connections that support I/O deadlines.
type deadliner interface {
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// ServeConn reads one request from conn, answers it and closes conn. It never panics because of the request
// or a handler and returns once the connection is closed.
func (s *Server) ServeConn(ctx context.Context, conn io.ReadWriteCloser) {
	info := ConnInfo{ID: s.nextID.Add(1), AcceptedAt: time.Now()}
	if nc, ok := conn.(net.Conn); ok && nc.RemoteAddr() != nil {
		info.RemoteAddr = nc.RemoteAddr().String()
	}

	s.conns.Store(info.ID, info)
	defer s.conns.Delete(info.ID)

	defer func() {
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.logger.LogConnError(errors.Wrap(err, "close connection"))
		}
	}()

	dl, hasDeadlines := conn.(deadliner)
	if hasDeadlines && s.readTimeout > 0 {
		_ = dl.SetReadDeadline(time.Now().Add(s.readTimeout))
	}

	req, err := ReadRequest(conn, s.parseOpts)
	if hasDeadlines && s.writeTimeout > 0 {
		_ = dl.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}

	var rerr *Error

	switch {
	case errors.Is(err, ErrNoRequest):
		return
	case errors.As(err, &rerr):
		method := rerr.method
		if method == "" {
			method = MethodGet
		}

		s.logger.LogRejectedRequest(rerr)
		s.write(conn, method, rerr.Response())

		return
	case err != nil:
		s.logger.LogConnError(errors.Wrap(err, "read request"))
		return
	}

	req.remoteAddr = info.RemoteAddr
	s.write(conn, req.Method(), s.Dispatch(ctx, req))
}

func (s *Server) write(w io.Writer, method Method, resp *Response) {
	if err := writeResponse(w, method, resp, s.serverName); err != nil {
		s.logger.LogConnError(errors.Wrap(err, "write response"))
	}
}

// Serve accepts connections on ln and serves each on its own goroutine until ctx is done or accepting fails.
// The listener is closed when Serve returns; connections in progress are left to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.maxConns > 0 {
		ln = netutil.LimitListener(ln, s.maxConns)
	}

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()
	defer ln.Close()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return errors.Wrap(err, "accept")
		}

		go s.ServeConn(ctx, conn)
	}
}

// Conns returns a snapshot of the active connections ordered by id.
func (s *Server) Conns() []ConnInfo {
	infos := make([]ConnInfo, 0, s.conns.Size())
	s.conns.Range(func(_ uint64, info ConnInfo) bool {
		infos = append(infos, info)
		return true
	})

	slices.SortFunc(infos, func(a, b ConnInfo) int { return cmp.Compare(a.ID, b.ID) })

	return infos
}
