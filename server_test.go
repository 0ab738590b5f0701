package bwire_test

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/advdv/bwire"
	"github.com/carlmjohnson/requests"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch(t *testing.T) {
	rt := bwire.NewRouter()
	rt.Get("/ok", func(context.Context, *bwire.Request) (*bwire.Response, error) {
		return bwire.NewResponse(bwire.StatusOK).Text("ok"), nil
	})
	rt.Get("/plain-error", func(context.Context, *bwire.Request) (*bwire.Response, error) {
		return nil, errors.New("database password is hunter2")
	})
	rt.Get("/coded-error", func(context.Context, *bwire.Request) (*bwire.Response, error) {
		return nil, bwire.NewError(bwire.CodeUnauthorized, errors.New("token expired at 12:00"))
	})
	rt.Get("/server-error", func(context.Context, *bwire.Request) (*bwire.Response, error) {
		return nil, bwire.NewError(bwire.CodeServiceUnavailable, errors.New("backend down"))
	})
	rt.Get("/panic", func(context.Context, *bwire.Request) (*bwire.Response, error) {
		panic("boom")
	})
	rt.Handle(bwire.MethodGet, "/final", bwire.Final(bwire.HandlerFunc(
		func(context.Context, *bwire.Request) (*bwire.Response, error) { return bwire.Pass() })))

	for _, tt := range []struct {
		path    string
		status  bwire.Status
		body    string
		numLogs int64
	}{
		{"/ok", bwire.StatusOK, "ok", 0},
		{"/plain-error", bwire.StatusInternalServerError, "Internal Server Error", 1},
		{"/coded-error", bwire.StatusUnauthorized, "Unauthorized", 0},
		{"/server-error", bwire.Status(bwire.CodeServiceUnavailable), "Service Unavailable", 1},
		{"/panic", bwire.StatusInternalServerError, "Internal Server Error", 1},
		{"/final", bwire.StatusInternalServerError, "Internal Server Error", 1},
		{"/missing", bwire.StatusNotFound, "Not Found", 0},
	} {
		t.Run(tt.path, func(t *testing.T) {
			logs := bwire.NewTestLogger(t)
			srv := bwire.NewServer(bwire.WithLogger(logs)).Use(rt)

			resp := srv.Dispatch(context.Background(), mustRequest(t, "GET "+tt.path+" HTTP/1.1\r\n\r\n"))
			require.Equal(t, tt.status, resp.Status())

			body, _ := resp.BodyBytes()
			require.Equal(t, tt.body, string(body))
			require.Equal(t, tt.numLogs, logs.NumLogUnhandledServeError)
		})
	}
}

func TestDispatchWithoutHandlers(t *testing.T) {
	resp := bwire.NewServer().Dispatch(context.Background(), mustRequest(t, "GET / HTTP/1.1\r\n\r\n"))
	require.Equal(t, bwire.StatusNotFound, resp.Status())
}

func TestUseOrder(t *testing.T) {
	var calls []string

	srv := bwire.NewServer().
		Use(passing(&calls, "first")).
		Use(passing(&calls, "second"), answering(&calls, "third"))

	resp := srv.Dispatch(context.Background(), mustRequest(t, "GET / HTTP/1.1\r\n\r\n"))
	require.Equal(t, bwire.StatusOK, resp.Status())
	require.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestServeConn(t *testing.T) {
	rt := bwire.NewRouter()
	rt.Post("/echo/:name", func(_ context.Context, r *bwire.Request) (*bwire.Response, error) {
		name, _ := r.PathParam("name")
		body, _ := r.Body()
		session, _ := r.Cookie("session")

		return bwire.NewResponse(bwire.StatusCreated).
			SetHeader("X-Session", session).
			Cookie(bwire.NewCookie("seen", "yes").Path("/")).
			Text(name + ":" + string(body)), nil
	})

	logs := bwire.NewTestLogger(t)
	srv := bwire.NewServer(bwire.WithLogger(logs), bwire.WithServerName("test-server")).Use(rt)

	conn := &fakeConn{in: stringsReader("POST /echo/Ann HTTP/1.1\r\nCookie: session=s1\r\n" +
		"Content-Length: 5\r\n\r\nhello")}
	srv.ServeConn(context.Background(), conn)

	status, hdrs, body := splitResponse(t, conn.out.String())
	assert.Equal(t, "HTTP/1.1 201 Created", status)
	assert.Equal(t, "Ann:hello", body)
	assert.Equal(t, "s1", hdrs["X-Session"])
	assert.Equal(t, "seen=yes; Path=/", hdrs["Set-Cookie"])
	assert.Equal(t, "test-server", hdrs["Server"])
	assert.Equal(t, "close", hdrs["Connection"])
	assert.Equal(t, 1, conn.closed)
	assert.Empty(t, srv.Conns())
}

func TestServeConnWithoutCookieParsing(t *testing.T) {
	rt := bwire.NewRouter()
	rt.Get("/", func(_ context.Context, r *bwire.Request) (*bwire.Response, error) {
		return bwire.NewResponse(bwire.StatusOK).Text(fmt.Sprint(r.CookieNames())), nil
	})

	srv := bwire.NewServer(bwire.WithParseCookies(false)).Use(rt)
	conn := &fakeConn{in: stringsReader("GET / HTTP/1.1\r\nCookie: a=1\r\n\r\n")}
	srv.ServeConn(context.Background(), conn)

	_, _, body := splitResponse(t, conn.out.String())
	require.Equal(t, "[]", body)
}

func TestServeConnRejections(t *testing.T) {
	for raw, want := range map[string]string{
		"GET /\r\n\r\n":                 "HTTP/1.1 400 Bad Request",
		"BREW / HTTP/1.1\r\n\r\n":       "HTTP/1.1 405 Method Not Allowed",
		"GET / HTTP/3\r\n\r\n":          "HTTP/1.1 505 HTTP Version Not Supported",
		"GET / HTTP/1.1\r\nbad\r\n\r\n": "HTTP/1.1 400 Bad Request",
	} {
		logs := bwire.NewTestLogger(t)
		srv := bwire.NewServer(bwire.WithLogger(logs)).Use(bwire.HandlerFunc(
			func(context.Context, *bwire.Request) (*bwire.Response, error) {
				t.Errorf("dispatched %q", raw)
				return bwire.Pass()
			}))

		conn := &fakeConn{in: stringsReader(raw)}
		srv.ServeConn(context.Background(), conn)

		status, hdrs, body := splitResponse(t, conn.out.String())
		assert.Equal(t, want, status, raw)
		assert.Equal(t, bwire.MIMETextPlain, hdrs["Content-Type"])
		assert.NotEmpty(t, body)
		assert.Equal(t, int64(1), logs.NumLogRejectedRequest)
		assert.Equal(t, 1, conn.closed)
	}
}

func TestServeConnWithoutRequest(t *testing.T) {
	logs := bwire.NewTestLogger(t)
	srv := bwire.NewServer(bwire.WithLogger(logs))

	conn := &fakeConn{in: stringsReader("GET / HTTP/1.1\r\n")}
	srv.ServeConn(context.Background(), conn)

	require.Empty(t, conn.out.String())
	require.Equal(t, 1, conn.closed)
	require.Zero(t, logs.NumLogRejectedRequest)
	require.Zero(t, logs.NumLogConnError)
}

func TestServeConnHeadSuppressesBody(t *testing.T) {
	src := &trackedReader{Reader: strings.NewReader("payload")}

	rt := bwire.NewRouter()
	rt.All("/doc", func(context.Context, *bwire.Request) (*bwire.Response, error) {
		return bwire.NewResponse(bwire.StatusOK).Stream(src, 7), nil
	})

	srv := bwire.NewServer().Use(rt)
	conn := &fakeConn{in: stringsReader("HEAD /doc HTTP/1.1\r\n\r\n")}
	srv.ServeConn(context.Background(), conn)

	_, hdrs, body := splitResponse(t, conn.out.String())
	assert.Empty(t, body)
	assert.NotContains(t, hdrs, "Content-Length")
	assert.Equal(t, 1, src.closed)
}

func TestServeConnHeadRejectionHasNoBody(t *testing.T) {
	for raw, status := range map[string]string{
		"HEAD / HTTP/3\r\n\r\n":                        "HTTP/1.1 505 HTTP Version Not Supported",
		"HEAD / HTTP/1.1\r\nbad\r\n\r\n":              "HTTP/1.1 400 Bad Request",
		"HEAD / HTTP/1.1\r\nContent-Length: 5\r\n\r\nab": "HTTP/1.1 400 Bad Request",
	} {
		conn := &fakeConn{in: stringsReader(raw)}
		bwire.NewServer(bwire.WithLogger(bwire.NewTestLogger(t))).ServeConn(context.Background(), conn)

		line, hdrs, body := splitResponse(t, conn.out.String())
		assert.Equal(t, status, line, raw)
		assert.Empty(t, body, raw)
		assert.NotContains(t, hdrs, "Content-Length", raw)
	}

	conn := &fakeConn{in: stringsReader("BREW / HTTP/1.1\r\n\r\n")}
	bwire.NewServer(bwire.WithLogger(bwire.NewTestLogger(t))).ServeConn(context.Background(), conn)

	line, _, body := splitResponse(t, conn.out.String())
	assert.Equal(t, "HTTP/1.1 405 Method Not Allowed", line)
	assert.NotEmpty(t, body)
}

func TestConnsRegistry(t *testing.T) {
	entered, release := make(chan struct{}), make(chan struct{})

	rt := bwire.NewRouter()
	rt.Get("/wait", func(context.Context, *bwire.Request) (*bwire.Response, error) {
		entered <- struct{}{}
		<-release

		return bwire.NewResponse(bwire.StatusNoContent), nil
	})

	srv := bwire.NewServer().Use(rt)

	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			srv.ServeConn(context.Background(), &fakeConn{in: stringsReader("GET /wait HTTP/1.1\r\n\r\n")})
		}()
	}

	for range 3 {
		<-entered
	}

	conns := srv.Conns()
	require.Len(t, conns, 3)
	require.Less(t, conns[0].ID, conns[1].ID)
	require.Less(t, conns[1].ID, conns[2].ID)

	close(release)
	wg.Wait()

	require.Empty(t, srv.Conns())
}

func TestReadTimeout(t *testing.T) {
	logs := bwire.NewTestLogger(t)
	srv := bwire.NewServer(bwire.WithLogger(logs), bwire.WithReadTimeout(50*time.Millisecond))

	client, server := net.Pipe()
	defer client.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.ServeConn(context.Background(), server)
	}()

	_, err := client.Write([]byte("GET / HTTP/1.1\r\n"))
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("slow client held the connection")
	}

	require.Equal(t, int64(1), atomic.LoadInt64(&logs.NumLogConnError))
}

func startServer(t *testing.T, srv *bwire.Server) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- srv.Serve(ctx, ln) }()

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	return "http://" + ln.Addr().String()
}

func TestServeEndToEnd(t *testing.T) {
	rt := bwire.NewRouter()
	rt.Get("/hello/:name", func(_ context.Context, r *bwire.Request) (*bwire.Response, error) {
		name, _ := r.PathParam("name")
		greeting, ok := r.Query("greeting")
		if !ok {
			greeting = "hello"
		}

		return bwire.NewResponse(bwire.StatusOK).Text(greeting + " " + name), nil
	})
	rt.Post("/json", func(_ context.Context, r *bwire.Request) (*bwire.Response, error) {
		return bwire.NewResponse(bwire.StatusOK).Text(r.BodyJSON("items.#").String()), nil
	})

	base := startServer(t, bwire.NewServer(bwire.WithLogger(bwire.NewTestLogger(t))).Use(rt))
	ctx := context.Background()

	var body string
	require.NoError(t, requests.URL(base).Path("/hello/Ann").Param("greeting", "hi there").
		ToString(&body).Fetch(ctx))
	require.Equal(t, "hi there Ann", body)

	require.NoError(t, requests.URL(base).Path("/json").BodyBytes([]byte(`{"items":[1,2,3]}`)).
		ToString(&body).Fetch(ctx))
	require.Equal(t, "3", body)

	require.NoError(t, requests.URL(base).Path("/nowhere").CheckStatus(404).ToString(&body).Fetch(ctx))
	require.Equal(t, "Not Found", body)
}

func TestServeConcurrentClients(t *testing.T) {
	rt := bwire.NewRouter()
	rt.Get("/users/:id", func(_ context.Context, r *bwire.Request) (*bwire.Response, error) {
		id, _ := r.PathParam("id")
		return bwire.NewResponse(bwire.StatusOK).Text(id), nil
	})

	base := startServer(t, bwire.NewServer(bwire.WithMaxConns(4)).Use(rt))

	var wg sync.WaitGroup

	errs := make(chan error, 50)

	for i := range 50 {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			var body string
			if err := requests.URL(base).Pathf("/users/%d", i).ToString(&body).
				Fetch(context.Background()); err != nil {
				errs <- err
				return
			}

			if body != fmt.Sprint(i) {
				errs <- fmt.Errorf("request %d got %q", i, body)
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
