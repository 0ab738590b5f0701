package bwire_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/advdv/bwire"
	"github.com/stretchr/testify/require"
)

// fakeConn reads from in and records everything written to it.
type fakeConn struct {
	in     io.Reader
	out    bytes.Buffer
	closed int
}

func (c *fakeConn) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c *fakeConn) Write(p []byte) (int, error) { return c.out.Write(p) }
func (c *fakeConn) Close() error {
	c.closed++
	return nil
}

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

func mustRequest(tb testing.TB, raw string) *bwire.Request {
	tb.Helper()

	req, err := bwire.ReadRequest(strings.NewReader(raw), bwire.ParseOptions{ParseCookies: true})
	require.NoError(tb, err)

	return req
}

// splitResponse separates a raw response into its status line, header lines and body.
func splitResponse(tb testing.TB, raw string) (string, map[string]string, string) {
	tb.Helper()

	head, body, ok := strings.Cut(raw, "\r\n\r\n")
	require.True(tb, ok, "no header terminator in %q", raw)

	lines := strings.Split(head, "\r\n")
	hdrs := map[string]string{}

	for _, line := range lines[1:] {
		name, value, _ := strings.Cut(line, ": ")
		if prev, ok := hdrs[name]; ok {
			value = prev + "\n" + value
		}

		hdrs[name] = value
	}

	return lines[0], hdrs, body
}
