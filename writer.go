package bwire

import (
	"bufio"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// DefaultServerName is the Server header value used when none is configured.
const DefaultServerName = "bwire"

// copyBufPool holds the buffers used to copy stream bodies onto the connection.
var copyBufPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 32<<10)
		return &buf
	},
}

// WriteResponse serializes resp onto w as the answer to a request made with method. The response is frozen
// and its body is closed on every path, including write failures. Closing w is up to the caller.
func WriteResponse(w io.Writer, method Method, resp *Response) error {
	return writeResponse(w, method, resp, DefaultServerName)
}

func writeResponse(w io.Writer, method Method, resp *Response, serverName string) error {
	defer resp.Close()

	sendBody := resp.body != nil && method != MethodHead && resp.status != StatusNoContent
	if sendBody {
		resp.OptHeader(HeaderContentLength, strconv.FormatInt(resp.body.Len(), 10))
	}

	resp.OptHeader(HeaderServer, serverName)
	resp.OptHeader(HeaderDate, time.Now().UTC().Format(http.TimeFormat))
	resp.SetHeader(HeaderConnection, "close")
	resp.frozen = true

	bw := bufio.NewWriter(w)

	if err := writeHead(bw, resp); err != nil {
		return errors.Wrap(err, "write response head")
	}

	if sendBody {
		bufp, _ := copyBufPool.Get().(*[]byte)
		defer copyBufPool.Put(bufp)

		// hide bufio's ReadFrom so the copy goes through the pooled buffer
		if err := resp.body.writeTo(struct{ io.Writer }{bw}, *bufp); err != nil {
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "flush response")
	}

	return nil
}

func writeHead(bw *bufio.Writer, resp *Response) error {
	bw.WriteString("HTTP/1.1 ")
	bw.WriteString(resp.status.String())
	bw.WriteString("\r\n")

	for _, name := range resp.HeaderNames() {
		value, _ := resp.Header(name)
		bw.WriteString(name)
		bw.WriteString(": ")
		bw.WriteString(value)
		bw.WriteString("\r\n")
	}

	for _, c := range resp.cookies {
		bw.WriteString(HeaderSetCookie)
		bw.WriteString(": ")
		bw.WriteString(c.String())
		bw.WriteString("\r\n")
	}

	_, err := bw.WriteString("\r\n")

	return err
}
