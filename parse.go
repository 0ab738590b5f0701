package bwire

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	// MaxHeaderBytes bounds the status line plus header lines, terminator included.
	MaxHeaderBytes = 8 << 10
	// MaxTargetLength bounds the request target before percent-decoding.
	MaxTargetLength = 2048
)

var headerTerminator = []byte("\r\n\r\n")

// ParseOptions configures [ReadRequest].
type ParseOptions struct {
	// ParseCookies enables parsing of the Cookie header into the request's cookie map.
	ParseCookies bool
	// MaxBodyBytes rejects declared bodies larger than this with 413. Zero or negative means no limit.
	MaxBodyBytes int64
}

// ReadRequest reads exactly one request from r. A request that cannot be dispatched is reported as an
// [*Error] whose code and message make up the response to send. [ErrNoRequest] means the stream ended before
// a header block was complete. Other errors are I/O failures on the connection.
func ReadRequest(r io.Reader, opts ParseOptions) (*Request, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	block, err := readHeaderBlock(br)
	if err != nil {
		return nil, err
	}

	lines := splitLines(block)

	method, target, proto, rerr := parseStatusLine(lines[0])
	if rerr != nil {
		return nil, rerr
	}

	path, rawQuery, hasQuery, rerr := parseTarget(target)
	if rerr != nil {
		return nil, rerr.forMethod(method)
	}

	if proto != "HTTP/1.0" && proto != "HTTP/1.1" {
		return nil, reject(CodeHTTPVersionNotSupported,
			fmt.Sprintf("unsupported protocol version %q", proto)).forMethod(method)
	}

	req := &Request{
		method:   method,
		path:     path,
		rawQuery: rawQuery,
		hasQuery: hasQuery,
		proto:    proto,
		headers:  map[string]string{},
		query:    &queryCache{},
	}

	for _, line := range lines[1:] {
		if line == "" {
			break
		}

		name, value, rerr := parseHeaderLine(line)
		if rerr != nil {
			return nil, rerr.forMethod(method)
		}

		req.headers[name] = value

		if opts.ParseCookies && name == "cookie" {
			if req.cookies == nil {
				req.cookies = map[string]string{}
			}

			parseCookieHeader(value, req.cookies)
		}
	}

	if rerr := readBody(br, req, opts.MaxBodyBytes); rerr != nil {
		return nil, rerr.forMethod(method)
	}

	return req, nil
}

// readHeaderBlock reads byte by byte until the blank line that ends the header block. The returned block
// excludes the terminator.
func readHeaderBlock(r io.ByteReader) ([]byte, error) {
	buf := make([]byte, 0, 512)

	for {
		c, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil, ErrNoRequest
		} else if err != nil {
			return nil, errors.Wrap(err, "read header block")
		}

		if len(buf) == MaxHeaderBytes {
			return nil, reject(CodeRequestHeaderFieldsTooLarge,
				fmt.Sprintf("request header fields too large (limit %d bytes)", MaxHeaderBytes))
		}

		buf = append(buf, c)
		if bytes.HasSuffix(buf, headerTerminator) {
			return buf[:len(buf)-len(headerTerminator)], nil
		}
	}
}

// splitLines splits the header block on LF, dropping the CR of each CRLF. It always returns at least one
// line.
func splitLines(block []byte) []string {
	lines := strings.Split(string(block), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}

func parseStatusLine(line string) (Method, string, string, *Error) {
	if line == "" {
		return "", "", "", reject(CodeBadRequest, "missing status line")
	}

	toks := strings.Split(line, " ")
	if len(toks) != 3 {
		return "", "", "", reject(CodeBadRequest, "malformed status line")
	}

	method, ok := ParseMethod(toks[0])
	if !ok {
		return "", "", "", reject(CodeMethodNotAllowed, "method not supported by server implementation")
	}

	return method, toks[1], toks[2], nil
}

func parseTarget(target string) (path, rawQuery string, hasQuery bool, rerr *Error) {
	if len(target) > MaxTargetLength {
		return "", "", false, reject(CodeRequestURITooLong,
			fmt.Sprintf("URI too long (%d > %d)", len(target), MaxTargetLength))
	}

	if !strings.HasPrefix(target, "/") {
		return "", "", false, reject(CodeBadRequest, "invalid URI")
	}

	rawPath, rawQuery, hasQuery := strings.Cut(target, "?")

	path, err := url.PathUnescape(rawPath)
	if err != nil {
		return "", "", false, reject(CodeBadRequest, "invalid percent-encoding in URI")
	}

	return path, rawQuery, hasQuery, nil
}

// parseHeaderLine splits at the first colon and returns the lowercased, trimmed name and the trimmed value.
func parseHeaderLine(line string) (string, string, *Error) {
	name, value, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", reject(CodeBadRequest, "malformed headers")
	}

	return strings.ToLower(strings.TrimSpace(name)), strings.TrimSpace(value), nil
}

// parseCookieHeader adds the pairs of a Cookie header to dst. Parsing stops at the first part without an
// '=', pairs before it are kept.
func parseCookieHeader(header string, dst map[string]string) {
	for _, part := range strings.Split(header, "; ") {
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			return
		}

		dst[name] = value
	}
}

// readBody reads a body of exactly Content-Length bytes. A missing, non-numeric, zero or negative length
// means there is no body.
func readBody(br *bufio.Reader, req *Request, limit int64) *Error {
	cl, ok := req.headers["content-length"]
	if !ok {
		return nil
	}

	n, err := strconv.ParseInt(cl, 10, 64)
	if err != nil || n <= 0 {
		return nil
	}

	if limit > 0 && n > limit {
		return reject(CodeRequestEntityTooLarge, fmt.Sprintf("request body too large (%d > %d)", n, limit))
	}

	var body bytes.Buffer
	if read, err := io.CopyN(&body, br, n); err != nil || read < n {
		return reject(CodeBadRequest, "unable to read complete body")
	}

	req.body, req.hasBody = body.Bytes(), true

	return nil
}
