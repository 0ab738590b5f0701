package bwire

import (
	"io"
	"net/textproto"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Common header names. Response header keys are case-insensitive, these are only here to avoid typos.
const (
	HeaderAcceptRanges  = "Accept-Ranges"
	HeaderCacheControl  = "Cache-Control"
	HeaderConnection    = "Connection"
	HeaderContentLength = "Content-Length"
	HeaderContentRange  = "Content-Range"
	HeaderContentType   = "Content-Type"
	HeaderCookie        = "Cookie"
	HeaderDate          = "Date"
	HeaderETag          = "ETag"
	HeaderIfNoneMatch   = "If-None-Match"
	HeaderIfRange       = "If-Range"
	HeaderLastModified  = "Last-Modified"
	HeaderRange         = "Range"
	HeaderServer        = "Server"
	HeaderSetCookie     = "Set-Cookie"
)

// MIMETextPlain is the content type of plain-text bodies set with [Response.Text].
const MIMETextPlain = "text/plain; charset=utf-8"

// Response is built by a handler and consumed exactly once by the writer. The builder methods mutate the
// response and return it so calls can be chained; once the response is handed to the writer it is frozen and
// any further mutation panics.
type Response struct {
	status  Status
	headers map[string]string
	cookies []Cookie
	body    *Body
	frozen  bool
}

// NewResponse starts a response with the given status, no headers and no body.
func NewResponse(status Status) *Response {
	return &Response{status: status, headers: map[string]string{}}
}

func (r *Response) mutable() {
	if r.frozen {
		panic("bwire: response modified after it was handed to the writer")
	}
}

// Status returns the response status.
func (r *Response) Status() Status { return r.status }

// SetHeader sets a header, replacing any existing value.
func (r *Response) SetHeader(name, value string) *Response {
	r.mutable()
	r.headers[strings.ToLower(name)] = value

	return r
}

// OptHeader sets a header only if it is not present yet.
func (r *Response) OptHeader(name, value string) *Response {
	r.mutable()

	key := strings.ToLower(name)
	if _, ok := r.headers[key]; !ok {
		r.headers[key] = value
	}

	return r
}

// DelHeader removes a header.
func (r *Response) DelHeader(name string) *Response {
	r.mutable()
	delete(r.headers, strings.ToLower(name))

	return r
}

// ContentType sets the Content-Type header.
func (r *Response) ContentType(mime string) *Response {
	return r.SetHeader(HeaderContentType, mime)
}

// Header returns a header value and whether it is present.
func (r *Response) Header(name string) (string, bool) {
	v, ok := r.headers[strings.ToLower(name)]
	return v, ok
}

// HeaderNames returns the canonical names of all headers in sorted order.
func (r *Response) HeaderNames() []string {
	names := lo.Map(lo.Keys(r.headers), func(k string, _ int) string {
		return textproto.CanonicalMIMEHeaderKey(k)
	})
	slices.Sort(names)

	return names
}

// Cookie adds a cookie. Every cookie is written as its own Set-Cookie line.
func (r *Response) Cookie(c Cookie) *Response {
	r.mutable()
	r.cookies = append(r.cookies, c)

	return r
}

// Cookies returns the cookies in the order they were added.
func (r *Response) Cookies() []Cookie { return slices.Clone(r.cookies) }

// Body attaches a body, replacing and closing any body attached before.
func (r *Response) Body(b *Body) *Response {
	r.mutable()

	if r.body != nil && r.body != b {
		_ = r.body.Close()
	}

	r.body = b

	return r
}

// Bytes attaches an in-memory body.
func (r *Response) Bytes(b []byte) *Response {
	return r.Body(BytesBody(b))
}

// Text attaches a string body and defaults the content type to plain text.
func (r *Response) Text(s string) *Response {
	return r.Body(BytesBody([]byte(s))).OptHeader(HeaderContentType, MIMETextPlain)
}

// Stream attaches a body that copies size bytes from src. The response takes ownership of src.
func (r *Response) Stream(src io.ReadCloser, size int64) *Response {
	return r.Body(StreamBody(src, size))
}

// HasBody reports whether a body is attached.
func (r *Response) HasBody() bool { return r.body != nil }

// BodyLen returns the length of the attached body, or -1 without one.
func (r *Response) BodyLen() int64 {
	if r.body == nil {
		return -1
	}

	return r.body.Len()
}

// BodyBytes returns the attached body if it is held in memory.
func (r *Response) BodyBytes() ([]byte, bool) {
	if r.body == nil || r.body.kind != bodyBytes {
		return nil, false
	}

	return r.body.data, true
}

// Close releases the attached body. Use it for responses that are built but never written.
func (r *Response) Close() error {
	if r.body == nil {
		return nil
	}

	return r.body.Close()
}
