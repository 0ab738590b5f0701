package bwire

import (
	"maps"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

// Request is a parsed request. It is created once per connection and is not modified after parsing, except
// for the path parameters written by the router and the query map that is built on first access.
type Request struct {
	method     Method
	path       string
	rawQuery   string
	hasQuery   bool
	proto      string
	headers    map[string]string
	cookies    map[string]string
	params     map[string]string
	body       []byte
	hasBody    bool
	remoteAddr string

	query *queryCache
}

type queryCache struct {
	once sync.Once
	vals map[string]string
}

// Method returns the request method.
func (r *Request) Method() Method { return r.method }

// Path returns the percent-decoded path without the query string. It always starts with '/'.
func (r *Request) Path() string { return r.path }

// RawQuery returns the undecoded part of the target after the first '?', and whether there was one.
func (r *Request) RawQuery() (string, bool) { return r.rawQuery, r.hasQuery }

// Proto returns the protocol version, "HTTP/1.0" or "HTTP/1.1".
func (r *Request) Proto() string { return r.proto }

// RemoteAddr returns the address of the client, if the connection exposed one.
func (r *Request) RemoteAddr() string { return r.remoteAddr }

// Header returns a header value by case-insensitive name.
func (r *Request) Header(name string) (string, bool) {
	v, ok := r.headers[strings.ToLower(name)]
	return v, ok
}

// HasHeader reports whether the header is present.
func (r *Request) HasHeader(name string) bool {
	_, ok := r.Header(name)
	return ok
}

// HeaderNames returns all header names, lowercased and sorted.
func (r *Request) HeaderNames() []string { return sortedKeys(r.headers) }

// Query returns a query parameter by case-insensitive name. The query string is decoded on first use.
func (r *Request) Query(name string) (string, bool) {
	v, ok := r.queryValues()[strings.ToLower(name)]
	return v, ok
}

// QueryNames returns all query parameter names, lowercased and sorted.
func (r *Request) QueryNames() []string { return sortedKeys(r.queryValues()) }

// Cookie returns a cookie by case-sensitive name. Cookies are only available when the server parses them.
func (r *Request) Cookie(name string) (string, bool) {
	v, ok := r.cookies[name]
	return v, ok
}

// CookieNames returns all cookie names, sorted.
func (r *Request) CookieNames() []string { return sortedKeys(r.cookies) }

// PathParam returns a value bound by the router. A wildcard binding is available under "*".
func (r *Request) PathParam(name string) (string, bool) {
	v, ok := r.params[name]
	return v, ok
}

// PathParams returns a copy of all router bindings.
func (r *Request) PathParams() map[string]string { return maps.Clone(r.params) }

// Body returns the request body. It is only present when a positive Content-Length was declared.
func (r *Request) Body() ([]byte, bool) { return r.body, r.hasBody }

// BodyJSON looks up a gjson path in the body. The result does not exist when there is no body or the path
// does not resolve.
func (r *Request) BodyJSON(path string) gjson.Result {
	if !r.hasBody {
		return gjson.Result{}
	}

	return gjson.GetBytes(r.body, path)
}

func (r *Request) setPathParams(params map[string]string) {
	if r.params == nil {
		r.params = make(map[string]string, len(params))
	}

	maps.Copy(r.params, params)
}

// withPath returns a shallow copy that reports a different path. Path parameters are copied so the
// original request is not affected by routing on the copy.
func (r *Request) withPath(path string) *Request {
	r2 := new(Request)
	*r2 = *r
	r2.path = path
	r2.params = maps.Clone(r.params)

	return r2
}

func (r *Request) queryValues() map[string]string {
	r.query.once.Do(func() {
		r.query.vals = parseQuery(r.rawQuery)
	})

	return r.query.vals
}

// parseQuery decodes "a=1&b=2". Pairs without '=' are skipped, keys are lowercased, and the last value
// wins. A component with invalid percent-encoding is kept as-is.
func parseQuery(raw string) map[string]string {
	vals := map[string]string{}
	if raw == "" {
		return vals
	}

	for _, pair := range strings.Split(raw, "&") {
		key, val, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}

		vals[strings.ToLower(decodeQueryComponent(key))] = decodeQueryComponent(val)
	}

	return vals
}

func decodeQueryComponent(s string) string {
	dec, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}

	return dec
}

func sortedKeys(m map[string]string) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)

	return keys
}
