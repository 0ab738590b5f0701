package bwire

// Method is one of the nine standard request methods.
type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodConnect Method = "CONNECT"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
	MethodPatch   Method = "PATCH"
)

// MethodAny is the route selector that accepts every method. It is never the method of a parsed request.
const MethodAny Method = "*"

var methods = map[string]Method{
	"GET":     MethodGet,
	"HEAD":    MethodHead,
	"POST":    MethodPost,
	"PUT":     MethodPut,
	"DELETE":  MethodDelete,
	"CONNECT": MethodConnect,
	"OPTIONS": MethodOptions,
	"TRACE":   MethodTrace,
	"PATCH":   MethodPatch,
}

// ParseMethod looks up a method token. Tokens are case-sensitive, "get" is not a method.
func ParseMethod(tok string) (Method, bool) {
	m, ok := methods[tok]
	return m, ok
}

// accepts reports whether the selector m admits the request method.
func (m Method) accepts(req Method) bool {
	return m == MethodAny || m == req
}

func (m Method) String() string { return string(m) }
