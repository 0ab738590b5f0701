package bwire

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// SameSite is the value of a cookie's SameSite attribute.
type SameSite int

const (
	// SameSiteUnset omits the attribute.
	SameSiteUnset SameSite = iota
	// SameSiteStrict sends the cookie only for same-site requests.
	SameSiteStrict
	// SameSiteLax withholds the cookie on cross-site subrequests but sends it on top-level navigation.
	SameSiteLax
	// SameSiteNone sends the cookie on cross-site requests too. Browsers require Secure with it.
	SameSiteNone
)

func (s SameSite) String() string {
	switch s {
	case SameSiteStrict:
		return "Strict"
	case SameSiteLax:
		return "Lax"
	case SameSiteNone:
		return "None"
	default:
		return ""
	}
}

// Cookie is a value sent to the client in a Set-Cookie header. It is an immutable value: every attribute
// method returns a modified copy.
type Cookie struct {
	name  string
	value string

	expires   time.Time
	maxAge    int64
	hasMaxAge bool
	domain    string
	path      string
	secure    bool
	httpOnly  bool
	sameSite  SameSite
}

// NewCookie creates a session cookie without attributes.
func NewCookie(name, value string) Cookie {
	return Cookie{name: name, value: value}
}

// Name returns the cookie name.
func (c Cookie) Name() string { return c.name }

// Value returns the cookie value.
func (c Cookie) Value() string { return c.value }

// Expires sets the moment the cookie expires. Without it the cookie lives for the browser session.
func (c Cookie) Expires(t time.Time) Cookie {
	c.expires = t
	return c
}

// MaxAge sets the number of seconds until the cookie expires. Zero or negative expires it immediately, and
// it takes precedence over Expires in browsers.
func (c Cookie) MaxAge(seconds int64) Cookie {
	c.maxAge, c.hasMaxAge = seconds, true
	return c
}

// Domain sets the host the cookie is sent to, subdomains included.
func (c Cookie) Domain(domain string) Cookie {
	c.domain = domain
	return c
}

// Path sets the path prefix that must be present for the cookie to be sent.
func (c Cookie) Path(path string) Cookie {
	c.path = path
	return c
}

// Secure toggles the Secure attribute.
func (c Cookie) Secure(secure bool) Cookie {
	c.secure = secure
	return c
}

// HTTPOnly toggles the HttpOnly attribute.
func (c Cookie) HTTPOnly(httpOnly bool) Cookie {
	c.httpOnly = httpOnly
	return c
}

// SameSite sets the SameSite attribute.
func (c Cookie) SameSite(mode SameSite) Cookie {
	c.sameSite = mode
	return c
}

// String renders the Set-Cookie header value. Attributes always appear in the order Expires, Max-Age,
// Domain, Path, Secure, HttpOnly, SameSite.
func (c Cookie) String() string {
	var b strings.Builder
	b.WriteString(c.name)
	b.WriteByte('=')
	b.WriteString(c.value)

	if !c.expires.IsZero() {
		b.WriteString("; Expires=")
		b.WriteString(c.expires.UTC().Format(http.TimeFormat))
	}

	if c.hasMaxAge {
		b.WriteString("; Max-Age=")
		b.WriteString(strconv.FormatInt(c.maxAge, 10))
	}

	if c.domain != "" {
		b.WriteString("; Domain=")
		b.WriteString(c.domain)
	}

	if c.path != "" {
		b.WriteString("; Path=")
		b.WriteString(c.path)
	}

	if c.secure {
		b.WriteString("; Secure")
	}

	if c.httpOnly {
		b.WriteString("; HttpOnly")
	}

	if c.sameSite != SameSiteUnset {
		b.WriteString("; SameSite=")
		b.WriteString(c.sameSite.String())
	}

	return b.String()
}
