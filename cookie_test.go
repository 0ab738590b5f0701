package bwire_test

import (
	"testing"
	"time"

	"github.com/advdv/bwire"
	"github.com/stretchr/testify/assert"
)

func TestCookieString(t *testing.T) {
	c := bwire.NewCookie("id", "a3fWa").
		SameSite(bwire.SameSiteStrict).
		HTTPOnly(true).
		Secure(true).
		Path("/docs").
		Domain("example.com").
		MaxAge(2592000).
		Expires(time.Date(2026, 10, 21, 7, 28, 0, 0, time.FixedZone("CEST", 2*3600)))

	assert.Equal(t, "id=a3fWa; Expires=Wed, 21 Oct 2026 05:28:00 GMT; Max-Age=2592000; Domain=example.com; "+
		"Path=/docs; Secure; HttpOnly; SameSite=Strict", c.String())
}

func TestCookieIsAValue(t *testing.T) {
	base := bwire.NewCookie("a", "1")
	secure := base.Secure(true).SameSite(bwire.SameSiteNone)

	assert.Equal(t, "a=1", base.String())
	assert.Equal(t, "a=1; Secure; SameSite=None", secure.String())
	assert.Equal(t, "a", secure.Name())
	assert.Equal(t, "1", secure.Value())
	assert.Equal(t, "a=1; Max-Age=0", base.MaxAge(0).String())
}
