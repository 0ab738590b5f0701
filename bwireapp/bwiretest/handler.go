package bwiretest

import (
	"context"
	"strings"

	"github.com/advdv/bwire"
)

// CallHandler parses raw as a request and dispatches it to handler the way a server would, including the
// error to status mapping. It panics if raw is not a valid request.
func CallHandler(handler bwire.Handler, raw string) *bwire.Response {
	req, err := bwire.ReadRequest(strings.NewReader(raw), bwire.ParseOptions{ParseCookies: true})
	if err != nil {
		panic("bwiretest: invalid request: " + err.Error())
	}

	return bwire.NewServer().Use(handler).Dispatch(context.Background(), req)
}
