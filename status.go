package bwire

import (
	"net/http"
	"strconv"
)

// Status is a response status code. Its reason phrase comes from the standard library's status text table.
type Status int

const (
	StatusContinue           Status = http.StatusContinue           // RFC 9110, 15.2.1
	StatusSwitchingProtocols Status = http.StatusSwitchingProtocols // RFC 9110, 15.2.2

	StatusOK                   Status = http.StatusOK                   // RFC 9110, 15.3.1
	StatusCreated              Status = http.StatusCreated              // RFC 9110, 15.3.2
	StatusAccepted             Status = http.StatusAccepted             // RFC 9110, 15.3.3
	StatusNonAuthoritativeInfo Status = http.StatusNonAuthoritativeInfo // RFC 9110, 15.3.4
	StatusNoContent            Status = http.StatusNoContent            // RFC 9110, 15.3.5
	StatusResetContent         Status = http.StatusResetContent         // RFC 9110, 15.3.6
	StatusPartialContent       Status = http.StatusPartialContent       // RFC 9110, 15.3.7

	StatusMultipleChoices   Status = http.StatusMultipleChoices   // RFC 9110, 15.4.1
	StatusMovedPermanently  Status = http.StatusMovedPermanently  // RFC 9110, 15.4.2
	StatusFound             Status = http.StatusFound             // RFC 9110, 15.4.3
	StatusSeeOther          Status = http.StatusSeeOther          // RFC 9110, 15.4.4
	StatusNotModified       Status = http.StatusNotModified       // RFC 9110, 15.4.5
	StatusUseProxy          Status = http.StatusUseProxy          // RFC 9110, 15.4.6
	StatusTemporaryRedirect Status = http.StatusTemporaryRedirect // RFC 9110, 15.4.8
	StatusPermanentRedirect Status = http.StatusPermanentRedirect // RFC 9110, 15.4.9
)

// Error statuses share their numbers with the [Code] constants.
const (
	StatusBadRequest                  = Status(CodeBadRequest)
	StatusUnauthorized                = Status(CodeUnauthorized)
	StatusForbidden                   = Status(CodeForbidden)
	StatusNotFound                    = Status(CodeNotFound)
	StatusMethodNotAllowed            = Status(CodeMethodNotAllowed)
	StatusRequestEntityTooLarge       = Status(CodeRequestEntityTooLarge)
	StatusRequestURITooLong           = Status(CodeRequestURITooLong)
	StatusRequestHeaderFieldsTooLarge = Status(CodeRequestHeaderFieldsTooLarge)
	StatusInternalServerError         = Status(CodeInternalServerError)
	StatusHTTPVersionNotSupported     = Status(CodeHTTPVersionNotSupported)
)

// Code returns the numeric status code.
func (s Status) Code() int { return int(s) }

// Reason returns the reason phrase, or "Unknown" for codes without one.
func (s Status) Reason() string {
	if txt := http.StatusText(int(s)); txt != "" {
		return txt
	}

	return "Unknown"
}

// String renders the status as it appears in a status line, e.g. "404 Not Found".
func (s Status) String() string {
	return strconv.Itoa(int(s)) + " " + s.Reason()
}
