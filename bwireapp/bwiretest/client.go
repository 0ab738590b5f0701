package bwiretest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/carlmjohnson/requests"
)

// clientTimeout bounds every request made with [Client].
const clientTimeout = 5 * time.Second

// Client returns a fresh request builder aimed at a test app listening on port.
func Client(port int) *requests.Builder {
	return requests.New().
		Client(&http.Client{Timeout: clientTimeout}).
		BaseURL("http://127.0.0.1:" + strconv.Itoa(port))
}
