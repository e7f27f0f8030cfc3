package httptransport

import "net/http"

// Doer executes HTTP requests.  It is implemented by *http.Client.
// You can wrap a Doer with layers of Middleware to form a stack of
// client-side behavior beneath the transport.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to implement Doer.
type DoerFunc func(req *http.Request) (*http.Response, error)

// Do implements the Doer interface.
func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}
