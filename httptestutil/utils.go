// Package httptestutil contains utilities for HTTP tests, in
// particular tests built around httptest.Server.
//
// Inspect intercepts the traffic to and from a test server.
// Transport and Descriptor produce rearm instances preconfigured to
// talk to one.
package httptestutil

import (
	"net/http/httptest"

	"github.com/rearmlib/rearm"
	"github.com/rearmlib/rearm/httptransport"
)

// Transport creates an httptransport.Transport which is preconfigured
// to send requests to the test server, using the server's client (and
// therefore the server's TLS certs, if it is a TLS server).
func Transport(ts *httptest.Server, opts ...httptransport.Option) *httptransport.Transport {
	opts = append([]httptransport.Option{httptransport.WithDoer(ts.Client())}, opts...)
	return httptransport.MustNew(opts...)
}

// Descriptor creates a rearm.Descriptor preconfigured to send
// requests to the test server: its transport uses the server's
// client, and its URL is the server's base URL.
func Descriptor(ts *httptest.Server, opts ...rearm.Option) *rearm.Descriptor {
	opts = append([]rearm.Option{rearm.URL(ts.URL)}, opts...)
	return rearm.MustNew(Transport(ts), opts...)
}

// Inspect installs and returns an Inspector, which captures exchanges
// with the test server.  It's useful in tests to inspect the incoming
// requests and request bodies and the outgoing responses and response
// bodies.
//
// Inspect wraps and replaces the server's Handler.  It should be
// called after the real Handler has been installed.
func Inspect(ts *httptest.Server) *Inspector {
	i := NewInspector(0)
	ts.Config.Handler = i.MiddlewareFunc(ts.Config.Handler)
	return i
}
