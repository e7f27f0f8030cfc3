// Package clientserver is a utility for writing HTTP tests.
//
// A ClientServer embeds an httptest.Server and a rearm.Descriptor
// whose transport is preconfigured to talk to the server.
package clientserver

import (
	"net/http"
	"net/http/httptest"

	"github.com/rearmlib/rearm"
	"github.com/rearmlib/rearm/httptransport"
)

// A ClientServer is an HTTP server and a preconfigured client for it.
// Because it embeds a rearm.Descriptor, it supports all the same
// methods for composing and dispatching requests, which are sent to
// the embedded server.
//
// Should be closed at the end of the test.
type ClientServer struct {
	*httptest.Server
	*rearm.Descriptor
	Handler http.Handler

	// These are populated automatically during each request.  Use
	// Clear() to reset them between tests.

	// The last request handled by the server.
	LastSrvReq *http.Request

	// The last request sent by the client.
	LastClientReq *http.Request

	// The last response received by the client.
	LastClientResp *http.Response
}

// New creates a ClientServer.  If s is nil, a plain httptest.Server
// with no handler is created.
//
// Panics if the option arguments cause an error.
func New(s *httptest.Server, options ...rearm.Option) *ClientServer {
	if s == nil {
		s = httptest.NewServer(nil)
	}
	cs := &ClientServer{Server: s}

	// insert ourselves into the handler chain before the real handler
	cs.Handler = s.Config.Handler
	s.Config.Handler = cs

	tr := httptransport.MustNew(
		httptransport.WithDoer(s.Client()),
		httptransport.Use(cs.captureClientReqResp),
	)

	opts := append([]rearm.Option{rearm.URL(s.URL)}, options...)
	cs.Descriptor = rearm.MustNew(tr, opts...)
	return cs
}

// Close shuts down the embedded HTTP server.
func (cs *ClientServer) Close() {
	cs.Server.Close()
}

// Clear clears the attributes captured during the last request.
func (cs *ClientServer) Clear() {
	cs.LastClientReq = nil
	cs.LastClientResp = nil
	cs.LastSrvReq = nil
}

// ServeHTTP implements http.Handler.  ClientServer installs itself as
// the server's Handler so it can capture the request, then delegates
// to the Handler attribute.
func (cs *ClientServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	cs.LastSrvReq = req
	if cs.Handler != nil {
		cs.Handler.ServeHTTP(w, req)
	}
}

func (cs *ClientServer) captureClientReqResp(next httptransport.Doer) httptransport.Doer {
	return httptransport.DoerFunc(func(req *http.Request) (*http.Response, error) {
		cs.LastClientReq = req
		resp, err := next.Do(req)
		cs.LastClientResp = resp
		return resp, err
	})
}

// Mux returns a ServeMux.  If the current Handler is a ServeMux, that
// is returned.  Otherwise, a new ServeMux is created and installed as
// the handler.
func (cs *ClientServer) Mux() *http.ServeMux {
	if m, ok := cs.Handler.(*http.ServeMux); ok {
		return m
	}
	m := http.NewServeMux()
	cs.Handler = m
	return m
}

// HandlerFunc is a convenience method for installing a HandlerFunc as
// the handler.
func (cs *ClientServer) HandlerFunc(hf http.HandlerFunc) {
	cs.Handler = hf
}
