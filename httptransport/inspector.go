package httptransport

import (
	"bytes"
	"io"
	"net/http"
)

// Inspector is a Transport Option which captures requests and
// responses passing through the Doer.  It's useful for inspecting the
// contents of exchanges in tests.
//
// It is not an efficient way to capture bodies, and keeps requests
// and responses around longer than their intended lifespan, so it
// should not be used in production code or benchmarks.
type Inspector struct {

	// The last request sent through the transport.
	Request *http.Request

	// The last response received.
	Response *http.Response

	// The last request body.
	RequestBody *bytes.Buffer

	// The last response body.
	ResponseBody *bytes.Buffer
}

// Clear clears the inspector's fields.
func (i *Inspector) Clear() {
	i.RequestBody = nil
	i.ResponseBody = nil
	i.Request = nil
	i.Response = nil
}

// Apply implements Option.
func (i *Inspector) Apply(t *Transport) error {
	return Use(i.MiddlewareFunc).Apply(t)
}

// MiddlewareFunc implements Middleware.
func (i *Inspector) MiddlewareFunc(next Doer) Doer {
	return DoerFunc(func(req *http.Request) (*http.Response, error) {
		i.Request = req
		// capture the body
		if req.Body != nil {
			reqBody, _ := io.ReadAll(req.Body)
			req.Body.Close()
			req.Body = io.NopCloser(bytes.NewReader(reqBody))
			i.RequestBody = bytes.NewBuffer(reqBody)
		}
		resp, err := next.Do(req)
		i.Response = resp
		if resp != nil && resp.Body != nil {
			respBody, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			resp.Body = io.NopCloser(bytes.NewReader(respBody))
			i.ResponseBody = bytes.NewBuffer(respBody)
		}
		return resp, err
	})
}
