package httptestutil

import (
	"bytes"
	"io"
	"net/http"

	"github.com/felixge/httpsnoop"
)

// Exchange is a snapshot of one request/response exchange with the
// server.
type Exchange struct {
	Request     *http.Request
	RequestBody *bytes.Buffer

	StatusCode   int
	Header       http.Header
	ResponseBody *bytes.Buffer
}

// Inspector is server-side middleware which captures server exchanges.
// Exchanges are captured in a buffered channel.  If the channel buffer
// fills, subsequent server exchanges are not captured.
//
// Exchanges can be received directly from the channel, or via the
// NextExchange and LastExchange convenience methods.
type Inspector struct {
	Exchanges chan Exchange
}

// NewInspector creates an Inspector with the requested channel buffer
// size.  If 0, the buffer size defaults to 50.
func NewInspector(size int) *Inspector {
	if size == 0 {
		size = 50
	}
	return &Inspector{
		Exchanges: make(chan Exchange, size),
	}
}

// NextExchange receives the next exchange from the channel, or returns
// nil if no exchange is ready.  It is non-blocking.
func (i *Inspector) NextExchange() *Exchange {
	select {
	case e := <-i.Exchanges:
		return &e
	default:
		return nil
	}
}

// LastExchange receives the most recent exchange, draining the channel
// completely as a side effect.  If no exchange is ready, nil is
// returned.  It is non-blocking.
func (i *Inspector) LastExchange() *Exchange {
	var e *Exchange
	for {
		select {
		case ex := <-i.Exchanges:
			e = &ex
		default:
			return e
		}
	}
}

// Clear drains the channel.
func (i *Inspector) Clear() {
	if i == nil {
		return
	}
	i.LastExchange()
}

// hooks returns httpsnoop hooks which mirror the response status,
// headers, and body into ex as the handler writes them.
func hooks(w http.ResponseWriter, ex *Exchange) httpsnoop.Hooks {
	return httpsnoop.Hooks{
		Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
			return func(b []byte) (int, error) {
				ex.ResponseBody.Write(b)
				return next(b)
			}
		},
		WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
			return func(code int) {
				ex.StatusCode = code
				ex.Header = make(http.Header, len(w.Header()))
				for key, value := range w.Header() {
					ex.Header[key] = value
				}
				next(code)
			}
		},
		ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
			return func(src io.Reader) (int64, error) {
				if _, err := ex.ResponseBody.ReadFrom(src); err != nil {
					return 0, err
				}
				return next(bytes.NewReader(ex.ResponseBody.Bytes()))
			}
		},
	}
}

// MiddlewareFunc installs the inspector in an HTTP server by wrapping
// the server's Handler.
func (i *Inspector) MiddlewareFunc(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ex := Exchange{Request: r, ResponseBody: &bytes.Buffer{}}
		if r.Body != nil && r.Body != http.NoBody {
			ex.RequestBody = &bytes.Buffer{}
			if _, err := ex.RequestBody.ReadFrom(r.Body); err != nil {
				// a broken request body shouldn't take down the
				// server goroutine; fail the exchange instead
				http.Error(w, "reading request body: "+err.Error(), http.StatusInternalServerError)
				return
			}
			r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(ex.RequestBody.Bytes()))
		}

		w = httpsnoop.Wrap(w, hooks(w, &ex))

		next.ServeHTTP(w, r)

		select {
		case i.Exchanges <- ex:
		default:
			// don't block if the channel is full, just drop
		}
	})
}
