package httptransport

import (
	"io"
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/google/uuid"
)

// HeaderRequestID is the header stamped by the RequestID middleware.
const HeaderRequestID = "X-Request-Id"

// Middleware wraps Doers with additional functionality:
//
//	logging := func(next httptransport.Doer) httptransport.Doer {
//	    return httptransport.DoerFunc(func(req *http.Request) (*http.Response, error) {
//	        logRequest(req)
//	        return next.Do(req)
//	    })
//	}
//
// Middleware is installed in a Transport with the Use option and is
// invoked in the order added.
type Middleware func(Doer) Doer

// Wrap applies a set of middleware to a Doer.  The returned Doer will
// invoke the middleware in the order of the arguments.
func Wrap(d Doer, m ...Middleware) Doer {
	for i := len(m) - 1; i > -1; i-- {
		d = m[i](d)
	}
	return d
}

// RequestID stamps each outgoing request with a fresh UUID in the
// X-Request-Id header, unless the header is already set.
func RequestID() Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(HeaderRequestID) == "" {
				req.Header.Set(HeaderRequestID, uuid.NewString())
			}
			return next.Do(req)
		})
	}
}

// Dump dumps requests and responses to a writer.  Just intended for
// debugging.
func Dump(w io.Writer) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			dump, dumperr := httputil.DumpRequestOut(req, true)
			// Write the entire dump in a single Write() call, so if
			// this is redirected to a logger it arrives as one entry.
			if dumperr != nil {
				io.WriteString(w, "Error dumping request: "+dumperr.Error()+"\n")
			} else {
				io.WriteString(w, string(dump)+"\n")
			}
			resp, err := next.Do(req)
			if resp != nil {
				dump, dumperr = httputil.DumpResponse(resp, true)
				if dumperr != nil {
					io.WriteString(w, "Error dumping response: "+dumperr.Error()+"\n")
				} else {
					io.WriteString(w, string(dump)+"\n")
				}
			}
			return resp, err
		})
	}
}

// DumpToStdout dumps requests and responses to os.Stdout.
func DumpToStdout() Middleware {
	return Dump(os.Stdout)
}

type logFunc func(a ...interface{})

func (f logFunc) Write(p []byte) (n int, err error) {
	f(string(p))
	return len(p), nil
}

// DumpToLog dumps requests and responses to a logging function.  logf
// is compatible with fmt.Print, testing.T.Log, or log.XXX functions.
//
// Request and response are logged separately.  Though logf takes a
// variadic arg, it is only called with one string arg at a time.
func DumpToLog(logf func(a ...interface{})) Middleware {
	return Dump(logFunc(logf))
}
