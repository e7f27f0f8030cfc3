package rearm

import "time"

// A ReadyState identifies a stage in the transport lifecycle.  For a
// single dispatch, states are delivered in non-decreasing order and end
// with at most one Done notification.
type ReadyState int

const (
	// Unsent means Open has not been called yet.
	Unsent ReadyState = iota
	// Opened means Open has been called, but the request has not
	// been sent.
	Opened
	// HeadersReceived means the status line and response headers
	// have arrived.
	HeadersReceived
	// Loading means the response body is being received.
	Loading
	// Done is the terminal state: no further transport activity
	// will occur for this dispatch.
	Done
)

var readyStateNames = []string{
	"Unsent",
	"Opened",
	"HeadersReceived",
	"Loading",
	"Done",
}

// String returns the name of the ready state.
func (s ReadyState) String() string {
	if s < Unsent || s > Done {
		return "Unknown"
	}
	return readyStateNames[int(s)]
}

// A Kind tells the transport how to decode the response body.
type Kind int

const (
	// KindText is the default: the body is decoded as a string and
	// exposed through ResponseText.
	KindText Kind = iota
	// KindArrayBuffer decodes the body as a raw byte slice.
	KindArrayBuffer
	// KindBlob decodes the body as a raw byte slice.
	KindBlob
	// KindDocument parses the body as an HTML document.
	KindDocument
	// KindJSON unmarshals the body as JSON.
	KindJSON
)

var kindNames = []string{
	"text",
	"arraybuffer",
	"blob",
	"document",
	"json",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if k < KindText || k > KindJSON {
		return "unknown"
	}
	return kindNames[int(k)]
}

// Transport is the capability a Controller requires from the network
// stack.  It is implemented by httptransport.Transport, and by
// MockTransport for tests.
//
// A Transport is exclusively owned by one Controller.  SetRequestHeader
// is only valid between Open and Send.  Send must not block: the
// outcome is delivered through the OnReadyStateChange callback.
type Transport interface {

	// Open arms the transport for a new request.  Opening resets
	// any response state from a previous dispatch.  Synchronous
	// mode (async=false) is not required to be supported.
	Open(method, url string, async bool, username, password string) error

	// SetRequestHeader adds a request header.  Callable only after
	// Open and before Send.
	SetRequestHeader(name, value string)

	// Send transmits the request.  A nil body sends no body.  Send
	// returns without waiting for the response.
	Send(body interface{}) error

	// Abort requests cancellation.  Aborting does not guarantee
	// suppression of an already-scheduled notification.
	Abort()

	ReadyState() ReadyState

	// Status is the HTTP status code, or 0 if no response was
	// received.
	Status() int

	// ResponseText is the decoded body.  Valid only for KindText.
	ResponseText() string

	// Response is the body decoded according to the response kind,
	// or nil if decoding failed or no body was received.
	Response() interface{}

	// ResponseHeader returns the value of a response header, or ""
	// if not present.
	ResponseHeader(name string) string

	// ResponseHeadersRaw returns all response headers as a single
	// CRLF-separated block.
	ResponseHeadersRaw() string

	ResponseKind() Kind
	SetResponseKind(Kind)

	// Timeout is the per-dispatch deadline.  Zero means no timeout.
	Timeout() time.Duration
	SetTimeout(time.Duration)

	// OnReadyStateChange installs the state-change notification
	// callback, replacing any previous one.
	OnReadyStateChange(func())

	// OnTimeout installs the timeout notification callback,
	// replacing any previous one.
	OnTimeout(func())
}

// Renderer is an optional collaborator capability for sinks which can
// display a response body, such as a DOM node on platforms that have
// one.  The core never depends on how a Renderer is constructed; it
// only calls the ones it is handed.
type Renderer interface {
	RenderInto(html string) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(html string) error

// RenderInto implements Renderer.
func (f RendererFunc) RenderInto(html string) error {
	return f(html)
}
