package rearm

import (
	"sync"

	"github.com/ansel1/merry"
	"github.com/tidwall/gjson"
)

// Configuration errors returned synchronously by Dispatch.  These are
// the only errors the controller ever returns directly; everything
// after the transport is opened is reported through classification.
var (
	// ErrNoURL is returned by Dispatch when the descriptor has no
	// URL.  The transport is not touched.
	ErrNoURL = merry.New("no url configured")

	// ErrInFlight is returned by Dispatch when a prior dispatch on
	// the same controller has not reached its terminal state yet.
	ErrInFlight = merry.New("dispatch already in flight")
)

// A Controller drives a Transport through open, send, and settle, and
// classifies the terminal state.  Each Controller owns its transport
// exclusively and belongs to exactly one Descriptor.
//
// A controller carries one completion observer at a time.  OnChange,
// OnReady, OnSuccess, and Future each overwrite the slot; the previous
// registration is silently discarded.  OnTimeout occupies a separate
// slot and survives completion-observer changes.
//
// The terminal outcome is never stored: IsSuccess, ErrorState, and Err
// recompute it from transport state on every call.
type Controller struct {
	desc      *Descriptor
	transport Transport

	mu        sync.Mutex
	slot      observer
	onTimeout func(*Controller)
	gen       uint64
	inFlight  bool
	fired     bool
	renderErr error
}

func newController(d *Descriptor, t Transport) *Controller {
	return &Controller{desc: d, transport: t}
}

// Descriptor returns the descriptor this controller belongs to.
func (c *Controller) Descriptor() *Descriptor {
	return c.desc
}

// Transport returns the transport handle owned by this controller.
func (c *Controller) Transport() Transport {
	return c.transport
}

// bodyPresent reports whether v counts as a request body for method
// inference.  nil, empty strings, and empty byte slices do not.
func bodyPresent(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case []byte:
		return len(t) > 0
	default:
		return true
	}
}

// Dispatch opens the transport with the descriptor's accumulated
// configuration, applies the stored headers, and sends the request.
// It returns as soon as the request is on its way; the outcome is
// delivered asynchronously through the registered observer.
//
// A non-nil body argument overrides the descriptor's stored body for
// this dispatch only; the stored body is not modified.  The effective
// method is the descriptor's, or, if unset, POST when an effective
// body is present and GET otherwise.
//
// Dispatch fails fast, without touching the transport, if the
// descriptor has no URL (ErrNoURL) or if a previous dispatch has not
// reached its terminal state (ErrInFlight).
func (c *Controller) Dispatch(body interface{}) error {
	d := c.desc

	c.mu.Lock()
	if d.url == "" {
		c.mu.Unlock()
		return ErrNoURL.Here()
	}
	if c.inFlight {
		c.mu.Unlock()
		return ErrInFlight.Here()
	}
	// a settled future can't receive another outcome; the new
	// dispatch starts with an empty slot instead
	if c.slot.kind == slotFuture && c.slot.fut.settled() {
		c.slot = observer{}
	}
	c.gen++
	gen := c.gen
	c.inFlight = true
	c.fired = false
	c.mu.Unlock()

	effBody := body
	if !bodyPresent(effBody) {
		effBody = d.body
	}
	method := d.method
	if method == "" {
		if bodyPresent(effBody) {
			method = "POST"
		} else {
			method = "GET"
		}
	}

	t := c.transport
	t.SetResponseKind(d.kind)
	t.SetTimeout(d.timeout)
	t.OnTimeout(func() { c.notifyTimeout(gen) })
	t.OnReadyStateChange(func() { c.notify(gen) })

	if err := t.Open(method, d.url, true, d.username, d.password); err != nil {
		c.settle(gen)
		return merry.Prepend(err, "opening transport")
	}
	for _, name := range d.headerNames() {
		t.SetRequestHeader(name, d.headers[name])
	}
	if !bodyPresent(effBody) {
		effBody = nil
	}
	if err := t.Send(effBody); err != nil {
		c.settle(gen)
		return merry.Prepend(err, "sending request")
	}
	return nil
}

// settle clears the in-flight flag if gen is still the current
// dispatch.
func (c *Controller) settle(gen uint64) {
	c.mu.Lock()
	if gen == c.gen {
		c.inFlight = false
	}
	c.mu.Unlock()
}

// Abort requests transport-level cancellation of the current dispatch.
// Cancellation is best-effort: the transport may still deliver a
// terminal notification that was already scheduled.  The controller
// treats any notification from a dispatch older than the current
// generation as stale and drops it, so handlers are never re-invoked
// for an aborted dispatch.
func (c *Controller) Abort() {
	c.mu.Lock()
	c.gen++
	c.inFlight = false
	c.mu.Unlock()
	c.transport.Abort()
}

// notify handles a ready-state-change notification from the transport
// for the dispatch identified by gen.
func (c *Controller) notify(gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		// stale: a newer dispatch or an abort superseded this one
		c.mu.Unlock()
		return
	}
	terminal := c.transport.ReadyState() == Done
	slot := c.slot
	if terminal {
		c.inFlight = false
		if c.fired {
			c.mu.Unlock()
			return
		}
		c.fired = true
	}
	c.mu.Unlock()

	slot.deliver(c, terminal)
}

func (c *Controller) notifyTimeout(gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	h := c.onTimeout
	c.mu.Unlock()

	if h != nil {
		h(c)
	}
}

// ReadyState returns the transport's current lifecycle state.
func (c *Controller) ReadyState() ReadyState {
	return c.transport.ReadyState()
}

// Status returns the HTTP status code, or 0 if no response was
// received.
func (c *Controller) Status() int {
	return c.transport.Status()
}

// ResponseText returns the decoded response body.  Valid only when
// the response kind is KindText.
func (c *Controller) ResponseText() string {
	return c.transport.ResponseText()
}

// Response returns the response body decoded per the response kind,
// or nil if decoding failed or no body was received.
func (c *Controller) Response() interface{} {
	return c.transport.Response()
}

// ResponseHeader returns the value of a response header, or "".
func (c *Controller) ResponseHeader(name string) string {
	return c.transport.ResponseHeader(name)
}

// ResponseHeadersRaw returns all response headers as a single
// CRLF-separated block.
func (c *Controller) ResponseHeadersRaw() string {
	return c.transport.ResponseHeadersRaw()
}

// JSONField queries the raw response text with a gjson path
// expression, e.g. c.JSONField("items.0.name").  Only meaningful when
// the response kind is KindText and the body is JSON.
func (c *Controller) JSONField(path string) gjson.Result {
	return gjson.Get(c.transport.ResponseText(), path)
}

// DispatchInto dispatches the request and, on success, renders the
// response text into the renderer.  The response kind is forced back
// to KindText first, since rendering requires the raw decoded text.
//
// DispatchInto occupies the controller's observer slot, replacing any
// previous completion registration.  On failure-classified outcomes
// nothing is rendered; the caller can still inspect Err afterwards.
// If the renderer itself fails, the error is retained and available
// from RenderErr.
func (c *Controller) DispatchInto(r Renderer) error {
	if r == nil {
		return merry.New("nil renderer")
	}
	c.mu.Lock()
	c.renderErr = nil
	c.mu.Unlock()

	c.desc.SetKind(KindText)
	c.OnSuccess(
		func(c *Controller) {
			err := r.RenderInto(c.ResponseText())
			c.mu.Lock()
			c.renderErr = merry.Prepend(err, "rendering response")
			c.mu.Unlock()
		},
		func(*Controller) {},
	)
	return c.Dispatch(nil)
}

// RenderErr returns the error from the most recent DispatchInto
// render, or nil if it succeeded, never ran, or has not run yet.
func (c *Controller) RenderErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renderErr
}
