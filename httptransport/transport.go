package httptransport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ansel1/merry"
	"github.com/rearmlib/rearm"
)

// Transport implements rearm.Transport over net/http.  It executes
// requests through a Doer (http.DefaultClient unless replaced),
// optionally wrapped in Middleware.
//
// A Transport is re-armed by each Open call: response state from the
// previous dispatch is discarded and any in-flight request is
// invalidated.  Notifications are delivered from the goroutine
// running the request.
type Transport struct {
	doer       Doer
	middleware []Middleware
	marshaler  Marshaler

	mu         sync.Mutex
	method     string
	url        string
	username   string
	password   string
	hasAuth    bool
	reqHeader  http.Header
	timeout    time.Duration
	kind       rearm.Kind
	state      rearm.ReadyState
	status     int
	respHeader http.Header
	respText   string
	decoded    interface{}
	onChange   func()
	onTimeout  func()
	cancel     context.CancelFunc
	gen        uint64
}

var _ rearm.Transport = (*Transport)(nil)

// New creates a Transport, applying all options.
func New(opts ...Option) (*Transport, error) {
	t := &Transport{}
	for _, o := range opts {
		if err := o.Apply(t); err != nil {
			return nil, merry.Prepend(err, "applying options")
		}
	}
	return t, nil
}

// MustNew creates a Transport, applying all options.  If an option
// fails, MustNew panics.
func MustNew(opts ...Option) *Transport {
	t, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Option applies some setting to a Transport under construction.
type Option interface {
	Apply(*Transport) error
}

// OptionFunc adapts a function to the Option interface.
type OptionFunc func(*Transport) error

// Apply implements Option.
func (f OptionFunc) Apply(t *Transport) error {
	return f(t)
}

// WithDoer replaces the Doer used to execute requests.  If nil, the
// transport reverts to http.DefaultClient.
func WithDoer(d Doer) Option {
	return OptionFunc(func(t *Transport) error {
		t.doer = d
		return nil
	})
}

// Use appends middleware.  Middleware is invoked in the order added.
func Use(m ...Middleware) Option {
	return OptionFunc(func(t *Transport) error {
		t.middleware = append(t.middleware, m...)
		return nil
	})
}

// WithMarshaler replaces the Marshaler used for struct request
// bodies.  If nil, the transport falls back on DefaultMarshaler.
func WithMarshaler(m Marshaler) Option {
	return OptionFunc(func(t *Transport) error {
		t.marshaler = m
		return nil
	})
}

// Client builds an *http.Client from the given options and installs
// it as the transport's Doer.
func Client(opts ...ClientOption) Option {
	return OptionFunc(func(t *Transport) error {
		c, err := NewClient(opts...)
		if err != nil {
			return err
		}
		t.doer = c
		return nil
	})
}

// Open implements rearm.Transport.  It arms the transport for a new
// request, discarding the response state of any previous dispatch and
// invalidating any request still in flight.
//
// Only asynchronous mode is supported.
func (t *Transport) Open(method, url string, async bool, username, password string) error {
	if !async {
		return merry.New("synchronous mode is not supported")
	}
	if method == "" || url == "" {
		return merry.New("method and url are required")
	}

	t.mu.Lock()
	t.gen++
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.method = method
	t.url = url
	t.username = username
	t.password = password
	t.hasAuth = username != "" || password != ""
	t.reqHeader = http.Header{}
	t.status = 0
	t.respHeader = nil
	t.respText = ""
	t.decoded = nil
	t.state = rearm.Opened
	cb := t.onChange
	t.mu.Unlock()

	if cb != nil {
		cb()
	}
	return nil
}

// SetRequestHeader implements rearm.Transport.  Callable only after
// Open and before Send; headers set at other times are dropped.
func (t *Transport) SetRequestHeader(name, value string) {
	t.mu.Lock()
	if t.state == rearm.Opened && t.reqHeader != nil {
		t.reqHeader.Set(name, value)
	}
	t.mu.Unlock()
}

// Send implements rearm.Transport.  It builds the http.Request and
// launches the exchange on its own goroutine, returning immediately.
func (t *Transport) Send(body interface{}) error {
	t.mu.Lock()
	if t.state != rearm.Opened {
		t.mu.Unlock()
		return merry.New("transport is not open")
	}

	bodyReader, contentType, err := t.requestBody(body)
	if err != nil {
		t.mu.Unlock()
		return err
	}

	ctx := context.Background()
	var cancel context.CancelFunc
	if t.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	req, err := http.NewRequestWithContext(ctx, t.method, t.url, bodyReader)
	if err != nil {
		cancel()
		t.mu.Unlock()
		return merry.Prepend(err, "building request")
	}
	for k, v := range t.reqHeader {
		req.Header[k] = v
	}
	// the marshaler's content type only applies if the caller didn't
	// set one explicitly
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	if t.hasAuth {
		req.SetBasicAuth(t.username, t.password)
	}

	t.cancel = cancel
	gen := t.gen
	t.mu.Unlock()

	go t.run(req, gen)
	return nil
}

// requestBody converts the body value into an io.Reader, marshaling
// struct values with the installed Marshaler.  Must be called with
// the lock held.
func (t *Transport) requestBody(body interface{}) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case io.Reader:
		return v, "", nil
	case string:
		return strings.NewReader(v), "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	default:
		marshaler := t.marshaler
		if marshaler == nil {
			marshaler = DefaultMarshaler
		}
		data, ct, err := marshaler.Marshal(body)
		if err != nil {
			return nil, "", merry.Prepend(err, "marshaling request body")
		}
		return bytes.NewReader(data), ct, nil
	}
}

// run executes the exchange for the dispatch identified by gen and
// walks the lifecycle forward as milestones arrive.
func (t *Transport) run(req *http.Request, gen uint64) {
	defer t.releaseCancel(gen)

	doer := t.doer
	if doer == nil {
		doer = http.DefaultClient
	}

	resp, err := Wrap(doer, t.middleware...).Do(req)
	if err != nil {
		if isTimeout(err) {
			t.fireTimeout(gen)
		}
		t.advance(gen, rearm.Done, func(t *Transport) {
			t.status = 0
		})
		return
	}
	defer resp.Body.Close()

	ok := t.advance(gen, rearm.HeadersReceived, func(t *Transport) {
		t.status = resp.StatusCode
		t.respHeader = resp.Header
	})
	if !ok {
		return
	}
	if !t.advance(gen, rearm.Loading, nil) {
		return
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		// the connection died mid-body: report it like any other
		// connection failure
		t.advance(gen, rearm.Done, func(t *Transport) {
			t.status = 0
			t.respHeader = nil
		})
		return
	}

	t.advance(gen, rearm.Done, func(t *Transport) {
		t.respText, t.decoded = decode(t.kind, data)
	})
}

// advance moves the lifecycle to state and fires the state-change
// callback, unless the dispatch identified by gen has been superseded
// by a newer Open or an Abort.
func (t *Transport) advance(gen uint64, state rearm.ReadyState, mutate func(*Transport)) bool {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return false
	}
	if mutate != nil {
		mutate(t)
	}
	t.state = state
	cb := t.onChange
	t.mu.Unlock()

	if cb != nil {
		cb()
	}
	return true
}

// releaseCancel frees the request context once the dispatch identified
// by gen has finished, unless a newer Open or Abort already took it.
func (t *Transport) releaseCancel(gen uint64) {
	t.mu.Lock()
	if gen == t.gen && t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.mu.Unlock()
}

func (t *Transport) fireTimeout(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	cb := t.onTimeout
	t.mu.Unlock()

	if cb != nil {
		cb()
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Abort implements rearm.Transport.  It cancels any in-flight request
// and resets the lifecycle to Unsent.  Notifications from the aborted
// dispatch are suppressed.
func (t *Transport) Abort() {
	t.mu.Lock()
	t.gen++
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.state = rearm.Unsent
	t.status = 0
	t.respHeader = nil
	t.respText = ""
	t.decoded = nil
	t.mu.Unlock()
}

// ReadyState implements rearm.Transport.
func (t *Transport) ReadyState() rearm.ReadyState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Status implements rearm.Transport.
func (t *Transport) Status() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// ResponseText implements rearm.Transport.
func (t *Transport) ResponseText() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.respText
}

// Response implements rearm.Transport.
func (t *Transport) Response() interface{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.decoded
}

// ResponseHeader implements rearm.Transport.
func (t *Transport) ResponseHeader(name string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.respHeader.Get(name)
}

// ResponseHeadersRaw implements rearm.Transport.  Headers are
// rendered one per line, sorted by name, each line terminated with
// CRLF.
func (t *Transport) ResponseHeadersRaw() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	names := make([]string, 0, len(t.respHeader))
	for name := range t.respHeader {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		for _, value := range t.respHeader[name] {
			b.WriteString(name)
			b.WriteString(": ")
			b.WriteString(value)
			b.WriteString("\r\n")
		}
	}
	return b.String()
}

// ResponseKind implements rearm.Transport.
func (t *Transport) ResponseKind() rearm.Kind {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.kind
}

// SetResponseKind implements rearm.Transport.
func (t *Transport) SetResponseKind(k rearm.Kind) {
	t.mu.Lock()
	t.kind = k
	t.mu.Unlock()
}

// Timeout implements rearm.Transport.
func (t *Transport) Timeout() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timeout
}

// SetTimeout implements rearm.Transport.
func (t *Transport) SetTimeout(d time.Duration) {
	t.mu.Lock()
	if d < 0 {
		d = 0
	}
	t.timeout = d
	t.mu.Unlock()
}

// OnReadyStateChange implements rearm.Transport.
func (t *Transport) OnReadyStateChange(f func()) {
	t.mu.Lock()
	t.onChange = f
	t.mu.Unlock()
}

// OnTimeout implements rearm.Transport.
func (t *Transport) OnTimeout(f func()) {
	t.mu.Lock()
	t.onTimeout = f
	t.mu.Unlock()
}
