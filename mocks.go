package rearm

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// These are tools for writing tests.

// MockTransport is a scripted, synchronous Transport for tests.  It
// records every operation the controller performs, and lets the test
// advance the lifecycle by hand:
//
//	mt := &rearm.MockTransport{}
//	d := rearm.MustNew(mt, rearm.URL("http://test/red"))
//	d.Controller().OnReady(func(c *rearm.Controller) { ... })
//	_ = d.Controller().Dispatch(nil)
//	mt.Complete(200, "body", "body")
//
// Advance and Complete invoke the registered state-change callback
// inline, so handler effects are visible as soon as they return.
type MockTransport struct {

	// Calls records every operation, in order, as a readable
	// string, e.g. "open GET http://test/red", "header A: B",
	// "send", "abort".
	Calls []string

	// Captured Open arguments.
	OpenMethod string
	OpenURL    string
	OpenAsync  bool
	Username   string
	Password   string

	// RequestHeaders captures SetRequestHeader calls.
	RequestHeaders map[string]string

	// SentBody is the body passed to Send; Sent records that Send
	// was called at all.
	SentBody interface{}
	Sent     bool

	Aborted bool

	// OpenErr and SendErr, if set, are returned by Open and Send.
	OpenErr error
	SendErr error

	// ResponseHeaders is the scripted response header set.
	ResponseHeaders map[string]string

	kind      Kind
	timeout   time.Duration
	state     ReadyState
	status    int
	respText  string
	decoded   interface{}
	onChange  func()
	onTimeout func()
}

var _ Transport = (*MockTransport)(nil)

func (m *MockTransport) record(format string, args ...interface{}) {
	m.Calls = append(m.Calls, fmt.Sprintf(format, args...))
}

// Open implements Transport.  It captures the arguments and resets
// response state, like a real transport re-arming for a new request.
func (m *MockTransport) Open(method, url string, async bool, username, password string) error {
	m.record("open %s %s", method, url)
	if m.OpenErr != nil {
		return m.OpenErr
	}
	m.OpenMethod = method
	m.OpenURL = url
	m.OpenAsync = async
	m.Username = username
	m.Password = password
	m.RequestHeaders = map[string]string{}
	m.SentBody = nil
	m.Sent = false
	m.Aborted = false
	m.status = 0
	m.respText = ""
	m.decoded = nil
	m.state = Opened
	return nil
}

// SetRequestHeader implements Transport.
func (m *MockTransport) SetRequestHeader(name, value string) {
	m.record("header %s: %s", name, value)
	if m.RequestHeaders == nil {
		m.RequestHeaders = map[string]string{}
	}
	m.RequestHeaders[name] = value
}

// Send implements Transport.  It records the body but delivers
// nothing; the test drives delivery with Advance and Complete.
func (m *MockTransport) Send(body interface{}) error {
	m.record("send")
	if m.SendErr != nil {
		return m.SendErr
	}
	m.SentBody = body
	m.Sent = true
	return nil
}

// Abort implements Transport.
func (m *MockTransport) Abort() {
	m.record("abort")
	m.Aborted = true
}

// ReadyState implements Transport.
func (m *MockTransport) ReadyState() ReadyState { return m.state }

// Status implements Transport.
func (m *MockTransport) Status() int { return m.status }

// ResponseText implements Transport.
func (m *MockTransport) ResponseText() string { return m.respText }

// Response implements Transport.
func (m *MockTransport) Response() interface{} { return m.decoded }

// ResponseHeader implements Transport.
func (m *MockTransport) ResponseHeader(name string) string {
	return m.ResponseHeaders[name]
}

// ResponseHeadersRaw implements Transport.
func (m *MockTransport) ResponseHeadersRaw() string {
	names := make([]string, 0, len(m.ResponseHeaders))
	for name := range m.ResponseHeaders {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(m.ResponseHeaders[name])
		b.WriteString("\r\n")
	}
	return b.String()
}

// ResponseKind implements Transport.
func (m *MockTransport) ResponseKind() Kind { return m.kind }

// SetResponseKind implements Transport.
func (m *MockTransport) SetResponseKind(k Kind) { m.kind = k }

// Timeout implements Transport.
func (m *MockTransport) Timeout() time.Duration { return m.timeout }

// SetTimeout implements Transport.
func (m *MockTransport) SetTimeout(d time.Duration) { m.timeout = d }

// OnReadyStateChange implements Transport.
func (m *MockTransport) OnReadyStateChange(f func()) { m.onChange = f }

// OnTimeout implements Transport.
func (m *MockTransport) OnTimeout(f func()) { m.onTimeout = f }

// Advance moves the transport through the given states in order,
// firing the state-change callback for each.
func (m *MockTransport) Advance(states ...ReadyState) {
	for _, s := range states {
		m.state = s
		if m.onChange != nil {
			m.onChange()
		}
	}
}

// Complete scripts the terminal outcome and fires the state-change
// callback once, in state Done.  decoded is the value a real
// transport would have produced for the armed response kind; pass nil
// to simulate a decode failure.
func (m *MockTransport) Complete(status int, text string, decoded interface{}) {
	m.status = status
	m.respText = text
	m.decoded = decoded
	m.Advance(Done)
}

// FireTimeout fires the timeout callback, then completes with no
// status, the way a real transport reports a timed-out request.
func (m *MockTransport) FireTimeout() {
	if m.onTimeout != nil {
		m.onTimeout()
	}
	m.Complete(0, "", nil)
}
