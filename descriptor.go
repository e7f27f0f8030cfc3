package rearm

import (
	"net/url"
	"sort"
	"strings"
	"time"
)

// HeaderCookie is the request header manipulated by AppendCookie and
// SetCookies.
const HeaderCookie = "Cookie"

// A Descriptor holds the accumulated configuration for one logical
// HTTP request: method, URL, body, credentials, headers, timeout, and
// the expected response kind.  Descriptors are mutable and freely
// reusable: configure once, dispatch many times.
//
// The fluent methods all return the descriptor so calls can be
// chained.  Invalid input to a fluent method is silently ignored
// rather than reported; the only hard precondition is a non-empty URL,
// which is enforced by Controller.Dispatch.
//
// Descriptors can equivalently be configured with functional Options,
// via New, Apply, and With.  Options report invalid input as errors;
// the fluent methods drop it.  Pick whichever style suits the call
// site.
type Descriptor struct {
	method   string
	url      string
	body     interface{}
	username string
	password string
	hasAuth  bool
	headers  map[string]string
	timeout  time.Duration
	kind     Kind
	userData map[string]interface{}

	ctrl *Controller
}

// New creates a Descriptor bound to the transport, applying all
// options.  The descriptor owns its Controller; the controller owns
// the transport.
func New(t Transport, opts ...Option) (*Descriptor, error) {
	d := &Descriptor{}
	d.ctrl = newController(d, t)
	if err := d.Apply(opts...); err != nil {
		return nil, err
	}
	return d, nil
}

// MustNew creates a Descriptor bound to the transport, applying all
// options.  If an option fails, MustNew panics.
func MustNew(t Transport, opts ...Option) *Descriptor {
	d, err := New(t, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Controller returns the lifecycle controller owned by this
// descriptor.  Never nil.
func (d *Descriptor) Controller() *Controller {
	return d.ctrl
}

// Clone returns a deep copy of the descriptor's configuration, bound
// to the given transport.  The clone gets a fresh Controller with an
// empty observer slot; user data and headers are copied, not shared.
func (d *Descriptor) Clone(t Transport) *Descriptor {
	d2 := *d
	d2.headers = cloneStringMap(d.headers)
	d2.userData = cloneDataMap(d.userData)
	d2.ctrl = newController(&d2, t)
	return &d2
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	m2 := make(map[string]string, len(m))
	for k, v := range m {
		m2[k] = v
	}
	return m2
}

func cloneDataMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	m2 := make(map[string]interface{}, len(m))
	for k, v := range m {
		m2[k] = v
	}
	return m2
}

// Reset overwrites the method, URL, and stored body in one call.  An
// empty method means "infer from the body": a dispatch will use POST
// if an effective body is present, GET otherwise.  The stored body is
// used by dispatches which don't supply their own.
func (d *Descriptor) Reset(url string, body interface{}, method string) *Descriptor {
	d.url = url
	d.body = body
	d.method = method
	return d
}

// SetAuth sets the credential pair used to open the transport.
// Passing two empty strings clears the credentials, equivalent to
// ClearAuth.
func (d *Descriptor) SetAuth(username, password string) *Descriptor {
	if username == "" && password == "" {
		return d.ClearAuth()
	}
	d.username = username
	d.password = password
	d.hasAuth = true
	return d
}

// ClearAuth removes the credential pair.
func (d *Descriptor) ClearAuth() *Descriptor {
	d.username = ""
	d.password = ""
	d.hasAuth = false
	return d
}

// HasAuth reports whether a credential pair is configured.
func (d *Descriptor) HasAuth() bool {
	return d.hasAuth
}

// SetTimeout sets the per-dispatch timeout.  Anything that isn't a
// positive duration disables the timeout.
func (d *Descriptor) SetTimeout(timeout time.Duration) *Descriptor {
	if timeout < 0 {
		timeout = 0
	}
	d.timeout = timeout
	return d
}

// Timeout returns the configured timeout.  Zero means disabled.
func (d *Descriptor) Timeout() time.Duration {
	return d.timeout
}

// SetUserData stores an arbitrary value under key.  The core never
// reads user data; it exists for handler closures to stash context.
// A nil value deletes the key.  An empty key is a no-op.
func (d *Descriptor) SetUserData(key string, value interface{}) *Descriptor {
	if key == "" {
		return d
	}
	if value == nil {
		delete(d.userData, key)
		return d
	}
	if d.userData == nil {
		d.userData = map[string]interface{}{}
	}
	d.userData[key] = value
	return d
}

// UserData returns the value stored under key, or nil.
func (d *Descriptor) UserData(key string) interface{} {
	return d.userData[key]
}

// SetHeader sets a request header.  Header names are unique: setting
// an existing name overwrites it.  An empty value removes the header;
// an empty name is a no-op.
func (d *Descriptor) SetHeader(name, value string) *Descriptor {
	if name == "" {
		return d
	}
	if value == "" {
		delete(d.headers, name)
		return d
	}
	if d.headers == nil {
		d.headers = map[string]string{}
	}
	d.headers[name] = value
	return d
}

// Header returns the configured value for a request header, or "".
func (d *Descriptor) Header(name string) string {
	return d.headers[name]
}

// AppendCookie appends name=value to the Cookie header, creating the
// header if absent.  The value is query-escaped.  Both arguments must
// be non-empty or the call is a no-op.
//
// Caller-set cookie headers are a server-side transport capability;
// browser-style transports typically forbid them.
func (d *Descriptor) AppendCookie(name, value string) *Descriptor {
	if name == "" || value == "" {
		return d
	}
	pair := name + "=" + url.QueryEscape(value)
	if existing := d.headers[HeaderCookie]; existing != "" {
		pair = existing + "; " + pair
	}
	return d.SetHeader(HeaderCookie, pair)
}

// SetCookies replaces the entire Cookie header with the pairs from the
// map, query-escaping each value.  Keys are encoded in sorted order so
// the header is deterministic.  Empty keys and values are skipped.  A
// nil or empty map removes the header entirely.
//
// Like AppendCookie, this is only meaningful on transports which allow
// caller-set cookie headers.
func (d *Descriptor) SetCookies(cookies map[string]string) *Descriptor {
	names := make([]string, 0, len(cookies))
	for name, value := range cookies {
		if name == "" || value == "" {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return d.SetHeader(HeaderCookie, "")
	}
	sort.Strings(names)
	pairs := make([]string, len(names))
	for i, name := range names {
		pairs[i] = name + "=" + url.QueryEscape(cookies[name])
	}
	return d.SetHeader(HeaderCookie, strings.Join(pairs, "; "))
}

// SetKind sets the expected response kind, which governs how the
// transport decodes the response body.  The default is KindText.
func (d *Descriptor) SetKind(k Kind) *Descriptor {
	if k < KindText || k > KindJSON {
		return d
	}
	d.kind = k
	return d
}

// Kind returns the configured response kind.
func (d *Descriptor) Kind() Kind {
	return d.kind
}

// Method returns the configured method.  Empty means the method is
// inferred at dispatch time.
func (d *Descriptor) Method() string {
	return d.method
}

// URL returns the configured URL.
func (d *Descriptor) URL() string {
	return d.url
}

// Body returns the stored body.
func (d *Descriptor) Body() interface{} {
	return d.body
}

// headerNames returns the configured header names in sorted order, so
// headers are applied to the transport deterministically.
func (d *Descriptor) headerNames() []string {
	names := make([]string, 0, len(d.headers))
	for name := range d.headers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
