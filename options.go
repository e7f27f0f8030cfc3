package rearm

import (
	"net/url"
	"time"

	"github.com/ansel1/merry"
	goquery "github.com/google/go-querystring/query"
)

// HTTP constants.
const (
	HeaderAccept      = "Accept"
	HeaderContentType = "Content-Type"

	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Option applies some setting to a Descriptor.  Options can be passed
// to New, Apply, and With.  Unlike the fluent setters, options report
// invalid input as errors rather than silently dropping it.
type Option interface {

	// Apply modifies the Descriptor argument.  The pointer will never
	// be nil.  Returning an error stops applying the rest of the
	// options, and the error floats up to the original caller.
	Apply(*Descriptor) error
}

// OptionFunc adapts a function to the Option interface.
type OptionFunc func(*Descriptor) error

// Apply implements Option.
func (f OptionFunc) Apply(d *Descriptor) error {
	return f(d)
}

// Apply applies the options to the receiver.
func (d *Descriptor) Apply(opts ...Option) error {
	for _, o := range opts {
		if err := o.Apply(d); err != nil {
			return merry.Prepend(err, "applying options")
		}
	}
	return nil
}

// MustApply applies the options to the receiver, panicking on error.
func (d *Descriptor) MustApply(opts ...Option) {
	if err := d.Apply(opts...); err != nil {
		panic(err)
	}
}

// With clones the descriptor, binds the clone to the transport, then
// applies the options to the clone.
func (d *Descriptor) With(t Transport, opts ...Option) (*Descriptor, error) {
	d2 := d.Clone(t)
	if err := d2.Apply(opts...); err != nil {
		return nil, err
	}
	return d2, nil
}

// Method sets the HTTP method (e.g. GET/DELETE/etc).  An empty method
// means "infer from body presence" at dispatch time.
func Method(m string) Option {
	return OptionFunc(func(d *Descriptor) error {
		d.method = m
		return nil
	})
}

// Head sets the HTTP method to "HEAD".
func Head() Option { return Method("HEAD") }

// Get sets the HTTP method to "GET".
func Get() Option { return Method("GET") }

// Post sets the HTTP method to "POST".
func Post() Option { return Method("POST") }

// Put sets the HTTP method to "PUT".
func Put() Option { return Method("PUT") }

// Patch sets the HTTP method to "PATCH".
func Patch() Option { return Method("PATCH") }

// Delete sets the HTTP method to "DELETE".
func Delete() Option { return Method("DELETE") }

// URL sets the request URL.  Returns an error if the arg is not a
// valid URL.
func URL(p string) Option {
	return OptionFunc(func(d *Descriptor) error {
		if _, err := url.Parse(p); err != nil {
			return merry.Prepend(err, "invalid url")
		}
		d.url = p
		return nil
	})
}

// RelativeURL resolves the arg as a relative URL reference against the
// current URL, using url.URL.ResolveReference.  Multiple arguments are
// resolved in order.
func RelativeURL(paths ...string) Option {
	return OptionFunc(func(d *Descriptor) error {
		base, err := url.Parse(d.url)
		if err != nil {
			return merry.Prepend(err, "invalid base url")
		}
		for _, p := range paths {
			u, err := url.Parse(p)
			if err != nil {
				return merry.Prepend(err, "invalid url")
			}
			base = base.ResolveReference(u)
		}
		d.url = base.String()
		return nil
	})
}

// QueryParams merges query parameters into the descriptor's URL, in
// addition to any already encoded there.  The arguments may be
// map[string][]string, url.Values, or a struct with `url` tags, which
// is marshaled with the github.com/google/go-querystring/query
// package.  The URL must already be set.
func QueryParams(queryStructs ...interface{}) Option {
	return OptionFunc(func(d *Descriptor) error {
		if d.url == "" {
			return merry.New("no url to attach query params to")
		}
		u, err := url.Parse(d.url)
		if err != nil {
			return merry.Prepend(err, "invalid url")
		}
		existing := u.Query()
		for _, queryStruct := range queryStructs {
			var values url.Values
			switch t := queryStruct.(type) {
			case nil:
			case map[string][]string:
				values = url.Values(t)
			case url.Values:
				values = t
			default:
				values, err = goquery.Values(queryStruct)
				if err != nil {
					return merry.Prepend(err, "invalid query struct")
				}
			}
			for key, vs := range values {
				for _, v := range vs {
					existing.Add(key, v)
				}
			}
		}
		u.RawQuery = existing.Encode()
		d.url = u.String()
		return nil
	})
}

// Header sets a request header.  An empty value removes the header.
func Header(name, value string) Option {
	return OptionFunc(func(d *Descriptor) error {
		if name == "" {
			return merry.New("empty header name")
		}
		d.SetHeader(name, value)
		return nil
	})
}

// DeleteHeader removes a request header.
func DeleteHeader(name string) Option {
	return Header(name, "")
}

// Accept sets the Accept header.
func Accept(accept string) Option {
	return Header(HeaderAccept, accept)
}

// ContentType sets the Content-Type header.
func ContentType(contentType string) Option {
	return Header(HeaderContentType, contentType)
}

// BasicAuth sets the credential pair used to open the transport.  If
// username and password are both empty, it clears the credentials.
func BasicAuth(username, password string) Option {
	return OptionFunc(func(d *Descriptor) error {
		d.SetAuth(username, password)
		return nil
	})
}

// Timeout sets the per-dispatch timeout.  Non-positive values disable
// the timeout.
func Timeout(timeout time.Duration) Option {
	return OptionFunc(func(d *Descriptor) error {
		d.SetTimeout(timeout)
		return nil
	})
}

// Body sets the stored request body.
func Body(body interface{}) Option {
	return OptionFunc(func(d *Descriptor) error {
		d.body = body
		return nil
	})
}

// ResponseKind sets the expected response kind.
func ResponseKind(k Kind) Option {
	return OptionFunc(func(d *Descriptor) error {
		if k < KindText || k > KindJSON {
			return merry.Errorf("invalid response kind: %d", int(k))
		}
		d.kind = k
		return nil
	})
}

// Cookie appends a name=value pair to the Cookie header.  Both
// arguments must be non-empty.
func Cookie(name, value string) Option {
	return OptionFunc(func(d *Descriptor) error {
		if name == "" || value == "" {
			return merry.New("cookie name and value must be non-empty")
		}
		d.AppendCookie(name, value)
		return nil
	})
}

// JSON configures the descriptor for a JSON exchange: it sets the
// Accept and Content-Type headers and expects a JSON response body.
func JSON() Option {
	return joinOpts(
		ContentType(ContentTypeJSON),
		Accept(ContentTypeJSON),
		ResponseKind(KindJSON),
	)
}

func joinOpts(opts ...Option) Option {
	return OptionFunc(func(d *Descriptor) error {
		for _, opt := range opts {
			if err := opt.Apply(d); err != nil {
				return err
			}
		}
		return nil
	})
}
