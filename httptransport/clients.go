package httptransport

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/ansel1/merry"
)

// NewClient builds a new *http.Client.  With no arguments, the client
// is configured identically to http.DefaultClient and
// http.DefaultTransport, but as distinct instances which can be
// further modified without any global effect.
func NewClient(opts ...ClientOption) (*http.Client, error) {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	c := &http.Client{}

	for _, opt := range opts {
		if err := opt.Apply(c, t); err != nil {
			return nil, err
		}
	}

	// an option explicitly setting the client's transport overrides
	// ours
	if c.Transport == nil {
		c.Transport = t
	}
	return c, nil
}

// ClientOption is a configuration option for building an http.Client.
type ClientOption interface {

	// Apply makes some configuration change to the arguments.
	// Neither will be nil.  After all options have run, the
	// http.Transport argument is installed as the client's
	// RoundTripper, unless an option already set one directly on
	// the client.
	Apply(*http.Client, *http.Transport) error
}

// ClientOptionFunc adapts a function to the ClientOption interface.
type ClientOptionFunc func(*http.Client, *http.Transport) error

// Apply implements ClientOption.
func (f ClientOptionFunc) Apply(c *http.Client, t *http.Transport) error {
	return f(c, t)
}

// ClientTimeout configures the client's Timeout property, which caps
// the total time for a single request, connection included.
func ClientTimeout(d time.Duration) ClientOption {
	return ClientOptionFunc(func(c *http.Client, _ *http.Transport) error {
		c.Timeout = d
		return nil
	})
}

// NoRedirects configures the client to not follow any redirects.
func NoRedirects() ClientOption {
	return ClientOptionFunc(func(c *http.Client, _ *http.Transport) error {
		c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
		return nil
	})
}

// MaxRedirects configures the max number of redirects the client will
// follow before giving up.
func MaxRedirects(max int) ClientOption {
	return ClientOptionFunc(func(c *http.Client, _ *http.Transport) error {
		c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= max {
				return merry.Errorf("stopped after max %d requests", len(via))
			}
			return nil
		}
		return nil
	})
}

// CookieJar installs a cookie jar into the client, configured with the
// options argument.  The argument may be nil.
func CookieJar(opts *cookiejar.Options) ClientOption {
	return ClientOptionFunc(func(c *http.Client, _ *http.Transport) error {
		jar, err := cookiejar.New(opts)
		if err != nil {
			return merry.Wrap(err)
		}
		c.Jar = jar
		return nil
	})
}

// ProxyURL proxies all calls through a single proxy URL.
func ProxyURL(proxyURL string) ClientOption {
	return ClientOptionFunc(func(_ *http.Client, t *http.Transport) error {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return merry.Prepend(err, "invalid proxy url")
		}
		t.Proxy = func(*http.Request) (*url.URL, error) {
			return u, nil
		}
		return nil
	})
}

// SkipVerify sets the TLS config's InsecureSkipVerify flag.
func SkipVerify(skip bool) ClientOption {
	return ClientOptionFunc(func(_ *http.Client, t *http.Transport) error {
		if t.TLSClientConfig == nil {
			t.TLSClientConfig = &tls.Config{}
		}
		t.TLSClientConfig.InsecureSkipVerify = skip
		return nil
	})
}

// MaxIdleConnsPerHost configures the transport's per-host idle
// connection limit.
func MaxIdleConnsPerHost(n int) ClientOption {
	return ClientOptionFunc(func(_ *http.Client, t *http.Transport) error {
		t.MaxIdleConnsPerHost = n
		return nil
	})
}
