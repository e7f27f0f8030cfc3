// Package rearm configures, dispatches, and classifies re-armable HTTP
// requests.
//
// A Descriptor accumulates the configuration for one logical request:
// method, URL, body, credentials, headers, timeout, and the expected
// response kind.  Descriptors are mutable, caller-owned, and freely
// reusable: the same descriptor can be dispatched any number of times,
// optionally overriding the body per dispatch.
//
//	tr, _ := httptransport.New()
//	d := rearm.MustNew(tr,
//	    rearm.URL("https://example.com/things"),
//	    rearm.Header("Accept", "application/json"),
//	    rearm.ResponseKind(rearm.KindJSON),
//	)
//
// Each descriptor owns a Controller, which drives the underlying
// Transport through its lifecycle (Unsent, Opened, HeadersReceived,
// Loading, Done) and classifies the terminal state:
//
//	c := d.Controller()
//	c.OnSuccess(
//	    func(c *rearm.Controller) { fmt.Println(c.ResponseText()) },
//	    func(c *rearm.Controller) { fmt.Println(c.Err()) },
//	)
//	err := c.Dispatch(nil)
//
// Descriptors can also be configured fluently:
//
//	d.Reset("https://example.com/things", body, "").
//	    SetHeader("X-Tenant", "acme").
//	    SetTimeout(10 * time.Second)
//
// A controller holds at most one completion observer at a time.
// Registering a new one with OnChange, OnReady, OnSuccess, or Future
// silently replaces the previous registration; the last registration
// wins.
//
// Classification is strict.  A response is successful only if its
// status code is in [200,300) and, for response kinds other than
// KindText, the transport actually produced a decoded value.  A 2XX
// response whose body fails to decode is a failure (ErrCodeBodyType).
// The taxonomy is advisory: aside from configuration errors returned
// synchronously by Dispatch, the controller never panics or forces an
// error on the caller.  Handlers consult IsSuccess, ErrorState, and Err
// at their own discretion.
//
// The Transport interface abstracts the network stack.  The
// httptransport subpackage provides the standard implementation over
// net/http; MockTransport in this package is a scripted stand-in for
// tests.
package rearm
