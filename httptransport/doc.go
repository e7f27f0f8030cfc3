// Package httptransport implements the rearm.Transport capability on
// top of the standard net/http package.
//
// A Transport is created with New, optionally configured with a
// custom Doer, middleware, or http.Client options:
//
//	tr, err := httptransport.New(
//	    httptransport.Client(httptransport.ClientTimeout(30*time.Second)),
//	    httptransport.Use(httptransport.RequestID()),
//	)
//	d := rearm.MustNew(tr, rearm.URL("https://example.com"))
//
// Requests are executed through a Doer, which defaults to
// http.DefaultClient.  Middleware wraps the Doer to add behavior such
// as wire dumps (Dump, DumpToLog), request IDs (RequestID), or
// exchange capture (Inspector).
//
// The transport decodes response bodies according to the armed
// response kind: KindText yields a string, KindArrayBuffer and
// KindBlob yield byte slices, KindJSON unmarshals into an untyped
// value, and KindDocument parses HTML with golang.org/x/net/html.  A
// decode failure yields a nil decoded value, which the controller's
// classification turns into a body-type error.
package httptransport
