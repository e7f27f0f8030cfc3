package rearm_test

import (
	"fmt"

	"github.com/rearmlib/rearm"
)

func Example() {
	mt := &rearm.MockTransport{}

	d := rearm.MustNew(mt,
		rearm.URL("http://test/things"),
		rearm.Header("Accept", "application/json"),
	)

	c := d.Controller()
	c.OnSuccess(
		func(c *rearm.Controller) { fmt.Println("ok:", c.ResponseText()) },
		func(c *rearm.Controller) { fmt.Println("failed:", c.Err()) },
	)

	if err := c.Dispatch(nil); err != nil {
		fmt.Println(err)
		return
	}

	// a real transport delivers this asynchronously; the mock is
	// driven by hand
	mt.Complete(200, `{"color":"red"}`, `{"color":"red"}`)

	// Output: ok: {"color":"red"}
}

func Example_classification() {
	mt := &rearm.MockTransport{}
	c := rearm.MustNew(mt, rearm.URL("http://test/things")).Controller()

	c.OnReady(func(c *rearm.Controller) {
		fmt.Println(c.IsSuccess(), c.ErrorState(), c.Err())
	})

	if err := c.Dispatch(nil); err != nil {
		fmt.Println(err)
		return
	}
	mt.Complete(404, "not found", "not found")

	// Output: false HTTPStatus HTTP 404
}

func ExampleDescriptor_Reset() {
	mt := &rearm.MockTransport{}
	d := rearm.MustNew(mt)

	// re-arm the same descriptor for consecutive dispatches
	d.Reset("http://test/red", "payload", "")

	c := d.Controller()
	if err := c.Dispatch(nil); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(mt.OpenMethod, mt.SentBody)
	mt.Complete(200, "", "")

	// the override is for this dispatch only
	if err := c.Dispatch("other payload"); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(mt.OpenMethod, mt.SentBody)
	fmt.Println(d.Body())

	// Output:
	// POST payload
	// POST other payload
	// payload
}
