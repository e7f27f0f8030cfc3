package rearm

// Handler is a continuation invoked by the controller.  Handlers
// receive the controller explicitly; there is no implicit binding.
type Handler func(*Controller)

// slotKind tags the active variant of the observer slot.
type slotKind int

const (
	slotNone slotKind = iota
	slotChange
	slotReady
	slotSuccess
	slotFuture
)

// observer is the controller's single completion-observer slot,
// modeled as a tagged variant.  Registration methods assign a whole
// new value atomically; the notification path matches on the kind.
type observer struct {
	kind    slotKind
	handler Handler // slotChange, slotReady
	okH     Handler // slotSuccess
	errH    Handler // slotSuccess
	fut     *Future // slotFuture
}

// deliver routes one transport notification to the active variant.
// Non-terminal transitions reach only slotChange; terminal delivery
// for the once-only variants has already been deduplicated by the
// caller.
func (o observer) deliver(c *Controller, terminal bool) {
	switch o.kind {
	case slotChange:
		o.handler(c)
	case slotReady:
		if terminal {
			o.handler(c)
		}
	case slotSuccess:
		if terminal {
			if c.IsSuccess() {
				o.okH(c)
			} else {
				o.errH(c)
			}
		}
	case slotFuture:
		if terminal {
			o.fut.settle(c)
		}
	}
}

func (c *Controller) setSlot(o observer) {
	c.mu.Lock()
	c.slot = o
	c.mu.Unlock()
}

// OnChange registers a handler invoked on every lifecycle transition,
// terminal included.  It replaces any previously registered
// completion observer.
func (c *Controller) OnChange(h Handler) {
	if h == nil {
		c.ClearObserver()
		return
	}
	c.setSlot(observer{kind: slotChange, handler: h})
}

// OnReady registers a handler invoked exactly once, on the terminal
// transition only.  It replaces any previously registered completion
// observer.
func (c *Controller) OnReady(h Handler) {
	if h == nil {
		c.ClearObserver()
		return
	}
	c.setSlot(observer{kind: slotReady, handler: h})
}

// OnSuccess registers a pair of handlers invoked exactly once at the
// terminal transition: ok when the outcome classifies as success, fail
// otherwise.  It replaces any previously registered completion
// observer.  Either handler may be nil, in which case that outcome is
// silently dropped.
func (c *Controller) OnSuccess(ok, fail Handler) {
	if ok == nil {
		ok = func(*Controller) {}
	}
	if fail == nil {
		fail = func(*Controller) {}
	}
	c.setSlot(observer{kind: slotSuccess, okH: ok, errH: fail})
}

// OnTimeout registers the transport-timeout handler.  Unlike the
// completion observers, the timeout handler has its own slot: it is
// not displaced by OnChange/OnReady/OnSuccess/Future and does not
// displace them.  A nil handler clears the slot.
func (c *Controller) OnTimeout(h Handler) {
	c.mu.Lock()
	c.onTimeout = h
	c.mu.Unlock()
}

// ClearObserver empties the completion-observer slot.  Subsequent
// transitions are not delivered to anyone until a new registration is
// made.
func (c *Controller) ClearObserver() {
	c.setSlot(observer{})
}
