package dom

import (
	"context"

	"golang.org/x/net/html"
)

// Listener handles a dispatched event.
type Listener func(ev *Event)

// Event is a bubbling DOM event.
type Event struct {
	Type   string
	Target *Element

	ctx       context.Context
	prevented bool
	stopped   bool
}

// Context returns the context the event was dispatched with.
func (e *Event) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

// PreventDefault marks the default action as cancelled.
func (e *Event) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.prevented }

// StopPropagation stops bubbling after the current node's listeners.
func (e *Event) StopPropagation() { e.stopped = true }

// Dispatch fires an event of type typ at target. Listeners on the target
// run first, then on each ancestor, then document-level listeners.
func (d *Document) Dispatch(ctx context.Context, target *Element, typ string) *Event {
	ev := &Event{Type: typ, Target: target, ctx: ctx}

	d.mu.Lock()
	var path [][]registration
	if target != nil {
		for n := target.n; n != nil; n = n.Parent {
			path = append(path, matching(d.listeners[n], typ))
		}
	}
	path = append(path, matching(d.global, typ))
	d.mu.Unlock()

	for _, regs := range path {
		for _, r := range regs {
			r.fn(ev)
		}
		if ev.stopped {
			break
		}
	}
	return ev
}

// Click dispatches a click at el and reports whether the default action
// should proceed.
func (d *Document) Click(ctx context.Context, el *Element) bool {
	return !d.Dispatch(ctx, el, "click").DefaultPrevented()
}

// Submit dispatches a submit event at a form.
func (d *Document) Submit(ctx context.Context, form *Element) bool {
	return !d.Dispatch(ctx, form, "submit").DefaultPrevented()
}

func matching(regs []registration, typ string) []registration {
	var out []registration
	for _, r := range regs {
		if r.typ == typ {
			out = append(out, r)
		}
	}
	return out
}

// nodeOf exposes the underlying node to package-internal helpers.
func nodeOf(e *Element) *html.Node {
	if e == nil {
		return nil
	}
	return e.n
}
