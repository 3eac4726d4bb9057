package hxwidget

import (
	"context"
	"fmt"
)

// BroadcastMode selects which components of the tree receive an event.
type BroadcastMode int

const (
	// Bubble delivers to the source component, then each ancestor up to the
	// root.
	Bubble BroadcastMode = iota

	// Breadth delivers to every component of the source's tree, pre-order
	// from the root.
	Breadth

	// Exact delivers to the source component only.
	Exact
)

func (m BroadcastMode) String() string {
	switch m {
	case Bubble:
		return "bubble"
	case Breadth:
		return "breadth"
	case Exact:
		return "exact"
	}
	return fmt.Sprintf("BroadcastMode(%d)", int(m))
}

// Broadcast delivers e through the composition tree of its source.
//
// For each visited component the order is: attachments implementing
// Listener in attach order, the component itself if it is a Listener, then
// listeners added with AddListener. Every listener is called at most once
// per broadcast.
//
// A listener error or panic stops the broadcast and is returned wrapped in
// ErrDispatch. Instructions already added to the event's collector are kept.
func Broadcast(ctx context.Context, e Event, mode BroadcastMode) error {
	src := e.Source()
	if src == nil {
		return nil
	}

	var route []Component
	switch mode {
	case Exact:
		route = []Component{src}
	case Breadth:
		walk(src.base().Root(), func(c Component) bool {
			route = append(route, c)
			return true
		})
	default:
		for c := src; c != nil; c = c.base().parent {
			route = append(route, c)
		}
	}

	for _, c := range route {
		for _, l := range listenersOf(c) {
			if err := deliver(ctx, l, e); err != nil {
				return fmt.Errorf("%w: %s at %s: %w", ErrDispatch, e.Kind(), c.MarkupID(), err)
			}
		}
	}
	return nil
}

func listenersOf(c Component) []Listener {
	b := c.base()
	var out []Listener
	for _, a := range b.attachments {
		if l, ok := a.(Listener); ok {
			out = append(out, l)
		}
	}
	if l, ok := c.(Listener); ok {
		out = append(out, l)
	}
	return append(out, b.listeners...)
}

func deliver(ctx context.Context, l Listener, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return l.OnEvent(ctx, e)
}
