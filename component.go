package hxwidget

import "context"

// Component is a node of the page composition tree.
//
// User components embed *Base, which implements the interface:
//
//	type Feedback struct {
//	    *hxwidget.Base
//	    messages []string
//	}
//
//	func NewFeedback(id string) *Feedback {
//	    c := &Feedback{}
//	    c.Base = hxwidget.NewBase(c, id)
//	    return c
//	}
//
// Components that produce markup also implement Renderer; components that
// react to events implement Listener.
type Component interface {
	MarkupID() string
	base() *Base
}

// Attachment is attached to a component with Base.Attach. Widget
// behaviors and callbacks are attachments.
type Attachment interface {
	attach(owner Component)
}

// Base is the embeddable implementation of Component.
//
// Base is not safe for concurrent use. Trees are built during the page
// setup phase and mutated only while the page is locked for a callback
// dispatch.
type Base struct {
	id          string
	self        Component
	parent      Component
	children    []Component
	attachments []Attachment
	listeners   []Listener
	page        *Page
}

// NewBase creates the base for self, the component that embeds it.
// The id becomes the component's markup id and must be unique within the
// page.
func NewBase(self Component, id string) *Base {
	return &Base{id: id, self: self}
}

func (b *Base) base() *Base { return b }

// MarkupID returns the id of the component's root element.
func (b *Base) MarkupID() string { return b.id }

// Self returns the component that embeds this base.
func (b *Base) Self() Component { return b.self }

// Parent returns the parent component, or nil for a root.
func (b *Base) Parent() Component { return b.parent }

// Children returns the child components in insertion order.
func (b *Base) Children() []Component {
	out := make([]Component, len(b.children))
	copy(out, b.children)
	return out
}

// Add appends children. Callbacks in the added subtrees are registered
// immediately when this component is already mounted on a page.
//
// Panics if a child already has a parent.
func (b *Base) Add(children ...Component) *Base {
	for _, child := range children {
		cb := child.base()
		if cb.parent != nil {
			panic("hxwidget: component " + child.MarkupID() + " already has a parent")
		}
		cb.parent = b.self
		b.children = append(b.children, child)
		if p := b.Page(); p != nil {
			p.bindTree(child)
		}
	}
	return b
}

// Remove detaches a child. Callbacks owned by the removed subtree stop
// resolving.
func (b *Base) Remove(child Component) bool {
	for i, c := range b.children {
		if c.base() != child.base() {
			continue
		}
		if p := b.Page(); p != nil {
			p.unbindTree(child)
		}
		b.children = append(b.children[:i], b.children[i+1:]...)
		child.base().parent = nil
		return true
	}
	return false
}

// Attach adds widget behaviors or callbacks to the component.
func (b *Base) Attach(attachments ...Attachment) *Base {
	for _, a := range attachments {
		a.attach(b.self)
		b.attachments = append(b.attachments, a)
		if cb, ok := a.(*Callback); ok {
			if p := b.Page(); p != nil {
				p.register(cb)
			}
		}
	}
	return b
}

// Attachments returns the attached behaviors and callbacks.
func (b *Base) Attachments() []Attachment {
	out := make([]Attachment, len(b.attachments))
	copy(out, b.attachments)
	return out
}

// AddListener registers a listener that observes every event broadcast
// through this component, after the component itself.
func (b *Base) AddListener(l Listener) *Base {
	b.listeners = append(b.listeners, l)
	return b
}

// Listen is AddListener for a function.
func (b *Base) Listen(fn func(ctx context.Context, e Event) error) *Base {
	return b.AddListener(ListenerFunc(fn))
}

// Page returns the page the component's tree is mounted on, or nil.
func (b *Base) Page() *Page {
	n := b
	for n.parent != nil {
		n = n.parent.base()
	}
	return n.page
}

// Root returns the root of the component's tree.
func (b *Base) Root() Component {
	n := b
	for n.parent != nil {
		n = n.parent.base()
	}
	return n.self
}

// walk visits c and its descendants in pre-order.
func walk(c Component, fn func(Component) bool) bool {
	if !fn(c) {
		return false
	}
	for _, child := range c.base().children {
		if !walk(child, fn) {
			return false
		}
	}
	return true
}

// Find returns the component with the given markup id in c's subtree.
func Find(c Component, markupID string) (Component, bool) {
	var found Component
	walk(c, func(n Component) bool {
		if n.MarkupID() == markupID {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// Behaviors returns the widget behaviors attached to c.
func Behaviors(c Component) []*Behavior {
	var out []*Behavior
	for _, a := range c.base().attachments {
		if wb, ok := a.(*Behavior); ok {
			out = append(out, wb)
		}
	}
	return out
}

// Callbacks returns the callbacks attached to c.
func Callbacks(c Component) []*Callback {
	var out []*Callback
	for _, a := range c.base().attachments {
		if cb, ok := a.(*Callback); ok {
			out = append(out, cb)
		}
	}
	return out
}
