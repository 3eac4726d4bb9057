// Package menu provides a jQuery UI menu built from a tree of items.
//
// Selecting an item fires a server round trip carrying the item's index in
// the menu's pre-order; the menu broadcasts a *ClickEvent that resolves the
// index back to the *Item.
package menu

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/pthm/hxwidget"
	"github.com/pthm/hxwidget/lib/options"
)

// Method is the jQuery UI widget method.
const Method = "menu"

// EventKind is the kind of the events produced by the select callback.
const EventKind = "menu.click"

// Item is a menu entry. Items with children render as sub-menus.
type Item struct {
	Label    string
	Disabled bool
	children []*Item
}

// NewItem creates an item with optional children.
func NewItem(label string, children ...*Item) *Item {
	return &Item{Label: label, children: children}
}

// Children returns the sub-items.
func (i *Item) Children() []*Item {
	out := make([]*Item, len(i.children))
	copy(out, i.children)
	return out
}

// HasChildren reports whether the item opens a sub-menu.
func (i *Item) HasChildren() bool { return len(i.children) > 0 }

// Add appends sub-items.
func (i *Item) Add(children ...*Item) *Item {
	i.children = append(i.children, children...)
	return i
}

// Remove drops a direct sub-item.
func (i *Item) Remove(child *Item) bool {
	for n, c := range i.children {
		if c == child {
			i.children = append(i.children[:n], i.children[n+1:]...)
			return true
		}
	}
	return false
}

// ClickEvent is broadcast when an item is selected. Index is -1 when the
// client sent no usable index, in which case Item is nil.
type ClickEvent struct {
	hxwidget.EventBase
	Index int
	Item  *Item
}

// Menu renders items as nested <ul> lists and binds the jQuery UI menu
// widget to the outer list.
type Menu struct {
	*hxwidget.Base
	items       []*Item
	opts        *options.Options
	behavior    *hxwidget.Behavior
	click       *hxwidget.Callback
	onClick     func(ctx context.Context, e *ClickEvent) error
	onConfigure func(c *hxwidget.Config)
}

// Option configures a Menu.
type Option func(*Menu)

// WithOptions sets the widget options container.
func WithOptions(opts *options.Options) Option {
	return func(m *Menu) {
		m.opts = opts
	}
}

// OnClick sets the handler called for every selected item.
func OnClick(fn func(ctx context.Context, e *ClickEvent) error) Option {
	return func(m *Menu) {
		m.onClick = fn
	}
}

// OnConfigure adds a hook run at the configure checkpoint, before the
// select callback is bound.
func OnConfigure(fn func(c *hxwidget.Config)) Option {
	return func(m *Menu) {
		m.onConfigure = fn
	}
}

// New creates a menu.
func New(id string, items []*Item, opts ...Option) *Menu {
	m := &Menu{items: items}
	m.Base = hxwidget.NewBase(m, id)
	for _, o := range opts {
		o(m)
	}
	if m.opts == nil {
		m.opts = options.New()
	}

	m.click = hxwidget.NewCallback(EventKind, m.newClickEvent,
		hxwidget.WithParam("index", `ui.item.data("index")`),
	)
	m.behavior = hxwidget.NewBehavior("", Method, m.opts,
		hxwidget.WithConfigure(m.configure),
	)
	m.Attach(m.click, m.behavior)
	return m
}

func (m *Menu) configure(c *hxwidget.Config) {
	if m.onConfigure != nil {
		m.onConfigure(c)
	}
	c.Callback("select", m.click)
}

func (m *Menu) newClickEvent(b hxwidget.EventBase) hxwidget.Event {
	index := b.Params().Int("index", -1)
	item, ok := m.Item(index)
	if !ok {
		index = -1
	}
	return &ClickEvent{EventBase: b, Index: index, Item: item}
}

// Options returns the widget options container.
func (m *Menu) Options() *options.Options { return m.opts }

// Behavior returns the widget behavior.
func (m *Menu) Behavior() *hxwidget.Behavior { return m.behavior }

// ClickCallback returns the select callback.
func (m *Menu) ClickCallback() *hxwidget.Callback { return m.click }

// Items returns the top-level items.
func (m *Menu) Items() []*Item {
	out := make([]*Item, len(m.items))
	copy(out, m.items)
	return out
}

// AddItem appends top-level items.
func (m *Menu) AddItem(items ...*Item) *Menu {
	m.items = append(m.items, items...)
	return m
}

// RemoveItem drops a top-level item.
func (m *Menu) RemoveItem(item *Item) bool {
	for n, it := range m.items {
		if it == item {
			m.items = append(m.items[:n], m.items[n+1:]...)
			return true
		}
	}
	return false
}

// Item returns the item at a pre-order index.
func (m *Menu) Item(index int) (*Item, bool) {
	if index < 0 {
		return nil, false
	}
	var found *Item
	n := 0
	var visit func(items []*Item) bool
	visit = func(items []*Item) bool {
		for _, it := range items {
			if n == index {
				found = it
				return false
			}
			n++
			if !visit(it.children) {
				return false
			}
		}
		return true
	}
	visit(m.items)
	return found, found != nil
}

// OnEvent calls the click handler.
func (m *Menu) OnEvent(ctx context.Context, e hxwidget.Event) error {
	switch e := e.(type) {
	case *ClickEvent:
		if e.Source() != hxwidget.Component(m) || m.onClick == nil {
			return nil
		}
		return m.onClick(ctx, e)
	}
	return nil
}

// Render writes the item tree.
func (m *Menu) Render(ctx context.Context) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		n := 0
		return writeList(w, m.MarkupID(), m.items, &n)
	})
}

func writeList(w io.Writer, id string, items []*Item, n *int) error {
	var err error
	if id != "" {
		_, err = fmt.Fprintf(w, `<ul id="%s">`, templ.EscapeString(id))
	} else {
		_, err = io.WriteString(w, "<ul>")
	}
	if err != nil {
		return err
	}
	for _, it := range items {
		class := ""
		if it.Disabled {
			class = ` class="ui-state-disabled"`
		}
		if _, err := fmt.Fprintf(w, `<li data-index="%d"%s><div>%s</div>`, *n, class, templ.EscapeString(it.Label)); err != nil {
			return err
		}
		*n++
		if it.HasChildren() {
			if err := writeList(w, "", it.children, n); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</li>"); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, "</ul>")
	return err
}
