// Package accordion provides a jQuery UI accordion whose panels are
// tabs.
//
// The accordion always reports panel activation to the server; header
// clicks are reported only when enabled with WithClick. Lazy tabs load
// their content on the server the first time they become active.
package accordion

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/pthm/hxwidget"
	"github.com/pthm/hxwidget/lib/options"
)

// Method is the jQuery UI widget method.
const Method = "accordion"

// Event kinds.
const (
	ActivateKind = "accordion.activate"
	ClickKind    = "accordion.click"
)

// activeIndex reads the active panel from the widget in an activate
// handler, where jQuery UI sets event.target to the widget element.
const activeIndex = `$(event.target).accordion("option", "active")`

// clickedIndex reads the active panel in a delegated click handler. The
// target is the clicked header there, so the bound root is used instead.
const clickedIndex = `$(event.currentTarget).accordion("option", "active")`

// LoadFunc produces the content of a lazy tab.
type LoadFunc func(ctx context.Context) (templ.Component, error)

// Tab is one header and panel pair.
type Tab struct {
	Title   string
	Content templ.Component
	Hidden  bool

	load   LoadFunc
	loaded bool
}

// NewTab creates a tab with static content.
func NewTab(title string, content templ.Component) *Tab {
	return &Tab{Title: title, Content: content}
}

// NewLazyTab creates a tab whose content is loaded when it is first
// activated.
func NewLazyTab(title string, load LoadFunc) *Tab {
	return &Tab{Title: title, load: load}
}

// Lazy reports whether the tab still has to load its content.
func (t *Tab) Lazy() bool { return t.load != nil && !t.loaded }

// Load runs the tab's loader once. Static tabs and loaded tabs are left
// untouched.
func (t *Tab) Load(ctx context.Context) error {
	if !t.Lazy() {
		return nil
	}
	content, err := t.load(ctx)
	if err != nil {
		return fmt.Errorf("load tab %q: %w", t.Title, err)
	}
	t.Content = content
	t.loaded = true
	return nil
}

// ActivateEvent is broadcast when a panel becomes active. Index counts
// visible tabs and is -1 when every panel is collapsed.
type ActivateEvent struct {
	hxwidget.EventBase
	Index int
	Tab   *Tab
}

// ClickEvent is broadcast when a header is clicked.
type ClickEvent struct {
	hxwidget.EventBase
	Index int
	Tab   *Tab
}

// Accordion renders visible tabs as header and panel pairs.
type Accordion struct {
	*hxwidget.Base
	tabs        []*Tab
	opts        *options.Options
	behavior    *hxwidget.Behavior
	activate    *hxwidget.Callback
	click       *hxwidget.Callback
	onActivate  func(ctx context.Context, e *ActivateEvent) error
	onClick     func(ctx context.Context, e *ClickEvent) error
	onConfigure func(c *hxwidget.Config)
}

// Option configures an Accordion.
type Option func(*Accordion)

// WithOptions sets the widget options container.
func WithOptions(opts *options.Options) Option {
	return func(a *Accordion) {
		a.opts = opts
	}
}

// OnActivate sets the handler called after a panel is activated and its
// lazy content, if any, is loaded.
func OnActivate(fn func(ctx context.Context, e *ActivateEvent) error) Option {
	return func(a *Accordion) {
		a.onActivate = fn
	}
}

// WithClick enables header click round trips.
func WithClick(fn func(ctx context.Context, e *ClickEvent) error) Option {
	return func(a *Accordion) {
		a.onClick = fn
	}
}

// OnConfigure adds a hook run at the configure checkpoint.
func OnConfigure(fn func(c *hxwidget.Config)) Option {
	return func(a *Accordion) {
		a.onConfigure = fn
	}
}

// New creates an accordion.
func New(id string, tabs []*Tab, opts ...Option) *Accordion {
	a := &Accordion{tabs: tabs}
	a.Base = hxwidget.NewBase(a, id)
	for _, o := range opts {
		o(a)
	}
	if a.opts == nil {
		a.opts = options.New()
	}

	a.activate = hxwidget.NewCallback(ActivateKind, a.newActivateEvent,
		hxwidget.WithParam("index", activeIndex),
	)
	a.click = hxwidget.NewCallback(ClickKind, a.newClickEvent,
		hxwidget.WithParam("index", clickedIndex),
		hxwidget.WithSignature("function(event)"),
	)
	a.behavior = hxwidget.NewBehavior("", Method, a.opts,
		hxwidget.WithConfigure(a.configure),
	)
	a.Attach(a.activate, a.click, a.behavior)
	return a
}

func (a *Accordion) configure(c *hxwidget.Config) {
	if a.onConfigure != nil {
		a.onConfigure(c)
	}
	c.Callback("activate", a.activate)
	if a.onClick != nil {
		c.OnCallback("click", a.click)
	}
}

func (a *Accordion) newActivateEvent(b hxwidget.EventBase) hxwidget.Event {
	index, tab := a.visible(b.Params().Int("index", -1))
	return &ActivateEvent{EventBase: b, Index: index, Tab: tab}
}

func (a *Accordion) newClickEvent(b hxwidget.EventBase) hxwidget.Event {
	index, tab := a.visible(b.Params().Int("index", -1))
	return &ClickEvent{EventBase: b, Index: index, Tab: tab}
}

func (a *Accordion) visible(index int) (int, *Tab) {
	tabs := a.VisibleTabs()
	if index < 0 || index >= len(tabs) {
		return -1, nil
	}
	return index, tabs[index]
}

// Options returns the widget options container.
func (a *Accordion) Options() *options.Options { return a.opts }

// Behavior returns the widget behavior.
func (a *Accordion) Behavior() *hxwidget.Behavior { return a.behavior }

// ActivateCallback returns the activate callback.
func (a *Accordion) ActivateCallback() *hxwidget.Callback { return a.activate }

// ClickCallback returns the click callback. It is only bound on the
// client when WithClick was given.
func (a *Accordion) ClickCallback() *hxwidget.Callback { return a.click }

// Tabs returns every tab, hidden ones included.
func (a *Accordion) Tabs() []*Tab {
	out := make([]*Tab, len(a.tabs))
	copy(out, a.tabs)
	return out
}

// VisibleTabs returns the rendered tabs. Client indices refer to this
// list.
func (a *Accordion) VisibleTabs() []*Tab {
	var out []*Tab
	for _, t := range a.tabs {
		if !t.Hidden {
			out = append(out, t)
		}
	}
	return out
}

// AddTab appends tabs.
func (a *Accordion) AddTab(tabs ...*Tab) *Accordion {
	a.tabs = append(a.tabs, tabs...)
	return a
}

// ActiveTab returns the index of the active panel: 0 when unset, -1 when
// every panel is collapsed.
func (a *Accordion) ActiveTab() int {
	v, ok := a.opts.Get("active")
	if !ok {
		return 0
	}
	if n, ok := options.AsInt(v); ok {
		return int(n)
	}
	return -1
}

// SetActiveTab sets the panel opened on the next render. -1 collapses
// every panel, which the widget only honors with "collapsible" set.
func (a *Accordion) SetActiveTab(index int) *Accordion {
	if index < 0 {
		a.opts.Set("active", options.Bool(false))
		return a
	}
	a.opts.Set("active", options.Int(int64(index)))
	return a
}

// OnEvent keeps the active index in sync, loads lazy tabs and calls the
// handlers.
func (a *Accordion) OnEvent(ctx context.Context, e hxwidget.Event) error {
	if e.Source() != hxwidget.Component(a) {
		return nil
	}
	switch e := e.(type) {
	case *ActivateEvent:
		a.SetActiveTab(e.Index)
		if e.Tab != nil && e.Tab.Lazy() {
			if err := e.Tab.Load(ctx); err != nil {
				return err
			}
			e.Target().Rerender(a)
		}
		if a.onActivate != nil {
			return a.onActivate(ctx, e)
		}
	case *ClickEvent:
		if a.onClick != nil {
			return a.onClick(ctx, e)
		}
	}
	return nil
}

// Render writes the headers and panels. The active tab is loaded first
// when it is lazy.
func (a *Accordion) Render(ctx context.Context) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		tabs := a.VisibleTabs()
		if active := a.ActiveTab(); active >= 0 && active < len(tabs) {
			if err := tabs[active].Load(ctx); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, `<div id="%s">`, templ.EscapeString(a.MarkupID())); err != nil {
			return err
		}
		for _, t := range tabs {
			if _, err := fmt.Fprintf(w, `<h3>%s</h3><div>`, templ.EscapeString(t.Title)); err != nil {
				return err
			}
			if t.Content != nil {
				if err := t.Content.Render(ctx, w); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</div>"); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</div>")
		return err
	})
}
