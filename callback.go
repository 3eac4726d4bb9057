package hxwidget

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/pthm/hxwidget/lib/options"
)

// EventFactory builds the event of one callback request. Returning nil
// skips the broadcast.
type EventFactory func(b EventBase) Event

// ScriptFactory produces the client script that performs the round trip.
type ScriptFactory func(cb *Callback) string

// RawEvent is the event of callbacks created without an EventFactory.
type RawEvent struct {
	EventBase
}

// Callback turns a client event into a server round trip.
//
// A callback is attached to its owning component and receives an id from
// the page when the owner's tree is mounted. The id stays the same for the
// page's lifetime, even if the owner is removed and added back.
//
//	click := hxwidget.NewCallback("menu.click",
//	    func(b hxwidget.EventBase) hxwidget.Event {
//	        return &ClickEvent{EventBase: b, Index: b.Params().Int("index", -1)}
//	    },
//	    hxwidget.WithParam("index", "ui.item.index()"),
//	)
//	m.Attach(click)
//
// On each request the callback decodes the query parameters, builds
// exactly one event with its factory and broadcasts it from the owner.
type Callback struct {
	kind      string
	factory   EventFactory
	script    ScriptFactory
	params    *options.Options
	signature string
	method    string
	mode      BroadcastMode

	owner Component
	page  *Page
	id    string
	url   string
}

// CallbackOption configures a Callback.
type CallbackOption func(*Callback)

// WithParam sends the value of a client expression as a query parameter.
// Parameters are sent in the order they were added.
func WithParam(name, expr string) CallbackOption {
	return func(c *Callback) {
		c.params.Set(name, options.Raw(expr))
	}
}

// WithSignature sets the handler signature used by Function. The default
// is "function(event, ui)".
func WithSignature(sig string) CallbackOption {
	return func(c *Callback) {
		c.signature = sig
	}
}

// WithScript replaces the default htmx.ajax round trip script.
func WithScript(fn ScriptFactory) CallbackOption {
	return func(c *Callback) {
		c.script = fn
	}
}

// WithBroadcast sets how the event travels through the tree. The default
// is Bubble.
func WithBroadcast(mode BroadcastMode) CallbackOption {
	return func(c *Callback) {
		c.mode = mode
	}
}

// WithMethod sets the HTTP method of the round trip. The default is GET.
func WithMethod(method string) CallbackOption {
	return func(c *Callback) {
		c.method = strings.ToUpper(method)
	}
}

// NewCallback creates a callback producing events of the given kind.
func NewCallback(kind string, factory EventFactory, opts ...CallbackOption) *Callback {
	c := &Callback{
		kind:      kind,
		factory:   factory,
		params:    options.New(),
		signature: "function(event, ui)",
		method:    http.MethodGet,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Callback) attach(owner Component) {
	if c.owner != nil && c.owner.base() != owner.base() {
		panic("hxwidget: callback " + c.kind + " is already attached to " + c.owner.MarkupID())
	}
	c.owner = owner
}

// Kind returns the kind of the events the callback produces.
func (c *Callback) Kind() string { return c.kind }

// Owner returns the owning component.
func (c *Callback) Owner() Component { return c.owner }

// ID returns the page-unique callback id, or "" before the callback is
// mounted.
func (c *Callback) ID() string { return c.id }

// Method returns the HTTP method of the round trip.
func (c *Callback) Method() string { return c.method }

// URL returns the callback endpoint, <callback path>?<token>, or "" before
// the callback is mounted.
func (c *Callback) URL() string { return c.url }

// Values returns the client expression object sent with each request,
// e.g. {"index":ui.item.index()}.
func (c *Callback) Values() string {
	s, err := c.params.Script()
	if err != nil {
		return "{}"
	}
	return s
}

// Script returns the client script that performs the round trip.
func (c *Callback) Script() string {
	if c.script != nil {
		return c.script(c)
	}
	return c.DefaultScript()
}

// DefaultScript returns the htmx.ajax round trip:
//
//	htmx.ajax("GET", "/_w/?tok", {swap: "none", values: {"index":ui.item.index()}})
func (c *Callback) DefaultScript() string {
	method, _ := options.Script(options.String(c.method))
	u, _ := options.Script(options.String(c.url))

	var sb strings.Builder
	sb.WriteString("htmx.ajax(")
	sb.WriteString(method)
	sb.WriteString(", ")
	sb.WriteString(u)
	sb.WriteString(`, {swap: "none"`)
	if c.params.Len() > 0 {
		sb.WriteString(", values: ")
		sb.WriteString(c.Values())
	}
	sb.WriteString("})")
	return sb.String()
}

// Function wraps Script in the widget handler signature, ready to be used
// as a raw option value:
//
//	opts.Set("click", options.Raw(cb.Function()))
//
// With Settings.Debug the body starts with a comment naming the callback.
func (c *Callback) Function() string {
	var sb strings.Builder
	sb.WriteString(c.signature)
	sb.WriteString(" { ")
	if c.page != nil && c.page.settings.Debug {
		sb.WriteString("/* ")
		sb.WriteString(c.id)
		sb.WriteString(" ")
		sb.WriteString(strings.ReplaceAll(c.kind, "*/", ""))
		sb.WriteString(" */ ")
	}
	sb.WriteString(c.Script())
	sb.WriteString("; }")
	return sb.String()
}

// Attrs returns htmx attributes firing the callback from markup on the
// given trigger. Parameter expressions are evaluated with hx-vals.
//
//	<button { cb.Attrs("click")... }>Refresh</button>
func (c *Callback) Attrs(trigger string) templ.Attributes {
	attrs := templ.Attributes{}

	switch c.method {
	case http.MethodPost:
		attrs["hx-post"] = c.url
	case http.MethodPut:
		attrs["hx-put"] = c.url
	case http.MethodPatch:
		attrs["hx-patch"] = c.url
	case http.MethodDelete:
		attrs["hx-delete"] = c.url
	default:
		attrs["hx-get"] = c.url
	}
	if trigger != "" {
		attrs["hx-trigger"] = trigger
	}
	attrs["hx-swap"] = string(SwapNone)
	if c.params.Len() > 0 {
		attrs["hx-vals"] = "js:" + c.Values()
	}
	return attrs
}

// handle decodes one request and broadcasts its event.
func (c *Callback) handle(ctx context.Context, values url.Values, target *Collector, logger *slog.Logger) error {
	base := EventBase{
		kind:     c.kind,
		callback: c.id,
		source:   c.owner,
		params:   Params{values: values, logger: logger},
		target:   target,
	}

	var e Event
	if c.factory != nil {
		e = c.factory(base)
	} else {
		e = &RawEvent{EventBase: base}
	}
	if e == nil {
		return nil
	}
	return Broadcast(ctx, e, c.mode)
}
