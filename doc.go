// Package hxwidget bridges server-rendered pages and client-side widgets
// (spinners, menus, accordions) driven by jQuery UI.
//
// A page is a tree of components. Widget behaviors attached to components
// emit the script that creates the client widget from an ordered options
// container; callbacks attached to components turn client events into
// server round trips, which are decoded into typed events and broadcast
// through the tree. Listeners react by changing state and asking for parts
// of the page to be rendered again.
//
// # Core Concepts
//
// Components embed *Base and optionally implement Renderer and Listener:
//
//	type Feedback struct {
//	    *hxwidget.Base
//	    lines []string
//	}
//
//	func (f *Feedback) Render(ctx context.Context) templ.Component { ... }
//
//	func (f *Feedback) OnEvent(ctx context.Context, e hxwidget.Event) error {
//	    switch ev := e.(type) {
//	    case *menu.ClickEvent:
//	        f.lines = append(f.lines, fmt.Sprintf("clicked %d", ev.Index))
//	        ev.Target().Rerender(f)
//	    }
//	    return nil
//	}
//
// # Widget Behaviors
//
// A Behavior binds a selector, a widget method and an options container.
// Configure hooks run once per render pass, on a copy of the container,
// right before it is serialized:
//
//	b := hxwidget.NewBehavior("", "spinner", opts,
//	    hxwidget.WithConfigure(func(c *hxwidget.Config) {
//	        c.Set("culture", options.String(s.culture))
//	    }),
//	)
//
// # Callbacks
//
// A Callback gets a page-unique id when its owner is mounted. Its Script
// performs the round trip with htmx.ajax; Function wraps the script in the
// widget handler signature so it can be passed as a raw option:
//
//	c.Callback("click", clickCallback) // "click":function(event, ui) { htmx.ajax(...); }
//
// Callback URLs carry a msgpack token naming the page and the callback:
//   - Signed (default): HMAC-authenticated, visible but tamper-proof
//   - Encrypted: AES-GCM encrypted, opaque to clients (Settings.Sensitive)
//
// CSRF protection is automatic - mutating methods require the HX-Request
// header that htmx sends, unless the request is a datastar event stream.
//
// # Responses
//
// The instructions collected while handling one request are flushed as
// htmx out-of-band swaps, or as datastar server-sent events when the client
// accepts text/event-stream. Rerendering a component also re-runs the init
// scripts of the widgets inside it.
//
// Listeners can also queue one-time feedback messages:
//
//	e.Target().Flash(hxwidget.FlashInfo, "Saved")
//
// The widgets/spinner, widgets/menu and widgets/accordion packages are
// built on these pieces.
//
// # Errors
//
// Option values that cannot be serialized fail the render with
// ErrConfiguration; unresolvable dependencies with ErrResourceResolution.
// Malformed callback parameters fall back to defaults. A listener failure
// fails the request with ErrDispatch; instructions collected before the
// failure are still written.
package hxwidget
