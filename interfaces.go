package hxwidget

import (
	"context"
	"log/slog"

	"github.com/a-h/templ"
)

// Renderer is implemented by components that produce markup.
//
// The rendered root element must carry the component's MarkupID as its id
// attribute; partial updates locate the element by that id.
//
//	func (c *Feedback) Render(ctx context.Context) templ.Component {
//	    return feedbackTemplate(c.MarkupID(), c.messages)
//	}
//
// Render is called for the initial page and again for every rerender
// instruction that names the component. It should read state and produce
// HTML without side effects.
type Renderer interface {
	Render(ctx context.Context) templ.Component
}

// Listener is implemented by components (and plain listeners added with
// AddListener) that react to broadcast events.
//
// Listeners type-switch over the concrete event types they understand and
// ignore everything else:
//
//	func (c *Accordion) OnEvent(ctx context.Context, e hxwidget.Event) error {
//	    switch ev := e.(type) {
//	    case *ClickEvent:
//	        return c.onClick(ctx, ev)
//	    case *ActivateEvent:
//	        return c.onActivate(ctx, ev)
//	    }
//	    return nil
//	}
//
// A returned error aborts the broadcast and fails the request.
type Listener interface {
	OnEvent(ctx context.Context, e Event) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ctx context.Context, e Event) error

// OnEvent calls f.
func (f ListenerFunc) OnEvent(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Host is the page-layer view a widget behavior needs while rendering.
// *Page implements it.
type Host interface {
	// Resolve returns r with its URL filled in.
	Resolve(r Resource) (Resource, error)

	// HasElement reports whether selector currently matches a live element.
	HasElement(selector string) bool

	// Logger returns the page logger.
	Logger() *slog.Logger
}
