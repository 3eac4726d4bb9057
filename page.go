package hxwidget

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"
)

// ScriptContainerID is the id of the element rerender scripts are appended
// to on htmx responses. Page.Body renders it.
const ScriptContainerID = "hxwidget-scripts"

// Page is one live instance of a composition tree.
//
// A page assigns ids to the callbacks of its tree, renders the head
// contributions of the widget behaviors and dispatches callback requests.
// Pages are created by a Registry, which serializes the requests addressed
// to the same page.
type Page struct {
	id       string
	root     Component
	settings Settings
	encoder  *Encoder
	logger   *slog.Logger
	created  time.Time

	mu        sync.Mutex
	callbacks map[string]*Callback
	seq       int
	delivered map[string]bool
}

// NewPage mounts root on a new page. The root must not have a parent or be
// mounted elsewhere.
func NewPage(root Component, settings Settings, encoder *Encoder, logger *slog.Logger) (*Page, error) {
	rb := root.base()
	if rb.parent != nil {
		return nil, fmt.Errorf("hxwidget: page root %s has a parent", root.MarkupID())
	}
	if rb.page != nil {
		return nil, fmt.Errorf("hxwidget: component %s is already mounted", root.MarkupID())
	}
	if encoder == nil {
		var err error
		if encoder, err = NewEncoder(settings.encoderKey()); err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	p := &Page{
		id:        uuid.NewString(),
		root:      root,
		settings:  settings.normalize(),
		encoder:   encoder,
		created:   time.Now(),
		callbacks: make(map[string]*Callback),
		delivered: make(map[string]bool),
	}
	p.logger = logger.With(slog.String("page", p.id))
	rb.page = p
	p.bindTree(root)
	return p, nil
}

// ID returns the page id.
func (p *Page) ID() string { return p.id }

// Root returns the root component.
func (p *Page) Root() Component { return p.root }

// Settings returns the page settings.
func (p *Page) Settings() Settings { return p.settings }

// Logger returns the page logger.
func (p *Page) Logger() *slog.Logger { return p.logger }

// Resolve fills in a resource URL from the page settings.
func (p *Page) Resolve(r Resource) (Resource, error) {
	return p.settings.Resolve(r)
}

// HasElement reports whether selector matches a component of the tree.
// Only "#id" selectors can be checked; anything else is assumed live.
func (p *Page) HasElement(selector string) bool {
	id, ok := strings.CutPrefix(selector, "#")
	if !ok || strings.ContainsAny(id, " .,:[>+~") {
		return true
	}
	_, found := Find(p.root, id)
	return found
}

// Callback returns a mounted callback by id.
func (p *Page) Callback(id string) (*Callback, bool) {
	cb, ok := p.callbacks[id]
	return cb, ok
}

// Callbacks returns the number of mounted callbacks.
func (p *Page) Callbacks() int {
	return len(p.callbacks)
}

func (p *Page) bindTree(c Component) {
	walk(c, func(n Component) bool {
		for _, cb := range Callbacks(n) {
			p.register(cb)
		}
		return true
	})
}

func (p *Page) unbindTree(c Component) {
	walk(c, func(n Component) bool {
		for _, cb := range Callbacks(n) {
			if cb.page == p {
				delete(p.callbacks, cb.id)
			}
		}
		return true
	})
}

func (p *Page) register(cb *Callback) {
	if cb.page == p && cb.id != "" {
		p.callbacks[cb.id] = cb
		return
	}
	if cb.page != nil {
		delete(cb.page.callbacks, cb.id)
	}

	p.seq++
	id := "c" + strconv.Itoa(p.seq)
	token, err := p.encoder.Encode(callbackToken{Page: p.id, Callback: id}, p.settings.Sensitive)
	if err != nil {
		p.logger.Error("encode callback token", slog.String("callback", id), slog.Any("error", err))
		return
	}

	cb.page = p
	cb.id = id
	cb.url = p.settings.CallbackPath + "?" + token
	p.callbacks[id] = cb
}

// Contributions runs one render pass over every behavior of the tree, in
// tree order. Resources are de-duplicated across behaviors; htmx is added
// first when the page has callbacks.
func (p *Page) Contributions() ([]Resource, []string, error) {
	return p.contributions(p.root, len(p.callbacks) > 0)
}

func (p *Page) contributions(from Component, withCallbacks bool) ([]Resource, []string, error) {
	var (
		resources []Resource
		scripts   []string
		err       error
	)
	if withCallbacks {
		r, rerr := p.Resolve(ScriptResource("htmx"))
		if rerr != nil {
			return nil, nil, rerr
		}
		resources = append(resources, r)
	}
	walk(from, func(c Component) bool {
		for _, b := range Behaviors(c) {
			var contrib *Contribution
			if contrib, err = b.Render(p); err != nil {
				err = fmt.Errorf("%s: %w", c.MarkupID(), err)
				return false
			}
			resources = append(resources, contrib.Resources...)
			scripts = append(scripts, contrib.Script)
		}
		return true
	})
	if err != nil {
		return nil, nil, err
	}
	return dedupeResources(resources), scripts, nil
}

// Head renders the resource tags and the init scripts of the page. Each
// rendering is a render pass: the configure hooks run again.
func (p *Page) Head() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return p.locked(func() error { return p.head(ctx, w) })
	})
}

// Body renders the root component followed by the flash and script
// containers.
func (p *Page) Body() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return p.locked(func() error { return p.body(ctx, w) })
	})
}

// Document renders a complete HTML document for the page.
func (p *Page) Document(title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return p.locked(func() error {
			if _, err := io.WriteString(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><title>`+templ.EscapeString(title)+`</title>`); err != nil {
				return err
			}
			if err := p.head(ctx, w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, `</head><body>`); err != nil {
				return err
			}
			if err := p.body(ctx, w); err != nil {
				return err
			}
			_, err := io.WriteString(w, `</body></html>`)
			return err
		})
	})
}

func (p *Page) head(ctx context.Context, w io.Writer) error {
	resources, scripts, err := p.Contributions()
	if err != nil {
		return err
	}
	for _, r := range resources {
		if err := r.Component().Render(ctx, w); err != nil {
			return err
		}
		p.delivered[r.key()] = true
	}
	if len(scripts) == 0 {
		return nil
	}
	_, err = io.WriteString(w, "<script>"+strings.Join(scripts, "\n")+"</script>")
	return err
}

func (p *Page) body(ctx context.Context, w io.Writer) error {
	if r, ok := p.root.(Renderer); ok {
		if err := r.Render(ctx).Render(ctx, w); err != nil {
			return err
		}
	}
	if err := FlashContainer().Render(ctx, w); err != nil {
		return err
	}
	_, err := io.WriteString(w, `<div id="`+ScriptContainerID+`" hidden></div>`)
	return err
}

// Dispatch handles one callback request: it decodes the parameters, builds
// the event and broadcasts it. Callers must serialize calls for the same
// page; Registry does.
//
// An unknown callback id dispatches nothing and returns an empty collector
// with ErrUnknownCallback. A listener failure returns the instructions
// collected so far together with the ErrDispatch error.
//
// Registry flushes those instructions either way. On the htmx path the
// response is a 500 raising ErrorEvent through HX-Trigger, and htmx only
// applies its out-of-band content when htmx.config.responseHandling swaps
// 5xx responses. The datastar stream applies them and then raises
// ErrorEvent.
func (p *Page) Dispatch(ctx context.Context, callbackID string, values url.Values) (*Collector, error) {
	target := NewCollector()
	cb, ok := p.callbacks[callbackID]
	if !ok {
		return target, fmt.Errorf("%w: %s", ErrUnknownCallback, callbackID)
	}
	err := cb.handle(ctx, values, target, p.logger.With(slog.String("callback", callbackID)))
	return target, err
}

// Part is one rendered client update.
type Part struct {
	// Target is the markup id of a rerendered component.
	Target string
	Swap   SwapMode
	HTML   string

	// Script is set for script parts.
	Script string

	// Flash is set for flash message parts.
	Flash *Flash

	// Resource is set for dependencies first needed by a rerender.
	Resource *Resource
}

// Flush renders the collected instructions into client updates, in order.
//
// A rerendered component is followed by the init scripts of the behaviors
// in its subtree, preceded by any dependency the page has not delivered
// yet. Components that do not implement Renderer are skipped.
func (p *Page) Flush(ctx context.Context, target *Collector) ([]Part, error) {
	var parts []Part
	for _, in := range target.Instructions() {
		switch in := in.(type) {
		case RerenderInstruction:
			rendered, err := p.rerender(ctx, in)
			if err != nil {
				return parts, err
			}
			parts = append(parts, rendered...)
		case ScriptInstruction:
			parts = append(parts, Part{Script: in.Script})
		case FlashInstruction:
			parts = append(parts, Part{Flash: &in.Flash})
		}
	}
	return parts, nil
}

func (p *Page) rerender(ctx context.Context, in RerenderInstruction) ([]Part, error) {
	c := in.Component
	if in.Swap == SwapDelete {
		return []Part{{Target: c.MarkupID(), Swap: SwapDelete}}, nil
	}
	r, ok := c.(Renderer)
	if !ok {
		p.logger.Warn("rerender requested for component without markup", slog.String("component", c.MarkupID()))
		return nil, nil
	}

	var buf bytes.Buffer
	if err := r.Render(ctx).Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", c.MarkupID(), err)
	}
	parts := []Part{{Target: c.MarkupID(), Swap: in.Swap, HTML: buf.String()}}

	resources, scripts, err := p.contributions(c, false)
	if err != nil {
		return nil, err
	}
	for _, res := range resources {
		if p.delivered[res.key()] {
			continue
		}
		p.delivered[res.key()] = true
		parts = append(parts, Part{Resource: &res})
	}
	for _, s := range scripts {
		parts = append(parts, Part{Script: s})
	}
	return parts, nil
}

// locked runs fn while holding the page lock.
func (p *Page) locked(fn func() error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fn()
}
