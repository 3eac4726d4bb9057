package hxwidget

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/a-h/templ"
)

// panel is a renderable listener that records the events it sees.
type panel struct {
	*Base
	log   *[]string
	fail  error
	value int
}

func newPanel(id string, log *[]string) *panel {
	p := &panel{log: log}
	p.Base = NewBase(p, id)
	return p
}

func (p *panel) Render(ctx context.Context) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div id="%s" class="panel">%d</div>`, p.MarkupID(), p.value)
		return err
	})
}

func (p *panel) OnEvent(ctx context.Context, e Event) error {
	if p.log != nil {
		*p.log = append(*p.log, p.MarkupID()+":"+e.Kind())
	}
	return p.fail
}

// group is a plain container without markup or listener.
type group struct {
	*Base
}

func newGroup(id string) *group {
	g := &group{}
	g.Base = NewBase(g, id)
	return g
}

// clickEvent is a typed event decoded from an index parameter.
type clickEvent struct {
	EventBase
	Index int
}

func clickFactory(b EventBase) Event {
	return &clickEvent{EventBase: b, Index: b.Params().Int("index", -1)}
}

// fakeHost resolves against default settings.
type fakeHost struct {
	settings Settings
	elements map[string]bool
}

func newFakeHost(elements ...string) *fakeHost {
	h := &fakeHost{settings: DefaultSettings(), elements: map[string]bool{}}
	for _, e := range elements {
		h.elements[e] = true
	}
	return h
}

func (h *fakeHost) Resolve(r Resource) (Resource, error) { return h.settings.Resolve(r) }
func (h *fakeHost) HasElement(selector string) bool     { return h.elements[selector] }
func (h *fakeHost) Logger() *slog.Logger                { return slog.New(slog.DiscardHandler) }

func testSettings() Settings {
	s := DefaultSettings()
	s.Key = "test-key"
	return s
}
