package hxwidget

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mountedCallback(t *testing.T, opts ...CallbackOption) (*Page, *panel, *Callback) {
	t.Helper()
	p := newPanel("menu", nil)
	cb := NewCallback("menu.click", clickFactory, opts...)
	p.Attach(cb)
	page, err := NewPage(p, testSettings(), nil, nil)
	require.NoError(t, err)
	return page, p, cb
}

func TestCallbackRegistration(t *testing.T) {
	_, p, cb := mountedCallback(t)

	assert.Equal(t, "c1", cb.ID())
	assert.True(t, strings.HasPrefix(cb.URL(), "/_w/?"))
	assert.Equal(t, p, cb.Owner())

	second := NewCallback("menu.other", nil)
	p.Attach(second)
	assert.Equal(t, "c2", second.ID(), "callbacks attached to a mounted tree register immediately")
}

func TestCallbackUnmountedHasNoURL(t *testing.T) {
	cb := NewCallback("x", nil)
	newPanel("p", nil).Attach(cb)

	assert.Empty(t, cb.ID())
	assert.Empty(t, cb.URL())
}

func TestCallbackIDStableAcrossRemount(t *testing.T) {
	root := newGroup("root")
	child := newPanel("child", nil)
	cb := NewCallback("child.click", nil)
	child.Attach(cb)
	root.Add(child)

	page, err := NewPage(root, testSettings(), nil, nil)
	require.NoError(t, err)
	id, u := cb.ID(), cb.URL()

	require.True(t, root.Remove(child))
	_, ok := page.Callback(id)
	assert.False(t, ok, "removed subtree stops resolving")

	root.Add(child)
	got, ok := page.Callback(id)
	assert.True(t, ok)
	assert.Same(t, cb, got)
	assert.Equal(t, u, cb.URL())
}

func TestCallbackScript(t *testing.T) {
	_, _, cb := mountedCallback(t, WithParam("index", "ui.item.index()"))

	want := `htmx.ajax("GET", "` + cb.URL() + `", {swap: "none", values: {"index":ui.item.index()}})`
	assert.Equal(t, want, cb.Script())
	assert.Equal(t, "function(event, ui) { "+want+"; }", cb.Function())
}

func TestCallbackDebugComment(t *testing.T) {
	p := newPanel("menu", nil)
	cb := NewCallback("menu.click", clickFactory)
	p.Attach(cb)
	s := testSettings()
	s.Debug = true
	_, err := NewPage(p, s, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "function(event, ui) { /* c1 menu.click */ "+cb.Script()+"; }", cb.Function())

	_, _, plain := mountedCallback(t)
	assert.NotContains(t, plain.Function(), "/*")
}

func TestCallbackScriptWithoutParams(t *testing.T) {
	_, _, cb := mountedCallback(t, WithMethod("post"))

	assert.Equal(t, `htmx.ajax("POST", "`+cb.URL()+`", {swap: "none"})`, cb.Script())
}

func TestCallbackCustomScriptAndSignature(t *testing.T) {
	_, _, cb := mountedCallback(t,
		WithSignature("function(e)"),
		WithScript(func(c *Callback) string {
			return "if (e.ok) { " + c.DefaultScript() + " }"
		}),
	)

	assert.True(t, strings.HasPrefix(cb.Function(), "function(e) { if (e.ok) { htmx.ajax("))
}

func TestCallbackAttrs(t *testing.T) {
	_, _, cb := mountedCallback(t, WithParam("index", "this.dataset.index"))

	attrs := cb.Attrs("click")
	assert.Equal(t, cb.URL(), attrs["hx-get"])
	assert.Equal(t, "click", attrs["hx-trigger"])
	assert.Equal(t, "none", attrs["hx-swap"])
	assert.Equal(t, `js:{"index":this.dataset.index}`, attrs["hx-vals"])

	_, _, post := mountedCallback(t, WithMethod(http.MethodPost))
	attrs = post.Attrs("")
	assert.Equal(t, post.URL(), attrs["hx-post"])
	assert.NotContains(t, attrs, "hx-trigger")
	assert.NotContains(t, attrs, "hx-vals")
}

func TestCallbackDecodesIndex(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		want   int
	}{
		{"valid", url.Values{"index": {"2"}}, 2},
		{"malformed", url.Values{"index": {"abc"}}, -1},
		{"missing", url.Values{}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, p, cb := mountedCallback(t)

			var got []int
			p.Listen(func(ctx context.Context, e Event) error {
				if ev, ok := e.(*clickEvent); ok {
					got = append(got, ev.Index)
				}
				return nil
			})

			_, err := page.Dispatch(context.Background(), cb.ID(), tt.values)
			require.NoError(t, err)
			assert.Equal(t, []int{tt.want}, got, "exactly one event per request")
		})
	}
}

func TestCallbacksProduceDistinctEvents(t *testing.T) {
	type activateEvent struct {
		EventBase
		Index int
	}

	p := newPanel("accordion", nil)
	click := NewCallback("accordion.click", clickFactory)
	activate := NewCallback("accordion.activate", func(b EventBase) Event {
		return &activateEvent{EventBase: b, Index: b.Params().Int("index", -1)}
	})
	p.Attach(click, activate)

	var kinds []string
	p.Listen(func(ctx context.Context, e Event) error {
		switch e.(type) {
		case *clickEvent:
			kinds = append(kinds, "click")
		case *activateEvent:
			kinds = append(kinds, "activate")
		}
		return nil
	})

	page, err := NewPage(p, testSettings(), nil, nil)
	require.NoError(t, err)

	_, err = page.Dispatch(context.Background(), activate.ID(), url.Values{"index": {"1"}})
	require.NoError(t, err)
	_, err = page.Dispatch(context.Background(), click.ID(), url.Values{"index": {"1"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"activate", "click"}, kinds)
}

func TestCallbackNilEventSkipsBroadcast(t *testing.T) {
	var log []string
	p := newPanel("p", &log)
	cb := NewCallback("skip", func(b EventBase) Event { return nil })
	p.Attach(cb)
	page, err := NewPage(p, testSettings(), nil, nil)
	require.NoError(t, err)

	_, err = page.Dispatch(context.Background(), cb.ID(), nil)
	require.NoError(t, err)
	assert.Empty(t, log)
}

func TestCallbackAttachedTwicePanics(t *testing.T) {
	cb := NewCallback("x", nil)
	newPanel("a", nil).Attach(cb)

	assert.Panics(t, func() { newPanel("b", nil).Attach(cb) })
}
