package accordion

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/hxwidget"
	"github.com/pthm/hxwidget/lib/options"
)

func testSettings() hxwidget.Settings {
	s := hxwidget.DefaultSettings()
	s.Key = "test-key"
	return s
}

func lazy(calls *int, html string) LoadFunc {
	return func(ctx context.Context) (templ.Component, error) {
		*calls++
		return templ.Raw(html), nil
	}
}

func render(t *testing.T, a *Accordion) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, a.Render(context.Background()).Render(context.Background(), &buf))
	return buf.String()
}

func scripts(t *testing.T, a *Accordion) []string {
	t.Helper()
	page, err := hxwidget.NewPage(a, testSettings(), nil, nil)
	require.NoError(t, err)
	_, s, err := page.Contributions()
	require.NoError(t, err)
	return s
}

func TestRenderSkipsHiddenTabs(t *testing.T) {
	hidden := NewTab("Secret", templ.Raw("<p>hidden</p>"))
	hidden.Hidden = true
	a := New("acc", []*Tab{
		NewTab("One", templ.Raw("<p>first</p>")),
		hidden,
		NewTab("Two & more", templ.Raw("<p>second</p>")),
	})

	html := render(t, a)
	assert.Equal(t, `<div id="acc"><h3>One</h3><div><p>first</p></div><h3>Two &amp; more</h3><div><p>second</p></div></div>`, html)
	assert.Len(t, a.VisibleTabs(), 2)
	assert.Len(t, a.Tabs(), 3)
}

func TestRenderLoadsActiveLazyTab(t *testing.T) {
	calls := 0
	a := New("acc", []*Tab{
		NewTab("One", templ.Raw("<p>first</p>")),
		NewLazyTab("Two", lazy(&calls, "<p>loaded</p>")),
	})

	assert.NotContains(t, render(t, a), "loaded")
	assert.Equal(t, 0, calls)

	a.SetActiveTab(1)
	assert.Contains(t, render(t, a), "<p>loaded</p>")
	render(t, a)
	assert.Equal(t, 1, calls, "lazy content loads once")
}

func TestActiveTab(t *testing.T) {
	a := New("acc", nil)
	assert.Equal(t, 0, a.ActiveTab())

	a.SetActiveTab(2)
	assert.Equal(t, 2, a.ActiveTab())

	a.SetActiveTab(-1)
	assert.Equal(t, -1, a.ActiveTab())
	s, err := a.Options().Script()
	require.NoError(t, err)
	assert.Equal(t, `{"active":false}`, s)
}

func TestInitScript(t *testing.T) {
	a := New("acc", []*Tab{NewTab("One", nil)},
		WithOptions(options.New().Set("collapsible", options.Bool(true))),
	)

	s := scripts(t, a)
	require.Len(t, s, 1)
	assert.True(t, strings.HasPrefix(s[0], `jQuery(function($) { $("#acc").accordion({"collapsible":true,"activate":function(event, ui) { htmx.ajax("GET", `))
	assert.Contains(t, s[0], `values: {"index":$(event.target).accordion("option", "active")}`)
	assert.NotContains(t, s[0], `.on("click"`)
}

func TestInitScriptWithClick(t *testing.T) {
	a := New("acc", []*Tab{NewTab("One", nil)},
		WithClick(func(ctx context.Context, e *ClickEvent) error { return nil }),
	)

	s := scripts(t, a)
	require.Len(t, s, 1)
	assert.Contains(t, s[0], `.on("click", function(event) { htmx.ajax("GET", "`+a.ClickCallback().URL()+`"`)
	assert.True(t, strings.HasSuffix(s[0], "; }); });"))

	fn := a.ClickCallback().Function()
	assert.Contains(t, fn, `values: {"index":$(event.currentTarget).accordion("option", "active")}`)
	assert.NotContains(t, fn, "event.target")
	assert.Contains(t, s[0], `"activate":function(event, ui) {`)
}

func TestActivateLoadsLazyTab(t *testing.T) {
	calls := 0
	var got *ActivateEvent
	a := New("acc", []*Tab{
		NewTab("One", templ.Raw("<p>first</p>")),
		NewLazyTab("Two", lazy(&calls, "<p>loaded</p>")),
	}, OnActivate(func(ctx context.Context, e *ActivateEvent) error {
		got = e
		return nil
	}))
	page, err := hxwidget.NewPage(a, testSettings(), nil, nil)
	require.NoError(t, err)

	target, err := page.Dispatch(context.Background(), a.ActivateCallback().ID(), url.Values{"index": {"1"}})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, ActivateKind, got.Kind())
	assert.Equal(t, 1, got.Index)
	assert.Equal(t, "Two", got.Tab.Title)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, a.ActiveTab())
	assert.True(t, target.Contains(a), "a freshly loaded tab is rerendered")

	target, err = page.Dispatch(context.Background(), a.ActivateCallback().ID(), url.Values{"index": {"1"}})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, target.Len(), "loaded tabs are not rerendered again")
}

func TestActivateCollapsed(t *testing.T) {
	var got *ActivateEvent
	a := New("acc", []*Tab{NewTab("One", nil)}, OnActivate(func(ctx context.Context, e *ActivateEvent) error {
		got = e
		return nil
	}))
	page, err := hxwidget.NewPage(a, testSettings(), nil, nil)
	require.NoError(t, err)

	_, err = page.Dispatch(context.Background(), a.ActivateCallback().ID(), url.Values{"index": {"false"}})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, -1, got.Index)
	assert.Nil(t, got.Tab)
	assert.Equal(t, -1, a.ActiveTab())
}

func TestActivateLoadError(t *testing.T) {
	boom := errors.New("unavailable")
	a := New("acc", []*Tab{
		NewTab("One", nil),
		NewLazyTab("Two", func(ctx context.Context) (templ.Component, error) { return nil, boom }),
	})
	page, err := hxwidget.NewPage(a, testSettings(), nil, nil)
	require.NoError(t, err)

	_, err = page.Dispatch(context.Background(), a.ActivateCallback().ID(), url.Values{"index": {"1"}})
	require.Error(t, err)
	assert.True(t, hxwidget.IsDispatchError(err))
	assert.ErrorIs(t, err, boom)
}

func TestClickEvent(t *testing.T) {
	var got *ClickEvent
	a := New("acc", []*Tab{NewTab("One", nil), NewTab("Two", nil)},
		WithClick(func(ctx context.Context, e *ClickEvent) error {
			got = e
			return nil
		}),
	)
	page, err := hxwidget.NewPage(a, testSettings(), nil, nil)
	require.NoError(t, err)

	_, err = page.Dispatch(context.Background(), a.ClickCallback().ID(), url.Values{"index": {"0"}})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, ClickKind, got.Kind())
	assert.Equal(t, 0, got.Index)
	assert.Equal(t, "One", got.Tab.Title)
	assert.Equal(t, 0, a.ActiveTab(), "clicks do not change the active tab")
}

func TestActivateRoundTrip(t *testing.T) {
	calls := 0
	reg := hxwidget.NewRegistry(testSettings())
	a := New("acc", []*Tab{
		NewTab("One", templ.Raw("<p>first</p>")),
		NewLazyTab("Two", lazy(&calls, "<p>loaded</p>")),
	})
	_, err := reg.NewPage(a)
	require.NoError(t, err)

	result, err := hxwidget.TestCallback(reg, a.ActivateCallback(), map[string]string{"index": "1"})
	require.NoError(t, err)

	assert.True(t, result.IsOK())
	assert.True(t, result.Rerendered("acc"))
	assert.True(t, result.HTMLContains("<p>loaded</p>"))
	assert.True(t, result.HasScript(`$("#acc").accordion({"active":1,`))
}
