package hxwidgetecho

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/pthm/hxwidget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	*hxwidget.Base
	n int
}

func newCounter() *counter {
	c := &counter{}
	c.Base = hxwidget.NewBase(c, "counter")
	return c
}

func (c *counter) Render(ctx context.Context) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div id="counter">%d</div>`, c.n)
		return err
	})
}

func (c *counter) OnEvent(ctx context.Context, e hxwidget.Event) error {
	c.n += e.Params().Int("by", 1)
	e.Target().Rerender(c)
	return nil
}

func TestMount(t *testing.T) {
	e := echo.New()
	reg := Mount(e)

	require.NotNil(t, reg)
	assert.Equal(t, hxwidget.DefaultCallbackPath, reg.Settings().CallbackPath)
}

func TestMountWithPath(t *testing.T) {
	e := echo.New()
	reg := Mount(e, WithPath("/widgets/"))

	assert.Equal(t, "/widgets/", reg.Settings().CallbackPath)
}

func TestCallbackRoundTrip(t *testing.T) {
	e := echo.New()
	reg := Mount(e, WithKey([]byte("echo-test-key")))

	c := newCounter()
	cb := hxwidget.NewCallback("counter.add", nil)
	c.Attach(cb)
	_, err := reg.NewPage(c)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, cb.URL()+"&by=2", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hx-swap-oob="outerHTML"`)
	assert.Contains(t, rec.Body.String(), ">2</div>")
	assert.Equal(t, 2, c.n)
}

func TestMountGroup(t *testing.T) {
	e := echo.New()
	g := e.Group("/app")
	reg := MountGroup(g, WithPath("/app/_w/"))

	c := newCounter()
	cb := hxwidget.NewCallback("counter.add", nil)
	c.Attach(cb)
	_, err := reg.NewPage(c)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(cb.URL(), "/app/_w/?"))

	req := httptest.NewRequest(http.MethodGet, cb.URL(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, c.n)
}

func TestCSRFProtection(t *testing.T) {
	e := echo.New()
	Mount(e)

	// POST without HX-Request header should be forbidden
	req := httptest.NewRequest(http.MethodPost, "/_w/?token", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUnknownTokenIsEmpty(t *testing.T) {
	e := echo.New()
	Mount(e)

	req := httptest.NewRequest(http.MethodGet, "/_w/?bogus.token", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}
