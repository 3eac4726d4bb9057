// Package hxwidgetecho provides Echo framework integration for hxwidget
// pages.
//
// Mount the callback handler onto an Echo instance or group:
//
//	e := echo.New()
//	reg := hxwidgetecho.Mount(e)
//	e.GET("/", func(c echo.Context) error {
//	    page, err := reg.NewPage(newDashboard())
//	    if err != nil {
//	        return err
//	    }
//	    return hxwidgetecho.Render(c, page.Document("Dashboard"))
//	})
//
// Or mount on a group with middleware:
//
//	g := e.Group("/app", authMiddleware)
//	reg := hxwidgetecho.MountGroup(g)
package hxwidgetecho

import (
	"log/slog"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/pthm/hxwidget"
)

// Option configures the Mount and MountGroup functions.
type Option func(*options)

type options struct {
	settings hxwidget.Settings
	logger   *slog.Logger
}

// WithSettings replaces the default settings.
func WithSettings(s hxwidget.Settings) Option {
	return func(o *options) {
		o.settings = s
	}
}

// WithKey sets the key used to sign callback tokens.
// If not provided, a random key is generated (suitable for development only).
func WithKey(key []byte) Option {
	return func(o *options) {
		o.settings.Key = string(key)
	}
}

// WithPath sets the callback path. Defaults to "/_w/".
func WithPath(path string) Option {
	return func(o *options) {
		o.settings.CallbackPath = path
	}
}

// WithLogger sets the registry logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Mount creates a registry and mounts its callback handler on an Echo
// instance.
//
//	e := echo.New()
//	reg := hxwidgetecho.Mount(e, hxwidgetecho.WithKey(key))
func Mount(e *echo.Echo, opts ...Option) *hxwidget.Registry {
	reg := newRegistry(opts)
	e.Any(reg.Settings().CallbackPath, echo.WrapHandler(reg.Handler()))
	return reg
}

// MountGroup creates a registry and mounts the callback handler on an Echo
// group. Callback requests then share the group's middleware (auth,
// logging, etc.); the callback path is relative to the group prefix.
//
//	g := e.Group("/app", authMiddleware)
//	reg := hxwidgetecho.MountGroup(g, hxwidgetecho.WithPath("/app/_w/"))
func MountGroup(g *echo.Group, opts ...Option) *hxwidget.Registry {
	reg := newRegistry(opts)
	g.Any(groupPath(reg.Settings().CallbackPath), echo.WrapHandler(reg.Handler()))
	return reg
}

func newRegistry(opts []Option) *hxwidget.Registry {
	o := &options{settings: hxwidget.DefaultSettings()}
	for _, opt := range opts {
		opt(o)
	}
	var ropts []hxwidget.RegistryOption
	if o.logger != nil {
		ropts = append(ropts, hxwidget.WithLogger(o.logger))
	}
	return hxwidget.NewRegistry(o.settings, ropts...)
}

// groupPath strips the first path segment, which belongs to the group
// prefix, from a callback path like "/app/_w/".
func groupPath(p string) string {
	for i := 1; i < len(p); i++ {
		if p[i] == '/' {
			if rest := p[i:]; rest != "/" {
				return rest
			}
			break
		}
	}
	return p
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return hxwidgetecho.Render(c, page.Document("Orders"))
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
