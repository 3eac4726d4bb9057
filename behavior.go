package hxwidget

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/pthm/hxwidget/lib/options"
)

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Behavior attaches a client widget to an element.
//
// A behavior owns a selector, a widget method name and an options container.
// The container is held by reference: the owner may keep changing it until
// the page renders. Each render pass works on a copy:
//
//  1. the configure hooks run once, in order, on a Config wrapping the copy;
//  2. the copy is frozen into a Snapshot;
//  3. resources are resolved and the init script is produced.
//
// The init script has a fixed shape:
//
//	jQuery(function($) { $("#amount").spinner({"min":1,"max":50}); });
type Behavior struct {
	selector  string
	method    string
	opts      *options.Options
	resources []Resource
	configure []func(*Config)
	handlers  []handler
	owner     Component
	last      options.Snapshot
}

type handler struct {
	event  string
	script string
}

// BehaviorOption configures a Behavior.
type BehaviorOption func(*Behavior)

// WithConfigure adds a hook run at the configure checkpoint of every render
// pass. Hooks run in the order they were added.
func WithConfigure(fn func(*Config)) BehaviorOption {
	return func(b *Behavior) {
		b.configure = append(b.configure, fn)
	}
}

// WithResources declares additional client dependencies.
func WithResources(rs ...Resource) BehaviorOption {
	return func(b *Behavior) {
		b.resources = append(b.resources, rs...)
	}
}

// WithoutDefaultResources drops the jQuery and jQuery UI dependencies.
func WithoutDefaultResources() BehaviorOption {
	return func(b *Behavior) {
		b.resources = nil
	}
}

// WithHandler binds a raw script handler to a client event on every render.
func WithHandler(event, script string) BehaviorOption {
	return func(b *Behavior) {
		b.handlers = append(b.handlers, handler{event: event, script: script})
	}
}

// NewBehavior creates a behavior applying method to the elements matching
// selector. An empty selector targets the owning component's element.
// A nil container is replaced by an empty one.
func NewBehavior(selector, method string, opts *options.Options, bopts ...BehaviorOption) *Behavior {
	if opts == nil {
		opts = options.New()
	}
	b := &Behavior{
		selector: selector,
		method:   method,
		opts:     opts,
		resources: []Resource{
			ScriptResource("jquery"),
			ScriptResource("jquery-ui"),
			StyleResource("jquery-ui"),
		},
	}
	for _, o := range bopts {
		o(b)
	}
	return b
}

func (b *Behavior) attach(owner Component) {
	if b.owner != nil && b.owner.base() != owner.base() {
		panic("hxwidget: behavior " + b.method + " is already attached to " + b.owner.MarkupID())
	}
	b.owner = owner
}

// Owner returns the component the behavior is attached to.
func (b *Behavior) Owner() Component { return b.owner }

// Method returns the widget method name.
func (b *Behavior) Method() string { return b.method }

// Options returns the owner's container. Changes are picked up by the next
// render pass.
func (b *Behavior) Options() *options.Options { return b.opts }

// Snapshot returns the options of the last render pass.
func (b *Behavior) Snapshot() options.Snapshot { return b.last }

// Selector returns the target selector.
func (b *Behavior) Selector() string {
	if b.selector == "" && b.owner != nil {
		return "#" + b.owner.MarkupID()
	}
	return b.selector
}

// Contribution is what one behavior adds to a page for one render pass.
type Contribution struct {
	Behavior  *Behavior
	Resources []Resource
	Script    string
}

// Render runs one render pass against host.
//
// Resources come back resolved, in declaration order and without
// duplicates. A selector that matches nothing still yields a script; it is
// a no-op on the client.
func (b *Behavior) Render(host Host) (*Contribution, error) {
	cfg := &Config{
		behavior:  b,
		opts:      b.opts.Clone(),
		resources: append([]Resource(nil), b.resources...),
		handlers:  append([]handler(nil), b.handlers...),
	}
	for _, fn := range b.configure {
		fn(cfg)
	}
	cfg.done = true
	if cfg.err != nil {
		return nil, cfg.err
	}

	b.last = cfg.opts.Snapshot()

	resources := dedupeResources(cfg.resources)
	for i, r := range resources {
		resolved, err := host.Resolve(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.method, err)
		}
		resources[i] = resolved
	}

	selector := b.Selector()
	if !host.HasElement(selector) {
		host.Logger().Debug("widget target not found",
			slog.String("selector", selector),
			slog.String("method", b.method),
		)
	}

	script, err := b.script(selector, b.last, cfg.handlers)
	if err != nil {
		return nil, err
	}
	return &Contribution{Behavior: b, Resources: resources, Script: script}, nil
}

func (b *Behavior) script(selector string, snap options.Snapshot, handlers []handler) (string, error) {
	if !identifier.MatchString(b.method) {
		return "", fmt.Errorf("%w: widget method %q", ErrConfiguration, b.method)
	}
	args, err := snap.Script()
	if err != nil {
		return "", fmt.Errorf("%s: %w", b.method, err)
	}
	sel, err := options.Script(options.String(selector))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("jQuery(function($) { $(")
	sb.WriteString(sel)
	sb.WriteString(").")
	sb.WriteString(b.method)
	sb.WriteString("(")
	sb.WriteString(args)
	sb.WriteString(")")
	for _, h := range handlers {
		ev, err := options.Script(options.String(h.event))
		if err != nil {
			return "", err
		}
		sb.WriteString(".on(")
		sb.WriteString(ev)
		sb.WriteString(", ")
		sb.WriteString(h.script)
		sb.WriteString(")")
	}
	sb.WriteString("; });")
	return sb.String(), nil
}

// Config is the handle a configure hook receives. It wraps the render
// pass's copy of the options and is only valid while the hook runs; any use
// after the checkpoint panics.
type Config struct {
	behavior  *Behavior
	opts      *options.Options
	resources []Resource
	handlers  []handler
	err       error
	done      bool
}

func (c *Config) check() {
	if c.done {
		panic("hxwidget: widget configuration used after the configure checkpoint")
	}
}

// Owner returns the component owning the behavior.
func (c *Config) Owner() Component {
	c.check()
	return c.behavior.owner
}

// Set adds or overrides an option for this pass.
func (c *Config) Set(name string, v options.Value) *Config {
	c.check()
	c.opts.Set(name, v)
	return c
}

// Put converts v with options.Of and sets it.
func (c *Config) Put(name string, v any) *Config {
	c.check()
	c.opts.Put(name, v)
	return c
}

// Get returns the current value of an option.
func (c *Config) Get(name string) (options.Value, bool) {
	c.check()
	return c.opts.Get(name)
}

// Int returns an integral option or def.
func (c *Config) Int(name string, def int) int {
	c.check()
	return c.opts.Int(name, def)
}

// Remove drops an option for this pass.
func (c *Config) Remove(name string) *Config {
	c.check()
	c.opts.Remove(name)
	return c
}

// Merge overrides options with every entry of other.
func (c *Config) Merge(other *options.Options) *Config {
	c.check()
	c.opts.Merge(other)
	return c
}

// AddResource declares client dependencies for this pass.
func (c *Config) AddResource(rs ...Resource) *Config {
	c.check()
	c.resources = append(c.resources, rs...)
	return c
}

// On binds a raw script handler to a client event for this pass.
func (c *Config) On(event, script string) *Config {
	c.check()
	c.handlers = append(c.handlers, handler{event: event, script: script})
	return c
}

// Callback sets option name to the callback's client function. The
// callback is attached to the owner if it is not attached yet.
func (c *Config) Callback(name string, cb *Callback) *Config {
	c.check()
	if err := c.ensure(cb); err != nil {
		c.fail(err)
		return c
	}
	c.opts.Set(name, options.Raw(cb.Function()))
	return c
}

// OnCallback binds cb to a client event for this pass.
func (c *Config) OnCallback(event string, cb *Callback) *Config {
	c.check()
	if err := c.ensure(cb); err != nil {
		c.fail(err)
		return c
	}
	c.handlers = append(c.handlers, handler{event: event, script: cb.Function()})
	return c
}

// Fail records a configuration error; the render pass fails after the
// hooks return.
func (c *Config) Fail(err error) {
	c.check()
	c.fail(err)
}

func (c *Config) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *Config) ensure(cb *Callback) error {
	if cb.owner == nil && c.behavior.owner != nil {
		c.behavior.owner.base().Attach(cb)
	}
	if cb.URL() == "" {
		return fmt.Errorf("%w: callback %s is not mounted on a page", ErrConfiguration, cb.kind)
	}
	return nil
}
