package hxwidget

import (
	"log/slog"
	"net/url"
	"strconv"
	"strings"
)

// Event is a decoded client occurrence routed through the composition tree.
//
// The set of event types is closed to types that embed EventBase. Widgets
// declare one struct per client event and build it in the callback's
// EventFactory:
//
//	type ClickEvent struct {
//	    hxwidget.EventBase
//	    Index int
//	}
//
//	hxwidget.NewCallback("menu.click", func(b hxwidget.EventBase) hxwidget.Event {
//	    return &ClickEvent{EventBase: b, Index: b.Params().Int("index", -1)}
//	})
type Event interface {
	// Kind is the event discriminant, e.g. "accordion.activate".
	Kind() string

	// Source is the component that owns the callback that fired.
	Source() Component

	// Params are the decoded request parameters.
	Params() Params

	// Target collects the render instructions of this request.
	Target() *Collector

	sealed()
}

// EventBase carries the fields shared by all events. It is created by the
// callback for each request.
type EventBase struct {
	kind     string
	callback string
	source   Component
	params   Params
	target   *Collector
}

func (b EventBase) sealed() {}

// Kind returns the event discriminant.
func (b EventBase) Kind() string { return b.kind }

// CallbackID returns the id of the callback that produced the event.
func (b EventBase) CallbackID() string { return b.callback }

// Source returns the component owning the callback.
func (b EventBase) Source() Component { return b.source }

// Params returns the decoded request parameters.
func (b EventBase) Params() Params { return b.params }

// Target returns the request's render-instruction collector.
func (b EventBase) Target() *Collector { return b.target }

// NewEventBase builds an EventBase outside of a callback round trip, for
// tests and for server-initiated broadcasts.
func NewEventBase(kind string, source Component, params Params, target *Collector) EventBase {
	if target == nil {
		target = NewCollector()
	}
	return EventBase{kind: kind, source: source, params: params, target: target}
}

// Params gives typed access to callback request parameters.
//
// Every accessor takes the value to use when the parameter is missing or
// malformed. Decode failures never fail the request; they are logged at
// debug level and the default is returned.
type Params struct {
	values url.Values
	logger *slog.Logger
}

// NewParams wraps decoded query values.
func NewParams(values url.Values) Params {
	return Params{values: values}
}

func (p Params) raw(name string) (string, bool) {
	if p.values == nil {
		return "", false
	}
	vs, ok := p.values[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func (p Params) malformed(name, value, want string) {
	if p.logger == nil {
		return
	}
	p.logger.Debug("callback parameter ignored",
		slog.String("param", name),
		slog.String("value", value),
		slog.String("want", want),
		slog.Any("error", ErrParameterDecode),
	)
}

// Has reports whether the parameter is present.
func (p Params) Has(name string) bool {
	_, ok := p.raw(name)
	return ok
}

// String returns the parameter or def when it is missing.
func (p Params) String(name, def string) string {
	v, ok := p.raw(name)
	if !ok {
		return def
	}
	return v
}

// Int returns the parameter as an int, or def when it is missing or not an
// integer.
func (p Params) Int(name string, def int) int {
	v, ok := p.raw(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		p.malformed(name, v, "int")
		return def
	}
	return n
}

// Float returns the parameter as a float64, or def when it is missing or
// not a number.
func (p Params) Float(name string, def float64) float64 {
	v, ok := p.raw(name)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		p.malformed(name, v, "float")
		return def
	}
	return f
}

// Bool returns the parameter as a bool, or def when it is missing or not a
// boolean.
func (p Params) Bool(name string, def bool) bool {
	v, ok := p.raw(name)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		p.malformed(name, v, "bool")
		return def
	}
	return b
}

// Values returns a copy of all parameters.
func (p Params) Values() url.Values {
	out := make(url.Values, len(p.values))
	for k, vs := range p.values {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// Parse decodes the parameter with fn and reports whether it succeeded.
// A failure is logged like the typed accessors.
func (p Params) Parse(name string, fn func(v string) error) bool {
	v, ok := p.raw(name)
	if !ok {
		return false
	}
	if err := fn(v); err != nil {
		p.malformed(name, v, err.Error())
		return false
	}
	return true
}
