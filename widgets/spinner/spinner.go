// Package spinner provides a jQuery UI numeric spinner bound to a text
// input.
//
// The value shown in the input is formatted with the numfmt codec of the
// spinner's culture; the widget options stay culture independent. Setting
// a culture also declares the globalize scripts the client widget needs to
// parse and format that culture.
package spinner

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/pthm/hxwidget"
	"github.com/pthm/hxwidget/lib/numfmt"
	"github.com/pthm/hxwidget/lib/options"
)

// Method is the jQuery UI widget method.
const Method = "spinner"

// ChangeKind is the kind of the events produced by the change callback.
const ChangeKind = "spinner.change"

// ChangeEvent is broadcast when the user commits a new value. Valid is
// false when Text could not be parsed in the spinner's culture.
type ChangeEvent struct {
	hxwidget.EventBase
	Text  string
	Value float64
	Valid bool
}

// Spinner is a text input enhanced by the spinner widget.
type Spinner struct {
	*hxwidget.Base
	name        string
	value       float64
	hasValue    bool
	opts        *options.Options
	codec       numfmt.Codec
	behavior    *hxwidget.Behavior
	change      *hxwidget.Callback
	onChange    func(ctx context.Context, e *ChangeEvent) error
	onConfigure func(c *hxwidget.Config)
}

// Option configures a Spinner.
type Option func(*Spinner)

// WithOptions sets the widget options container.
func WithOptions(opts *options.Options) Option {
	return func(s *Spinner) {
		s.opts = opts
	}
}

// WithName sets the input name. It defaults to the markup id.
func WithName(name string) Option {
	return func(s *Spinner) {
		s.name = name
	}
}

// WithValue sets the initial value.
func WithValue(v float64) Option {
	return func(s *Spinner) {
		s.value = v
		s.hasValue = true
	}
}

// OnChange enables change round trips.
func OnChange(fn func(ctx context.Context, e *ChangeEvent) error) Option {
	return func(s *Spinner) {
		s.onChange = fn
	}
}

// OnConfigure adds a hook run at the configure checkpoint, after the
// culture resources are declared.
func OnConfigure(fn func(c *hxwidget.Config)) Option {
	return func(s *Spinner) {
		s.onConfigure = fn
	}
}

// New creates a spinner.
func New(id string, opts ...Option) *Spinner {
	s := &Spinner{name: id, codec: numfmt.Invariant}
	s.Base = hxwidget.NewBase(s, id)
	for _, o := range opts {
		o(s)
	}
	if s.opts == nil {
		s.opts = options.New()
	}
	if culture := s.Culture(); culture != "" {
		if codec, err := numfmt.ForCulture(culture); err == nil {
			s.codec = codec
		}
	}

	s.change = hxwidget.NewCallback(ChangeKind, s.newChangeEvent,
		hxwidget.WithParam("value", "$(event.target).val()"),
	)
	s.behavior = hxwidget.NewBehavior("", Method, s.opts,
		hxwidget.WithConfigure(s.configure),
	)
	s.Attach(s.behavior)
	if s.onChange != nil {
		s.Attach(s.change)
	}
	return s
}

func (s *Spinner) configure(c *hxwidget.Config) {
	if culture := s.Culture(); culture != "" {
		c.AddResource(
			hxwidget.ScriptResource("globalize"),
			hxwidget.ScriptResource("globalize.culture."+culture),
		)
	}
	if s.onConfigure != nil {
		s.onConfigure(c)
	}
	if s.onChange != nil {
		c.Callback("change", s.change)
	}
}

func (s *Spinner) newChangeEvent(b hxwidget.EventBase) hxwidget.Event {
	e := &ChangeEvent{EventBase: b, Text: b.Params().String("value", "")}
	e.Valid = b.Params().Parse("value", func(text string) (err error) {
		e.Value, err = s.codec.Parse(text)
		return err
	})
	return e
}

// Options returns the widget options container.
func (s *Spinner) Options() *options.Options { return s.opts }

// Behavior returns the widget behavior.
func (s *Spinner) Behavior() *hxwidget.Behavior { return s.behavior }

// ChangeCallback returns the change callback. It is only attached when
// OnChange was given.
func (s *Spinner) ChangeCallback() *hxwidget.Callback { return s.change }

// Codec returns the codec of the current culture.
func (s *Spinner) Codec() numfmt.Codec { return s.codec }

// Value returns the current value and whether one is set.
func (s *Spinner) Value() (float64, bool) { return s.value, s.hasValue }

// SetValue sets the current value.
func (s *Spinner) SetValue(v float64) *Spinner {
	s.value, s.hasValue = v, true
	return s
}

// ClearValue empties the input.
func (s *Spinner) ClearValue() *Spinner {
	s.value, s.hasValue = 0, false
	return s
}

// Text returns the value as shown in the input.
func (s *Spinner) Text() string {
	if !s.hasValue {
		return ""
	}
	return s.codec.Format(s.value)
}

// Culture returns the culture option.
func (s *Spinner) Culture() string {
	v, ok := s.opts.Get("culture")
	if !ok {
		return ""
	}
	c, _ := options.AsString(v)
	return c
}

// SetCulture sets the culture used by the widget and by the input text.
// An empty culture restores the invariant format.
func (s *Spinner) SetCulture(culture string) error {
	codec, err := numfmt.ForCulture(culture)
	if err != nil {
		return fmt.Errorf("%w: %w", hxwidget.ErrConfiguration, err)
	}
	s.codec = codec
	if culture == "" {
		s.opts.Remove("culture")
		return nil
	}
	s.opts.Set("culture", options.String(culture))
	return nil
}

// SetDisabled disables both the widget and the input.
func (s *Spinner) SetDisabled(disabled bool) *Spinner {
	s.opts.Set("disabled", options.Bool(disabled))
	return s
}

// Disabled reports whether the spinner is disabled.
func (s *Spinner) Disabled() bool {
	v, ok := s.opts.Get("disabled")
	if !ok {
		return false
	}
	b, _ := options.AsBool(v)
	return b
}

// SetMin sets the minimum value.
func (s *Spinner) SetMin(v float64) *Spinner {
	s.opts.Set("min", number(v))
	return s
}

// SetMinText sets the minimum as text parsed by the client in the
// spinner's culture.
func (s *Spinner) SetMinText(v string) *Spinner {
	s.opts.Set("min", options.String(v))
	return s
}

// SetMax sets the maximum value.
func (s *Spinner) SetMax(v float64) *Spinner {
	s.opts.Set("max", number(v))
	return s
}

// SetMaxText sets the maximum as text parsed by the client in the
// spinner's culture.
func (s *Spinner) SetMaxText(v string) *Spinner {
	s.opts.Set("max", options.String(v))
	return s
}

// SetStep sets the increment of one spin.
func (s *Spinner) SetStep(v float64) *Spinner {
	s.opts.Set("step", number(v))
	return s
}

// SetPage sets the number of steps taken by page up and page down.
func (s *Spinner) SetPage(steps int) *Spinner {
	s.opts.Set("page", options.Int(int64(steps)))
	return s
}

// SetNumberFormat sets the globalize format, such as "n" or "C".
func (s *Spinner) SetNumberFormat(format string) *Spinner {
	s.opts.Set("numberFormat", options.String(format))
	return s
}

func number(v float64) options.Value {
	if v == float64(int64(v)) {
		return options.Int(int64(v))
	}
	return options.Float(v)
}

// OnEvent stores committed values and calls the change handler.
func (s *Spinner) OnEvent(ctx context.Context, e hxwidget.Event) error {
	ce, ok := e.(*ChangeEvent)
	if !ok || ce.Source() != hxwidget.Component(s) {
		return nil
	}
	if ce.Valid {
		s.SetValue(ce.Value)
	}
	if s.onChange != nil {
		return s.onChange(ctx, ce)
	}
	return nil
}

// Render writes the input element.
func (s *Spinner) Render(ctx context.Context) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		disabled := ""
		if s.Disabled() {
			disabled = " disabled"
		}
		_, err := fmt.Fprintf(w, `<input type="text" id="%s" name="%s" value="%s"%s>`,
			templ.EscapeString(s.MarkupID()),
			templ.EscapeString(s.name),
			templ.EscapeString(s.Text()),
			disabled,
		)
		return err
	})
}
