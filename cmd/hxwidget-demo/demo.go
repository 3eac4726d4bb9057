package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/a-h/templ"

	"github.com/pthm/hxwidget"
	"github.com/pthm/hxwidget/lib/options"
	"github.com/pthm/hxwidget/widgets/accordion"
	"github.com/pthm/hxwidget/widgets/menu"
	"github.com/pthm/hxwidget/widgets/spinner"
)

var cultures = []string{"en-US", "de-DE", "fr-FR"}

// demo is the component tree of one visit.
type demo struct {
	root      *section
	feedback  *feedback
	culture   *cultureSelect
	spinner   *spinner.Spinner
	menu      *menu.Menu
	accordion *accordion.Accordion
}

func newDemo() (*demo, error) {
	d := &demo{
		root:     newSection("demo", ""),
		feedback: newFeedback("feedback"),
		culture:  newCultureSelect("culture", "fr-FR"),
	}

	d.spinner = spinner.New("amount",
		spinner.WithValue(1.5),
		spinner.OnChange(d.onSpinnerChange),
	)
	d.spinner.SetMin(1).SetMax(50).SetStep(5).SetPage(4).SetNumberFormat("n")
	if err := d.spinner.SetCulture(d.culture.current); err != nil {
		return nil, fmt.Errorf("demo spinner: %w", err)
	}

	d.menu = menu.New("menu", []*menu.Item{
		menu.NewItem("Save"),
		menu.NewItem("Zoom in"),
		menu.NewItem("Zoom out"),
		menu.NewItem("Export", menu.NewItem("PDF"), menu.NewItem("CSV")),
	}, menu.OnClick(d.onMenuClick))

	hidden := accordion.NewTab("Drafts", templ.Raw("<p>Nothing here yet.</p>"))
	hidden.Hidden = true
	d.accordion = accordion.New("tabs", []*accordion.Tab{
		accordion.NewTab("Overview", templ.Raw("<p>Widgets configured on the server, driven by jQuery UI.</p>")),
		accordion.NewLazyTab("Server time", loadServerTime),
		hidden,
	},
		accordion.WithOptions(options.New().Set("collapsible", options.Bool(true))),
		accordion.OnActivate(d.onTabActivate),
		accordion.WithClick(d.onTabClick),
	)

	spinners := newSection("spinners", "Spinner")
	spinners.Add(d.culture, d.spinner)
	menus := newSection("menus", "Menu")
	menus.Add(d.menu)
	tabs := newSection("accordions", "Accordion")
	tabs.Add(d.accordion)

	d.root.Add(d.feedback, spinners, menus, tabs)
	d.root.Listen(d.onEvent)
	return d, nil
}

func loadServerTime(ctx context.Context) (templ.Component, error) {
	return templ.Raw(fmt.Sprintf("<p>Loaded at %s.</p>", time.Now().Format(time.Kitchen))), nil
}

// onEvent handles events no widget claims.
func (d *demo) onEvent(ctx context.Context, e hxwidget.Event) error {
	ce, ok := e.(*cultureEvent)
	if !ok {
		return nil
	}
	if err := d.spinner.SetCulture(ce.Culture); err != nil {
		ce.Target().Flash(hxwidget.FlashError, "Unsupported culture "+ce.Culture)
		return nil
	}
	d.culture.current = ce.Culture
	d.feedback.Set("Culture changed to " + ce.Culture)
	ce.Target().Rerender(d.spinner).Rerender(d.feedback)
	return nil
}

func (d *demo) onSpinnerChange(ctx context.Context, e *spinner.ChangeEvent) error {
	if e.Valid {
		d.feedback.Set(fmt.Sprintf("The value is: %s", d.spinner.Codec().Format(e.Value)))
	} else {
		d.feedback.Set(fmt.Sprintf("%q is not a number", e.Text))
	}
	e.Target().Rerender(d.feedback)
	return nil
}

func (d *demo) onMenuClick(ctx context.Context, e *menu.ClickEvent) error {
	if e.Item == nil {
		d.feedback.Set("Unknown menu item")
	} else {
		d.feedback.Set(e.Item.Label + " has been clicked")
	}
	e.Target().Rerender(d.feedback)
	return nil
}

func (d *demo) onTabActivate(ctx context.Context, e *accordion.ActivateEvent) error {
	if e.Tab == nil {
		d.feedback.Set("All tabs collapsed")
	} else {
		d.feedback.Set(e.Tab.Title + " activated")
	}
	e.Target().Rerender(d.feedback)
	return nil
}

func (d *demo) onTabClick(ctx context.Context, e *accordion.ClickEvent) error {
	d.feedback.Set(fmt.Sprintf("Header clicked, active index is %d", e.Index))
	e.Target().Rerender(d.feedback)
	return nil
}

// section renders its children under an optional heading.
type section struct {
	*hxwidget.Base
	title string
}

func newSection(id, title string) *section {
	s := &section{title: title}
	s.Base = hxwidget.NewBase(s, id)
	return s
}

func (s *section) Render(ctx context.Context) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<section id="%s">`, templ.EscapeString(s.MarkupID())); err != nil {
			return err
		}
		if s.title != "" {
			if _, err := fmt.Fprintf(w, "<h2>%s</h2>", templ.EscapeString(s.title)); err != nil {
				return err
			}
		}
		for _, child := range s.Children() {
			r, ok := child.(hxwidget.Renderer)
			if !ok {
				continue
			}
			if err := r.Render(ctx).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</section>")
		return err
	})
}

// feedback shows the outcome of the last callback.
type feedback struct {
	*hxwidget.Base
	message string
}

func newFeedback(id string) *feedback {
	f := &feedback{}
	f.Base = hxwidget.NewBase(f, id)
	return f
}

func (f *feedback) Set(message string) { f.message = message }

func (f *feedback) Render(ctx context.Context) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<p id="%s" class="ui-state-highlight">%s</p>`,
			templ.EscapeString(f.MarkupID()), templ.EscapeString(f.message))
		return err
	})
}

type cultureEvent struct {
	hxwidget.EventBase
	Culture string
}

// cultureSelect posts the chosen culture with a declarative callback.
type cultureSelect struct {
	*hxwidget.Base
	current string
	change  *hxwidget.Callback
}

func newCultureSelect(id, current string) *cultureSelect {
	c := &cultureSelect{current: current}
	c.Base = hxwidget.NewBase(c, id)
	c.change = hxwidget.NewCallback("culture.change",
		func(b hxwidget.EventBase) hxwidget.Event {
			return &cultureEvent{EventBase: b, Culture: b.Params().String("culture", "")}
		},
		hxwidget.WithParam("culture", "this.value"),
	)
	c.Attach(c.change)
	return c
}

func (c *cultureSelect) Render(ctx context.Context) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<select id="%s" name="culture"`, templ.EscapeString(c.MarkupID())); err != nil {
			return err
		}
		if err := writeAttrs(w, c.change.Attrs("change")); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ">"); err != nil {
			return err
		}
		for _, culture := range cultures {
			selected := ""
			if culture == c.current {
				selected = " selected"
			}
			if _, err := fmt.Fprintf(w, `<option value="%[1]s"%[2]s>%[1]s</option>`, templ.EscapeString(culture), selected); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</select>")
		return err
	})
}

func writeAttrs(w io.Writer, attrs templ.Attributes) error {
	for _, name := range slices.Sorted(maps.Keys(attrs)) {
		if _, err := fmt.Fprintf(w, ` %s="%s"`, name, templ.EscapeString(fmt.Sprint(attrs[name]))); err != nil {
			return err
		}
	}
	return nil
}
