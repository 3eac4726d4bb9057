package hxwidget

import "slices"

// Instruction is one client update produced while handling a callback.
// Implementations are RerenderInstruction, ScriptInstruction and
// FlashInstruction.
type Instruction interface {
	instruction()
}

// RerenderInstruction replaces a component's element with fresh markup.
type RerenderInstruction struct {
	Component Component
	Swap      SwapMode
}

// ScriptInstruction runs a script on the client.
type ScriptInstruction struct {
	Script string
}

func (RerenderInstruction) instruction() {}
func (ScriptInstruction) instruction()   {}

// Collector accumulates the render instructions of one callback request.
//
// The collected instructions are the complete description of what changes
// on the client. Listeners add to it through Event.Target:
//
//	func (p *Panel) OnEvent(ctx context.Context, e hxwidget.Event) error {
//	    if ev, ok := e.(*menu.ClickEvent); ok {
//	        p.selected = ev.Index
//	        ev.Target().Rerender(p)
//	    }
//	    return nil
//	}
//
// Requesting the same component twice keeps only the first request. The
// zero value is an empty collector.
type Collector struct {
	instructions []Instruction
	seen         map[*Base]int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{seen: make(map[*Base]int)}
}

// Rerender asks for c to be rendered again. The swap mode defaults to
// SwapOuter. A component already queued for rerender is not queued again.
func (t *Collector) Rerender(c Component, swap ...SwapMode) *Collector {
	if c == nil {
		return t
	}
	b := c.base()
	if _, ok := t.seen[b]; ok {
		return t
	}
	mode := SwapOuter
	if len(swap) > 0 && swap[0] != "" {
		mode = swap[0]
	}
	if t.seen == nil {
		t.seen = make(map[*Base]int)
	}
	t.seen[b] = len(t.instructions)
	t.instructions = append(t.instructions, RerenderInstruction{Component: c, Swap: mode})
	return t
}

// AppendScript asks for script to run on the client. Empty scripts are
// ignored.
func (t *Collector) AppendScript(script string) *Collector {
	if script == "" {
		return t
	}
	t.instructions = append(t.instructions, ScriptInstruction{Script: script})
	return t
}

// Flash queues a feedback message.
func (t *Collector) Flash(level, message string) *Collector {
	t.instructions = append(t.instructions, FlashInstruction{Flash: Flash{Level: level, Message: message}})
	return t
}

// Instructions returns the collected instructions in order.
func (t *Collector) Instructions() []Instruction {
	return slices.Clone(t.instructions)
}

// Len returns the number of collected instructions.
func (t *Collector) Len() int {
	return len(t.instructions)
}

// Contains reports whether c is queued for rerender.
func (t *Collector) Contains(c Component) bool {
	_, ok := t.seen[c.base()]
	return ok
}

// Rerenders returns the components queued for rerender.
func (t *Collector) Rerenders() []Component {
	var out []Component
	for _, in := range t.instructions {
		if r, ok := in.(RerenderInstruction); ok {
			out = append(out, r.Component)
		}
	}
	return out
}

// Scripts returns the queued scripts.
func (t *Collector) Scripts() []string {
	var out []string
	for _, in := range t.instructions {
		if s, ok := in.(ScriptInstruction); ok {
			out = append(out, s.Script)
		}
	}
	return out
}

// Flashes returns the queued flash messages.
func (t *Collector) Flashes() []Flash {
	var out []Flash
	for _, in := range t.instructions {
		if f, ok := in.(FlashInstruction); ok {
			out = append(out, f.Flash)
		}
	}
	return out
}
