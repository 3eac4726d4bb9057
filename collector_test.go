package hxwidget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectorRerenderDeduplicates(t *testing.T) {
	a := newPanel("a", nil)
	b := newPanel("b", nil)

	c := NewCollector()
	c.Rerender(a).Rerender(b).Rerender(a, SwapInner)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []Component{a, b}, c.Rerenders())

	first := c.Instructions()[0].(RerenderInstruction)
	assert.Equal(t, SwapOuter, first.Swap, "first request wins")
}

func TestCollectorZeroValue(t *testing.T) {
	var c Collector
	p := newPanel("p", nil)

	assert.False(t, c.Contains(p))
	c.Rerender(p).Rerender(p).AppendScript("init()")

	assert.True(t, c.Contains(p))
	assert.Equal(t, 2, c.Len())
	assert.Len(t, c.Rerenders(), 1)
}

func TestCollectorKeepsOrder(t *testing.T) {
	a := newPanel("a", nil)

	c := NewCollector()
	c.AppendScript("one()")
	c.Rerender(a)
	c.AppendScript("")
	c.AppendScript("two()")

	assert.Equal(t, []Instruction{
		ScriptInstruction{Script: "one()"},
		RerenderInstruction{Component: a, Swap: SwapOuter},
		ScriptInstruction{Script: "two()"},
	}, c.Instructions())
	assert.Equal(t, []string{"one()", "two()"}, c.Scripts())
	assert.True(t, c.Contains(a))
}

func TestCollectorIgnoresNil(t *testing.T) {
	c := NewCollector()
	c.Rerender(nil)
	assert.Equal(t, 0, c.Len())
}

func TestCollectorInstructionsIsCopy(t *testing.T) {
	c := NewCollector().AppendScript("x()")
	got := c.Instructions()
	got[0] = ScriptInstruction{Script: "changed"}

	assert.Equal(t, []string{"x()"}, c.Scripts())
}
