package hxwidget

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tree builds root -> (mid -> (leaf), sibling).
func tree(log *[]string) (root, mid, leaf, sibling *panel) {
	root = newPanel("root", log)
	mid = newPanel("mid", log)
	leaf = newPanel("leaf", log)
	sibling = newPanel("sibling", log)
	mid.Add(leaf)
	root.Add(mid, sibling)
	return
}

func TestBroadcastBubble(t *testing.T) {
	var log []string
	_, _, leaf, _ := tree(&log)

	e := &clickEvent{EventBase: NewEventBase("click", leaf, Params{}, nil)}
	require.NoError(t, Broadcast(context.Background(), e, Bubble))

	assert.Equal(t, []string{"leaf:click", "mid:click", "root:click"}, log)
}

func TestBroadcastBreadth(t *testing.T) {
	var log []string
	_, _, leaf, _ := tree(&log)

	e := &clickEvent{EventBase: NewEventBase("click", leaf, Params{}, nil)}
	require.NoError(t, Broadcast(context.Background(), e, Breadth))

	assert.Equal(t, []string{"root:click", "mid:click", "leaf:click", "sibling:click"}, log)
}

func TestBroadcastExact(t *testing.T) {
	var log []string
	_, mid, _, _ := tree(&log)

	e := &clickEvent{EventBase: NewEventBase("click", mid, Params{}, nil)}
	require.NoError(t, Broadcast(context.Background(), e, Exact))

	assert.Equal(t, []string{"mid:click"}, log)
}

func TestBroadcastIsDeterministic(t *testing.T) {
	var first []string
	for i := 0; i < 5; i++ {
		var log []string
		_, _, leaf, _ := tree(&log)
		e := &clickEvent{EventBase: NewEventBase("click", leaf, Params{}, nil)}
		require.NoError(t, Broadcast(context.Background(), e, Breadth))
		if first == nil {
			first = log
			continue
		}
		assert.Equal(t, first, log)
	}
}

type listeningBehavior struct {
	*Behavior
	log *[]string
}

func (l listeningBehavior) OnEvent(ctx context.Context, e Event) error {
	*l.log = append(*l.log, "behavior:"+e.Kind())
	return nil
}

func TestBroadcastOrderWithinComponent(t *testing.T) {
	var log []string
	p := newPanel("p", &log)
	p.Attach(listeningBehavior{Behavior: NewBehavior("", "spinner", nil), log: &log})
	p.Listen(func(ctx context.Context, e Event) error {
		log = append(log, "func:"+e.Kind())
		return nil
	})

	e := &clickEvent{EventBase: NewEventBase("click", p, Params{}, nil)}
	require.NoError(t, Broadcast(context.Background(), e, Bubble))

	assert.Equal(t, []string{"behavior:click", "p:click", "func:click"}, log)
}

func TestBroadcastUnmatchedEventIsNoop(t *testing.T) {
	g := newGroup("g")
	var clicks int
	g.Listen(func(ctx context.Context, e Event) error {
		switch ev := e.(type) {
		case *clickEvent:
			clicks += ev.Index
		}
		return nil
	})

	e := &RawEvent{EventBase: NewEventBase("other", g, Params{}, nil)}
	require.NoError(t, Broadcast(context.Background(), e, Bubble))
	assert.Equal(t, 0, clicks)
}

func TestBroadcastErrorKeepsCollectedInstructions(t *testing.T) {
	var log []string
	root, mid, leaf, _ := tree(&log)
	boom := errors.New("boom")
	mid.fail = boom

	leaf.Listen(func(ctx context.Context, e Event) error {
		e.Target().Rerender(leaf)
		return nil
	})

	target := NewCollector()
	e := &clickEvent{EventBase: NewEventBase("click", leaf, Params{}, target)}
	err := Broadcast(context.Background(), e, Bubble)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDispatch))
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, []string{"leaf:click", "mid:click"}, log, "root must not be reached")
	assert.Equal(t, []Component{leaf}, target.Rerenders())
	_ = root
}

func TestBroadcastRecoversPanic(t *testing.T) {
	g := newGroup("g")
	g.Listen(func(ctx context.Context, e Event) error {
		panic("listener exploded")
	})

	e := &RawEvent{EventBase: NewEventBase("x", g, Params{}, nil)}
	err := Broadcast(context.Background(), e, Bubble)

	require.Error(t, err)
	assert.True(t, IsDispatchError(err))
	assert.Contains(t, err.Error(), "listener exploded")
}

func TestBroadcastModeString(t *testing.T) {
	assert.Equal(t, "bubble", Bubble.String())
	assert.Equal(t, "breadth", Breadth.String())
	assert.Equal(t, "exact", Exact.String())
	assert.Equal(t, "BroadcastMode(9)", BroadcastMode(9).String())
}
