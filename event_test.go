package hxwidget

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParams(t *testing.T) {
	p := NewParams(url.Values{
		"index":   {"2"},
		"bad":     {"abc"},
		"ratio":   {"0.25"},
		"enabled": {"true"},
		"name":    {"menu"},
		"empty":   {""},
	})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"int", p.Int("index", -1), 2},
		{"malformed int", p.Int("bad", -1), -1},
		{"missing int", p.Int("missing", -1), -1},
		{"empty int", p.Int("empty", -1), -1},
		{"float", p.Float("ratio", 0), 0.25},
		{"malformed float", p.Float("bad", 1.5), 1.5},
		{"bool", p.Bool("enabled", false), true},
		{"malformed bool", p.Bool("bad", true), true},
		{"string", p.String("name", ""), "menu"},
		{"missing string", p.String("missing", "def"), "def"},
		{"empty string", p.String("empty", "def"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	assert.True(t, p.Has("empty"))
	assert.False(t, p.Has("missing"))
}

func TestParamsParse(t *testing.T) {
	p := NewParams(url.Values{"tags": {"a,b"}, "bad": {"x"}})

	var tags []string
	assert.True(t, p.Parse("tags", func(v string) error {
		tags = strings.Split(v, ",")
		return nil
	}))
	assert.Equal(t, []string{"a", "b"}, tags)

	assert.False(t, p.Parse("bad", func(v string) error { return errors.New("rejected") }))
	assert.False(t, p.Parse("missing", func(v string) error {
		t.Fatal("parser called for a missing parameter")
		return nil
	}))
}

func TestParamsZeroValue(t *testing.T) {
	var p Params
	assert.Equal(t, -1, p.Int("index", -1))
	assert.False(t, p.Has("index"))
	assert.Empty(t, p.Values())
}

func TestParamsValuesIsCopy(t *testing.T) {
	p := NewParams(url.Values{"a": {"1"}})
	v := p.Values()
	v.Set("a", "2")

	assert.Equal(t, "1", p.String("a", ""))
}

func TestNewEventBase(t *testing.T) {
	g := newGroup("g")
	b := NewEventBase("kind", g, NewParams(nil), nil)

	assert.Equal(t, "kind", b.Kind())
	assert.Equal(t, g, b.Source())
	assert.NotNil(t, b.Target())
}
