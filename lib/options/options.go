package options

import (
	"fmt"
)

// Options is an ordered mapping from option name to Value.
//
// Keys are unique. Setting an existing key replaces its value but keeps the
// position of the first insertion, so serialization order is stable across
// overrides.
//
// Options is not safe for concurrent use. A widget's container may be
// mutated until its behavior takes a Snapshot for a render pass.
type Options struct {
	keys   []string
	values map[string]Value
}

// New creates an empty container.
func New() *Options {
	return &Options{values: make(map[string]Value)}
}

// Set inserts or overwrites an option. A nil value is stored as Null.
func (o *Options) Set(name string, v Value) *Options {
	if v == nil {
		v = nullValue{}
	}
	if o.values == nil {
		o.values = make(map[string]Value)
	}
	if _, exists := o.values[name]; !exists {
		o.keys = append(o.keys, name)
	}
	o.values[name] = v
	return o
}

// Put converts v with Of and stores it.
func (o *Options) Put(name string, v any) *Options {
	return o.Set(name, Of(v))
}

// Get returns the current value of an option.
func (o *Options) Get(name string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[name]
	return v, ok
}

// Has reports whether the option is set.
func (o *Options) Has(name string) bool {
	_, ok := o.Get(name)
	return ok
}

// Int returns the integral value of an option, or def when it is absent or
// not a whole number.
func (o *Options) Int(name string, def int) int {
	v, ok := o.Get(name)
	if !ok {
		return def
	}
	n, ok := AsInt(v)
	if !ok {
		return def
	}
	return int(n)
}

// Remove deletes an option and reports whether it was present.
func (o *Options) Remove(name string) bool {
	if o == nil {
		return false
	}
	if _, ok := o.values[name]; !ok {
		return false
	}
	delete(o.values, name)
	for i, k := range o.keys {
		if k == name {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of options.
func (o *Options) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the option names in serialization order.
func (o *Options) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Merge copies every option of other into o. Existing keys are overridden
// in place; new keys are appended in other's order.
func (o *Options) Merge(other *Options) *Options {
	if other == nil || other == o {
		return o
	}
	for _, k := range other.keys {
		o.Set(k, other.values[k])
	}
	return o
}

// Clone returns a shallow copy. Nested maps are shared.
func (o *Options) Clone() *Options {
	c := New()
	return c.Merge(o)
}

// Snapshot returns an immutable copy for one render pass. Nested lists and
// maps are copied too.
func (o *Options) Snapshot() Snapshot {
	return Snapshot{opts: o.deepClone(nil)}
}

func (o *Options) deepClone(path []*Options) *Options {
	c := New()
	if o == nil {
		return c
	}
	path = append(path, o)
	for _, k := range o.keys {
		c.Set(k, cloneValue(o.values[k], path))
	}
	return c
}

// Script serializes the container. An empty container yields "{}".
func (o *Options) Script() (string, error) {
	b, err := o.appendScript(nil, nil)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// String implements fmt.Stringer. Serialization errors are rendered inline.
func (o *Options) String() string {
	s, err := o.Script()
	if err != nil {
		return fmt.Sprintf("!(%v)", err)
	}
	return s
}

func (o *Options) appendScript(b []byte, path []*Options) ([]byte, error) {
	b = append(b, '{')
	if o != nil {
		path = append(path, o)
		for i, k := range o.keys {
			if i > 0 {
				b = append(b, ',')
			}
			b = appendQuoted(b, k)
			b = append(b, ':')
			var err error
			if b, err = o.values[k].appendScript(b, path); err != nil {
				return b, fmt.Errorf("%q: %w", k, err)
			}
		}
	}
	return append(b, '}'), nil
}

// Snapshot is a read-only view of a container, taken at a configure
// checkpoint.
type Snapshot struct {
	opts *Options
}

// Get returns the value of an option.
func (s Snapshot) Get(name string) (Value, bool) { return s.opts.Get(name) }

// Int returns the integral value of an option or def.
func (s Snapshot) Int(name string, def int) int { return s.opts.Int(name, def) }

// Keys returns the option names in order.
func (s Snapshot) Keys() []string { return s.opts.Keys() }

// Len returns the number of options.
func (s Snapshot) Len() int { return s.opts.Len() }

// Script serializes the snapshot.
func (s Snapshot) Script() (string, error) { return s.opts.Script() }
