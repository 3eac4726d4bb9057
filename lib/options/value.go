// Package options provides the ordered, typed configuration container that
// widgets receive as their constructor argument.
//
// Values form a closed set: null, boolean, number, string, raw script,
// list and nested map. Serialization is deterministic and order-preserving
// so identical insertion sequences always produce identical script text.
//
//	opts := options.New().
//	    Set("min", options.Int(1)).
//	    Set("max", options.Int(50)).
//	    Set("change", options.Raw("function(event, ui) { ... }"))
//
//	script, err := opts.Script() // {"min":1,"max":50,"change":function(event, ui) { ... }}
package options

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"sort"
	"strconv"
)

// ErrConfiguration is returned when a value cannot be serialized.
var ErrConfiguration = errors.New("options: invalid option value")

// Kind discriminates option values.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindRaw
	KindList
	KindMap
	kindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindRaw:
		return "raw"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return "invalid"
}

// Value is an option value. The set of implementations is closed; use the
// constructors in this package.
type Value interface {
	Kind() Kind
	appendScript(b []byte, path []*Options) ([]byte, error)
}

type nullValue struct{}

type boolValue bool

type intValue int64

type floatValue float64

type stringValue string

type rawValue string

type listValue []Value

type mapValue struct{ opts *Options }

type invalidValue struct{ err error }

// Null returns the null value.
func Null() Value { return nullValue{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return boolValue(b) }

// Int returns an integral number value.
func Int(n int64) Value { return intValue(n) }

// Float returns a number value.
func Float(f float64) Value { return floatValue(f) }

// String returns a value that is quoted and escaped on serialization.
func String(s string) Value { return stringValue(s) }

// Raw returns a value emitted verbatim, typically a function literal.
// The caller is responsible for producing valid script text.
func Raw(script string) Value { return rawValue(script) }

// List returns an ordered list value.
func List(vs ...Value) Value {
	l := make(listValue, len(vs))
	copy(l, vs)
	return l
}

// Map returns a nested map value. A nil container serializes as {}.
func Map(o *Options) Value { return mapValue{opts: o} }

func (nullValue) Kind() Kind    { return KindNull }
func (boolValue) Kind() Kind    { return KindBool }
func (intValue) Kind() Kind     { return KindNumber }
func (floatValue) Kind() Kind   { return KindNumber }
func (stringValue) Kind() Kind  { return KindString }
func (rawValue) Kind() Kind     { return KindRaw }
func (listValue) Kind() Kind    { return KindList }
func (mapValue) Kind() Kind     { return KindMap }
func (invalidValue) Kind() Kind { return kindInvalid }

func (nullValue) appendScript(b []byte, path []*Options) ([]byte, error) {
	return append(b, "null"...), nil
}

func (v boolValue) appendScript(b []byte, path []*Options) ([]byte, error) {
	return strconv.AppendBool(b, bool(v)), nil
}

func (v intValue) appendScript(b []byte, path []*Options) ([]byte, error) {
	return strconv.AppendInt(b, int64(v), 10), nil
}

func (v floatValue) appendScript(b []byte, path []*Options) ([]byte, error) {
	return appendFloat(b, float64(v))
}

func (v stringValue) appendScript(b []byte, path []*Options) ([]byte, error) {
	return appendQuoted(b, string(v)), nil
}

func (v rawValue) appendScript(b []byte, path []*Options) ([]byte, error) {
	return append(b, v...), nil
}

func (v listValue) appendScript(b []byte, path []*Options) ([]byte, error) {
	b = append(b, '[')
	for i, item := range v {
		if i > 0 {
			b = append(b, ',')
		}
		if item == nil {
			item = nullValue{}
		}
		var err error
		if b, err = item.appendScript(b, path); err != nil {
			return b, fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return append(b, ']'), nil
}

func (v mapValue) appendScript(b []byte, path []*Options) ([]byte, error) {
	if v.opts == nil {
		return append(b, "{}"...), nil
	}
	if slices.Contains(path, v.opts) {
		return b, fmt.Errorf("%w: container contains itself", ErrConfiguration)
	}
	return v.opts.appendScript(b, path)
}

// cloneValue copies nested lists and maps. Containers already on path are
// shared; they fail on serialization anyway.
func cloneValue(v Value, path []*Options) Value {
	switch t := v.(type) {
	case listValue:
		l := make(listValue, len(t))
		for i, item := range t {
			l[i] = cloneValue(item, path)
		}
		return l
	case mapValue:
		if t.opts == nil || slices.Contains(path, t.opts) {
			return t
		}
		return mapValue{opts: t.opts.deepClone(path)}
	}
	return v
}

func (v invalidValue) appendScript(b []byte, path []*Options) ([]byte, error) {
	return b, v.err
}

// appendFloat writes f the way ECMAScript prints numbers, independent of
// locale.
func appendFloat(b []byte, f float64) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return b, fmt.Errorf("%w: %v is not a finite number", ErrConfiguration, f)
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b = strconv.AppendFloat(b, f, format, -1, 64)
	if format == 'e' {
		// 1e-07 -> 1e-7
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	return b, nil
}

const hexDigits = "0123456789abcdef"

// appendQuoted writes s as a double-quoted script string. Characters that
// could terminate an enclosing <script> element are escaped as well.
func appendQuoted(b []byte, s string) []byte {
	b = append(b, '"')
	for _, r := range s {
		switch {
		case r == '"':
			b = append(b, '\\', '"')
		case r == '\\':
			b = append(b, '\\', '\\')
		case r == '\n':
			b = append(b, '\\', 'n')
		case r == '\r':
			b = append(b, '\\', 'r')
		case r == '\t':
			b = append(b, '\\', 't')
		case r < 0x20, r == '<', r == '>', r == '&', r == 0x2028, r == 0x2029:
			b = append(b, '\\', 'u',
				hexDigits[(r>>12)&0xf], hexDigits[(r>>8)&0xf],
				hexDigits[(r>>4)&0xf], hexDigits[r&0xf])
		default:
			b = append(b, string(r)...)
		}
	}
	return append(b, '"')
}

// Of converts a Go value into an option Value.
//
// Supported: nil, Value, *Options, bool, integer and float kinds, string,
// slices and arrays, and maps with string keys (serialized in sorted key
// order). Anything else produces a value that fails with ErrConfiguration
// when serialized.
func Of(v any) Value {
	switch t := v.(type) {
	case nil:
		return nullValue{}
	case Value:
		return t
	case *Options:
		return mapValue{opts: t}
	case bool:
		return boolValue(t)
	case string:
		return stringValue(t)
	case int:
		return intValue(t)
	case int64:
		return intValue(t)
	case float64:
		return floatValue(t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intValue(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return floatValue(float64(u))
		}
		return intValue(int64(u))
	case reflect.Float32, reflect.Float64:
		return floatValue(rv.Float())
	case reflect.String:
		return stringValue(rv.String())
	case reflect.Bool:
		return boolValue(rv.Bool())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nullValue{}
		}
		l := make(listValue, rv.Len())
		for i := range l {
			l[i] = Of(rv.Index(i).Interface())
		}
		return l
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			return nullValue{}
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		o := New()
		for _, k := range keys {
			o.Set(k, Of(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()))
		}
		return mapValue{opts: o}
	case reflect.Pointer:
		if rv.IsNil() {
			return nullValue{}
		}
		return Of(rv.Elem().Interface())
	}
	return invalidValue{err: fmt.Errorf("%w: unsupported type %T", ErrConfiguration, v)}
}

// AsInt reports the integral value of a number value.
func AsInt(v Value) (int64, bool) {
	switch t := v.(type) {
	case intValue:
		return int64(t), true
	case floatValue:
		f := float64(t)
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			return int64(f), true
		}
	}
	return 0, false
}

// AsFloat reports the value of a number value.
func AsFloat(v Value) (float64, bool) {
	switch t := v.(type) {
	case intValue:
		return float64(t), true
	case floatValue:
		return float64(t), true
	}
	return 0, false
}

// AsString reports the text of a string or raw value.
func AsString(v Value) (string, bool) {
	switch t := v.(type) {
	case stringValue:
		return string(t), true
	case rawValue:
		return string(t), true
	}
	return "", false
}

// AsBool reports the value of a boolean value.
func AsBool(v Value) (bool, bool) {
	b, ok := v.(boolValue)
	return bool(b), ok
}

// Script serializes a single value.
func Script(v Value) (string, error) {
	if v == nil {
		v = nullValue{}
	}
	b, err := v.appendScript(nil, nil)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
