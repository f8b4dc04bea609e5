// Package idl is the language-neutral IDL core: the value tree, the flat and
// full type trees, the program model (typedefs/accounts/instructions/events/
// errors), discriminators, and the dotted-path language used by the
// instruction resolver. The codec, hydrator, parser, exporter, and resolver
// packages all operate on these types; idl itself has no behavior beyond
// what is needed to construct and inspect them.
package idl

import (
	"github.com/iancoleman/orderedmap"
)

// ValueKind tags the variant of a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindBytes
)

// Value is the dynamically typed, JSON-shaped tree every encode/decode/
// parse/export operation in the core trades in. It mirrors the "value tree"
// of §3: Null, Bool, Number (materialized as a Number so both integers and
// floats round-trip exactly), String, Array, Object (insertion-order
// preserving), and Bytes (a dedicated variant so the codec need not guess
// whether a JSON array of small integers is meant as raw bytes - a value
// produced by the parser as Bytes is always encoded as raw bytes, and a
// value produced by the deserializer for a Vec<u8> field is always Bytes).
type Value struct {
	Kind ValueKind

	boolVal   bool
	numberVal Number
	stringVal string
	arrayVal  []*Value
	objectVal *orderedmap.OrderedMap
	bytesVal  []byte
}

// Number holds either an integer or a float, keeping the distinction so the
// deserializer can re-emit integers as integers rather than coercing
// through float64 (which would lose precision above 2^53).
type Number struct {
	IsFloat bool
	Int     int64
	// Big holds decimal-string magnitude for values that do not fit in
	// int64 (u64 above math.MaxInt64, any u128/i128). Empty when Int is
	// authoritative.
	Big   string
	Float float64
}

func Null() *Value { return &Value{Kind: KindNull} }

func Bool(b bool) *Value { return &Value{Kind: KindBool, boolVal: b} }

func Int(i int64) *Value { return &Value{Kind: KindNumber, numberVal: Number{Int: i}} }

func BigInt(decimal string) *Value {
	return &Value{Kind: KindNumber, numberVal: Number{Big: decimal}}
}

func Float(f float64) *Value { return &Value{Kind: KindNumber, numberVal: Number{IsFloat: true, Float: f}} }

func Str(s string) *Value { return &Value{Kind: KindString, stringVal: s} }

func Arr(items ...*Value) *Value { return &Value{Kind: KindArray, arrayVal: items} }

func Bytes(b []byte) *Value {
	cp := append([]byte(nil), b...)
	return &Value{Kind: KindBytes, bytesVal: cp}
}

// Obj builds an Object value from an ordered list of (key, value) pairs,
// preserving the order given.
func Obj(pairs ...KV) *Value {
	om := orderedmap.New()
	for _, kv := range pairs {
		om.Set(kv.Key, kv.Val)
	}
	return &Value{Kind: KindObject, objectVal: om}
}

// KV is one key/value pair for Obj.
type KV struct {
	Key string
	Val *Value
}

func (v *Value) IsNull() bool { return v == nil || v.Kind == KindNull }

func (v *Value) AsBool() (bool, bool) {
	if v == nil || v.Kind != KindBool {
		return false, false
	}
	return v.boolVal, true
}

func (v *Value) AsNumber() (Number, bool) {
	if v == nil || v.Kind != KindNumber {
		return Number{}, false
	}
	return v.numberVal, true
}

func (v *Value) AsString() (string, bool) {
	if v == nil || v.Kind != KindString {
		return "", false
	}
	return v.stringVal, true
}

func (v *Value) AsArray() ([]*Value, bool) {
	if v == nil || v.Kind != KindArray {
		return nil, false
	}
	return v.arrayVal, true
}

func (v *Value) AsBytes() ([]byte, bool) {
	if v == nil || v.Kind != KindBytes {
		return nil, false
	}
	return v.bytesVal, true
}

// AsObject returns the underlying ordered map and true if v is an Object.
func (v *Value) AsObject() (*orderedmap.OrderedMap, bool) {
	if v == nil || v.Kind != KindObject {
		return nil, false
	}
	return v.objectVal, true
}

// ObjectGet looks up key in an Object value.
func (v *Value) ObjectGet(key string) (*Value, bool) {
	om, ok := v.AsObject()
	if !ok {
		return nil, false
	}
	raw, found := om.Get(key)
	if !found {
		return nil, false
	}
	val, ok := raw.(*Value)
	return val, ok
}

// ObjectKeys returns an Object value's keys in insertion order.
func (v *Value) ObjectKeys() []string {
	om, ok := v.AsObject()
	if !ok {
		return nil
	}
	return om.Keys()
}

// ObjectSet inserts or overwrites key in an Object value.
func (v *Value) ObjectSet(key string, val *Value) {
	om, ok := v.AsObject()
	if !ok {
		return
	}
	om.Set(key, val)
}
