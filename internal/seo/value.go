package seo

import "encoding/json"

// valueKind tags the variant held by a Value.
type valueKind int

const (
	kindAbsent valueKind = iota
	kindLiteral
	kindDeferred
)

// Value is a tag value: a literal string, a deferred string produced at read
// time, or absent. The zero Value is absent.
type Value struct {
	kind     valueKind
	literal  string
	deferred func() string
}

// Absent returns the absent value.
func Absent() Value {
	return Value{}
}

// Literal wraps a plain string.
func Literal(s string) Value {
	return Value{kind: kindLiteral, literal: s}
}

// Deferred wraps a function evaluated each time the value is read.
// A nil function is treated as absent.
func Deferred(fn func() string) Value {
	if fn == nil {
		return Value{}
	}
	return Value{kind: kindDeferred, deferred: fn}
}

// Resolve evaluates the value. Deferred values are called once per Resolve;
// the result is always either a literal or absent.
func (v Value) Resolve() Value {
	if v.kind == kindDeferred {
		return Literal(v.deferred())
	}
	return v
}

// Present reports whether the value is not absent.
func (v Value) Present() bool {
	return v.kind != kindAbsent
}

// IsDeferred reports whether reading the value calls a function.
func (v Value) IsDeferred() bool {
	return v.kind == kindDeferred
}

// Lookup resolves the value and returns its string and presence.
func (v Value) Lookup() (string, bool) {
	r := v.Resolve()
	return r.literal, r.kind == kindLiteral
}

// String resolves the value; absent values yield "".
func (v Value) String() string {
	s, _ := v.Lookup()
	return s
}

// Interface returns the resolved string, or nil when absent. Useful when a
// value is handed to encoders that must distinguish null from "".
func (v Value) Interface() any {
	if s, ok := v.Lookup(); ok {
		return s
	}
	return nil
}

// Equal compares two resolved values.
func (v Value) Equal(other Value) bool {
	a, aok := v.Lookup()
	b, bok := other.Lookup()
	return aok == bok && a == b
}

// MarshalJSON encodes the resolved value, absent as null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}
