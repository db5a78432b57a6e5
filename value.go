package qnty

import (
	"math"
	"strconv"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindQuantity ValueKind = iota
	KindBoolean
)

// Value is the result of evaluating an expression: a Quantity, or a Boolean
// produced by a comparison.
type Value struct {
	kind ValueKind
	q    Quantity
	b    bool
}

func QuantityValue(q Quantity) Value { return Value{kind: KindQuantity, q: q.norm()} }
func BoolValue(b bool) Value         { return Value{kind: KindBoolean, b: b} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsBoolean() bool { return v.kind == KindBoolean }

// Quantity returns the quantity variant; ok is false for booleans.
func (v Value) Quantity() (Quantity, bool) {
	if v.kind != KindQuantity {
		return Quantity{}, false
	}
	return v.q, true
}

// Bool returns the boolean variant; ok is false for quantities.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.b, true
}

// Truthy is the condition test used by Conditional: booleans as themselves,
// quantities by magnitude above Epsilon.
func (v Value) Truthy() bool {
	if v.kind == KindBoolean {
		return v.b
	}
	return math.Abs(v.q.value) > Epsilon
}

// Equal compares two values of the same variant.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind == KindBoolean {
		return v.b == o.b
	}
	return v.q.Equal(o.q)
}

func (v Value) String() string {
	if v.kind == KindBoolean {
		return strconv.FormatBool(v.b)
	}
	return v.q.String()
}
