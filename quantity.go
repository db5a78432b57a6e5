package qnty

import (
	"math"
	"strconv"
)

// Epsilon is the magnitude below which a divisor counts as zero and a
// condition counts as false.
const Epsilon = 1e-12

// RelTolerance is the relative tolerance used by Quantity equality.
const RelTolerance = 1e-9

// ============================================================
// Quantity
// ============================================================

// Quantity is a value with a unit. The unit's SI factor, offset and signature
// are copied in at construction so repeated arithmetic never goes back to the
// registry. Quantities are immutable; every operation returns a new one.
type Quantity struct {
	value    float64
	unit     *Unit
	siFactor float64
	siOffset float64
	sig      Signature
}

// Q returns value measured in u. A nil unit means dimensionless.
func Q(value float64, u *Unit) Quantity {
	if u == nil {
		u = Default().ResultUnit(Dimensionless)
	}
	return Quantity{value: value, unit: u, siFactor: u.factor, siOffset: u.offset, sig: u.sig}
}

// MustQ resolves alias in the default registry and panics if it is unknown.
func MustQ(value float64, alias string) Quantity {
	return Q(value, Default().MustGet(alias))
}

// Scalar returns a dimensionless quantity.
func Scalar(v float64) Quantity { return Q(v, nil) }

func (q Quantity) Value() float64        { return q.value }
func (q Quantity) Unit() *Unit           { return q.norm().unit }
func (q Quantity) Signature() Signature  { return q.sig.valid() }
func (q Quantity) IsDimensionless() bool { return q.sig.valid() == Dimensionless }

// SI returns the value in the coherent SI unit of q's dimension.
func (q Quantity) SI() float64 {
	q = q.norm()
	return q.value*q.siFactor + q.siOffset
}

func (q Quantity) String() string {
	q = q.norm()
	s := strconv.FormatFloat(q.value, 'g', -1, 64)
	if sym := q.unit.String(); sym != "" && sym != "dimensionless" {
		s += " " + sym
	}
	return s
}

// AsExpr wraps the quantity as a constant expression.
func (q Quantity) AsExpr() Expr { return Lit(q) }

func (q Quantity) norm() Quantity {
	if q.unit == nil {
		return Q(q.value, nil)
	}
	return q
}

func (q Quantity) with(v float64) Quantity {
	q.value = v
	return q
}

// isScalar reports whether q can act as a bare number: dimensionless with a
// coherent unit.
func (q Quantity) isScalar() bool {
	return q.sig.valid() == Dimensionless && q.siFactor == 1 && q.siOffset == 0
}

// ============================================================
// Arithmetic
// ============================================================

// Add requires equal dimensions and returns the sum in q's unit.
func (q Quantity) Add(o Quantity) (Quantity, error) {
	q, o = q.norm(), o.norm()
	if q.sig != o.sig {
		return Quantity{}, dimensionMismatch("add", q.sig, o.sig)
	}
	if q.unit == o.unit {
		return q.with(q.value + o.value), nil
	}
	return q.with(q.value + q.unit.FromSI(o.SI())), nil
}

// Sub requires equal dimensions and returns the difference in q's unit.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	q, o = q.norm(), o.norm()
	if q.sig != o.sig {
		return Quantity{}, dimensionMismatch("subtract", q.sig, o.sig)
	}
	if q.unit == o.unit {
		return q.with(q.value - o.value), nil
	}
	return q.with(q.value - q.unit.FromSI(o.SI())), nil
}

// Scale multiplies by a bare number, keeping the unit.
func (q Quantity) Scale(f float64) Quantity { return q.norm().with(q.value * f) }

// DivScalar divides by a bare number, keeping the unit.
func (q Quantity) DivScalar(f float64) Quantity { return q.norm().with(q.value / f) }

func (q Quantity) Neg() Quantity { return q.norm().with(-q.value) }

// Mul combines signatures and expresses the SI product in the registry's
// result unit for the new dimension. A coherent dimensionless operand acts as
// a bare number and keeps the other operand's unit.
//
// Mul, Div and Pow panic if the resulting dimension overflows the signature
// encoding; expression evaluation reports that as CodeArithmeticGuard instead.
func (q Quantity) Mul(o Quantity) Quantity { return orPanic(q.mul(o)) }

// Div is Mul with the divisor's signature inverted. Division by zero follows
// IEEE rules; the expression layer guards it.
func (q Quantity) Div(o Quantity) Quantity { return orPanic(q.div(o)) }

// Pow raises q to an integer power.
func (q Quantity) Pow(n int) Quantity { return orPanic(q.pow(n)) }

func orPanic(q Quantity, err error) Quantity {
	if err != nil {
		panic("qnty: " + err.Error())
	}
	return q
}

func (q Quantity) mul(o Quantity) (Quantity, error) {
	q, o = q.norm(), o.norm()
	switch {
	case o.isScalar():
		return q.with(q.value * o.value), nil
	case q.isScalar():
		return o.with(q.value * o.value), nil
	}
	sig, ok := q.sig.mul(o.sig)
	if !ok {
		return Quantity{}, signatureOverflow("product", q.sig, o.sig)
	}
	u := q.unit.registry().ResultUnit(sig)
	return Q(u.FromSI(q.SI()*o.SI()), u), nil
}

func (q Quantity) div(o Quantity) (Quantity, error) {
	q, o = q.norm(), o.norm()
	if o.isScalar() {
		return q.with(q.value / o.value), nil
	}
	sig, ok := q.sig.mul(o.sig.Inverse())
	if !ok {
		return Quantity{}, signatureOverflow("quotient", q.sig, o.sig)
	}
	u := q.unit.registry().ResultUnit(sig)
	return Q(u.FromSI(q.SI()/o.SI()), u), nil
}

func (q Quantity) pow(n int) (Quantity, error) {
	q = q.norm()
	switch {
	case n == 1:
		return q, nil
	case q.isScalar():
		return q.with(math.Pow(q.value, float64(n))), nil
	}
	sig, ok := q.sig.pow(n)
	if !ok {
		return Quantity{}, signatureOverflow("power", q.sig)
	}
	u := q.unit.registry().ResultUnit(sig)
	return Q(u.FromSI(math.Pow(q.SI(), float64(n))), u), nil
}

// ============================================================
// Conversion
// ============================================================

// To expresses q in target, which must share q's dimension.
func (q Quantity) To(target *Unit) (Quantity, error) {
	q = q.norm()
	if target == q.unit {
		return q, nil
	}
	if target.sig != q.sig {
		return Quantity{}, dimensionMismatch("convert", q.sig, target.sig)
	}
	return Q(target.FromSI(q.value*q.siFactor+q.siOffset), target), nil
}

// ToAlias converts to a unit looked up in q's registry.
func (q Quantity) ToAlias(alias string) (Quantity, error) {
	q = q.norm()
	u, err := q.unit.registry().Get(alias)
	if err != nil {
		return Quantity{}, err
	}
	return q.To(u)
}

// ToPreferred converts to the registry's display unit for q's dimension, or
// returns q unchanged when there is none.
func (q Quantity) ToPreferred() Quantity {
	q = q.norm()
	u, ok := q.unit.registry().PreferredFor(q.sig)
	if !ok {
		return q
	}
	c, err := q.To(u)
	if err != nil {
		return q
	}
	return c
}

// ============================================================
// Comparison
// ============================================================

// Equal reports whether q and o describe the same amount within RelTolerance.
// Quantities of different dimensions are never equal.
func (q Quantity) Equal(o Quantity) bool {
	q, o = q.norm(), o.norm()
	if q.sig != o.sig {
		return false
	}
	return approxEqual(q.value, q.unit.FromSI(o.SI()))
}

// Compare returns -1, 0 or +1; equality uses the same tolerance as Equal.
func (q Quantity) Compare(o Quantity) (int, error) {
	q, o = q.norm(), o.norm()
	if q.sig != o.sig {
		return 0, dimensionMismatch("compare", q.sig, o.sig)
	}
	a, b := q.value, q.unit.FromSI(o.SI())
	switch {
	case approxEqual(a, b):
		return 0, nil
	case a < b:
		return -1, nil
	default:
		return 1, nil
	}
}

func (q Quantity) Less(o Quantity) (bool, error) {
	c, err := q.Compare(o)
	if err != nil {
		return false, err
	}
	return c < 0, nil
}

func (q Quantity) LessEqual(o Quantity) (bool, error) {
	c, err := q.Compare(o)
	if err != nil {
		return false, err
	}
	return c <= 0, nil
}

func (q Quantity) Greater(o Quantity) (bool, error) {
	c, err := q.Compare(o)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

func (q Quantity) GreaterEqual(o Quantity) (bool, error) {
	c, err := q.Compare(o)
	if err != nil {
		return false, err
	}
	return c >= 0, nil
}

func approxEqual(a, b float64) bool {
	d := math.Abs(a - b)
	if d <= Epsilon {
		return true
	}
	return d <= RelTolerance*math.Max(math.Abs(a), math.Abs(b))
}
