package qnty

import "math"

// ============================================================
// Unit
// ============================================================

// Unit is a named conversion to the SI base unit of its dimension:
// si = value*factor + offset. Units are immutable once constructed.
type Unit struct {
	name    string
	symbol  string
	sig     Signature
	factor  float64
	offset  float64
	aliases []string

	reg *Registry // set on registration; used to find product/quotient units
}

// NewUnit returns a linear unit.
func NewUnit(name, symbol string, sig Signature, factor float64) *Unit {
	return &Unit{name: name, symbol: symbol, sig: sig.valid(), factor: factor}
}

// NewAffineUnit returns a unit with an SI offset, e.g. degrees Celsius.
func NewAffineUnit(name, symbol string, sig Signature, factor, offset float64) *Unit {
	return &Unit{name: name, symbol: symbol, sig: sig.valid(), factor: factor, offset: offset}
}

func (u *Unit) Name() string           { return u.name }
func (u *Unit) Symbol() string         { return u.symbol }
func (u *Unit) Signature() Signature   { return u.sig }
func (u *Unit) Factor() float64        { return u.factor }
func (u *Unit) Offset() float64        { return u.offset }
func (u *Unit) Aliases() []string      { return append([]string(nil), u.aliases...) }
func (u *Unit) ToSI(v float64) float64 { return v*u.factor + u.offset }

func (u *Unit) FromSI(si float64) float64 { return (si - u.offset) / u.factor }

// IsCoherent reports whether the unit is the SI unit of its dimension.
func (u *Unit) IsCoherent() bool { return u.factor == 1 && u.offset == 0 }

func (u *Unit) String() string {
	if u == nil {
		return ""
	}
	if u.symbol != "" {
		return u.symbol
	}
	return u.name
}

func (u *Unit) registry() *Registry {
	if u.reg != nil {
		return u.reg
	}
	return Default()
}

func (u *Unit) validate() error {
	if u.name == "" {
		return newError(CodeInvalidUnit, "unit name is empty")
	}
	if u.factor == 0 || math.IsNaN(u.factor) || math.IsInf(u.factor, 0) {
		return withMeta(CodeInvalidUnit, map[string]string{"unit": u.name},
			"unit %s: SI factor must be finite and non-zero", u.name)
	}
	if math.IsNaN(u.offset) || math.IsInf(u.offset, 0) {
		return withMeta(CodeInvalidUnit, map[string]string{"unit": u.name},
			"unit %s: SI offset must be finite", u.name)
	}
	return nil
}
