package qnty

import "fmt"

// ============================================================
// Capability interfaces
// ============================================================

// Evaluable is anything that can be turned into an expression and evaluated.
type Evaluable interface {
	Operand
	Eval(env Env) (Value, error)
}

// Arithmetic builds arithmetic expressions with the receiver on the left.
type Arithmetic interface {
	Add(o Operand) Expr
	Sub(o Operand) Expr
	Mul(o Operand) Expr
	Div(o Operand) Expr
	Pow(o Operand) Expr
}

// Comparable builds comparison expressions with the receiver on the left.
type Comparable interface {
	Lt(o Operand) Expr
	Le(o Operand) Expr
	Gt(o Operand) Expr
	Ge(o Operand) Expr
	EqTo(o Operand) Expr
	Ne(o Operand) Expr
}

var (
	_ Evaluable  = (*Variable)(nil)
	_ Arithmetic = (*Variable)(nil)
	_ Comparable = (*Variable)(nil)
)

// ============================================================
// Variable
// ============================================================

// Variable is a named slot that is either known (holds a Quantity) or unknown.
// An unknown variable may still declare the unit its solved value should be
// expressed in. Variables are mutated only by Set, Clear and
// Equation.SolveFor.
type Variable struct {
	name     string
	symbol   string
	unit     *Unit
	quantity Quantity
	known    bool
}

// NewVariable declares an unknown variable. unit may be nil.
func NewVariable(name string, unit *Unit) *Variable {
	return &Variable{name: name, unit: unit}
}

// Known declares a variable holding q.
func Known(name string, q Quantity) *Variable {
	q = q.norm()
	return &Variable{name: name, unit: q.unit, quantity: q, known: true}
}

// WithSymbol sets the display symbol and returns v.
func (v *Variable) WithSymbol(symbol string) *Variable {
	v.symbol = symbol
	return v
}

func (v *Variable) Name() string  { return v.name }
func (v *Variable) Unit() *Unit   { return v.unit }
func (v *Variable) IsKnown() bool { return v.known }

// Symbol returns the display symbol, defaulting to the name.
func (v *Variable) Symbol() string {
	if v.symbol != "" {
		return v.symbol
	}
	return v.name
}

// Quantity returns the bound value; ok is false while the variable is unknown.
func (v *Variable) Quantity() (Quantity, bool) {
	if !v.known {
		return Quantity{}, false
	}
	return v.quantity, true
}

// Set binds q and marks the variable known. The declared unit is adopted from
// q when none was declared.
func (v *Variable) Set(q Quantity) *Variable {
	q = q.norm()
	v.quantity = q
	v.known = true
	if v.unit == nil {
		v.unit = q.unit
	}
	return v
}

// Clear forgets the value but keeps the declared unit.
func (v *Variable) Clear() *Variable {
	v.quantity = Quantity{}
	v.known = false
	return v
}

func (v *Variable) String() string {
	if !v.known {
		if v.unit != nil && v.unit.String() != "" {
			return fmt.Sprintf("%s = ? %s", v.Symbol(), v.unit)
		}
		return v.Symbol() + " = ?"
	}
	return v.Symbol() + " = " + v.quantity.String()
}

// ============================================================
// Evaluable
// ============================================================

func (v *Variable) AsExpr() Expr { return RefOf(v) }

// Eval evaluates a reference to v: env takes precedence over v's own value.
func (v *Variable) Eval(env Env) (Value, error) { return RefOf(v).Eval(env) }

// ============================================================
// Arithmetic
// ============================================================

func (v *Variable) Add(o Operand) Expr { return AddOf(v, o) }
func (v *Variable) Sub(o Operand) Expr { return SubOf(v, o) }
func (v *Variable) Mul(o Operand) Expr { return MulOf(v, o) }
func (v *Variable) Div(o Operand) Expr { return DivOf(v, o) }
func (v *Variable) Pow(o Operand) Expr { return PowOf(v, o) }

// ============================================================
// Comparable
// ============================================================

func (v *Variable) Lt(o Operand) Expr   { return LtOf(v, o) }
func (v *Variable) Le(o Operand) Expr   { return LeOf(v, o) }
func (v *Variable) Gt(o Operand) Expr   { return GtOf(v, o) }
func (v *Variable) Ge(o Operand) Expr   { return GeOf(v, o) }
func (v *Variable) EqTo(o Operand) Expr { return EqOf(v, o) }
func (v *Variable) Ne(o Operand) Expr   { return NeOf(v, o) }

// Equals builds the direct-assignment equation v = rhs, named by its text.
func (v *Variable) Equals(rhs Operand) *Equation {
	return NewEquation("", v, rhs)
}
