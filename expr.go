package qnty

import (
	"math"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is an immutable expression tree over Quantities and named variables.
// The node set is closed: Const, VarRef, BinaryOp, UnaryFunc, Conditional
// and Comparison.
type Expr interface {
	Operand
	Eval(env Env) (Value, error)
	Simplify() (Expr, error)
	Variables() []string
	String() string
	Equal(other Expr) bool
	exprType() string
	varNames() []string
	toJSON() map[string]interface{}
}

// Evaluate evaluates e and requires a quantity result.
func Evaluate(e Expr, env Env) (Quantity, error) {
	v, err := e.Eval(env)
	if err != nil {
		return Quantity{}, err
	}
	q, ok := v.Quantity()
	if !ok {
		return Quantity{}, newError(CodeEvaluation, "expression %s is boolean, not a quantity", e)
	}
	return q, nil
}

// Simplify folds every variable-free subtree of e into a constant.
func Simplify(e Expr) (Expr, error) { return e.Simplify() }

// Variables returns the sorted variable names referenced by e.
func Variables(e Expr) []string { return e.Variables() }

// fold replaces a variable-free node by its value. Failures of the kinds
// evaluation is expected to hit leave the node as it is.
func fold(e Expr) (Expr, error) {
	if len(e.varNames()) > 0 {
		return e, nil
	}
	v, err := e.Eval(nil)
	if err != nil {
		if isFoldable(err) {
			return e, nil
		}
		return nil, err
	}
	return &Const{val: v}, nil
}

func copyNames(names []string) []string { return append([]string(nil), names...) }

func evalQuantity(e Expr, env Env) (Quantity, error) {
	v, err := e.Eval(env)
	if err != nil {
		return Quantity{}, err
	}
	q, ok := v.Quantity()
	if !ok {
		return Quantity{}, newError(CodeEvaluation, "operand %s is boolean, not a quantity", e)
	}
	return q, nil
}

// ============================================================
// Const
// ============================================================

type Const struct{ val Value }

func (c *Const) AsExpr() Expr            { return c }
func (c *Const) Eval(Env) (Value, error) { return c.val, nil }
func (c *Const) Simplify() (Expr, error) { return c, nil }
func (c *Const) Variables() []string     { return nil }
func (c *Const) varNames() []string      { return nil }
func (c *Const) String() string          { return c.val.String() }
func (c *Const) exprType() string        { return "const" }
func (c *Const) Value() Value            { return c.val }
func (c *Const) Equal(other Expr) bool {
	o, ok := other.(*Const)
	return ok && c.val.Equal(o.val)
}

// ============================================================
// VarRef
// ============================================================

type VarRef struct {
	name  string
	bound *Variable
	vars  []string
}

func (r *VarRef) AsExpr() Expr            { return r }
func (r *VarRef) Simplify() (Expr, error) { return r, nil }
func (r *VarRef) Variables() []string     { return copyNames(r.vars) }
func (r *VarRef) varNames() []string      { return r.vars }
func (r *VarRef) String() string          { return r.name }
func (r *VarRef) exprType() string        { return "var" }
func (r *VarRef) Name() string            { return r.name }

// Bound returns the Variable this reference was built from, if any.
func (r *VarRef) Bound() *Variable { return r.bound }

func (r *VarRef) Equal(other Expr) bool {
	o, ok := other.(*VarRef)
	return ok && r.name == o.name
}

// Eval looks the name up in env, then falls back to the bound Variable.
func (r *VarRef) Eval(env Env) (Value, error) {
	v, found := env[r.name]
	if !found || v == nil {
		v = r.bound
	}
	if v == nil {
		avail := env.KnownNames()
		return Value{}, withMeta(CodeUnknownVariable,
			map[string]string{"variable": r.name, "available": joinNames(avail)},
			"unknown variable %q (available: %s)", r.name, strings.Join(avail, ", "))
	}
	if q, ok := v.Quantity(); ok {
		return QuantityValue(q), nil
	}
	if found && r.bound != nil && r.bound != v {
		if q, ok := r.bound.Quantity(); ok {
			return QuantityValue(q), nil
		}
	}
	return Value{}, withMeta(CodeEvaluation, map[string]string{"variable": r.name},
		"variable %q has no value", r.name)
}

// ============================================================
// BinaryOp
// ============================================================

// BinaryOperator is one of + - * / ^.
type BinaryOperator string

const (
	OpAdd BinaryOperator = "+"
	OpSub BinaryOperator = "-"
	OpMul BinaryOperator = "*"
	OpDiv BinaryOperator = "/"
	OpPow BinaryOperator = "^"
)

func (op BinaryOperator) valid() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpPow:
		return true
	}
	return false
}

func (op BinaryOperator) precedence() int {
	switch op {
	case OpAdd, OpSub:
		return 1
	case OpMul, OpDiv:
		return 2
	}
	return 3
}

type BinaryOp struct {
	op          BinaryOperator
	left, right Expr
	vars        []string
}

func newBinary(op BinaryOperator, l, r Expr) *BinaryOp {
	return &BinaryOp{op: op, left: l, right: r, vars: mergeNames(l.varNames(), r.varNames())}
}

func AddOf(a, b Operand) Expr { return newBinary(OpAdd, toExpr(a), toExpr(b)) }
func SubOf(a, b Operand) Expr { return newBinary(OpSub, toExpr(a), toExpr(b)) }
func MulOf(a, b Operand) Expr { return newBinary(OpMul, toExpr(a), toExpr(b)) }
func DivOf(a, b Operand) Expr { return newBinary(OpDiv, toExpr(a), toExpr(b)) }
func PowOf(a, b Operand) Expr { return newBinary(OpPow, toExpr(a), toExpr(b)) }

// NegOf is -a, kept in a's unit.
func NegOf(a Operand) Expr { return MulOf(Num(-1), a) }

func (b *BinaryOp) AsExpr() Expr                 { return b }
func (b *BinaryOp) Variables() []string          { return copyNames(b.vars) }
func (b *BinaryOp) varNames() []string           { return b.vars }
func (b *BinaryOp) exprType() string             { return "binary" }
func (b *BinaryOp) Op() BinaryOperator           { return b.op }
func (b *BinaryOp) Operands() (left, right Expr) { return b.left, b.right }

func (b *BinaryOp) Equal(other Expr) bool {
	o, ok := other.(*BinaryOp)
	return ok && b.op == o.op && b.left.Equal(o.left) && b.right.Equal(o.right)
}

func (b *BinaryOp) String() string {
	return b.side(b.left, false) + " " + string(b.op) + " " + b.side(b.right, true)
}

func (b *BinaryOp) side(e Expr, right bool) string {
	s := e.String()
	child, ok := e.(*BinaryOp)
	if !ok {
		if _, cmp := e.(*Comparison); cmp {
			return "(" + s + ")"
		}
		return s
	}
	p, cp := b.op.precedence(), child.op.precedence()
	switch {
	case cp < p:
		return "(" + s + ")"
	case cp == p && b.op == OpPow && !right:
		return "(" + s + ")"
	case cp == p && right && (b.op == OpSub || b.op == OpDiv):
		return "(" + s + ")"
	}
	return s
}

func (b *BinaryOp) Simplify() (Expr, error) {
	l, err := b.left.Simplify()
	if err != nil {
		return nil, err
	}
	r, err := b.right.Simplify()
	if err != nil {
		return nil, err
	}
	return fold(newBinary(b.op, l, r))
}

func (b *BinaryOp) Eval(env Env) (Value, error) {
	l, err := evalQuantity(b.left, env)
	if err != nil {
		return Value{}, err
	}
	r, err := evalQuantity(b.right, env)
	if err != nil {
		return Value{}, err
	}
	var out Quantity
	switch b.op {
	case OpAdd:
		out, err = l.Add(r)
	case OpSub:
		out, err = l.Sub(r)
	case OpMul:
		out, err = l.mul(r)
	case OpDiv:
		if math.Abs(r.value) < Epsilon {
			return Value{}, withMeta(CodeArithmeticGuard, map[string]string{"expr": b.String()},
				"division by near-zero value in %s", b)
		}
		out, err = l.div(r)
	case OpPow:
		out, err = power(l, r)
	default:
		return Value{}, newError(CodeInvalidExpression, "unknown operator %q", b.op)
	}
	if err != nil {
		return Value{}, err
	}
	return QuantityValue(out), nil
}

// power raises base to a dimensionless exponent. Dimensioned bases need an
// integer exponent; a negative base needs a non-negative integer one.
func power(base, exp Quantity) (Quantity, error) {
	if !exp.IsDimensionless() {
		return Quantity{}, withMeta(CodeDimensionMismatch,
			map[string]string{"exponent": exp.String()},
			"exponent %s is not dimensionless", exp)
	}
	e := exp.SI()
	isInt := e == math.Trunc(e) && !math.IsInf(e, 0)
	if base.value < 0 && (!isInt || e < 0) {
		return Quantity{}, withMeta(CodeArithmeticGuard,
			map[string]string{"base": base.String(), "exponent": exp.String()},
			"negative base %s with exponent %g", base, e)
	}
	if e < 0 && math.Abs(base.value) < Epsilon {
		return Quantity{}, withMeta(CodeArithmeticGuard,
			map[string]string{"base": base.String(), "exponent": exp.String()},
			"near-zero base %s with negative exponent %g", base, e)
	}
	if base.IsDimensionless() {
		return Scalar(math.Pow(base.SI(), e)), nil
	}
	if !isInt {
		return Quantity{}, withMeta(CodeDimensionMismatch,
			map[string]string{"base": base.String(), "exponent": exp.String()},
			"non-integer exponent %g on dimensioned base %s", e, base)
	}
	if math.Abs(e) > MaxExponent {
		return Quantity{}, withMeta(CodeArithmeticGuard,
			map[string]string{"base": base.String(), "exponent": exp.String()},
			"exponent %g on dimensioned base %s exceeds %d", e, base, MaxExponent)
	}
	return base.pow(int(e))
}

// ============================================================
// UnaryFunc
// ============================================================

var unaryFuncs = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"sqrt":  math.Sqrt,
	"abs":   math.Abs,
	"ln":    math.Log,
	"log10": math.Log10,
	"exp":   math.Exp,
}

// IsUnaryFunc reports whether name is a supported function.
func IsUnaryFunc(name string) bool {
	_, ok := unaryFuncs[name]
	return ok
}

type UnaryFunc struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Operand) *UnaryFunc {
	if !IsUnaryFunc(name) {
		panic("qnty: unknown function " + name)
	}
	return &UnaryFunc{name: name, arg: toExpr(arg)}
}

func SinOf(arg Operand) Expr   { return funcOf("sin", arg) }
func CosOf(arg Operand) Expr   { return funcOf("cos", arg) }
func TanOf(arg Operand) Expr   { return funcOf("tan", arg) }
func SqrtOf(arg Operand) Expr  { return funcOf("sqrt", arg) }
func AbsOf(arg Operand) Expr   { return funcOf("abs", arg) }
func LnOf(arg Operand) Expr    { return funcOf("ln", arg) }
func Log10Of(arg Operand) Expr { return funcOf("log10", arg) }
func ExpOf(arg Operand) Expr   { return funcOf("exp", arg) }

func (f *UnaryFunc) AsExpr() Expr        { return f }
func (f *UnaryFunc) Variables() []string { return f.arg.Variables() }
func (f *UnaryFunc) varNames() []string  { return f.arg.varNames() }
func (f *UnaryFunc) String() string      { return f.name + "(" + f.arg.String() + ")" }
func (f *UnaryFunc) exprType() string    { return "unary" }
func (f *UnaryFunc) FuncName() string    { return f.name }
func (f *UnaryFunc) Arg() Expr           { return f.arg }

func (f *UnaryFunc) Equal(other Expr) bool {
	o, ok := other.(*UnaryFunc)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *UnaryFunc) Simplify() (Expr, error) {
	arg, err := f.arg.Simplify()
	if err != nil {
		return nil, err
	}
	return fold(&UnaryFunc{name: f.name, arg: arg})
}

// Eval applies the function to the operand's value. sqrt and abs keep the
// operand's unit; this does not take the root of the dimension. The others
// treat their operand as dimensionless (SI value for dimensionless units, so
// degrees become radians) and return a dimensionless result.
func (f *UnaryFunc) Eval(env Env) (Value, error) {
	q, err := evalQuantity(f.arg, env)
	if err != nil {
		return Value{}, err
	}
	fn, ok := unaryFuncs[f.name]
	if !ok {
		return Value{}, newError(CodeInvalidExpression, "unknown function %q", f.name)
	}
	switch f.name {
	case "sqrt", "abs":
		if f.name == "sqrt" && q.value < 0 {
			return Value{}, withMeta(CodeArithmeticGuard, map[string]string{"expr": f.String()},
				"square root of negative value %s", q)
		}
		return QuantityValue(q.with(fn(q.value))), nil
	}
	x := q.value
	if q.IsDimensionless() {
		x = q.SI()
	}
	if (f.name == "ln" || f.name == "log10") && x <= 0 {
		return Value{}, withMeta(CodeArithmeticGuard, map[string]string{"expr": f.String()},
			"logarithm of non-positive value %g", x)
	}
	return QuantityValue(Scalar(fn(x))), nil
}

// ============================================================
// Conditional
// ============================================================

type Conditional struct {
	cond, then, els Expr
	vars            []string
}

// IfOf selects then when cond is true (or a quantity of magnitude above
// Epsilon) and els otherwise. Only the selected branch is evaluated.
func IfOf(cond, then, els Operand) Expr {
	c, t, e := toExpr(cond), toExpr(then), toExpr(els)
	return &Conditional{cond: c, then: t, els: e, vars: mergeNames(c.varNames(), t.varNames(), e.varNames())}
}

func (c *Conditional) AsExpr() Expr        { return c }
func (c *Conditional) Variables() []string { return copyNames(c.vars) }
func (c *Conditional) varNames() []string  { return c.vars }
func (c *Conditional) exprType() string    { return "cond" }

func (c *Conditional) String() string {
	return "if(" + c.cond.String() + ", " + c.then.String() + ", " + c.els.String() + ")"
}

func (c *Conditional) Equal(other Expr) bool {
	o, ok := other.(*Conditional)
	return ok && c.cond.Equal(o.cond) && c.then.Equal(o.then) && c.els.Equal(o.els)
}

func (c *Conditional) Eval(env Env) (Value, error) {
	cv, err := c.cond.Eval(env)
	if err != nil {
		return Value{}, err
	}
	if cv.Truthy() {
		return c.then.Eval(env)
	}
	return c.els.Eval(env)
}

// Simplify also drops the dead branch once the condition is constant.
func (c *Conditional) Simplify() (Expr, error) {
	cond, err := c.cond.Simplify()
	if err != nil {
		return nil, err
	}
	if k, ok := cond.(*Const); ok {
		if k.val.Truthy() {
			return c.then.Simplify()
		}
		return c.els.Simplify()
	}
	then, err := c.then.Simplify()
	if err != nil {
		return nil, err
	}
	els, err := c.els.Simplify()
	if err != nil {
		return nil, err
	}
	return IfOf(cond, then, els), nil
}

// ============================================================
// Comparison
// ============================================================

// CompareOperator is one of < <= > >= == !=.
type CompareOperator string

const (
	OpLt CompareOperator = "<"
	OpLe CompareOperator = "<="
	OpGt CompareOperator = ">"
	OpGe CompareOperator = ">="
	OpEq CompareOperator = "=="
	OpNe CompareOperator = "!="
)

func (op CompareOperator) valid() bool {
	switch op {
	case OpLt, OpLe, OpGt, OpGe, OpEq, OpNe:
		return true
	}
	return false
}

type Comparison struct {
	op          CompareOperator
	left, right Expr
	vars        []string
}

func newComparison(op CompareOperator, l, r Expr) *Comparison {
	return &Comparison{op: op, left: l, right: r, vars: mergeNames(l.varNames(), r.varNames())}
}

func LtOf(a, b Operand) Expr { return newComparison(OpLt, toExpr(a), toExpr(b)) }
func LeOf(a, b Operand) Expr { return newComparison(OpLe, toExpr(a), toExpr(b)) }
func GtOf(a, b Operand) Expr { return newComparison(OpGt, toExpr(a), toExpr(b)) }
func GeOf(a, b Operand) Expr { return newComparison(OpGe, toExpr(a), toExpr(b)) }
func EqOf(a, b Operand) Expr { return newComparison(OpEq, toExpr(a), toExpr(b)) }
func NeOf(a, b Operand) Expr { return newComparison(OpNe, toExpr(a), toExpr(b)) }

func (c *Comparison) AsExpr() Expr        { return c }
func (c *Comparison) Variables() []string { return copyNames(c.vars) }
func (c *Comparison) varNames() []string  { return c.vars }
func (c *Comparison) exprType() string    { return "compare" }
func (c *Comparison) Op() CompareOperator { return c.op }
func (c *Comparison) String() string      { return c.left.String() + " " + string(c.op) + " " + c.right.String() }

func (c *Comparison) Equal(other Expr) bool {
	o, ok := other.(*Comparison)
	return ok && c.op == o.op && c.left.Equal(o.left) && c.right.Equal(o.right)
}

func (c *Comparison) Simplify() (Expr, error) {
	l, err := c.left.Simplify()
	if err != nil {
		return nil, err
	}
	r, err := c.right.Simplify()
	if err != nil {
		return nil, err
	}
	return fold(newComparison(c.op, l, r))
}

// Eval compares in the left operand's unit. Mismatched dimensions make == false
// and != true; ordering them is an error.
func (c *Comparison) Eval(env Env) (Value, error) {
	lv, err := c.left.Eval(env)
	if err != nil {
		return Value{}, err
	}
	rv, err := c.right.Eval(env)
	if err != nil {
		return Value{}, err
	}
	if lb, ok := lv.Bool(); ok {
		rb, ok := rv.Bool()
		if !ok || (c.op != OpEq && c.op != OpNe) {
			return Value{}, newError(CodeEvaluation, "cannot apply %s to %s and %s", c.op, lv, rv)
		}
		return BoolValue((lb == rb) == (c.op == OpEq)), nil
	}
	l, _ := lv.Quantity()
	r, ok := rv.Quantity()
	if !ok {
		return Value{}, newError(CodeEvaluation, "cannot apply %s to %s and %s", c.op, lv, rv)
	}
	if !l.Signature().IsCompatible(r.Signature()) {
		switch c.op {
		case OpEq:
			return BoolValue(false), nil
		case OpNe:
			return BoolValue(true), nil
		}
		return Value{}, dimensionMismatch("compare", l.Signature(), r.Signature())
	}
	cmp, err := l.Compare(r)
	if err != nil {
		return Value{}, err
	}
	var out bool
	switch c.op {
	case OpLt:
		out = cmp < 0
	case OpLe:
		out = cmp <= 0
	case OpGt:
		out = cmp > 0
	case OpGe:
		out = cmp >= 0
	case OpEq:
		out = cmp == 0
	case OpNe:
		out = cmp != 0
	}
	return BoolValue(out), nil
}
