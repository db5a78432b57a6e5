package qnty

import (
	"sort"
)

// Operand is the closed set of things accepted wherever an expression is
// expected: a Quantity literal, a *Variable reference, or an Expr.
type Operand interface {
	AsExpr() Expr
}

// Lit wraps a quantity as a constant expression.
func Lit(q Quantity) *Const { return &Const{val: QuantityValue(q)} }

// Num wraps a bare number as a dimensionless constant.
func Num(f float64) *Const { return Lit(Scalar(f)) }

// Bool wraps a boolean constant.
func Bool(b bool) *Const { return &Const{val: BoolValue(b)} }

// Ref refers to a variable by name, resolved through the evaluation Env.
func Ref(name string) *VarRef { return &VarRef{name: name, vars: []string{name}} }

// RefOf refers to v by name and falls back to v's own value when the Env
// does not bind the name.
func RefOf(v *Variable) *VarRef {
	return &VarRef{name: v.name, bound: v, vars: []string{v.name}}
}

func toExpr(o Operand) Expr {
	if o == nil {
		panic("qnty: nil operand")
	}
	e := o.AsExpr()
	if e == nil {
		panic("qnty: operand converted to nil expression")
	}
	return e
}

// ============================================================
// Env
// ============================================================

// Env binds variable names to Variables for evaluation.
type Env map[string]*Variable

// NewEnv builds an Env keyed by each variable's name.
func NewEnv(vars ...*Variable) Env {
	env := make(Env, len(vars))
	for _, v := range vars {
		env[v.name] = v
	}
	return env
}

// Names returns every bound name, sorted.
func (e Env) Names() []string {
	out := make([]string, 0, len(e))
	for k := range e {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// KnownNames returns the names whose variables hold a value, sorted.
func (e Env) KnownNames() []string {
	out := make([]string, 0, len(e))
	for k, v := range e {
		if v != nil && v.IsKnown() {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// ============================================================
// NameSet
// ============================================================

// NameSet is a set of variable names.
type NameSet map[string]struct{}

func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s NameSet) Add(name string) { s[name] = struct{}{} }

func (s NameSet) Clone() NameSet {
	out := make(NameSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

func (s NameSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// mergeNames unions sorted, deduplicated name slices.
func mergeNames(lists ...[]string) []string {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	if n == 0 {
		return nil
	}
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for _, l := range lists {
		for _, name := range l {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
