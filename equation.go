package qnty

import "math"

// ============================================================
// Equation
// ============================================================

// Equation states lhs = rhs. The solver handles only the direct-assignment
// form, where lhs is a bare reference to the unknown.
type Equation struct {
	name     string
	lhs, rhs Expr
	vars     []string // lazily filled by Variables
}

// NewEquation builds lhs = rhs. An empty name defaults to the equation text.
func NewEquation(name string, lhs, rhs Operand) *Equation {
	e := &Equation{name: name, lhs: toExpr(lhs), rhs: toExpr(rhs)}
	if e.name == "" {
		e.name = e.String()
	}
	return e
}

// Eq is NewEquation without a name.
func Eq(lhs, rhs Operand) *Equation { return NewEquation("", lhs, rhs) }

func (e *Equation) Name() string   { return e.name }
func (e *Equation) LHS() Expr      { return e.lhs }
func (e *Equation) RHS() Expr      { return e.rhs }
func (e *Equation) String() string { return e.lhs.String() + " = " + e.rhs.String() }

// Variables returns the union of both sides' variables, sorted.
func (e *Equation) Variables() []string {
	if e.vars == nil {
		e.vars = mergeNames(e.lhs.varNames(), e.rhs.varNames())
		if e.vars == nil {
			e.vars = []string{}
		}
	}
	return copyNames(e.vars)
}

func (e *Equation) references(name string) bool {
	e.Variables()
	for _, v := range e.vars {
		if v == name {
			return true
		}
	}
	return false
}

// IsDirectAssignment reports whether lhs is a bare reference to target.
func (e *Equation) IsDirectAssignment(target string) bool {
	r, ok := e.lhs.(*VarRef)
	return ok && r.name == target
}

// CanSolveFor reports whether target is referenced and is either directly
// assigned from known variables or the only unknown in the equation.
func (e *Equation) CanSolveFor(target string, known NameSet) bool {
	if !e.references(target) {
		return false
	}
	if e.directlySolvable(target, known) {
		return true
	}
	for _, v := range e.vars {
		if v != target && !known.Has(v) {
			return false
		}
	}
	return !known.Has(target)
}

// directlySolvable is the subset of CanSolveFor that SolveFor can execute.
func (e *Equation) directlySolvable(target string, known NameSet) bool {
	if !e.IsDirectAssignment(target) {
		return false
	}
	for _, v := range e.rhs.varNames() {
		if !known.Has(v) {
			return false
		}
	}
	return true
}

// SolveFor evaluates rhs against env and stores the result on the target
// Variable, which it marks known and returns. The result is converted into
// the target's declared unit when possible; if conversion fails the computed
// unit is kept. Equations not in direct-assignment form fail with
// CodeUnsupportedEquationForm.
func (e *Equation) SolveFor(target string, env Env) (*Variable, error) {
	ref, ok := e.lhs.(*VarRef)
	if !ok || ref.name != target {
		return nil, withMeta(CodeUnsupportedEquationForm,
			map[string]string{"equation": e.name, "target": target},
			"equation %q: cannot solve for %q: left side must be a bare reference to it", e.name, target)
	}
	v := env[target]
	if v == nil {
		v = ref.bound
	}
	if v == nil {
		return nil, withMeta(CodeUnknownVariable,
			map[string]string{"variable": target, "available": joinNames(env.Names())},
			"equation %q: target variable %q is not bound", e.name, target)
	}
	q, err := Evaluate(e.rhs, env)
	if err != nil {
		return nil, err
	}
	if u := v.Unit(); u != nil && u != q.Unit() {
		if c, err := q.To(u); err == nil {
			q = c
		}
	}
	return v.Set(q), nil
}

// Residual evaluates lhs - rhs.
func (e *Equation) Residual(env Env) (Quantity, error) {
	l, err := Evaluate(e.lhs, env)
	if err != nil {
		return Quantity{}, err
	}
	r, err := Evaluate(e.rhs, env)
	if err != nil {
		return Quantity{}, err
	}
	return l.Sub(r)
}

// CheckResidual reports whether both sides agree within tolerance, measured in
// the left side's unit. Missing bindings and incompatible units report false;
// any other failure is returned.
func (e *Equation) CheckResidual(env Env, tolerance float64) (bool, error) {
	l, err := Evaluate(e.lhs, env)
	if err != nil {
		return false, expectedAsFalse(err)
	}
	r, err := Evaluate(e.rhs, env)
	if err != nil {
		return false, expectedAsFalse(err)
	}
	if !l.Signature().IsCompatible(r.Signature()) {
		return false, nil
	}
	rc, err := r.To(l.Unit())
	if err != nil {
		return false, expectedAsFalse(err)
	}
	return math.Abs(l.value-rc.value) < tolerance, nil
}

func expectedAsFalse(err error) error {
	if IsExpected(err) {
		return nil
	}
	return err
}

// boundVariables collects the Variables that references in e were built from.
func boundVariables(e Expr, out map[string]*Variable) {
	switch n := e.(type) {
	case *VarRef:
		if n.bound != nil {
			if _, ok := out[n.name]; !ok {
				out[n.name] = n.bound
			}
		}
	case *BinaryOp:
		boundVariables(n.left, out)
		boundVariables(n.right, out)
	case *UnaryFunc:
		boundVariables(n.arg, out)
	case *Conditional:
		boundVariables(n.cond, out)
		boundVariables(n.then, out)
		boundVariables(n.els, out)
	case *Comparison:
		boundVariables(n.left, out)
		boundVariables(n.right, out)
	}
}
