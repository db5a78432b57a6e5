package qnty

import (
	"encoding/json"
	"fmt"

	yamlv3 "gopkg.in/yaml.v3"
	"sigs.k8s.io/yaml"
)

// ============================================================
// System documents
// ============================================================

// SystemDocument is the YAML or JSON description of an equation system.
// Equation sides use the expression encoding of FromJSONValue, so a bare
// string names a variable and a bare number is a dimensionless constant.
//
//	variables:
//	  - {name: T_bar, value: 0.147, unit: in}
//	  - {name: U_m, value: 0.125}
//	  - {name: T, unit: in}
//	equations:
//	  - name: thickness
//	    lhs: T
//	    rhs: {type: binary, op: "*", left: T_bar, right: {type: binary, op: "-", left: 1, right: U_m}}
type SystemDocument struct {
	Variables []VariableDoc `json:"variables"`
	Equations []EquationDoc `json:"equations"`
}

// VariableDoc declares one variable. Dimension is only needed for derived
// units such as "m·kg/s²" that are not in the catalog.
type VariableDoc struct {
	Name      string   `json:"name"`
	Symbol    string   `json:"symbol,omitempty"`
	Value     *float64 `json:"value,omitempty"`
	Unit      string   `json:"unit,omitempty"`
	Dimension []int    `json:"dimension,omitempty"`
}

type EquationDoc struct {
	Name string      `json:"name,omitempty"`
	LHS  interface{} `json:"lhs"`
	RHS  interface{} `json:"rhs"`
}

// ParseSystemDocument decodes YAML or JSON.
func ParseSystemDocument(data []byte) (*SystemDocument, error) {
	var doc SystemDocument
	if err := DecodeYAML(data, &doc); err != nil {
		return nil, wrap(CodeInvalidDocument, err, "parse system document")
	}
	return &doc, nil
}

// DecodeYAML reads YAML 1.2 (JSON included) into v through v's JSON tags.
// Plain scalars such as y, n, yes and off stay strings; only true and false
// are booleans.
func DecodeYAML(data []byte, v interface{}) error {
	var raw interface{}
	if err := yamlv3.Unmarshal(data, &raw); err != nil {
		return err
	}
	b, err := json.Marshal(jsonCompatible(raw))
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// jsonCompatible rewrites the non-string-keyed maps YAML allows into JSON
// objects.
func jsonCompatible(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		for k, e := range x {
			x[k] = jsonCompatible(e)
		}
		return x
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = jsonCompatible(e)
		}
		return out
	case []interface{}:
		for i, e := range x {
			x[i] = jsonCompatible(e)
		}
		return x
	}
	return v
}

// Build resolves units through reg and assembles a System. Variable names must
// be unique and every name an equation references must be declared.
func (d *SystemDocument) Build(reg *Registry, opts ...SystemOption) (*System, error) {
	if reg == nil {
		reg = Default()
	}
	sys := NewSystem(opts...)
	for i, vd := range d.Variables {
		if vd.Name == "" {
			return nil, newError(CodeInvalidDocument, "variables[%d]: name is required", i)
		}
		if _, dup := sys.vars[vd.Name]; dup {
			return nil, withMeta(CodeInvalidDocument, map[string]string{"variable": vd.Name},
				"variables[%d]: duplicate variable %q", i, vd.Name)
		}
		var u *Unit
		if vd.Unit != "" {
			var err error
			if u, err = reg.Get(vd.Unit); err != nil && vd.Dimension != nil {
				u, err = reg.derivedUnit(vd.Unit, vd.Dimension)
			}
			if err != nil {
				return nil, wrap(CodeInvalidDocument, err, "variable %q", vd.Name)
			}
		}
		v := NewVariable(vd.Name, u)
		if vd.Value != nil {
			if u == nil {
				u = reg.ResultUnit(Dimensionless)
			}
			v = Known(vd.Name, Q(*vd.Value, u))
		}
		sys.AddVariable(v.WithSymbol(vd.Symbol))
	}
	for i, ed := range d.Equations {
		lhs, err := equationSide(reg, i, "lhs", ed.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := equationSide(reg, i, "rhs", ed.RHS)
		if err != nil {
			return nil, err
		}
		eq := NewEquation(ed.Name, lhs, rhs)
		if _, dup := sys.Equation(eq.name); dup {
			return nil, withMeta(CodeInvalidDocument, map[string]string{"equation": eq.name},
				"equations[%d]: duplicate equation %q", i, eq.name)
		}
		for _, name := range eq.Variables() {
			if _, ok := sys.vars[name]; !ok {
				return nil, withMeta(CodeInvalidDocument,
					map[string]string{"equation": eq.name, "variable": name},
					"equation %q references undeclared variable %q", eq.name, name)
			}
		}
		sys.AddEquation(eq)
	}
	return sys, nil
}

func equationSide(reg *Registry, i int, side string, raw interface{}) (Expr, error) {
	e, err := FromJSONValue(reg, raw)
	if err != nil {
		return nil, wrap(CodeInvalidDocument, err, "equations[%d]: %s", i, side)
	}
	if c, ok := e.(*Const); ok && c.val.IsBoolean() {
		return nil, newError(CodeInvalidDocument, "equations[%d]: %s is the boolean %v, not a quantity expression", i, side, c.val)
	}
	return e, nil
}

// DecodeSystem parses data and builds the System it describes.
func DecodeSystem(reg *Registry, data []byte, opts ...SystemOption) (*System, error) {
	doc, err := ParseSystemDocument(data)
	if err != nil {
		return nil, err
	}
	return doc.Build(reg, opts...)
}

// ToDocument describes sys in document form, with current values.
func ToDocument(sys *System) *SystemDocument {
	doc := &SystemDocument{}
	for _, v := range sys.Variables() {
		vd := VariableDoc{Name: v.name, Symbol: v.symbol}
		u := v.unit
		if q, ok := v.Quantity(); ok {
			val := q.value
			vd.Value = &val
			u = q.unit
		}
		if u != nil {
			vd.Unit = u.name
			vd.Dimension = u.derivedDimension()
		}
		doc.Variables = append(doc.Variables, vd)
	}
	for _, eq := range sys.equations {
		doc.Equations = append(doc.Equations, EquationDoc{
			Name: eq.name,
			LHS:  eq.lhs.toJSON(),
			RHS:  eq.rhs.toJSON(),
		})
	}
	return doc
}

// Marshal encodes the document as YAML.
func (d *SystemDocument) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// ============================================================
// Solve reports
// ============================================================

// SolveReport summarizes one Solve run.
type SolveReport struct {
	Solved     bool             `json:"solved"`
	Order      []Step           `json:"order"`
	Variables  []VariableReport `json:"variables"`
	Unresolved []string         `json:"unresolved,omitempty"`
	Violated   []string         `json:"violated,omitempty"`
}

type VariableReport struct {
	Name    string   `json:"name"`
	Known   bool     `json:"known"`
	Value   *float64 `json:"value,omitempty"`
	Unit    string   `json:"unit,omitempty"`
	Display string   `json:"display"`
}

// SolveSystem computes the solving order, runs Solve and checks the residual
// of every fully bound equation against the system's configured tolerance.
// Equations that still reference unknowns show up through Unresolved instead.
func SolveSystem(sys *System) (*SolveReport, error) {
	order := sys.SolvingOrder()
	solved, err := sys.Solve()
	if err != nil {
		return nil, err
	}
	r := NewSolveReport(sys, order, solved)
	unknown := NewNameSet(r.Unresolved...)
	env := sys.Env()
	for _, eq := range sys.equations {
		if referencesAny(eq, unknown) {
			continue
		}
		ok, err := eq.CheckResidual(env, sys.cfg.ResidualTolerance)
		if err != nil {
			return nil, err
		}
		if !ok {
			r.Violated = append(r.Violated, eq.name)
		}
	}
	return r, nil
}

func referencesAny(eq *Equation, names NameSet) bool {
	for _, v := range eq.Variables() {
		if names.Has(v) {
			return true
		}
	}
	return false
}

// NewSolveReport captures the state of sys after a Solve run.
func NewSolveReport(sys *System, order []Step, solved bool) *SolveReport {
	if order == nil {
		order = []Step{}
	}
	r := &SolveReport{Solved: solved, Order: order, Unresolved: sys.UnknownVariables()}
	for _, v := range sys.Variables() {
		vr := VariableReport{Name: v.name, Known: v.known, Display: v.String()}
		if q, ok := v.Quantity(); ok {
			val := q.value
			vr.Value = &val
			vr.Unit = q.Unit().String()
		} else if v.unit != nil {
			vr.Unit = v.unit.String()
		}
		r.Variables = append(r.Variables, vr)
	}
	return r
}

// YAML encodes the report.
func (r *SolveReport) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}
