package qnty

import (
	"encoding/json"
	"fmt"
	"math"
)

// ============================================================
// JSON Serialization
// ============================================================

func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// ToJSONValue returns the generic object form of e, as FromJSONValue accepts.
func ToJSONValue(e Expr) map[string]interface{} { return e.toJSON() }

func quantityJSON(q Quantity) map[string]interface{} {
	q = q.norm()
	m := map[string]interface{}{"value": q.value, "unit": q.unit.name}
	if dim := q.unit.derivedDimension(); dim != nil {
		m["dimension"] = dim
	}
	return m
}

func (c *Const) toJSON() map[string]interface{} {
	if b, ok := c.val.Bool(); ok {
		return map[string]interface{}{"type": "bool", "value": b}
	}
	q, _ := c.val.Quantity()
	m := quantityJSON(q)
	m["type"] = "const"
	return m
}

func (r *VarRef) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "var", "name": r.name}
}

func (b *BinaryOp) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "binary", "op": string(b.op), "left": b.left.toJSON(), "right": b.right.toJSON()}
}

func (f *UnaryFunc) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "unary", "func": f.name, "arg": f.arg.toJSON()}
}

func (c *Conditional) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "cond", "if": c.cond.toJSON(), "then": c.then.toJSON(), "else": c.els.toJSON()}
}

func (c *Comparison) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "compare", "op": string(c.op), "left": c.left.toJSON(), "right": c.right.toJSON()}
}

// FromJSONValue decodes an expression from its generic JSON form. Besides
// node objects it accepts two shorthands: a bare number is a dimensionless
// constant and a bare string is a variable reference. Units resolve through reg.
func FromJSONValue(reg *Registry, v interface{}) (Expr, error) {
	switch x := v.(type) {
	case map[string]interface{}:
		return FromJSON(reg, x)
	case float64:
		return Num(x), nil
	case int:
		return Num(float64(x)), nil
	case bool:
		return Bool(x), nil
	case string:
		if x == "" {
			return nil, newError(CodeInvalidExpression, "variable name must be non-empty")
		}
		return Ref(x), nil
	case nil:
		return nil, newError(CodeInvalidExpression, "expression is null")
	}
	return nil, newError(CodeInvalidExpression, "unsupported expression value of type %T", v)
}

// FromJSON decodes a node object.
func FromJSON(reg *Registry, data map[string]interface{}) (Expr, error) {
	if data == nil {
		return nil, newError(CodeInvalidExpression, "expression must be an object")
	}
	if reg == nil {
		reg = Default()
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, newError(CodeInvalidExpression, "missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, newError(CodeInvalidExpression, "field 'type' must be a non-empty string")
	}

	sub := func(field string) (Expr, error) {
		v, ok := data[field]
		if !ok {
			return nil, newError(CodeInvalidExpression, "%s: missing %q", typ, field)
		}
		e, err := FromJSONValue(reg, v)
		if err != nil {
			return nil, wrap(CodeInvalidExpression, err, "%s: %s", typ, field)
		}
		return e, nil
	}

	subString := func(field string) (string, error) {
		v, ok := data[field]
		if !ok {
			return "", newError(CodeInvalidExpression, "%s: missing %q", typ, field)
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return "", newError(CodeInvalidExpression, "%s: %q must be a non-empty string", typ, field)
		}
		return s, nil
	}

	switch typ {
	case "const":
		q, err := QuantityFromJSON(reg, data)
		if err != nil {
			return nil, err
		}
		return Lit(q), nil

	case "bool":
		b, ok := data["value"].(bool)
		if !ok {
			return nil, newError(CodeInvalidExpression, "bool: 'value' must be a boolean")
		}
		return Bool(b), nil

	case "var":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		return Ref(name), nil

	case "binary", "compare":
		op, err := subString("op")
		if err != nil {
			return nil, err
		}
		l, err := sub("left")
		if err != nil {
			return nil, err
		}
		r, err := sub("right")
		if err != nil {
			return nil, err
		}
		if typ == "binary" {
			if !BinaryOperator(op).valid() {
				return nil, newError(CodeInvalidExpression, "binary: unknown operator %q", op)
			}
			return newBinary(BinaryOperator(op), l, r), nil
		}
		if !CompareOperator(op).valid() {
			return nil, newError(CodeInvalidExpression, "compare: unknown operator %q", op)
		}
		return newComparison(CompareOperator(op), l, r), nil

	case "unary":
		name, err := subString("func")
		if err != nil {
			return nil, err
		}
		if !IsUnaryFunc(name) {
			return nil, newError(CodeInvalidExpression, "unary: unknown function %q", name)
		}
		arg, err := sub("arg")
		if err != nil {
			return nil, err
		}
		return &UnaryFunc{name: name, arg: arg}, nil

	case "cond":
		c, err := sub("if")
		if err != nil {
			return nil, err
		}
		t, err := sub("then")
		if err != nil {
			return nil, err
		}
		e, err := sub("else")
		if err != nil {
			return nil, err
		}
		return IfOf(c, t, e), nil
	}
	return nil, newError(CodeInvalidExpression, "unknown expression type: %s", typ)
}

// QuantityFromJSON decodes {"value": n, "unit": alias}. A missing unit means
// dimensionless; an alias the registry does not know is accepted when a
// "dimension" exponent vector names a derived SI unit.
func QuantityFromJSON(reg *Registry, data map[string]interface{}) (Quantity, error) {
	if reg == nil {
		reg = Default()
	}
	val, ok := data["value"].(float64)
	if !ok {
		return Quantity{}, newError(CodeInvalidExpression, "quantity: 'value' must be a number")
	}
	alias, _ := data["unit"].(string)
	if alias == "" {
		return Q(val, reg.ResultUnit(Dimensionless)), nil
	}
	u, err := reg.Get(alias)
	if err == nil {
		return Q(val, u), nil
	}
	raw, ok := data["dimension"].([]interface{})
	if !ok {
		return Quantity{}, err
	}
	dim := make([]int, len(raw))
	for i, x := range raw {
		f, ok := x.(float64)
		if !ok || math.Abs(f) > MaxExponent || f != math.Trunc(f) {
			return Quantity{}, newError(CodeInvalidExpression,
				"quantity: dimension[%d] must be an integer within ±%d", i, MaxExponent)
		}
		dim[i] = int(f)
	}
	du, derr := reg.derivedUnit(alias, dim)
	if derr != nil {
		return Quantity{}, derr
	}
	return Q(val, du), nil
}

// derivedUnit resolves a result-unit name that the catalog does not carry,
// given the exponent vector it was written with. The registry's result-unit
// cache is only touched once the name matches.
func (r *Registry) derivedUnit(alias string, dim []int) (*Unit, error) {
	if len(dim) != numBaseDimensions {
		return nil, newError(CodeInvalidExpression, "dimension of %q must have %d entries", alias, numBaseDimensions)
	}
	var exps Exponents
	copy(exps[:], dim)
	sig, ok := signatureOf(exps)
	if !ok {
		return nil, withMeta(CodeInvalidExpression, map[string]string{"unit": alias},
			"dimension %s of %q is out of range", fmt.Sprint(dim), alias)
	}
	if _, registered := r.coherent[sig]; registered || derivedSymbol(sig) != alias {
		return nil, withMeta(CodeUnknownUnit, map[string]string{"unit": alias},
			"unit %q does not match dimension %s", alias, fmt.Sprint(dim))
	}
	return r.ResultUnit(sig), nil
}

// derivedDimension returns the exponent vector of a unit built by ResultUnit
// rather than registered, or nil.
func (u *Unit) derivedDimension() []int {
	if u.reg == nil {
		return nil
	}
	if _, ok := u.reg.exact[u.name]; ok {
		return nil
	}
	e := u.sig.Exponents()
	return e[:]
}
