package qnty

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ============================================================
// Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	String string      `json:"string,omitempty"`
	Code   Code        `json:"code,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// HandleToolCall executes one JSON tool request against reg. Expressions use
// the FromJSONValue encoding; bindings map variable names to a number, a
// {"value", "unit"} object, or null for an unknown. System-level tools build
// their System with opts.
func HandleToolCall(reg *Registry, req ToolRequest, opts ...SystemOption) ToolResponse {
	if reg == nil {
		reg = Default()
	}
	fail := func(err error) ToolResponse {
		resp := ToolResponse{Error: err.Error()}
		if c := CodeOf(err); c != CodeUnknown {
			resp.Code = c
		}
		return resp
	}
	getExpr := func(key string) (Expr, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		return FromJSONValue(reg, v)
	}
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getNumber := func(key string) (float64, error) {
		v, ok := req.Params[key]
		if !ok {
			return 0, fmt.Errorf("missing param: %s", key)
		}
		f, ok := v.(float64)
		if !ok {
			return 0, fmt.Errorf("param %s must be a number", key)
		}
		return f, nil
	}
	getBindings := func() (Env, error) {
		env := Env{}
		v, ok := req.Params["bindings"]
		if !ok || v == nil {
			return env, nil
		}
		raw, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("param bindings must be an object")
		}
		for name, b := range raw {
			switch x := b.(type) {
			case nil:
				env[name] = NewVariable(name, nil)
			case float64:
				env[name] = Known(name, Q(x, reg.ResultUnit(Dimensionless)))
			case map[string]interface{}:
				q, err := QuantityFromJSON(reg, x)
				if err != nil {
					return nil, fmt.Errorf("binding %s: %w", name, err)
				}
				env[name] = Known(name, q)
			default:
				return nil, fmt.Errorf("binding %s must be a number, a quantity object or null", name)
			}
		}
		return env, nil
	}
	getSystem := func() (*System, error) {
		v, ok := req.Params["system"]
		if !ok {
			return nil, fmt.Errorf("missing param: system")
		}
		var data []byte
		switch x := v.(type) {
		case string:
			data = []byte(x)
		case map[string]interface{}:
			b, err := json.Marshal(x)
			if err != nil {
				return nil, err
			}
			data = b
		default:
			return nil, fmt.Errorf("param system must be a document object or YAML string")
		}
		return DecodeSystem(reg, data, opts...)
	}

	switch req.Tool {
	case "convert":
		val, err := getNumber("value")
		if err != nil {
			return fail(err)
		}
		from, err := getString("from")
		if err != nil {
			return fail(err)
		}
		to, err := getString("to")
		if err != nil {
			return fail(err)
		}
		fu, err := reg.Get(from)
		if err != nil {
			return fail(err)
		}
		q, err := Q(val, fu).ToAlias(to)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: quantityJSON(q), String: q.String()}

	case "evaluate":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		env, err := getBindings()
		if err != nil {
			return fail(err)
		}
		v, err := e.Eval(env)
		if err != nil {
			return fail(err)
		}
		if b, ok := v.Bool(); ok {
			return ToolResponse{Result: b, String: v.String()}
		}
		q, _ := v.Quantity()
		return ToolResponse{Result: quantityJSON(q), String: q.String()}

	case "simplify":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		s, err := e.Simplify()
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: s.toJSON(), String: s.String()}

	case "variables":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		names := e.Variables()
		if names == nil {
			names = []string{}
		}
		return ToolResponse{Result: names, String: fmt.Sprint(names)}

	case "check_residual":
		lhs, err := getExpr("lhs")
		if err != nil {
			return fail(err)
		}
		rhs, err := getExpr("rhs")
		if err != nil {
			return fail(err)
		}
		env, err := getBindings()
		if err != nil {
			return fail(err)
		}
		tol := NewSystem(opts...).cfg.ResidualTolerance
		if _, ok := req.Params["tolerance"]; ok {
			if tol, err = getNumber("tolerance"); err != nil {
				return fail(err)
			}
		}
		ok, err := NewEquation("", lhs, rhs).CheckResidual(env, tol)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: ok, String: fmt.Sprint(ok)}

	case "solve":
		sys, err := getSystem()
		if err != nil {
			return fail(err)
		}
		report, err := SolveSystem(sys)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: report, String: fmt.Sprintf("solved=%t", report.Solved)}

	case "solving_order":
		sys, err := getSystem()
		if err != nil {
			return fail(err)
		}
		order := sys.SolvingOrder()
		if order == nil {
			order = []Step{}
		}
		return ToolResponse{Result: order, String: fmt.Sprintf("%d steps", len(order))}

	case "units":
		units := reg.Units()
		if _, ok := req.Params["like"]; ok {
			like, err := getString("like")
			if err != nil {
				return fail(err)
			}
			u, err := reg.Get(like)
			if err != nil {
				return fail(err)
			}
			units = reg.UnitsFor(u.sig)
		}
		out := make([]map[string]interface{}, 0, len(units))
		for _, u := range units {
			out = append(out, unitJSON(u))
		}
		return ToolResponse{Result: out, String: fmt.Sprintf("%d units", len(out))}

	case "tool_spec":
		return ToolResponse{Result: ToolSpec(), String: "tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

func unitJSON(u *Unit) map[string]interface{} {
	aliases := u.Aliases()
	sort.Strings(aliases)
	return map[string]interface{}{
		"name":      u.name,
		"symbol":    u.symbol,
		"dimension": u.sig.String(),
		"factor":    u.factor,
		"offset":    u.offset,
		"aliases":   aliases,
	}
}

// ToolSpec returns the JSON schema of every tool HandleToolCall accepts.
func ToolSpec() string {
	tools := []map[string]interface{}{
		ts("convert", "Convert a value between two units of the same dimension", []string{"value", "from", "to"}, map[string]string{"value": "number", "from": "string", "to": "string"}),
		ts("evaluate", "Evaluate an expression. bindings maps names to a number, {value, unit} or null", []string{"expr"}, map[string]string{"expr": "object", "bindings": "object"}),
		ts("simplify", "Fold constant subtrees of an expression", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("variables", "Return the sorted variable names of an expression", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("check_residual", "Check lhs = rhs within tolerance under bindings", []string{"lhs", "rhs"}, map[string]string{"lhs": "object", "rhs": "object", "bindings": "object", "tolerance": "number"}),
		ts("solve", "Solve an equation system document by forward chaining", []string{"system"}, map[string]string{"system": "object"}),
		ts("solving_order", "Return the (equation, variable) order the solver would follow", []string{"system"}, map[string]string{"system": "object"}),
		ts("units", "List registered units, optionally only those sharing the dimension of like", []string{}, map[string]string{"like": "string"}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
