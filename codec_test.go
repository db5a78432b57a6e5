package qnty_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/require"

	"github.com/tn3wman/qnty-sub000"
)

func decode(t *testing.T, s string) qnty.Expr {
	t.Helper()
	var raw interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &raw))
	e, err := qnty.FromJSONValue(nil, raw)
	require.NoError(t, err)
	return e
}

// ============================================================
// JSON round trip
// ============================================================

func TestJSON_RoundTrip(t *testing.T) {
	x := qnty.Ref("x")
	exprs := []qnty.Expr{
		qnty.DivOf(qnty.MulOf(x, qnty.MustQ(2, "psi")), qnty.Num(3)),
		qnty.IfOf(qnty.GeOf(x, qnty.MustQ(1, "ft")), qnty.SqrtOf(x), qnty.Bool(false)),
		qnty.MulOf(qnty.MustQ(2, "m"), qnty.MustQ(3, "kg")),
	}
	for _, e := range exprs {
		s, err := qnty.ToJSON(e)
		require.NoError(t, err)
		back := decode(t, s)
		if !back.Equal(e) {
			t.Errorf("round trip changed %s into %s", e, back)
		}
	}
}

func TestJSON_DerivedUnitCarriesDimension(t *testing.T) {
	q, err := qnty.Evaluate(qnty.MulOf(qnty.MustQ(2, "m"), qnty.MustQ(3, "kg")), nil)
	require.NoError(t, err)
	s, err := qnty.ToJSON(qnty.Lit(q))
	require.NoError(t, err)
	if !strings.Contains(s, `"dimension":[1,1,0,0,0,0,0]`) {
		t.Errorf("derived unit should carry its exponents, got %s", s)
	}
	back := decode(t, s)
	bq, err := qnty.Evaluate(back, nil)
	require.NoError(t, err)
	if !bq.Equal(q) {
		t.Errorf("want %s, got %s", q, bq)
	}
}

func TestJSON_Shorthands(t *testing.T) {
	e := decode(t, `{"type":"binary","op":"*","left":"x","right":2}`)
	if e.String() != "x * 2" {
		t.Errorf("want x * 2, got %s", e)
	}
	c := decode(t, `{"type":"const","value":25.4,"unit":"millimetres"}`)
	q, err := qnty.Evaluate(c, nil)
	require.NoError(t, err)
	if q.Unit().Symbol() != "mm" {
		t.Errorf("alias should resolve through normalization, got %s", q.Unit())
	}
}

func TestJSON_DecodeErrors(t *testing.T) {
	tests := []string{
		`{"op":"+"}`,
		`{"type":"nope"}`,
		`{"type":"binary","op":"%","left":1,"right":2}`,
		`{"type":"unary","func":"cbrt","arg":1}`,
		`{"type":"compare","op":"<","left":1}`,
		`{"type":"cond","if":true,"then":1}`,
		`{"type":"var","name":""}`,
		`{"type":"bool","value":1}`,
		`{"type":"const","value":"1"}`,
		`[1, 2]`,
	}
	for _, s := range tests {
		var raw interface{}
		require.NoError(t, json.Unmarshal([]byte(s), &raw))
		_, err := qnty.FromJSONValue(nil, raw)
		if !errors.Is(err, qnty.ErrInvalidExpression) {
			t.Errorf("%s: want ErrInvalidExpression, got %v", s, err)
		}
	}
}

func TestJSON_UnknownUnit(t *testing.T) {
	var raw interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"type":"const","value":1,"unit":"furlong"}`), &raw))
	_, err := qnty.FromJSONValue(nil, raw)
	if !errors.Is(err, qnty.ErrUnknownUnit) {
		t.Errorf("want ErrUnknownUnit, got %v", err)
	}
}

func TestJSON_DimensionOutOfRange(t *testing.T) {
	tests := []string{
		`{"type":"const","value":1,"unit":"huge","dimension":[64,0,0,0,0,0,0]}`,
		`{"type":"const","value":1,"unit":"huge","dimension":[40,40,0,0,0,0,0]}`,
		`{"type":"const","value":1,"unit":"huge","dimension":[1e300,0,0,0,0,0,0]}`,
		`{"type":"const","value":1,"unit":"huge","dimension":[1.5,0,0,0,0,0,0]}`,
	}
	for _, s := range tests {
		var raw interface{}
		require.NoError(t, json.Unmarshal([]byte(s), &raw))
		_, err := qnty.FromJSONValue(nil, raw)
		if !errors.Is(err, qnty.ErrInvalidExpression) {
			t.Errorf("%s: want ErrInvalidExpression, got %v", s, err)
		}
	}
}

func TestJSON_MismatchedDerivedNameLeavesRegistryAlone(t *testing.T) {
	var derived []string
	log := funcr.New(func(prefix, args string) {
		if strings.Contains(args, "derived result unit") {
			derived = append(derived, args)
		}
	}, funcr.Options{Verbosity: 2})
	reg, err := qnty.BuildRegistry(qnty.StandardCatalog(), qnty.WithRegistryLogger(log))
	require.NoError(t, err)

	decodeWith := func(s string) error {
		var raw interface{}
		require.NoError(t, json.Unmarshal([]byte(s), &raw))
		_, err := qnty.FromJSONValue(reg, raw)
		return err
	}
	err = decodeWith(`{"type":"const","value":1,"unit":"bogus","dimension":[1,1,0,0,0,0,0]}`)
	if !errors.Is(err, qnty.ErrUnknownUnit) {
		t.Errorf("want ErrUnknownUnit, got %v", err)
	}
	if len(derived) != 0 {
		t.Errorf("a rejected name must not create a result unit, got %v", derived)
	}

	require.NoError(t, decodeWith(`{"type":"const","value":1,"unit":"m·kg","dimension":[1,1,0,0,0,0,0]}`))
	if len(derived) != 1 {
		t.Errorf("matching name should create one result unit, got %v", derived)
	}
}
