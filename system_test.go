package qnty_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tn3wman/qnty-sub000"
)

func testSystem(t *testing.T, opts ...qnty.SystemOption) *qnty.System {
	t.Helper()
	opts = append([]qnty.SystemOption{qnty.WithLogger(testr.NewWithOptions(t, testr.Options{Verbosity: 2}))}, opts...)
	return qnty.NewSystem(opts...)
}

// chain declares c = b + a before b = 2 * a, with only a known.
func chain(t *testing.T, opts ...qnty.SystemOption) (*qnty.System, *qnty.Variable, *qnty.Variable, *qnty.Variable) {
	a := qnty.Known("a", qnty.MustQ(2, "m"))
	b := qnty.NewVariable("b", nil)
	c := qnty.NewVariable("c", qnty.Default().MustGet("mm"))
	sys := testSystem(t, opts...).
		AddVariable(a).
		AddVariable(b).
		AddVariable(c).
		AddEquation(qnty.NewEquation("sum", c, b.Add(a))).
		AddEquation(qnty.NewEquation("double", b, qnty.MulOf(qnty.Num(2), a)))
	return sys, a, b, c
}

// ============================================================
// Construction
// ============================================================

func TestSystem_AddEquationCollectsBoundVariables(t *testing.T) {
	eq, _, _ := wallThickness("in")
	sys := testSystem(t).AddEquation(eq)
	if got := sys.KnownVariables(); !reflect.DeepEqual(got, []string{"T_bar", "U_m"}) {
		t.Errorf("known: want [T_bar U_m], got %v", got)
	}
	if got := sys.UnknownVariables(); !reflect.DeepEqual(got, []string{"T"}) {
		t.Errorf("unknown: want [T], got %v", got)
	}
	if _, ok := sys.Equation(eq.Name()); !ok {
		t.Errorf("equation should be found by name")
	}
}

func TestSystem_PartitionsFollowInsertionOrder(t *testing.T) {
	sys, _, _, _ := chain(t)
	if got := sys.UnknownVariables(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("want [b c], got %v", got)
	}
	names := []string{}
	for _, v := range sys.Variables() {
		names = append(names, v.Name())
	}
	if !reflect.DeepEqual(names, []string{"a", "b", "c"}) {
		t.Errorf("want [a b c], got %v", names)
	}
}

// ============================================================
// Solve
// ============================================================

func TestSystem_SolveWallThickness(t *testing.T) {
	eq, tw, _ := wallThickness("in")
	sys := testSystem(t).AddEquation(eq)
	solved, err := sys.Solve()
	require.NoError(t, err)
	if !solved {
		t.Fatalf("system should be solved, unknown: %v", sys.UnknownVariables())
	}
	q, _ := tw.Quantity()
	assert.InDelta(t, 0.128625, q.Value(), 1e-12)
}

func TestSystem_SolveChainsOutOfOrder(t *testing.T) {
	sys, _, b, c := chain(t)
	solved, err := sys.Solve()
	require.NoError(t, err)
	if !solved {
		t.Fatalf("chain should be solved")
	}
	bq, _ := b.Quantity()
	assert.InDelta(t, 4, bq.Value(), 1e-12)
	cq, _ := c.Quantity()
	if cq.Unit().Symbol() != "mm" {
		t.Errorf("c should be expressed in its declared unit, got %s", cq.Unit())
	}
	assert.InDelta(t, 6000, cq.Value(), 1e-9)

	failed, err := sys.Verify(0)
	require.NoError(t, err)
	if len(failed) != 0 {
		t.Errorf("solved system should verify, failed: %v", failed)
	}
}

func TestSystem_SolvingOrderMatchesSolve(t *testing.T) {
	sys, _, b, _ := chain(t)
	order := sys.SolvingOrder()
	want := []qnty.Step{{Equation: "double", Variable: "b"}, {Equation: "sum", Variable: "c"}}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("want %v, got %v", want, order)
	}
	if b.IsKnown() {
		t.Errorf("SolvingOrder must not solve anything")
	}
	if got := sys.UnknownVariables(); len(got) != 2 {
		t.Errorf("SolvingOrder must not change the known set, unknown: %v", got)
	}
}

func TestSystem_UnderDeterminedPreservesState(t *testing.T) {
	x := qnty.NewVariable("x", nil)
	y := qnty.NewVariable("y", nil)
	k := qnty.Known("k", qnty.Scalar(3))
	sys := testSystem(t).
		AddVariable(k).
		AddEquation(qnty.NewEquation("y", y, x.Mul(k)))
	solved, err := sys.Solve()
	require.NoError(t, err)
	if solved {
		t.Errorf("under-determined system should not report solved")
	}
	if x.IsKnown() || y.IsKnown() {
		t.Errorf("unresolved variables must keep their state")
	}
	if q, _ := k.Quantity(); q.Value() != 3 {
		t.Errorf("known variable changed: %v", q)
	}
	if got := sys.SolvingOrder(); len(got) != 0 {
		t.Errorf("want empty order, got %v", got)
	}
}

func TestSystem_CycleMakesNoProgress(t *testing.T) {
	a := qnty.NewVariable("a", nil)
	b := qnty.NewVariable("b", nil)
	sys := testSystem(t).
		AddEquation(a.Equals(b.Add(qnty.Num(1)))).
		AddEquation(b.Equals(a.Sub(qnty.Num(1))))
	solved, err := sys.Solve()
	require.NoError(t, err)
	if solved || a.IsKnown() || b.IsKnown() {
		t.Errorf("coupled unknowns should stay unsolved")
	}
}

func TestSystem_SkipsNonDirectForm(t *testing.T) {
	x := qnty.NewVariable("x", nil)
	sys := testSystem(t).AddEquation(qnty.Eq(qnty.Num(10), x.Mul(qnty.Num(2))))
	solved, err := sys.Solve()
	require.NoError(t, err)
	if solved || x.IsKnown() {
		t.Errorf("non-direct form should be left unsolved")
	}
}

func TestSystem_SkipsExpectedFailures(t *testing.T) {
	x := qnty.Known("x", qnty.MustQ(1, "m"))
	z := qnty.Known("z", qnty.MustQ(1, "s"))
	y := qnty.NewVariable("y", nil)
	sys := testSystem(t).AddEquation(y.Equals(x.Add(z)))
	solved, err := sys.Solve()
	require.NoError(t, err)
	if solved || y.IsKnown() {
		t.Errorf("dimension mismatch should leave y unsolved")
	}
}

func TestSystem_PropagatesGuards(t *testing.T) {
	x := qnty.Known("x", qnty.Scalar(1))
	y := qnty.NewVariable("y", nil)
	sys := testSystem(t).AddEquation(y.Equals(qnty.DivOf(qnty.Num(1), x.Sub(x))))
	_, err := sys.Solve()
	if !errors.Is(err, qnty.ErrArithmeticGuard) {
		t.Errorf("want ErrArithmeticGuard, got %v", err)
	}
}

func TestSystem_IterationCap(t *testing.T) {
	cfg := qnty.DefaultConfig()
	cfg.MaxIterations = 1
	sys, _, b, c := chain(t, qnty.WithConfig(cfg))
	solved, err := sys.Solve()
	require.NoError(t, err)
	if solved || !b.IsKnown() || c.IsKnown() {
		t.Errorf("one iteration should solve only b")
	}
}

func TestSystem_VerifyReportsViolations(t *testing.T) {
	sys, _, b, _ := chain(t)
	_, err := sys.Solve()
	require.NoError(t, err)
	b.Set(qnty.MustQ(5, "m"))
	failed, err := sys.Verify(1e-9)
	require.NoError(t, err)
	if !reflect.DeepEqual(failed, []string{"sum", "double"}) {
		t.Errorf("want [sum double], got %v", failed)
	}
}
