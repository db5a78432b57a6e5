package qnty_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tn3wman/qnty-sub000"
)

// ============================================================
// NormalizeAlias tests
// ============================================================

func TestNormalizeAlias(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Meters", "meter"},
		{"metre", "meter"},
		{"square_metre", "squaremeter"},
		{"Square Meters", "squaremeter"},
		{"m²", "m2"},
		{"m^-1", "m^-1"},
		{"pound-force", "poundforce"},
		{"kg/s", "kg/s"},
		{"ms", "ms"},
		{"lbs", "lb"},
		{"class", "class"},
	}
	for _, tt := range tests {
		if got := qnty.NormalizeAlias(tt.in); got != tt.want {
			t.Errorf("NormalizeAlias(%q): want %q, got %q", tt.in, tt.want, got)
		}
	}
}

// ============================================================
// Registry lookup tests
// ============================================================

func TestRegistry_GetBySymbolNameAndAlias(t *testing.T) {
	reg := qnty.Default()
	for _, alias := range []string{"in", "inch", "Inches", "INCH", "\""} {
		u, err := reg.Get(alias)
		require.NoError(t, err, alias)
		if u.Name() != "inch" {
			t.Errorf("%q: want inch, got %s", alias, u.Name())
		}
	}
}

func TestRegistry_ExactSymbolBeatsFolding(t *testing.T) {
	reg := qnty.Default()
	if u := reg.MustGet("mm"); u.Name() != "millimeter" {
		t.Errorf("mm: want millimeter, got %s", u.Name())
	}
	if u := reg.MustGet("MPa"); u.Name() != "megapascal" {
		t.Errorf("MPa: want megapascal, got %s", u.Name())
	}
	if u := reg.MustGet("m²"); u.Name() != "square meter" {
		t.Errorf("m²: want square meter, got %s", u.Name())
	}
}

func TestRegistry_UnknownUnit(t *testing.T) {
	_, err := qnty.Default().Get("furlong")
	if !errors.Is(err, qnty.ErrUnknownUnit) {
		t.Fatalf("want ErrUnknownUnit, got %v", err)
	}
	var qe *qnty.Error
	require.True(t, errors.As(err, &qe))
	if qe.Metadata["unit"] != "furlong" {
		t.Errorf("metadata should name the unit, got %v", qe.Metadata)
	}
}

func TestRegistry_MustGetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for unknown unit")
		}
	}()
	qnty.Default().MustGet("nope")
}

// ============================================================
// Conversion tests
// ============================================================

func TestRegistry_Convert(t *testing.T) {
	reg := qnty.Default()
	tests := []struct {
		value    float64
		from, to string
		want     float64
	}{
		{1, "in", "mm", 25.4},
		{1, "ft", "in", 12},
		{100, "degC", "degF", 212},
		{32, "degF", "K", 273.15},
		{1, "atm", "kPa", 101.325},
		{1, "ksi", "psi", 1000},
		{180, "deg", "rad", 3.141592653589793},
	}
	for _, tt := range tests {
		got, err := reg.Convert(tt.value, reg.MustGet(tt.from), reg.MustGet(tt.to))
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9*max(1, tt.want), "%g %s -> %s", tt.value, tt.from, tt.to)
	}
}

func TestRegistry_ConvertRoundTrip(t *testing.T) {
	reg := qnty.Default()
	byDimension := map[qnty.Signature][]*qnty.Unit{}
	for _, u := range reg.Units() {
		byDimension[u.Signature()] = append(byDimension[u.Signature()], u)
	}
	if len(byDimension[qnty.SigTemperature]) < 3 {
		t.Fatalf("catalog should carry affine temperature units")
	}
	for _, units := range byDimension {
		for _, u := range units {
			for _, v := range units {
				for _, x := range []float64{-40, 0, 3.5, 1e6} {
					there, err := reg.Convert(x, u, v)
					require.NoError(t, err)
					back, err := reg.Convert(there, v, u)
					require.NoError(t, err)
					assert.InDelta(t, x, back, 1e-9*max(1, math.Abs(x)), "%g %s -> %s -> %s", x, u, v, u)
				}
			}
		}
	}
}

func TestRegistry_NanometerSpellingIsNotTorque(t *testing.T) {
	reg := qnty.Default()
	if u, err := reg.Get("Nm"); err == nil {
		t.Errorf("Nm should not resolve, got %s", u.Name())
	}
	u, err := reg.Get("N·m")
	require.NoError(t, err)
	if u.Name() != "newton meter" {
		t.Errorf("want newton meter, got %s", u.Name())
	}
}

func TestRegistry_ConvertDimensionMismatch(t *testing.T) {
	reg := qnty.Default()
	_, err := reg.Convert(1, reg.MustGet("m"), reg.MustGet("s"))
	if !errors.Is(err, qnty.ErrDimensionMismatch) {
		t.Errorf("want ErrDimensionMismatch, got %v", err)
	}
}

func TestRegistry_PreferredAndResultUnits(t *testing.T) {
	reg := qnty.Default()
	u, ok := reg.PreferredFor(qnty.SigPressure)
	if !ok || u.Name() != "pascal" {
		t.Errorf("preferred pressure unit: want pascal, got %v", u)
	}
	if got := reg.ResultUnit(qnty.SigForce); got.Name() != "newton" {
		t.Errorf("result unit for force: want newton, got %s", got.Name())
	}
	jerk := qnty.SigAcceleration.Divide(qnty.SigTime)
	d1 := reg.ResultUnit(jerk)
	d2 := reg.ResultUnit(jerk)
	if d1 != d2 {
		t.Errorf("derived result unit should be cached")
	}
	if d1.String() != "m/s³" {
		t.Errorf("want m/s³, got %s", d1)
	}
	if !d1.IsCoherent() {
		t.Errorf("derived result unit should be coherent")
	}
}

// ============================================================
// Builder tests
// ============================================================

func TestRegistryBuilder_RejectsConflictingFactor(t *testing.T) {
	b := qnty.NewRegistryBuilder()
	require.NoError(t, b.Register(qnty.NewUnit("widget", "wd", qnty.SigLength, 2)))
	err := b.Register(qnty.NewUnit("widget", "wdg", qnty.SigLength, 3))
	if !errors.Is(err, qnty.ErrDuplicateUnit) {
		t.Fatalf("want ErrDuplicateUnit, got %v", err)
	}
	reg := b.Build()
	if len(reg.Units()) != 1 {
		t.Errorf("rejected registration should leave the registry unchanged, got %d units", len(reg.Units()))
	}
	if _, err := reg.Get("wdg"); err == nil {
		t.Errorf("rejected unit's symbol should not be registered")
	}
}

func TestRegistryBuilder_SynonymKeepsFirst(t *testing.T) {
	b := qnty.NewRegistryBuilder()
	first := qnty.NewUnit("newton meter", "N·m", qnty.SigEnergy, 1)
	require.NoError(t, b.Register(first, "torque"))
	require.NoError(t, b.Register(qnty.NewUnit("joule", "J", qnty.SigEnergy, 1), "torque"))
	reg := b.Build()
	if u := reg.MustGet("torque"); u != first {
		t.Errorf("alias should stay with the first unit, got %s", u.Name())
	}
	if u := reg.MustGet("J"); u.Name() != "joule" {
		t.Errorf("second unit should still resolve by symbol, got %s", u.Name())
	}
}

func TestRegistryBuilder_RejectsInvalidUnit(t *testing.T) {
	b := qnty.NewRegistryBuilder()
	err := b.Register(qnty.NewUnit("broken", "brk", qnty.SigLength, 0))
	if !errors.Is(err, qnty.ErrInvalidUnit) {
		t.Errorf("want ErrInvalidUnit, got %v", err)
	}
}

func TestRegistryBuilder_SealedAfterBuild(t *testing.T) {
	b := qnty.NewRegistryBuilder()
	b.Build()
	if err := b.Register(qnty.NewUnit("late", "lt", qnty.SigLength, 1)); err == nil {
		t.Errorf("register after Build should fail")
	}
}

func TestBuildRegistry_StandardCatalog(t *testing.T) {
	reg, err := qnty.BuildRegistry(qnty.StandardCatalog())
	require.NoError(t, err)
	if len(reg.Units()) != len(qnty.StandardCatalog()) {
		t.Errorf("want %d units, got %d", len(qnty.StandardCatalog()), len(reg.Units()))
	}
	if len(reg.Aliases()) == 0 {
		t.Errorf("aliases should not be empty")
	}
}
