package qnty_test

import (
	"math"
	"testing"

	"github.com/tn3wman/qnty-sub000"
)

// ============================================================
// Signature tests
// ============================================================

func TestSignature_MultiplyAddsExponents(t *testing.T) {
	got := qnty.SigLength.Multiply(qnty.SigLength)
	if got != qnty.SigArea {
		t.Errorf("want %s, got %s", qnty.SigArea, got)
	}
	if got := qnty.SigVelocity.Multiply(qnty.SigTime); got != qnty.SigLength {
		t.Errorf("velocity*time: want L, got %s", got)
	}
}

func TestSignature_DivideCancels(t *testing.T) {
	got := qnty.SigForce.Divide(qnty.SigForce)
	if !got.IsDimensionless() {
		t.Errorf("force/force should be dimensionless, got %s", got)
	}
	if got := qnty.SigEnergy.Divide(qnty.SigLength); got != qnty.SigForce {
		t.Errorf("energy/length: want %s, got %s", qnty.SigForce, got)
	}
}

func TestSignature_InverseRoundTrip(t *testing.T) {
	s := qnty.SigPressure
	if got := s.Multiply(s.Inverse()); got != qnty.Dimensionless {
		t.Errorf("s * 1/s should be dimensionless, got %s", got)
	}
	if got := s.Inverse().Inverse(); got != s {
		t.Errorf("double inverse: want %s, got %s", s, got)
	}
}

func TestSignature_Pow(t *testing.T) {
	if got := qnty.SigLength.Pow(3); got != qnty.SigVolume {
		t.Errorf("L^3: want %s, got %s", qnty.SigVolume, got)
	}
	if got := qnty.SigTime.Pow(-1); got != qnty.SigFrequency {
		t.Errorf("T^-1: want %s, got %s", qnty.SigFrequency, got)
	}
	if got := qnty.SigForce.Pow(0); got != qnty.Dimensionless {
		t.Errorf("x^0: want dimensionless, got %s", got)
	}
}

func TestSignature_Exponents(t *testing.T) {
	tests := []struct {
		sig  qnty.Signature
		want qnty.Exponents
	}{
		{qnty.SigForce, qnty.Exponents{qnty.Length: 1, qnty.Mass: 1, qnty.Time: -2}},
		{qnty.SigPressure, qnty.Exponents{qnty.Length: -1, qnty.Mass: 1, qnty.Time: -2}},
		{qnty.SigVoltage, qnty.Exponents{qnty.Length: 2, qnty.Mass: 1, qnty.Time: -3, qnty.Current: -1}},
		{qnty.Dimensionless, qnty.Exponents{}},
	}
	for _, tt := range tests {
		if got := tt.sig.Exponents(); got != tt.want {
			t.Errorf("%s: want %v, got %v", tt.sig, tt.want, got)
		}
		if got := qnty.NewSignature(tt.want); got != tt.sig {
			t.Errorf("NewSignature(%v): want %s, got %s", tt.want, tt.sig, got)
		}
	}
}

func TestSignature_CompatibilityIsEquality(t *testing.T) {
	torque := qnty.SigForce.Multiply(qnty.SigLength)
	if !torque.IsCompatible(qnty.SigEnergy) {
		t.Errorf("force*length should be compatible with energy")
	}
	if qnty.SigForce.IsCompatible(qnty.SigPressure) {
		t.Errorf("force should not be compatible with pressure")
	}
}

func TestSignature_String(t *testing.T) {
	if got := qnty.SigForce.String(); got != "L·M·T^-2" {
		t.Errorf("want L·M·T^-2, got %s", got)
	}
	if got := qnty.Dimensionless.String(); got != "1" {
		t.Errorf("want 1, got %s", got)
	}
	if got := qnty.Length.String(); got != "length" {
		t.Errorf("want length, got %s", got)
	}
}

func TestSignature_ZeroValueIsDimensionless(t *testing.T) {
	var s qnty.Signature
	if !s.IsDimensionless() {
		t.Errorf("zero Signature should act as dimensionless")
	}
	if got := s.Multiply(qnty.SigMass); got != qnty.SigMass {
		t.Errorf("zero * M: want M, got %s", got)
	}
}

func TestSignature_OverflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected overflow panic")
		}
	}()
	qnty.NewSignature(qnty.Exponents{qnty.Length: 64})
}

func TestSignature_AlgebraLaws(t *testing.T) {
	sigs := []qnty.Signature{
		qnty.Dimensionless,
		qnty.SigLength,
		qnty.SigMass,
		qnty.SigFrequency,
		qnty.SigForce,
		qnty.SigPressure,
		qnty.SigDensity,
		qnty.NewSignature(qnty.Exponents{-2, 1, 3, 0, -1, 0, 1}),
	}
	for _, a := range sigs {
		if got := a.Multiply(qnty.Dimensionless); got != a {
			t.Errorf("%s * 1: want %s, got %s", a, a, got)
		}
		if got := qnty.Dimensionless.Multiply(a); got != a {
			t.Errorf("1 * %s: want %s, got %s", a, a, got)
		}
		if got := a.Divide(a); got != qnty.Dimensionless {
			t.Errorf("%s / %s: want dimensionless, got %s", a, a, got)
		}
		for _, b := range sigs {
			if ab, ba := a.Multiply(b), b.Multiply(a); ab != ba {
				t.Errorf("%s * %s: not commutative (%s vs %s)", a, b, ab, ba)
			}
			for _, c := range sigs {
				left := a.Multiply(b).Multiply(c)
				right := a.Multiply(b.Multiply(c))
				if left != right {
					t.Errorf("(%s * %s) * %s: not associative (%s vs %s)", a, b, c, left, right)
				}
			}
		}
	}
}

func TestSignature_PowExtremeExponents(t *testing.T) {
	if got := qnty.Dimensionless.Pow(math.MinInt64); got != qnty.Dimensionless {
		t.Errorf("1^MinInt64: want dimensionless, got %s", got)
	}
	if got := qnty.SigLength.Pow(-3); got != qnty.SigVolume.Inverse() {
		t.Errorf("L^-3: want %s, got %s", qnty.SigVolume.Inverse(), got)
	}
	panicked := func() (ok bool) {
		defer func() { ok = recover() != nil }()
		qnty.SigLength.Pow(math.MinInt64)
		return false
	}()
	if !panicked {
		t.Errorf("L^MinInt64 should panic with an overflow")
	}
}
