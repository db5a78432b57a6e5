// Package qnty provides dimension-checked physical quantities for engineering
// calculations, an expression tree evaluated over named variables, and a
// forward-chaining equation solver.
//
// Design goals:
//   - Every arithmetic step is checked for dimensional soundness
//   - Compatibility checks are a single comparison of encoded signatures
//   - Explicit binding maps everywhere; nothing reaches into caller scope
//   - Embeddable: no I/O in the engine, a JSON/YAML surface for tools
//
// Concurrency: only the registry's derived-unit cache locks. A host that
// shares a System or Variable between goroutines must serialize access itself.
package qnty

import (
	"fmt"
	"math/bits"
	"strings"
)

// ============================================================
// Base dimensions
// ============================================================

// BaseDimension indexes one of the seven SI base dimensions.
type BaseDimension int

const (
	Length BaseDimension = iota
	Mass
	Time
	Current
	Temperature
	Amount
	Luminosity

	numBaseDimensions = 7
)

// dimensionPrimes assigns a distinct prime to each base dimension. The
// signature of an exponent vector is prod(prime_i ^ exp_i).
var dimensionPrimes = [numBaseDimensions]uint64{2, 3, 5, 7, 11, 13, 17}

var dimensionSymbols = [numBaseDimensions]string{"L", "M", "T", "I", "Θ", "N", "J"}

var dimensionNames = [numBaseDimensions]string{
	"length", "mass", "time", "current", "temperature", "amount", "luminosity",
}

func (d BaseDimension) String() string {
	if d < 0 || d >= numBaseDimensions {
		return fmt.Sprintf("BaseDimension(%d)", int(d))
	}
	return dimensionNames[d]
}

// Exponents is an exponent vector indexed by BaseDimension.
type Exponents [numBaseDimensions]int

// ============================================================
// Signature: exact rational prime encoding
// ============================================================

// Signature encodes an exponent vector as a reduced fraction of prime powers:
// primes with positive exponents multiply into num, negative ones into den.
// Two signatures are equal (==) iff their exponent vectors are equal, so a
// Signature can be used directly as a map key.
//
// The zero value is not a valid signature; use Dimensionless.
type Signature struct {
	num, den uint64
}

// Dimensionless is the multiplicative identity.
var Dimensionless = Signature{num: 1, den: 1}

// MaxExponent bounds the exponents accepted from evaluated powers and decoded
// dimension vectors.
const MaxExponent = 64

// NewSignature encodes an exponent vector. It panics if the encoded value does
// not fit in 64 bits, which needs exponents far outside engineering use.
func NewSignature(exps Exponents) Signature {
	s, ok := signatureOf(exps)
	if !ok {
		panic(errSignatureOverflow)
	}
	return s
}

// signatureOf is NewSignature reporting overflow instead of panicking.
func signatureOf(exps Exponents) (Signature, bool) {
	s := Dimensionless
	for i, e := range exps {
		if e > MaxExponent || e < -MaxExponent {
			return Signature{}, false
		}
		p := dimensionPrimes[i]
		var ok bool
		switch {
		case e > 0:
			var f uint64
			if f, ok = ipow(p, e); ok {
				s.num, ok = checkedMul(s.num, f)
			}
		case e < 0:
			var f uint64
			if f, ok = ipow(p, -e); ok {
				s.den, ok = checkedMul(s.den, f)
			}
		default:
			ok = true
		}
		if !ok {
			return Signature{}, false
		}
	}
	return s, true
}

// Dim is shorthand for a signature with a single base dimension raised to exp.
func Dim(d BaseDimension, exp int) Signature {
	var e Exponents
	e[d] = exp
	return NewSignature(e)
}

// Multiply returns the signature of a product (exponents add). It panics on
// overflow; evaluation uses the checked form and reports an arithmetic guard.
func (s Signature) Multiply(o Signature) Signature {
	out, ok := s.mul(o)
	if !ok {
		panic(errSignatureOverflow)
	}
	return out
}

func (s Signature) mul(o Signature) (Signature, bool) {
	s, o = s.valid(), o.valid()
	g1 := gcd(s.num, o.den)
	g2 := gcd(o.num, s.den)
	num, ok1 := checkedMul(s.num/g1, o.num/g2)
	den, ok2 := checkedMul(s.den/g2, o.den/g1)
	if !ok1 || !ok2 {
		return Signature{}, false
	}
	return Signature{num: num, den: den}, true
}

// Divide returns the signature of a quotient (exponents subtract).
func (s Signature) Divide(o Signature) Signature {
	return s.Multiply(o.Inverse())
}

// Inverse negates every exponent.
func (s Signature) Inverse() Signature {
	s = s.valid()
	return Signature{num: s.den, den: s.num}
}

// Pow multiplies every exponent by n. It panics on overflow.
func (s Signature) Pow(n int) Signature {
	out, ok := s.pow(n)
	if !ok {
		panic(errSignatureOverflow)
	}
	return out
}

func (s Signature) pow(n int) (Signature, bool) {
	s = s.valid()
	if s == Dimensionless || n == 0 {
		return Dimensionless, true
	}
	k := uint64(n)
	if n < 0 {
		s = s.Inverse()
		k = uint64(-(n + 1)) + 1
	}
	out := Dimensionless
	for i := uint64(0); i < k; i++ {
		var ok bool
		if out, ok = out.mul(s); !ok {
			return Signature{}, false
		}
	}
	return out, true
}

// IsCompatible reports whether two signatures describe the same dimension.
func (s Signature) IsCompatible(o Signature) bool { return s.valid() == o.valid() }

func (s Signature) IsDimensionless() bool { return s.valid() == Dimensionless }

// Exponents decodes the signature back into its exponent vector.
func (s Signature) Exponents() Exponents {
	s = s.valid()
	var e Exponents
	num, den := s.num, s.den
	for i, p := range dimensionPrimes {
		for num%p == 0 {
			num /= p
			e[i]++
		}
		for den%p == 0 {
			den /= p
			e[i]--
		}
	}
	return e
}

// String renders the signature with dimension symbols, e.g. "L·M·T^-2".
func (s Signature) String() string {
	e := s.Exponents()
	parts := make([]string, 0, numBaseDimensions)
	for i, x := range e {
		switch {
		case x == 0:
			continue
		case x == 1:
			parts = append(parts, dimensionSymbols[i])
		default:
			parts = append(parts, fmt.Sprintf("%s^%d", dimensionSymbols[i], x))
		}
	}
	if len(parts) == 0 {
		return "1"
	}
	return strings.Join(parts, "·")
}

func (s Signature) valid() Signature {
	if s.num == 0 || s.den == 0 {
		return Dimensionless
	}
	return s
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

const errSignatureOverflow = "qnty: dimension signature overflow"

func ipow(p uint64, e int) (uint64, bool) {
	out := uint64(1)
	for i := 0; i < e; i++ {
		var ok bool
		if out, ok = checkedMul(out, p); !ok {
			return 0, false
		}
	}
	return out, true
}

func checkedMul(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

// ============================================================
// Named signatures
// ============================================================

var (
	SigLength      = Dim(Length, 1)
	SigMass        = Dim(Mass, 1)
	SigTime        = Dim(Time, 1)
	SigCurrent     = Dim(Current, 1)
	SigTemperature = Dim(Temperature, 1)
	SigAmount      = Dim(Amount, 1)
	SigLuminosity  = Dim(Luminosity, 1)

	SigArea         = SigLength.Pow(2)
	SigVolume       = SigLength.Pow(3)
	SigVelocity     = SigLength.Divide(SigTime)
	SigAcceleration = SigVelocity.Divide(SigTime)
	SigFrequency    = SigTime.Inverse()
	SigForce        = SigMass.Multiply(SigAcceleration)
	SigPressure     = SigForce.Divide(SigArea)
	SigEnergy       = SigForce.Multiply(SigLength)
	SigPower        = SigEnergy.Divide(SigTime)
	SigDensity      = SigMass.Divide(SigVolume)
	SigCharge       = SigCurrent.Multiply(SigTime)
	SigVoltage      = SigPower.Divide(SigCurrent)
	SigMassFlow     = SigMass.Divide(SigTime)
	SigVolumeFlow   = SigVolume.Divide(SigTime)
)
