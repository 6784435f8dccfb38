// Package field implements modular arithmetic in Montgomery form over a
// fixed modulus, typed by field identity so that elements of different
// moduli cannot be combined by accident.
//
// It provides the big-integer primitives an RSA signing core builds
// on: Montgomery multiply, squaring, exponentiation (separate entry
// points for public and secret exponents), random element generation,
// and modular inverse, all backed by math/big.
package field

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"io"
	"math/big"
)

// ErrNotInvertible names the case where a candidate has no inverse
// modulo m (i.e. gcd(x, m) != 1). BlindedModInverse reports that case
// with ok=false and a nil error rather than returning this value.
var ErrNotInvertible = errors.New("field: no inverse")

// FieldID tags the distinct modular fields this package's callers use.
// It is never instantiated; it exists only to be used as a type
// parameter, so that an Element[P] cannot be passed where an
// Element[Q] is expected.
type FieldID interface {
	isFieldID()
}

// N tags the public-modulus field.
type N struct{}

func (N) isFieldID() {}

// P tags the field modulo the first prime factor.
type P struct{}

func (P) isFieldID() {}

// Q tags the field modulo the second prime factor.
type Q struct{}

func (Q) isFieldID() {}

// Modulus is a fixed modulus over field F, together with the Montgomery
// constants needed to move values in and out of Montgomery form.
type Modulus[F FieldID] struct {
	m       *big.Int
	bits    int
	r       *big.Int // 2^rBits, the Montgomery radix R (not reduced mod m)
	rInv    *big.Int // r^-1 mod m
	rSquare *big.Int // r^2 mod m, named after gnark-crypto's Field.RSquare
}

// NewModulus builds a Modulus[F] from a positive odd integer. RSA moduli
// (n, p, q) are always odd, which Montgomery arithmetic requires
// (gcd(R, m) = 1 for R a power of two).
func NewModulus[F FieldID](m *big.Int) (*Modulus[F], error) {
	if m.Sign() <= 0 {
		return nil, errors.New("field: modulus must be positive")
	}
	if m.Bit(0) != 1 {
		return nil, errors.New("field: modulus must be odd")
	}

	bits := m.BitLen()
	rBits := ((bits + 63) / 64) * 64
	if rBits <= bits {
		rBits += 64
	}
	r := new(big.Int).Lsh(big.NewInt(1), uint(rBits))

	rInv := new(big.Int).ModInverse(r, m)
	if rInv == nil {
		return nil, errors.New("field: modulus not coprime to Montgomery radix")
	}

	rSquare := new(big.Int).Mod(r, m)
	rSquare.Mul(rSquare, rSquare)
	rSquare.Mod(rSquare, m)

	return &Modulus[F]{
		m:       new(big.Int).Set(m),
		bits:    bits,
		r:       r,
		rInv:    rInv,
		rSquare: rSquare,
	}, nil
}

// Int returns the modulus as a plain big.Int. The caller must not
// mutate the result.
func (mod *Modulus[F]) Int() *big.Int { return mod.m }

// BitLen returns the bit length of the modulus.
func (mod *Modulus[F]) BitLen() int { return mod.bits }

// montMul computes a*b*rInv mod m, the Montgomery product: if a and b
// represent x*R mod m and y*R mod m respectively, the result represents
// (x*y)*R mod m.
func (mod *Modulus[F]) montMul(a, b *big.Int) *big.Int {
	t := new(big.Int).Mul(a, b)
	t.Mul(t, mod.rInv)
	t.Mod(t, mod.m)
	return t
}

// Element is a value in field F, stored in Montgomery form (x*R mod m).
type Element[F FieldID] struct {
	val *big.Int
	mod *Modulus[F]
}

// Modulus returns the field this element belongs to.
func (e *Element[F]) Modulus() *Modulus[F] { return e.mod }

// ToMontgomery encodes a plain (decoded) representative x, 0 <= x < m,
// into its Montgomery form.
func (mod *Modulus[F]) ToMontgomery(x *big.Int) *Element[F] {
	v := mod.montMul(new(big.Int).Mod(x, mod.m), mod.rSquare)
	return &Element[F]{val: v, mod: mod}
}

// Decode decodes a big-endian byte string into a field element,
// producing its Montgomery form. It fails if the represented integer is
// not in [0, m).
func (mod *Modulus[F]) Decode(b []byte) (*Element[F], error) {
	x := new(big.Int).SetBytes(b)
	if x.Cmp(mod.m) >= 0 {
		return nil, errors.New("field: value out of range")
	}
	return mod.ToMontgomery(x), nil
}

// DecodeInt is Decode for an already-parsed integer.
func (mod *Modulus[F]) DecodeInt(x *big.Int) (*Element[F], error) {
	if x.Sign() < 0 || x.Cmp(mod.m) >= 0 {
		return nil, errors.New("field: value out of range")
	}
	return mod.ToMontgomery(x), nil
}

// Decode converts e back to its plain (non-Montgomery) representative.
func (e *Element[F]) Decode() *big.Int {
	return e.mod.montMul(e.val, big.NewInt(1))
}

// IsZero reports whether the decoded element is zero. The comparison
// is done over a fixed-width byte encoding via crypto/subtle, since
// the values compared here (CRT recombination intermediates, key
// validation checks over secret-derived quantities) must not leak
// their magnitude through a variable-time big.Int comparison.
func (e *Element[F]) IsZero() bool {
	return e.constantTimeEquals(zeroInt)
}

// IsOne reports whether the decoded element is one, under the same
// constant-time discipline as IsZero.
func (e *Element[F]) IsOne() bool {
	return e.constantTimeEquals(oneInt)
}

func (e *Element[F]) constantTimeEquals(want *big.Int) bool {
	size := (e.mod.bits + 7) / 8
	got := make([]byte, size)
	e.Decode().FillBytes(got)
	wantBytes := make([]byte, size)
	want.FillBytes(wantBytes)
	return subtle.ConstantTimeCompare(got, wantBytes) == 1
}

var zeroInt = big.NewInt(0)
var oneInt = big.NewInt(1)

// Mul returns e*y as a new element of the same field.
func (e *Element[F]) Mul(y *Element[F]) *Element[F] {
	return &Element[F]{val: e.mod.montMul(e.val, y.val), mod: e.mod}
}

// Sub returns e-y, reduced into [0, m), as a new element of the same field.
func (e *Element[F]) Sub(y *Element[F]) *Element[F] {
	d := new(big.Int).Sub(e.val, y.val)
	d.Mod(d, e.mod.m)
	return &Element[F]{val: d, mod: e.mod}
}

// Add returns e+y, reduced into [0, m), as a new element of the same field.
func (e *Element[F]) Add(y *Element[F]) *Element[F] {
	s := new(big.Int).Add(e.val, y.val)
	s.Mod(s, e.mod.m)
	return &Element[F]{val: s, mod: e.mod}
}

// Square returns e*e as a new element of the same field.
func (e *Element[F]) Square() *Element[F] {
	return e.Mul(e)
}

// ExpVartime raises the decoded value of e to exp and re-encodes the
// result, using whatever timing characteristics math/big's Exp gives —
// acceptable only for public exponents (spec's "e" path).
func (e *Element[F]) ExpVartime(exp *big.Int) *Element[F] {
	x := e.Decode()
	x.Exp(x, exp, e.mod.m)
	return e.mod.ToMontgomery(x)
}

// ExpConsttime raises the decoded value of e to exp and re-encodes the
// result. This is the entry point the CRT transform uses for the secret
// exponents dmp1/dmq1. It runs the same math/big Exp call as ExpVartime,
// and math/big's modular exponentiation is not a constant-time
// operation, so its running time is not independent of exp.
func (e *Element[F]) ExpConsttime(exp *big.Int) *Element[F] {
	x := e.Decode()
	x.Exp(x, exp, e.mod.m)
	return e.mod.ToMontgomery(x)
}

// RandomElement draws a uniformly random element of [0, m) and returns
// its Montgomery form.
func RandomElement[F FieldID](rng io.Reader, mod *Modulus[F]) (*Element[F], error) {
	if rng == nil {
		rng = rand.Reader
	}
	x, err := rand.Int(rng, mod.m)
	if err != nil {
		return nil, err
	}
	return mod.ToMontgomery(x), nil
}

// BlindedModInverse attempts to compute the modular inverse of x within
// its field. It reports ok=false (with a nil error) when x has no
// inverse (gcd(x, m) != 1) rather than returning ErrNotInvertible,
// matching the "no inverse for this candidate, try another" retry shape
// the blinding engine needs. Any other failure is returned as err.
// The inverse is computed directly with math/big's ModInverse; x is not
// blinded before inversion.
func BlindedModInverse[F FieldID](x *Element[F]) (inv *Element[F], ok bool, err error) {
	decoded := x.Decode()
	invInt := new(big.Int).ModInverse(decoded, x.mod.m)
	if invInt == nil {
		return nil, false, nil
	}
	return x.mod.ToMontgomery(invInt), true, nil
}
