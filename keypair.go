package rsasigning

import (
	"math/big"

	"github.com/bastionzero/rsasigning/internal/der"
	"github.com/bastionzero/rsasigning/internal/field"
)

const (
	minModulusBits = 2048
	maxModulusBits = 4096
)

var (
	three    = big.NewInt(3)
	maxEBits = 33 // matches ring's bound on the public exponent's bit length
)

// KeyPair is a validated, two-prime RSA private key. It is immutable
// after ParseKeyPair returns it and may be shared by any number of
// SigningStates across goroutines.
type KeyPair struct {
	n  *field.Modulus[field.N]
	p  *field.Modulus[field.P]
	q  *field.Modulus[field.Q]
	qq *big.Int

	e    *big.Int
	dmp1 *big.Int
	dmq1 *big.Int

	iqmp  *field.Element[field.P]
	qModN *field.Element[field.N]

	nBits int
}

// ParseKeyPair decodes and validates a DER-encoded two-prime
// RSAPrivateKey (RFC 3447 §A.1.2, version 0). Every failure, whether in
// decoding or in the arithmetic checks below, collapses to the single
// opaque ErrRSASigning: which predicate tripped is never disclosed.
func ParseKeyPair(derBytes []byte) (*KeyPair, error) {
	raw, err := der.Decode(derBytes)
	if err != nil {
		return nil, ErrRSASigning
	}

	nBits := raw.N.BitLen()
	if nBits < minModulusBits || nBits > maxModulusBits {
		return nil, ErrRSASigning
	}
	if err := validatePublicExponent(raw.N, raw.E); err != nil {
		return nil, err
	}

	if err := oddPositive(raw.D); err != nil {
		return nil, err
	}
	if raw.E.Cmp(raw.D) >= 0 || raw.D.Cmp(raw.N) >= 0 {
		return nil, ErrRSASigning
	}

	halfBits := (nBits + 1) / 2
	if raw.P.BitLen() != halfBits || raw.Q.BitLen() != halfBits {
		return nil, ErrRSASigning
	}
	if err := oddPositive(raw.P); err != nil {
		return nil, err
	}
	if err := oddPositive(raw.Q); err != nil {
		return nil, err
	}
	if raw.Q.Cmp(raw.P) >= 0 {
		return nil, ErrRSASigning
	}

	nMod, err := field.NewModulus[field.N](raw.N)
	if err != nil {
		return nil, ErrRSASigning
	}
	qModN := nMod.ToMontgomery(raw.Q)
	pModN := nMod.ToMontgomery(raw.P)
	if !qModN.Mul(pModN).IsZero() {
		return nil, ErrRSASigning
	}

	if err := oddPositive(raw.Dmp1); err != nil {
		return nil, err
	}
	if err := oddPositive(raw.Dmq1); err != nil {
		return nil, err
	}
	if raw.Dmp1.Cmp(raw.P) >= 0 || raw.Dmq1.Cmp(raw.Q) >= 0 {
		return nil, ErrRSASigning
	}

	pMod, err := field.NewModulus[field.P](raw.P)
	if err != nil {
		return nil, ErrRSASigning
	}
	iqmp := pMod.ToMontgomery(raw.Iqmp)
	qModP := pMod.ToMontgomery(raw.Q)
	if !iqmp.Mul(qModP).IsOne() {
		return nil, ErrRSASigning
	}

	qqInt := qModN.Square().Decode()
	if qqInt.Sign() <= 0 {
		return nil, ErrRSASigning
	}

	qMod, err := field.NewModulus[field.Q](raw.Q)
	if err != nil {
		return nil, ErrRSASigning
	}

	return &KeyPair{
		n:     nMod,
		p:     pMod,
		q:     qMod,
		qq:    qqInt,
		e:     new(big.Int).Set(raw.E),
		dmp1:  new(big.Int).Set(raw.Dmp1),
		dmq1:  new(big.Int).Set(raw.Dmq1),
		iqmp:  iqmp,
		qModN: qModN,
		nBits: nBits,
	}, nil
}

// validatePublicExponent stands in for the "external public-key
// validator" the design treats as a collaborator: e must be odd, at
// least 3, strictly less than n, and bounded in bit length the way
// RSA_PKCS1 key generation in every major library bounds it.
func validatePublicExponent(n, e *big.Int) error {
	if e.Sign() <= 0 || e.Bit(0) != 1 {
		return ErrRSASigning
	}
	if e.Cmp(three) < 0 {
		return ErrRSASigning
	}
	if e.BitLen() > maxEBits {
		return ErrRSASigning
	}
	if e.Cmp(n) >= 0 {
		return ErrRSASigning
	}
	return nil
}

// oddPositive asserts x > 0 and x is odd, the "odd-positive integer"
// witness the data model requires of d, p, q, dmp1, and dmq1: since an
// odd x strictly less than an even-or-odd modulus m satisfies x <= m-2
// whenever m is even, without needing a separate even-modulus check.
func oddPositive(x *big.Int) error {
	if x.Sign() <= 0 || x.Bit(0) != 1 {
		return ErrRSASigning
	}
	return nil
}

// BitLen returns the bit length of the public modulus.
func (kp *KeyPair) BitLen() int { return kp.nBits }

// SignatureLen returns the fixed byte length every signature produced
// from this key pair has: ceil(bitlen(n)/8).
func (kp *KeyPair) SignatureLen() int { return (kp.nBits + 7) / 8 }

// N returns the public modulus.
func (kp *KeyPair) N() *big.Int { return kp.n.Int() }

// E returns the public exponent.
func (kp *KeyPair) E() *big.Int { return new(big.Int).Set(kp.e) }
