// Package der decodes the ASN.1 DER encoding of a two-prime RSAPrivateKey
// (RFC 3447 Appendix A.1.2, version 0). PKCS#8, PEM, and multi-prime
// forms are rejected here, before any arithmetic validation runs.
//
// *big.Int struct fields are marshaled and unmarshaled as ASN.1 INTEGER
// natively, so no hand-rolled tokenizer is needed.
package der

import (
	"encoding/asn1"
	"errors"
	"math/big"
)

// ErrMalformed is returned for any DER input that is not a well-formed,
// version-0, two-prime RSAPrivateKey SEQUENCE.
var ErrMalformed = errors.New("der: malformed RSAPrivateKey")

// RawKey holds the eight key integers of an RSAPrivateKey SEQUENCE (the
// version field is checked by Decode and not kept), still unvalidated
// against any arithmetic invariant.
type RawKey struct {
	N, E, D, P, Q, Dmp1, Dmq1, Iqmp *big.Int
}

// asn1 requires a plain struct (no exported methods needed) whose field
// order matches the DER SEQUENCE exactly.
type rsaPrivateKeyASN1 struct {
	Version int
	N       *big.Int
	E       *big.Int
	D       *big.Int
	P       *big.Int
	Q       *big.Int
	Dmp1    *big.Int
	Dmq1    *big.Int
	Iqmp    *big.Int
}

// Decode parses a DER-encoded RSAPrivateKey. It fails on trailing bytes,
// any version other than 0, or a non-SEQUENCE/wrong-shape encoding.
func Decode(der []byte) (*RawKey, error) {
	var k rsaPrivateKeyASN1
	rest, err := asn1.Unmarshal(der, &k)
	if err != nil {
		return nil, ErrMalformed
	}
	if len(rest) != 0 {
		return nil, ErrMalformed
	}
	if k.Version != 0 {
		return nil, ErrMalformed
	}
	for _, v := range []*big.Int{k.N, k.E, k.D, k.P, k.Q, k.Dmp1, k.Dmq1, k.Iqmp} {
		if v == nil || v.Sign() <= 0 {
			return nil, ErrMalformed
		}
	}

	return &RawKey{
		N:    k.N,
		E:    k.E,
		D:    k.D,
		P:    k.P,
		Q:    k.Q,
		Dmp1: k.Dmp1,
		Dmq1: k.Dmq1,
		Iqmp: k.Iqmp,
	}, nil
}
