// Package padding implements the PKCS#1 v1.5 and PSS message-encoding
// primitives consumed by the signing core.
//
// It implements the hash/padding primitive a signing core consumes as
// a collaborator (DigestAlg + Encode).
package padding

import (
	"crypto"
	"crypto/subtle"
	"errors"
	"hash"
	"io"
)

// ErrEncoding covers every failure this package can produce: message
// too long for the modulus, wrong hash length, or a short RNG read.
var ErrEncoding = errors.New("padding: encoding failure")

// Algorithm is the encoding contract the signing core drives: it knows
// which hash to use to digest the message, and how to encode the
// resulting digest into a fixed-width representative.
type Algorithm interface {
	DigestAlg() crypto.Hash
	// Encode fills out (len(out) == ceil(nBits/8)) with a padded
	// representative of hashed, in the interval [0, 2^nBits) as a
	// big-endian byte string.
	Encode(hashed []byte, out []byte, nBits int, rng io.Reader) error
}

// hashPrefixes are the precomputed ASN.1 DigestInfo prefixes for
// PKCS#1 v1.5 (RFC 3447 §9.2, step 2).
var hashPrefixes = map[crypto.Hash][]byte{
	crypto.SHA256: {0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20},
	crypto.SHA384: {0x30, 0x41, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x02, 0x05, 0x00, 0x04, 0x30},
	crypto.SHA512: {0x30, 0x51, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x03, 0x05, 0x00, 0x04, 0x40},
}

// copyWithLeftPad copies src to the end of dest, zero-padding the front,
// adapted from monnand-rsa/utils.go's function of the same name.
func copyWithLeftPad(dest, src []byte) {
	numPaddingBytes := len(dest) - len(src)
	for i := 0; i < numPaddingBytes; i++ {
		dest[i] = 0
	}
	copy(dest[numPaddingBytes:], src)
}

// pkcs1v15 implements RSASSA-PKCS1-v1_5 message encoding (RFC 3447 §9.2).
type pkcs1v15 struct {
	hash crypto.Hash
}

// NewPKCS1v15 returns the PKCS#1 v1.5 encoding algorithm for the given hash.
func NewPKCS1v15(h crypto.Hash) Algorithm {
	return pkcs1v15{hash: h}
}

func (p pkcs1v15) DigestAlg() crypto.Hash { return p.hash }

func (p pkcs1v15) Encode(hashed []byte, out []byte, nBits int, rng io.Reader) error {
	prefix, ok := hashPrefixes[p.hash]
	if !ok {
		return ErrEncoding
	}
	hLen := p.hash.Size()
	if len(hashed) != hLen {
		return ErrEncoding
	}

	tLen := len(prefix) + hLen
	k := len(out)
	if k < tLen+11 {
		return ErrEncoding
	}

	// EM = 0x00 || 0x01 || PS || 0x00 || T
	out[0] = 0x00
	out[1] = 0x01
	for i := 2; i < k-tLen-1; i++ {
		out[i] = 0xff
	}
	out[k-tLen-1] = 0x00
	copy(out[k-tLen:k-hLen], prefix)
	copy(out[k-hLen:], hashed)
	return nil
}

// pss implements EMSA-PSS-ENCODE (RFC 3447 §9.1.1).
type pss struct {
	hash    crypto.Hash
	saltLen int
}

// NewPSS returns the PSS encoding algorithm for the given hash and salt
// length.
func NewPSS(h crypto.Hash, saltLen int) Algorithm {
	return pss{hash: h, saltLen: saltLen}
}

func (p pss) DigestAlg() crypto.Hash { return p.hash }

func (p pss) Encode(hashed []byte, out []byte, nBits int, rng io.Reader) error {
	salt := make([]byte, p.saltLen)
	if _, err := io.ReadFull(rng, salt); err != nil {
		return ErrEncoding
	}

	// RFC 3447's emBits is one bit short of the modulus bit length so
	// that the representative is guaranteed < n regardless of the
	// value of the padded bits.
	emBits := nBits - 1
	em, err := emsaPSSEncode(hashed, emBits, salt, p.hash.New())
	if err != nil {
		return ErrEncoding
	}
	if len(em) > len(out) {
		return ErrEncoding
	}
	copyWithLeftPad(out, em)
	return nil
}

// Verify is EMSA-PSS-VERIFY (RFC 3447 §9.1.2), exposed only for this
// repository's own round-trip tests: signature verification is not a
// product feature of this core (spec Non-goals).
func Verify(hash crypto.Hash, hashed, em []byte, emBits, saltLen int) error {
	return emsaPSSVerify(hashed, em, emBits, saltLen, hash.New())
}

func emsaPSSEncode(mHash []byte, emBits int, salt []byte, h hash.Hash) ([]byte, error) {
	hLen := h.Size()
	sLen := len(salt)
	emLen := (emBits + 7) / 8

	if len(mHash) != hLen {
		return nil, ErrEncoding
	}
	if emLen < hLen+sLen+2 {
		return nil, ErrEncoding
	}

	em := make([]byte, emLen)
	db := em[:emLen-sLen-hLen-2+1+sLen]
	hOut := em[emLen-sLen-hLen-2+1+sLen : emLen-1]

	prefix := [8]byte{}
	h.Write(prefix[:])
	h.Write(mHash)
	h.Write(salt)
	hOut = h.Sum(hOut[:0])
	h.Reset()

	db[emLen-sLen-hLen-2] = 0x01
	copy(db[emLen-sLen-hLen-1:], salt)

	mgf1XOR(db, h, hOut)

	db[0] &= 0xFF >> uint(8*emLen-emBits)

	em[emLen-1] = 0xBC
	return em, nil
}

func emsaPSSVerify(mHash, em []byte, emBits, sLen int, h hash.Hash) error {
	hLen := h.Size()
	if hLen != len(mHash) {
		return ErrEncoding
	}

	emLen := (emBits + 7) / 8
	if emLen < hLen+sLen+2 {
		return ErrEncoding
	}
	if em[len(em)-1] != 0xBC {
		return ErrEncoding
	}

	db := em[:emLen-hLen-1]
	hGot := em[emLen-hLen-1 : len(em)-1]

	if em[0]&(0xFF<<uint(8-(8*emLen-emBits))) != 0 {
		return ErrEncoding
	}

	mgf1XOR(db, h, hGot)
	db[0] &= 0xFF >> uint(8*emLen-emBits)

	for _, e := range db[:emLen-hLen-sLen-2] {
		if e != 0x00 {
			return ErrEncoding
		}
	}
	if db[emLen-hLen-sLen-2] != 0x01 {
		return ErrEncoding
	}

	salt := db[len(db)-sLen:]

	prefix := [8]byte{}
	h.Write(prefix[:])
	h.Write(mHash)
	h.Write(salt)
	hWant := h.Sum(nil)

	if subtle.ConstantTimeCompare(hWant, hGot) != 1 {
		return ErrEncoding
	}
	return nil
}

// incCounter increments a four-byte, big-endian counter, copied from
// monnand-rsa/utils.go.
func incCounter(c *[4]byte) {
	if c[3]++; c[3] != 0 {
		return
	}
	if c[2]++; c[2] != 0 {
		return
	}
	if c[1]++; c[1] != 0 {
		return
	}
	c[0]++
}

// mgf1XOR XORs out with a mask generated by MGF1 (RFC 3447 Appendix B.2.1),
// copied from monnand-rsa/utils.go.
func mgf1XOR(out []byte, h hash.Hash, seed []byte) {
	var counter [4]byte
	var digest []byte

	done := 0
	for done < len(out) {
		h.Write(seed)
		h.Write(counter[:])
		digest = h.Sum(digest[:0])
		h.Reset()

		for i := 0; i < len(digest) && done < len(out); i++ {
			out[done] ^= digest[i]
			done++
		}
		incCounter(&counter)
	}
}
