package rsasigning

import (
	"crypto"
	_ "crypto/sha256" // register SHA-256/384 for crypto.Hash.New
	_ "crypto/sha512" // register SHA-512
	"io"
	"math/big"

	"github.com/bastionzero/rsasigning/internal/padding"
)

// PaddingAlgorithm selects the message encoding and digest Sign uses.
type PaddingAlgorithm int

const (
	PKCS1SHA256 PaddingAlgorithm = iota
	PKCS1SHA384
	PKCS1SHA512
	PSSSHA256
	PSSSHA384
	PSSSHA512
)

var algorithms = map[PaddingAlgorithm]padding.Algorithm{
	PKCS1SHA256: padding.NewPKCS1v15(crypto.SHA256),
	PKCS1SHA384: padding.NewPKCS1v15(crypto.SHA384),
	PKCS1SHA512: padding.NewPKCS1v15(crypto.SHA512),
	PSSSHA256:   padding.NewPSS(crypto.SHA256, crypto.SHA256.Size()),
	PSSSHA384:   padding.NewPSS(crypto.SHA384, crypto.SHA384.Size()),
	PSSSHA512:   padding.NewPSS(crypto.SHA512, crypto.SHA512.Size()),
}

// Sign hashes msg, pads the digest per alg, and produces the RSA
// signature of kp's private key into out. len(out) must equal
// kp.SignatureLen() exactly. Every failure, including a wrong-length
// out buffer, an unregistered algorithm, exhausted RNG, or an
// out-of-range encoded representative, returns ErrRSASigning and
// leaves s usable (its blinding resets to Empty; no partial signature
// is written).
func (s *SigningState) Sign(alg PaddingAlgorithm, rng io.Reader, msg, out []byte) (err error) {
	defer func() {
		if err != nil {
			s.blinding.state = nil
		}
	}()

	kp := s.kp
	if len(out) != kp.SignatureLen() {
		return ErrRSASigning
	}

	a, ok := algorithms[alg]
	if !ok {
		return ErrRSASigning
	}

	h := a.DigestAlg().New()
	h.Write(msg)
	hashed := h.Sum(nil)

	if err := a.Encode(hashed, out, kp.BitLen(), rng); err != nil {
		return ErrRSASigning
	}

	x := new(big.Int).SetBytes(out)
	elem, err := kp.n.DecodeInt(x)
	if err != nil {
		return ErrRSASigning
	}

	result, err := s.blinding.blind(rng, elem, kp.crtTransform)
	if err != nil {
		return ErrRSASigning
	}

	resultBytes := result.Decode().Bytes()
	numPad := len(out) - len(resultBytes)
	if numPad < 0 {
		return ErrRSASigning
	}
	for i := 0; i < numPad; i++ {
		out[i] = 0
	}
	copy(out[numPad:], resultBytes)
	return nil
}
