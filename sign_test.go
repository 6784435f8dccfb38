package rsasigning

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// deterministicSaltRNG returns a fixed salt whenever asked for exactly
// len(salt) bytes, and otherwise defers to crypto/rand.Reader. This
// mirrors what a test double for the RNG collaborator needs to supply
// to make PSS signing reproducible without starving the blinding
// engine of real randomness.
type deterministicSaltRNG struct {
	salt []byte
}

func (d deterministicSaltRNG) Read(p []byte) (int, error) {
	if len(p) == len(d.salt) {
		copy(p, d.salt)
		return len(p), nil
	}
	return rand.Read(p)
}

var _ = Describe("Sign", func() {
	It("produces a signature verifiable by the matching public key (PKCS#1 v1.5)", func() {
		priv, der := testKey(2048)
		kp, err := ParseKeyPair(der)
		Expect(err).To(BeNil())

		s := NewSigningState(kp)
		msg := []byte("hello, world")
		out := make([]byte, kp.SignatureLen())
		Expect(s.Sign(PKCS1SHA256, rand.Reader, msg, out)).To(Succeed())

		h := crypto.SHA256.New()
		h.Write(msg)
		Expect(rsa.VerifyPKCS1v15(&priv.PublicKey, crypto.SHA256, h.Sum(nil), out)).To(Succeed())
	})

	It("produces a signature verifiable by the matching public key (PSS)", func() {
		priv, der := testKey(2048)
		kp, err := ParseKeyPair(der)
		Expect(err).To(BeNil())

		s := NewSigningState(kp)
		msg := []byte("hello, world, via PSS")
		out := make([]byte, kp.SignatureLen())
		Expect(s.Sign(PSSSHA256, rand.Reader, msg, out)).To(Succeed())

		h := crypto.SHA256.New()
		h.Write(msg)
		opts := &rsa.PSSOptions{SaltLength: crypto.SHA256.Size(), Hash: crypto.SHA256}
		Expect(rsa.VerifyPSS(&priv.PublicKey, crypto.SHA256, h.Sum(nil), out, opts)).To(Succeed())
	})

	It("rejects a signature buffer that is too short or too long", func() {
		_, der := testKey(2048)
		kp, err := ParseKeyPair(der)
		Expect(err).To(BeNil())

		s := NewSigningState(kp)
		msg := []byte("hello, world")

		short := make([]byte, 255)
		Expect(s.Sign(PKCS1SHA256, rand.Reader, msg, short)).NotTo(Succeed())

		long := make([]byte, 257)
		Expect(s.Sign(PKCS1SHA256, rand.Reader, msg, long)).NotTo(Succeed())

		exact := make([]byte, 256)
		Expect(s.Sign(PKCS1SHA256, rand.Reader, msg, exact)).To(Succeed())
	})

	It("fails signing when the RNG can never produce an invertible blinding candidate", func() {
		_, der := testKey(2048)
		kp, err := ParseKeyPair(der)
		Expect(err).To(BeNil())

		s := NewSigningState(kp)
		msg := []byte("hello, world")
		out := make([]byte, kp.SignatureLen())
		Expect(s.Sign(PKCS1SHA256, zeroReader{}, msg, out)).To(Equal(ErrRSASigning))
	})

	It("produces byte-identical PSS signatures for the same message and deterministic salt", func() {
		priv, der := testKey(2048)
		kp, err := ParseKeyPair(der)
		Expect(err).To(BeNil())

		salt := make([]byte, crypto.SHA256.Size())
		for i := range salt {
			salt[i] = byte(i)
		}
		rng := deterministicSaltRNG{salt: salt}

		msg := []byte("deterministic PSS vector")
		out1 := make([]byte, kp.SignatureLen())
		out2 := make([]byte, kp.SignatureLen())

		s1 := NewSigningState(kp)
		s2 := NewSigningState(kp)
		Expect(s1.Sign(PSSSHA256, rng, msg, out1)).To(Succeed())
		Expect(s2.Sign(PSSSHA256, rng, msg, out2)).To(Succeed())

		Expect(out1).To(Equal(out2))

		h := crypto.SHA256.New()
		h.Write(msg)
		opts := &rsa.PSSOptions{SaltLength: crypto.SHA256.Size(), Hash: crypto.SHA256}
		Expect(rsa.VerifyPSS(&priv.PublicKey, crypto.SHA256, h.Sum(nil), out1, opts)).To(Succeed())
	})

	It("leaves the blinding engine reusable after a successful sign", func() {
		_, der := testKey(2048)
		kp, err := ParseKeyPair(der)
		Expect(err).To(BeNil())

		s := NewSigningState(kp)
		msg := []byte("round two")
		out := make([]byte, kp.SignatureLen())
		Expect(s.Sign(PKCS1SHA256, rand.Reader, msg, out)).To(Succeed())
		Expect(s.Sign(PKCS1SHA256, rand.Reader, msg, out)).To(Succeed())
	})
})
