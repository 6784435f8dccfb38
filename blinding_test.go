package rsasigning

import (
	"bytes"
	"io"
	"math/big"

	"github.com/bastionzero/rsasigning/internal/field"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// zeroReader always yields zero bytes, so every candidate r drawn from
// it is 0 and therefore never invertible mod n.
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

var _ = Describe("Blinding", func() {
	It("starts Empty and loads on first use", func() {
		_, der := testKey(2048)
		kp, err := ParseKeyPair(der)
		Expect(err).To(BeNil())

		b := newBlinding(kp)
		Expect(b.remaining()).To(Equal(-1))

		x := kp.n.ToMontgomery(bigOne)
		identity := func(e *field.Element[field.N]) (*field.Element[field.N], error) { return e, nil }
		_, err = b.blind(nil, x, identity)
		Expect(err).To(BeNil())
		Expect(b.remaining()).To(Equal(remainingMax - 1))
	})

	It("follows the documented reuse sequence across remainingMax+1 calls", func() {
		_, der := testKey(2048)
		kp, err := ParseKeyPair(der)
		Expect(err).To(BeNil())

		b := newBlinding(kp)
		identity := func(e *field.Element[field.N]) (*field.Element[field.N], error) { return e, nil }
		x := kp.n.ToMontgomery(bigOne)

		prev := -1
		for i := 0; i < remainingMax+1; i++ {
			_, err := b.blind(nil, x, identity)
			Expect(err).To(BeNil())
			if prev < 0 {
				Expect(b.remaining()).To(Equal(remainingMax - 1))
			} else {
				want := (prev - 1 + remainingMax) % remainingMax
				Expect(b.remaining()).To(Equal(want))
			}
			prev = b.remaining()
		}
	})

	It("fails after exhausting the retry budget when no r is invertible", func() {
		_, der := testKey(2048)
		kp, err := ParseKeyPair(der)
		Expect(err).To(BeNil())

		b := newBlinding(kp)
		identity := func(e *field.Element[field.N]) (*field.Element[field.N], error) { return e, nil }
		x := kp.n.ToMontgomery(bigOne)

		_, err = b.blind(zeroReader{}, x, identity)
		Expect(err).To(Equal(ErrRSASigning))
		Expect(b.remaining()).To(Equal(-1))
	})

	It("leaves the engine Empty when the wrapped operation fails", func() {
		_, der := testKey(2048)
		kp, err := ParseKeyPair(der)
		Expect(err).To(BeNil())

		b := newBlinding(kp)
		x := kp.n.ToMontgomery(bigOne)
		failing := func(e *field.Element[field.N]) (*field.Element[field.N], error) { return nil, ErrRSASigning }

		_, err = b.blind(nil, x, failing)
		Expect(err).To(Equal(ErrRSASigning))
		Expect(b.remaining()).To(Equal(-1))
	})

	It("unblinds the CRT private-key operation back to x^d mod n", func() {
		priv, der := testKey(2048)
		kp, err := ParseKeyPair(der)
		Expect(err).To(BeNil())

		b := newBlinding(kp)

		plain := bigFromInt(424242)
		want := new(big.Int).Exp(plain, priv.D, priv.N)
		x := kp.n.ToMontgomery(plain)
		got, err := b.blind(nil, x, kp.crtTransform)
		Expect(err).To(BeNil())
		Expect(bytes.Equal(got.Decode().Bytes(), want.Bytes())).To(BeTrue())
	})
})

var _ io.Reader = zeroReader{}
