package rsasigning

import (
	"math/big"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("crtTransform", func() {
	It("matches plain c^d mod n for c = 123456789", func() {
		priv, der := testKey(2048)
		kp, err := ParseKeyPair(der)
		Expect(err).To(BeNil())

		c := big.NewInt(123456789)
		want := new(big.Int).Exp(c, priv.D, priv.N)

		cElem := kp.n.ToMontgomery(c)
		got, err := kp.crtTransform(cElem)
		Expect(err).To(BeNil())
		Expect(got.Decode().Cmp(want)).To(Equal(0))
	})

	It("matches plain c^d mod n for c = 1", func() {
		priv, der := testKey(2048)
		kp, err := ParseKeyPair(der)
		Expect(err).To(BeNil())

		c := big.NewInt(1)
		want := new(big.Int).Exp(c, priv.D, priv.N)

		cElem := kp.n.ToMontgomery(c)
		got, err := kp.crtTransform(cElem)
		Expect(err).To(BeNil())
		Expect(got.Decode().Cmp(want)).To(Equal(0))
	})
})
