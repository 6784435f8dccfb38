package rsasigning

import (
	"math/big"

	"github.com/bastionzero/rsasigning/internal/field"
)

// crtTransform computes m = c^d mod n given a blinded element c of
// field N, using the Chinese Remainder Theorem on p and q. The two
// half-width exponentiations (step 2) run through the ExpConsttime
// entry point, since dmp1 and dmq1 are secret (see its doc for its
// timing behaviour); the
// final recombination (steps 3-4) only ever touches c, the CRT
// exponents' results, and the key's own precomputed constants, none of
// which are attacker-influenced in ways that would make a fixed
// sequence of field operations variable-time in practice.
//
// qq (q*q mod n, validated in ParseKeyPair) is not consumed on this
// path: math/big's Mul/Mod already performs a fused multiply-reduce
// for the q*h lift in step 4, so precomputing qq buys nothing here. It
// remains part of the validated KeyPair for data-model fidelity and is
// available to a future implementation that swaps in a big-integer
// backend without that primitive.
func (kp *KeyPair) crtTransform(c *field.Element[field.N]) (*field.Element[field.N], error) {
	cInt := c.Decode()

	cp := kp.p.ToMontgomery(cInt)
	cq := kp.q.ToMontgomery(cInt)

	mp := cp.ExpConsttime(kp.dmp1)
	mq := cq.ExpConsttime(kp.dmq1)

	// m_q lives in field Q; the subtraction in step 3 happens mod p, so
	// m_q is first lifted into field P.
	mqModP := kp.p.ToMontgomery(mq.Decode())
	h := kp.iqmp.Mul(mp.Sub(mqModP))

	m := new(big.Int).Mul(h.Decode(), kp.q.Int())
	m.Add(m, mq.Decode())
	m.Mod(m, kp.n.Int())

	return kp.n.ToMontgomery(m), nil
}
