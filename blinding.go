package rsasigning

import (
	"crypto/rand"
	"io"

	"github.com/bastionzero/rsasigning/internal/field"
)

// remainingMax bounds how many times a blinding pair is reused (via
// squaring) before a fresh random factor is drawn.
const remainingMax = 32

// blindFunc is the fallible operation the blinding engine wraps: it
// receives the blinded element and returns one of the same field, or
// fails.
type blindFunc func(*field.Element[field.N]) (*field.Element[field.N], error)

// blindPair is a loaded blinding factor: A = r^e mod n and A_inv = r^-1
// mod n, plus the number of further squared reuses permitted.
type blindPair struct {
	a         *field.Element[field.N]
	aInv      *field.Element[field.N]
	remaining int
}

// Blinding is the per-signer base-blinding state machine. It is owned
// exclusively by one SigningState and is never safe to share.
type Blinding struct {
	kp    *KeyPair
	state *blindPair // nil means Empty
}

func newBlinding(kp *KeyPair) *Blinding {
	return &Blinding{kp: kp}
}

// remaining reports the reuse counter of the current blinding pair, or
// -1 if the engine is Empty. Exposed only for this repository's own
// tests (seed scenario 3 asserts the exact reuse sequence).
func (b *Blinding) remaining() int {
	if b.state == nil {
		return -1
	}
	return b.state.remaining
}

// blind computes y = A_inv * f(A * x) mod n. The pair it uses is the one
// advance produces from the current state, and that same pair (not a
// further-advanced one) is what gets stored: a pair is used once per
// advance, so the first call after a fresh load runs with remainingMax-1
// reuses left, not remainingMax-2. The state is swapped to Empty at
// entry and reinstated only on complete success, so any failure inside f
// or during regeneration leaves the engine Empty and the next call pays
// the regeneration cost.
func (b *Blinding) blind(rng io.Reader, x *field.Element[field.N], f blindFunc) (*field.Element[field.N], error) {
	old := b.state
	b.state = nil

	pair, err := b.advance(rng, old)
	if err != nil {
		return nil, err
	}

	blinded := pair.a.Mul(x)
	out, err := f(blinded)
	if err != nil {
		return nil, err
	}
	result := pair.aInv.Mul(out)

	b.state = pair
	return result, nil
}

// advance produces the pair the next blind call should use: a fresh one
// if old is Empty or its reuse budget is exhausted, or old squared with
// remaining decremented otherwise. rng is threaded through to regenerate
// so an in-sequence regeneration still draws from the caller's source,
// not the process-wide default.
func (b *Blinding) advance(rng io.Reader, old *blindPair) (*blindPair, error) {
	if old == nil || old.remaining == 0 {
		return b.regenerate(rng)
	}
	return &blindPair{
		a:         old.a.Square(),
		aInv:      old.aInv.Square(),
		remaining: old.remaining - 1,
	}, nil
}

// regenerate draws a fresh random r, computes A = r^e mod n (variable
// time, e is public) and A_inv = r^-1 mod n (via a blinded modular
// inverse), retrying up to remainingMax times if a candidate r happens
// not to be invertible mod n.
func (b *Blinding) regenerate(rng io.Reader) (*blindPair, error) {
	if rng == nil {
		rng = rand.Reader
	}
	n := b.kp.n

	for attempt := 0; attempt < remainingMax; attempt++ {
		r, err := field.RandomElement(rng, n)
		if err != nil {
			return nil, ErrRSASigning
		}
		aInv, ok, err := field.BlindedModInverse(r)
		if err != nil {
			return nil, ErrRSASigning
		}
		if !ok {
			continue
		}
		a := r.ExpVartime(b.kp.e)
		return &blindPair{a: a, aInv: aInv, remaining: remainingMax - 1}, nil
	}
	return nil, ErrRSASigning
}
