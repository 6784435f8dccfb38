package rsasigning

// SigningState couples a shared, read-only KeyPair with one exclusively
// owned Blinding instance. It is not safe to invoke concurrently on
// itself; parallelism is obtained by constructing additional
// SigningStates over the same KeyPair. It is safe to move a
// SigningState across goroutines between calls.
type SigningState struct {
	kp       *KeyPair
	blinding *Blinding
}

// NewSigningState allocates a fresh signing state over kp with an
// Empty blinding; the first Sign call pays the cost of deriving a
// blinding pair.
func NewSigningState(kp *KeyPair) *SigningState {
	return &SigningState{kp: kp, blinding: newBlinding(kp)}
}

// KeyPair returns the key pair this state signs with.
func (s *SigningState) KeyPair() *KeyPair { return s.kp }
