package rsasigning

import "errors"

// ErrRSASigning is returned for every failure this package can produce:
// a malformed key, an inconsistent key pair, a signing buffer of the
// wrong length, or exhausted entropy. Deliberately undifferentiated —
// RFC 3447 and the CRT transform both rely on callers being unable to
// distinguish failure causes from the error alone, since a distinguishable
// error is itself a side channel on secret key material.
var ErrRSASigning = errors.New("rsasigning: operation failed")
