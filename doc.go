/*
Package rsasigning implements a side-channel-resistant RSA private-key
signing core: parsing and validating a two-prime RSA private key,
Chinese-Remainder-Theorem private-key operations, and multiplicative
base blinding to protect the modular exponentiation from timing attacks.

# Overview

A [KeyPair] is parsed once from a DER-encoded RSAPrivateKey and shared,
read-only, across any number of signers:

	kp, err := rsasigning.ParseKeyPair(der)
	if err != nil {
	    return err
	}
	state := rsasigning.NewSigningState(kp)

Each [SigningState] owns an exclusive, mutable blinding factor and is not
safe for concurrent use by itself. Parallelism is obtained by creating one
SigningState per goroutine, all referencing the same KeyPair:

	sig := make([]byte, kp.SignatureLen())
	err = state.Sign(rsasigning.PKCS1SHA256, rand.Reader, []byte("a message"), sig)

Every signing operation hashes the message, pads it per the chosen
algorithm, and computes the private-key operation through the CRT with a
fresh or refreshed blinding factor — exponent blinding is not performed;
only base blinding, applied to the ciphertext before the CRT exponentiations.

# Sources

	[1] RFC 3447 (PKCS #1 v2.1): RSA Cryptography Specifications
	[2] Kocher, "Timing Attacks on Implementations of Diffie-Hellman, RSA, DSS, and Other Systems"
*/
package rsasigning
