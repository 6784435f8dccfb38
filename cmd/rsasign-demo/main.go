// Command rsasign-demo generates an RSA private key, DER-encodes it
// (printing its PEM form), parses the DER back through rsasigning, signs
// a message with each supported padding algorithm, and verifies the
// result against crypto/rsa.
package main

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/bastionzero/rsasigning"
)

var (
	bits    = flag.Int("bits", 2048, "RSA modulus size in bits")
	message = flag.String("message", "hello, world", "message to sign")
)

func main() {
	flag.Parse()

	priv, err := rsa.GenerateKey(rand.Reader, *bits)
	if err != nil {
		log.Fatalf("generate key: %v", err)
	}
	priv.Precompute()

	der := x509.MarshalPKCS1PrivateKey(priv)
	fmt.Println(string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: der})))

	kp, err := rsasigning.ParseKeyPair(der)
	if err != nil {
		log.Fatalf("parse key pair: %v", err)
	}

	state := rsasigning.NewSigningState(kp)
	msg := []byte(*message)

	algs := []struct {
		name string
		id   rsasigning.PaddingAlgorithm
		hash crypto.Hash
		pss  bool
	}{
		{"PKCS1-SHA256", rsasigning.PKCS1SHA256, crypto.SHA256, false},
		{"PKCS1-SHA384", rsasigning.PKCS1SHA384, crypto.SHA384, false},
		{"PKCS1-SHA512", rsasigning.PKCS1SHA512, crypto.SHA512, false},
		{"PSS-SHA256", rsasigning.PSSSHA256, crypto.SHA256, true},
		{"PSS-SHA384", rsasigning.PSSSHA384, crypto.SHA384, true},
		{"PSS-SHA512", rsasigning.PSSSHA512, crypto.SHA512, true},
	}

	status := 0
	for _, a := range algs {
		out := make([]byte, kp.SignatureLen())
		if err := state.Sign(a.id, rand.Reader, msg, out); err != nil {
			log.Printf("%s: sign failed: %v", a.name, err)
			status = 1
			continue
		}

		h := a.hash.New()
		h.Write(msg)
		hashed := h.Sum(nil)

		var verifyErr error
		if a.pss {
			verifyErr = rsa.VerifyPSS(&priv.PublicKey, a.hash, hashed, out, &rsa.PSSOptions{SaltLength: a.hash.Size(), Hash: a.hash})
		} else {
			verifyErr = rsa.VerifyPKCS1v15(&priv.PublicKey, a.hash, hashed, out)
		}
		if verifyErr != nil {
			log.Printf("%s: verify failed: %v", a.name, verifyErr)
			status = 1
			continue
		}
		fmt.Printf("%s: ok (%d bytes)\n", a.name, len(out))
	}

	os.Exit(status)
}
