package render

import (
	"crypto/rand"
	"encoding/base64"
)

// nonceBytes is the entropy of a script nonce (128 bits).
const nonceBytes = 16

// Nonce generates a fresh per-script nonce token.
func Nonce() string {
	var b [nonceBytes]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err) // crypto/rand.Read does not fail
	}
	return base64.RawStdEncoding.EncodeToString(b[:])
}
