// Package cryptox contains key-derivation helpers for the identity server.
package cryptox

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// SigningKeySize is the size in bytes of derived HMAC signing keys.
const SigningKeySize = 32

// DeriveSigningKey stretches the configured secret material into a fixed-size
// HMAC key using HKDF-SHA256. The purpose string separates keys derived from
// the same secret for different uses, so rotating one does not affect the
// others.
func DeriveSigningKey(secret []byte, purpose string) ([]byte, error) {
	r := hkdf.New(sha256.New, secret, nil, []byte(purpose))

	key := make([]byte, SigningKeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}
