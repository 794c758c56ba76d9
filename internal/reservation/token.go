package reservation

import (
	"crypto/rand"
	"encoding/hex"
)

// NewHoldToken returns a fresh 64-character hex token.  Token entropy
// carries the protocol: possession of the token is the only proof of
// hold ownership, and a fresh token per attempt is what lets the store
// identify exactly the rows a partial grant touched.
func NewHoldToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
