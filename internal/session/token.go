// Package session holds the registry that maps bearer tokens issued at login
// to hospital identities.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenBytes is the amount of randomness in a token (256 bits).
const tokenBytes = 32

// Token is an opaque bearer credential. Callers must not rely on its encoding.
type Token string

func (t Token) String() string {
	return string(t)
}

// NewToken returns a fresh token drawn from crypto/rand.
func NewToken() (Token, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return Token(hex.EncodeToString(b)), nil
}
