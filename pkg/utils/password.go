package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// BcryptHasher hashes and verifies passwords with bcrypt. Each hash carries its own salt.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a hasher using the production cost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{Cost: bcryptCost}
}

// Hash generates a bcrypt hash from a plain text password
func (h *BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcryptCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// Verify compares a bcrypt hashed password with plain text password.
// A mismatch is (false, nil); a malformed hash is an error.
func (h *BcryptHasher) Verify(password, hashedPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
