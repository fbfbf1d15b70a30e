package auth

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns plaintext passwords into storable digests and checks them.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(digest, plaintext string) bool
}

// SHA512Hasher stores the lowercase hex SHA-512 of the password. It is
// unsalted and unstretched; digests are kept in this format so existing
// rows stay valid. Use BcryptHasher for new deployments.
type SHA512Hasher struct{}

// Hash returns the 128 character hex digest of plaintext.
func (SHA512Hasher) Hash(plaintext string) (string, error) {
	sum := sha512.Sum512([]byte(plaintext))
	return hex.EncodeToString(sum[:]), nil
}

// Verify compares the digest of plaintext with the stored digest.
func (h SHA512Hasher) Verify(digest, plaintext string) bool {
	candidate, _ := h.Hash(plaintext)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1
}

// BcryptHasher stores salted bcrypt digests.
type BcryptHasher struct {
	Cost int
}

// Hash returns the bcrypt digest of plaintext.
func (h BcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the bcrypt digest.
func (BcryptHasher) Verify(digest, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// NewHasher returns the hasher registered under name ("sha512" or "bcrypt").
func NewHasher(name string, bcryptCost int) (Hasher, error) {
	switch name {
	case "", "sha512":
		return SHA512Hasher{}, nil
	case "bcrypt":
		if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range", bcryptCost)
		}
		return BcryptHasher{Cost: bcryptCost}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}
