// Package cryptox implements the credential scheme used by the identity
// provider: an argon2id key derived from the user's password and a random
// salt, and a sha256 verifier of that key stored in the users collection.
// The password itself never reaches the store.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/dmitrijs2005/postline/internal/common"
	"golang.org/x/crypto/argon2"
)

const saltSize = 32

// NewSalt returns a fresh random salt for a new account.
func NewSalt() []byte {
	return common.GenerateRandByteArray(saltSize)
}

// DeriveKey derives a 32-byte key from a password and salt using argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier hashes a derived key into the value persisted for later
// credential checks.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// CheckVerifier compares a stored verifier with a candidate in constant time.
func CheckVerifier(verifier, candidate []byte) bool {
	return subtle.ConstantTimeCompare(verifier, candidate) == 1
}
