// Package hasher provides one-way password encoding.
package hasher

import (
	"errors"
	"fmt"
)

// Supported algorithm names
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

var (
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrInvalidHash      = errors.New("invalid password hash")
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")
)

// PasswordHasher encodes plaintext passwords and checks them against
// stored hashes. Encoding is not deterministic, so two encodings of the
// same password are never compared directly.
type PasswordHasher interface {
	// Encode produces a one-way hash of the password
	Encode(password string) (string, error)

	// Verify reports whether password matches hash.
	// Returns (false, nil) on mismatch and an error only for malformed hashes.
	Verify(password, hash string) (bool, error)
}

// New returns the hasher for the named algorithm.
// An empty name selects bcrypt.
func New(algorithm string) (PasswordHasher, error) {
	switch algorithm {
	case "", AlgorithmBcrypt:
		return NewBcrypt(0), nil
	case AlgorithmArgon2id:
		return NewArgon2id(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}
