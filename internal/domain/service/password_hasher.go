// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import "context"

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// PasswordHasher defines the interface for password hashing and verification.
// Both operations are CPU-bound and may wait for a free hashing slot, so they take a context.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(ctx context.Context, password string) (string, error)

	// Check compares a plaintext password with a hash in constant time.
	// A mismatch or a malformed hash yields false with a nil error.
	Check(ctx context.Context, password, hash string) (bool, error)
}
