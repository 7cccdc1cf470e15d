// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"context"
	"strconv"

	"accounts/config"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/service"
	"accounts/internal/errors"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
// A weighted semaphore caps concurrent hashing so a burst of logins cannot starve the CPU.
type bcryptHasher struct {
	cost  int
	slots *semaphore.Weighted
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost, concurrency := bcrypt.DefaultCost, 1
	if cfg != nil && cfg.Auth != nil {
		cost = cfg.Auth.BcryptCost
		concurrency = cfg.Auth.HashConcurrency
	}

	return NewBcryptHasherWithCost(cost, concurrency)
}

// NewBcryptHasherWithCost builds a hasher with an explicit cost and concurrency limit.
func NewBcryptHasherWithCost(cost, concurrency int) service.PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if concurrency < 1 {
		concurrency = 1
	}

	return &bcryptHasher{
		cost:  cost,
		slots: semaphore.NewWeighted(int64(concurrency)),
	}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return "", domainerrors.ErrPasswordHashFailed.WrapMessage("waiting for hashing slot: " + err.Error())
	}
	defer h.slots.Release(1)

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domainerrors.NewAccumulatedError(domainerrors.ErrValidationFailed,
			"Password must be at most "+strconv.Itoa(service.MaxPasswordBytes)+" bytes")
	}
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrPasswordHashFailed.WithDetails(err.Error()), "bcrypt.GenerateFromPassword")
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(ctx context.Context, password, hash string) (bool, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return false, domainerrors.ErrPasswordHashFailed.WrapMessage("waiting for hashing slot: " + err.Error())
	}
	defer h.slots.Release(1)

	// err is nil only if the password and hash match.
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, nil
}
