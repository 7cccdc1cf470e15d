package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims for the bearer tokens.
type Claims struct {
	UserID uuid.UUID `json:"id"`
	// Fingerprint binds the token to the password hash current at issue time.
	Fingerprint string `json:"hashedPass"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and validating bearer tokens.
type TokenService interface {
	// Issue signs a token for userID that expires after ttl.
	Issue(ctx context.Context, userID uuid.UUID, fingerprint string, ttl time.Duration) (string, error)

	// Validate checks signature and expiry and returns the embedded claims.
	Validate(tokenString string) (*Claims, error)
}

// PasswordFingerprint derives the value embedded in tokens from a stored password hash.
// Changing the password changes the fingerprint, which invalidates older tokens.
func PasswordFingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))

	return hex.EncodeToString(sum[:])
}
