// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"context"
	"time"

	"accounts/config"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/service"
	"accounts/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	secret []byte
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService.
// The signing secret is loaded once at startup and never changes afterwards.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg == nil || cfg.SecretKey == "" {
		return nil, domainerrors.ErrTokenSigningFailed.WrapMessage("jwt secret must be provided")
	}

	return &jwtService{
		secret: []byte(cfg.SecretKey),
		now:    time.Now,
	}, nil
}

// Issue creates a signed token for the user carrying the password fingerprint.
func (s *jwtService) Issue(ctx context.Context, userID uuid.UUID, fingerprint string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domainerrors.ErrTokenSigningFailed.WrapMessage("issue cancelled: " + err.Error())
	}

	now := s.now()
	claims := service.Claims{
		UserID:      userID,
		Fingerprint: fingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrTokenSigningFailed.WithDetails(err.Error()), "token.SignedString")
	}

	return signed, nil
}

// Validate parses the token, checks its signature and expiry and returns the claims.
func (s *jwtService) Validate(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse token")
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == uuid.Nil {
		return nil, errors.New("token carries no user id")
	}

	return claims, nil
}
