package middleware

import (
	"crypto/subtle"
	"log/slog"
	"strings"

	deliverycontext "accounts/internal/delivery/context"
	"accounts/internal/delivery/http/response"
	"accounts/internal/domain/repository"
	"accounts/internal/domain/service"
	"accounts/internal/errors"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// AuthMiddleware authenticates requests carrying a bearer token.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	userRepo repository.UserRepository
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, userRepo repository.UserRepository, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, userRepo: userRepo, logger: logger}
}

// Authenticate validates the bearer token, loads its user and rejects tokens issued for a
// password that has since changed. The user is stored on the context for handlers.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)
		if tokenString == authHeader || tokenString == "" {
			return response.Unauthorized(c, "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.Validate(tokenString)
		if err != nil {
			return response.Unauthorized(c, "Invalid or expired token")
		}

		ctx := c.Request().Context()
		user, err := m.userRepo.FindByID(ctx, claims.UserID)
		if errors.Is(err, repository.ErrUserNotFound) {
			return response.Unauthorized(c, "Unauthorized")
		}
		if err != nil {
			return errors.Wrap(err, "failed to load authenticated user")
		}

		fingerprint := service.PasswordFingerprint(user.PasswordHash)
		if subtle.ConstantTimeCompare([]byte(fingerprint), []byte(claims.Fingerprint)) != 1 {
			deliverycontext.GetLoggerOrDefault(ctx, m.logger).Debug("Rejected token issued for a previous password",
				slog.Any("userID", user.ID))

			return response.Unauthorized(c, "Unauthorized")
		}

		deliverycontext.SetUser(c, user)

		return next(c)
	}
}
