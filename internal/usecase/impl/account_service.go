// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "accounts/internal/delivery/context"
	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/repository"
	"accounts/internal/domain/service"
	"accounts/internal/errors"
	"accounts/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const (
	msgEmailExists       = "Email already exists"
	msgUsernameExists    = "Username already exists"
	msgEmailNotFound     = "Email not found"
	msgPasswordIncorrect = "Password incorrect"
	msgNotOwnProfile     = "You can only update your own user information."
	msgNotOwnPassword    = "You can only update your own password."
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	validator    service.InputValidator
	logger       *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Validator    service.InputValidator
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		validator:    params.Validator,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account. No token is issued; the caller logs in separately.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) error {
	if err := srv.validator.Validate(input); err != nil {
		return err
	}

	srv.log(ctx).Debug("Starting registration", slog.String("email", input.Email), slog.String("username", input.Username))

	if err := srv.checkUniqueness(ctx, uuid.Nil, input.Email, input.Username); err != nil {
		srv.log(ctx).Warn("Registration rejected", slog.String("email", input.Email), slog.Any("error", err))

		return err
	}

	hashedPassword, err := srv.hasher.Hash(ctx, input.Password)
	if err != nil {
		if domainerrors.IsUnexpected(err) {
			srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))
		}

		return errors.Wrap(err, "failed to hash password")
	}

	user := &entity.User{
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hashedPassword,
		Color:        input.Color,
		Roles:        entity.Roles{},
	}
	if err := srv.userRepo.Create(ctx, user); err != nil {
		srv.log(ctx).Warn("Failed to create user", slog.String("email", input.Email), slog.Any("error", err))

		return errors.Wrap(err, "failed to create user")
	}

	srv.log(ctx).Info("User registered", slog.Any("userID", user.ID))

	return nil
}

// Login verifies credentials and issues a long-lived bearer token.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	if err := srv.validator.Validate(input); err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Starting user login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.String("reason", "email not found"))

		return nil, domainerrors.NewAccumulatedError(domainerrors.ErrInvalidCredentials, msgEmailNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user by email")
	}

	matched, err := srv.hasher.Check(ctx, input.Password, user.PasswordHash)
	if err != nil {
		srv.log(ctx).Error("Failed to verify password", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to verify password")
	}
	if !matched {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.String("reason", "password mismatch"))

		return nil, domainerrors.NewAccumulatedError(domainerrors.ErrInvalidCredentials, msgPasswordIncorrect)
	}

	token, err := srv.issueToken(ctx, user, usecase.LoginTokenTTL)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{
		Success: true,
		Token:   token,
		User:    user.View(),
	}, nil
}

// GetProfile returns the public view of the authenticated caller.
func (srv *accountService) GetProfile(ctx context.Context, callerID uuid.UUID) (*entity.UserView, error) {
	if callerID == uuid.Nil {
		return nil, domainerrors.ErrAuthorizationFailed
	}

	user, err := srv.findUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	return user.View(), nil
}

// UpdateProfile merges the supplied fields into the caller's own record.
func (srv *accountService) UpdateProfile(
	ctx context.Context,
	callerID uuid.UUID,
	targetID string,
	input *usecase.UpdateProfileInput,
) (*entity.UserView, error) {
	if err := ensureOwner(callerID, targetID, msgNotOwnProfile); err != nil {
		srv.log(ctx).Warn("Profile update rejected", slog.Any("callerID", callerID), slog.String("targetID", targetID))

		return nil, err
	}

	if err := srv.validator.Validate(input); err != nil {
		return nil, err
	}

	if err := srv.checkUniqueness(ctx, callerID, deref(input.Email), deref(input.Username)); err != nil {
		return nil, err
	}

	user, err := srv.findUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	applyProfileChanges(user, input)

	if err := srv.userRepo.Save(ctx, user); err != nil {
		srv.log(ctx).Warn("Failed to save profile", slog.Any("userID", callerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to save user")
	}

	srv.log(ctx).Debug("Profile updated", slog.Any("userID", callerID))

	return user.View(), nil
}

// ChangePassword replaces the caller's password and issues a token bound to the new hash.
// Tokens issued before the change stop matching the stored fingerprint.
func (srv *accountService) ChangePassword(
	ctx context.Context,
	callerID uuid.UUID,
	targetID string,
	input *usecase.ChangePasswordInput,
) (*usecase.TokenOutput, error) {
	if err := ensureOwner(callerID, targetID, msgNotOwnPassword); err != nil {
		srv.log(ctx).Warn("Password change rejected", slog.Any("callerID", callerID), slog.String("targetID", targetID))

		return nil, err
	}

	if err := srv.validator.Validate(input); err != nil {
		return nil, err
	}

	user, err := srv.findUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := srv.hasher.Hash(ctx, input.Password)
	if err != nil {
		if domainerrors.IsUnexpected(err) {
			srv.log(ctx).Error("Failed to hash new password", slog.Any("userID", callerID), slog.Any("error", err))
		}

		return nil, errors.Wrap(err, "failed to hash password")
	}
	user.PasswordHash = hashedPassword

	if err := srv.userRepo.Save(ctx, user); err != nil {
		srv.log(ctx).Error("Failed to save new password", slog.Any("userID", callerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to save user")
	}

	token, err := srv.issueToken(ctx, user, usecase.PasswordChangeTokenTTL)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Password changed", slog.Any("userID", callerID))

	return &usecase.TokenOutput{Success: true, Token: token}, nil
}

// checkUniqueness looks up both email and username and reports every collision together.
// Records owned by selfID never collide; empty values are not checked.
func (srv *accountService) checkUniqueness(ctx context.Context, selfID uuid.UUID, email, username string) error {
	acc := domainerrors.NewAccumulator()

	if email != "" {
		taken, err := srv.isTaken(ctx, selfID, srv.userRepo.FindByEmail, email)
		if err != nil {
			return errors.Wrap(err, "failed to find user by email")
		}
		if taken {
			acc.Add(msgEmailExists)
		}
	}

	if username != "" {
		taken, err := srv.isTaken(ctx, selfID, srv.userRepo.FindByUsername, username)
		if err != nil {
			return errors.Wrap(err, "failed to find user by username")
		}
		if taken {
			acc.Add(msgUsernameExists)
		}
	}

	return acc.Err(domainerrors.ErrConflict)
}

func (srv *accountService) isTaken(
	ctx context.Context,
	selfID uuid.UUID,
	find func(context.Context, string) (*entity.User, error),
	value string,
) (bool, error) {
	existing, err := find(ctx, value)
	if errors.Is(err, repository.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return existing.ID != selfID, nil
}

func (srv *accountService) findUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.NewAccumulatedError(domainerrors.ErrUserNotFound, domainerrors.ErrUserNotFound.Message())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return user, nil
}

func (srv *accountService) issueToken(ctx context.Context, user *entity.User, ttl time.Duration) (string, error) {
	token, err := srv.tokenService.Issue(ctx, user.ID, service.PasswordFingerprint(user.PasswordHash), ttl)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token", slog.Any("userID", user.ID), slog.Any("error", err))

		return "", errors.Wrap(err, "failed to issue token")
	}

	return usecase.BearerPrefix + token, nil
}

// ensureOwner rejects requests that target a record other than the caller's own.
func ensureOwner(callerID uuid.UUID, targetID string, message string) error {
	if callerID == uuid.Nil {
		return domainerrors.ErrAuthorizationFailed
	}

	target, err := uuid.Parse(targetID)
	if err != nil || target != callerID {
		return domainerrors.NewAccumulatedError(domainerrors.ErrAuthorizationFailed, message)
	}

	return nil
}

func applyProfileChanges(user *entity.User, input *usecase.UpdateProfileInput) {
	if v := deref(input.Email); v != "" {
		user.Email = v
	}
	if v := deref(input.Username); v != "" {
		user.Username = v
	}
	if v := deref(input.ImageURL); v != "" {
		user.ImageURL = v
	}
	if v := deref(input.Color); v != "" {
		user.Color = v
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
