package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/repository"
	"accounts/internal/domain/service"
	"accounts/internal/errors"
	mockRepo "accounts/internal/mocks/repository"
	mockSvc "accounts/internal/mocks/service"
	"accounts/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service      usecase.AccountUsecase
	userRepo     *mockRepo.MockUserRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
	validator    *mockSvc.MockInputValidator
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)
	validator := mockSvc.NewMockInputValidator(t)

	srv := NewAccountService(AccountServiceParams{
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Validator:    validator,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return accountServiceFixtures{
		service:      srv,
		userRepo:     userRepo,
		hasher:       hasher,
		tokenService: tokenService,
		validator:    validator,
	}
}

func existingUser(id uuid.UUID) *entity.User {
	return &entity.User{
		ID:           id,
		Email:        "ann@example.com",
		Username:     "ann",
		PasswordHash: "old_hash",
		Color:        "#00ff00",
		Roles:        entity.Roles{},
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func messagesOf(t *testing.T, err error) []string {
	t.Helper()

	var accErr *domainerrors.AccumulatedError
	require.True(t, errors.As(err, &accErr), "expected accumulated error, got %v", err)

	return accErr.Messages()
}

func TestAccountService_Register_Success(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	input := &usecase.RegisterInput{
		Email:    "ann@example.com",
		Username: "ann",
		Password: "secret123",
		Color:    "#ff0000",
	}

	fx.validator.EXPECT().Validate(input).Return(nil)
	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrUserNotFound)
	fx.userRepo.EXPECT().FindByUsername(ctx, input.Username).Return(nil, repository.ErrUserNotFound)
	fx.hasher.EXPECT().Hash(ctx, input.Password).Return("hashed_password", nil)
	fx.userRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(_ context.Context, user *entity.User) {
			assert.Equal(t, input.Email, user.Email)
			assert.Equal(t, input.Username, user.Username)
			assert.Equal(t, "hashed_password", user.PasswordHash)
			assert.NotEqual(t, input.Password, user.PasswordHash)
			assert.Equal(t, input.Color, user.Color)
			assert.NotNil(t, user.Roles)
			user.ID = uuid.New()
		}).
		Return(nil)

	err := fx.service.Register(ctx, input)

	require.NoError(t, err)
}

func TestAccountService_Register_ValidationFailed(t *testing.T) {
	fx := createTestAccountService(t)
	input := &usecase.RegisterInput{Email: "not-an-email"}

	validationErr := domainerrors.NewAccumulatedError(domainerrors.ErrValidationFailed, "Email is invalid", "Username is required")
	fx.validator.EXPECT().Validate(input).Return(validationErr)

	err := fx.service.Register(context.Background(), input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	assert.Equal(t, []string{"Email is invalid", "Username is required"}, messagesOf(t, err))
}

func TestAccountService_Register_Conflicts(t *testing.T) {
	tests := []struct {
		name          string
		emailTaken    bool
		usernameTaken bool
		want          []string
	}{
		{name: "email taken", emailTaken: true, want: []string{"Email already exists"}},
		{name: "username taken", usernameTaken: true, want: []string{"Username already exists"}},
		{name: "both taken", emailTaken: true, usernameTaken: true, want: []string{"Email already exists", "Username already exists"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAccountService(t)
			ctx := context.Background()
			input := &usecase.RegisterInput{Email: "ann@example.com", Username: "ann", Password: "secret123"}

			fx.validator.EXPECT().Validate(input).Return(nil)
			if tt.emailTaken {
				fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(existingUser(uuid.New()), nil)
			} else {
				fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrUserNotFound)
			}
			if tt.usernameTaken {
				fx.userRepo.EXPECT().FindByUsername(ctx, input.Username).Return(existingUser(uuid.New()), nil)
			} else {
				fx.userRepo.EXPECT().FindByUsername(ctx, input.Username).Return(nil, repository.ErrUserNotFound)
			}

			err := fx.service.Register(ctx, input)

			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrConflict))
			assert.Equal(t, tt.want, messagesOf(t, err))
			fx.hasher.AssertNotCalled(t, "Hash", mock.Anything, mock.Anything)
			fx.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAccountService_Register_StorageDuplicate(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	input := &usecase.RegisterInput{Email: "ann@example.com", Username: "ann", Password: "secret123"}

	fx.validator.EXPECT().Validate(input).Return(nil)
	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrUserNotFound)
	fx.userRepo.EXPECT().FindByUsername(ctx, input.Username).Return(nil, repository.ErrUserNotFound)
	fx.hasher.EXPECT().Hash(ctx, input.Password).Return("hashed_password", nil)
	fx.userRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.User")).
		Return(domainerrors.ErrDuplicateResource.WithMessage("Email already exists"))

	err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateResource))
}

func TestAccountService_Register_LookupFailure(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	input := &usecase.RegisterInput{Email: "ann@example.com", Username: "ann", Password: "secret123"}

	fx.validator.EXPECT().Validate(input).Return(nil)
	fx.userRepo.EXPECT().
		FindByEmail(ctx, input.Email).
		Return(nil, domainerrors.NewRetryableDatabaseError(context.DeadlineExceeded, "failed to find user by email"))

	err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPersistenceFailed))
	assert.True(t, domainerrors.IsUnexpected(err))
}

func TestAccountService_Register_HashFailure(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	input := &usecase.RegisterInput{Email: "ann@example.com", Username: "ann", Password: "secret123"}

	fx.validator.EXPECT().Validate(input).Return(nil)
	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrUserNotFound)
	fx.userRepo.EXPECT().FindByUsername(ctx, input.Username).Return(nil, repository.ErrUserNotFound)
	fx.hasher.EXPECT().Hash(ctx, input.Password).Return("", domainerrors.ErrPasswordHashFailed.WrapMessage("bcrypt"))

	err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))
	fx.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccountService_Login_Success(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	user := existingUser(uuid.New())
	input := &usecase.LoginInput{Email: user.Email, Password: "secret123"}

	fx.validator.EXPECT().Validate(input).Return(nil)
	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(user, nil)
	fx.hasher.EXPECT().Check(ctx, input.Password, user.PasswordHash).Return(true, nil)
	fx.tokenService.EXPECT().
		Issue(ctx, user.ID, service.PasswordFingerprint(user.PasswordHash), usecase.LoginTokenTTL).
		Return("signed.jwt.token", nil)

	output, err := fx.service.Login(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.True(t, output.Success)
	assert.Equal(t, "Bearer signed.jwt.token", output.Token)
	assert.Equal(t, user.View(), output.User)
}

func TestAccountService_Login_EmailNotFound(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	input := &usecase.LoginInput{Email: "nobody@example.com", Password: "secret123"}

	fx.validator.EXPECT().Validate(input).Return(nil)
	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrUserNotFound)

	output, err := fx.service.Login(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	assert.Equal(t, []string{"Email not found"}, messagesOf(t, err))
}

func TestAccountService_Login_PasswordIncorrect(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	user := existingUser(uuid.New())
	input := &usecase.LoginInput{Email: user.Email, Password: "wrong"}

	fx.validator.EXPECT().Validate(input).Return(nil)
	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(user, nil)
	fx.hasher.EXPECT().Check(ctx, input.Password, user.PasswordHash).Return(false, nil)

	output, err := fx.service.Login(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.Equal(t, []string{"Password incorrect"}, messagesOf(t, err))
	fx.tokenService.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountService_Login_SigningFailure(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	user := existingUser(uuid.New())
	input := &usecase.LoginInput{Email: user.Email, Password: "secret123"}

	fx.validator.EXPECT().Validate(input).Return(nil)
	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(user, nil)
	fx.hasher.EXPECT().Check(ctx, input.Password, user.PasswordHash).Return(true, nil)
	fx.tokenService.EXPECT().
		Issue(ctx, user.ID, mock.Anything, usecase.LoginTokenTTL).
		Return("", domainerrors.ErrTokenSigningFailed.WrapMessage("sign"))

	output, err := fx.service.Login(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenSigningFailed))
}

func TestAccountService_GetProfile(t *testing.T) {
	t.Run("returns the public view", func(t *testing.T) {
		fx := createTestAccountService(t)
		ctx := context.Background()
		user := existingUser(uuid.New())

		fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil).Twice()

		first, err := fx.service.GetProfile(ctx, user.ID)
		require.NoError(t, err)
		second, err := fx.service.GetProfile(ctx, user.ID)
		require.NoError(t, err)

		assert.Equal(t, user.View(), first)
		assert.Equal(t, first, second)
	})

	t.Run("user not found", func(t *testing.T) {
		fx := createTestAccountService(t)
		ctx := context.Background()
		id := uuid.New()

		fx.userRepo.EXPECT().FindByID(ctx, id).Return(nil, repository.ErrUserNotFound)

		view, err := fx.service.GetProfile(ctx, id)

		require.Error(t, err)
		assert.Nil(t, view)
		assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
		assert.Equal(t, []string{"User not found"}, messagesOf(t, err))
	})

	t.Run("missing identity", func(t *testing.T) {
		fx := createTestAccountService(t)

		view, err := fx.service.GetProfile(context.Background(), uuid.Nil)

		require.Error(t, err)
		assert.Nil(t, view)
		assert.True(t, errors.Is(err, domainerrors.ErrAuthorizationFailed))
	})
}

func TestAccountService_UpdateProfile_NotOwner(t *testing.T) {
	targets := []string{uuid.NewString(), "", "not-a-uuid"}

	for _, target := range targets {
		t.Run("target "+target, func(t *testing.T) {
			fx := createTestAccountService(t)
			color := "#123456"

			view, err := fx.service.UpdateProfile(context.Background(), uuid.New(), target, &usecase.UpdateProfileInput{Color: &color})

			require.Error(t, err)
			assert.Nil(t, view)
			assert.True(t, errors.Is(err, domainerrors.ErrAuthorizationFailed))
			assert.Equal(t, []string{"You can only update your own user information."}, messagesOf(t, err))
			fx.validator.AssertNotCalled(t, "Validate", mock.Anything)
			fx.userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestAccountService_UpdateProfile_PartialUpdate(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	user := existingUser(uuid.New())
	color := "#123456"
	input := &usecase.UpdateProfileInput{Color: &color}

	fx.validator.EXPECT().Validate(input).Return(nil)
	fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
	fx.userRepo.EXPECT().
		Save(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(_ context.Context, saved *entity.User) {
			saved.UpdatedAt = saved.UpdatedAt.Add(time.Hour)
		}).
		Return(nil)

	view, err := fx.service.UpdateProfile(ctx, user.ID, user.ID.String(), input)

	require.NoError(t, err)
	assert.Equal(t, "#123456", view.Color)
	assert.Equal(t, "ann@example.com", view.Email)
	assert.Equal(t, "ann", view.Username)
	assert.True(t, view.UpdatedAt.After(view.CreatedAt))
	fx.userRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	fx.userRepo.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
}

func TestAccountService_UpdateProfile_OwnValuesDoNotCollide(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	user := existingUser(uuid.New())
	email := user.Email
	username := "annie"
	input := &usecase.UpdateProfileInput{Email: &email, Username: &username}

	fx.validator.EXPECT().Validate(input).Return(nil)
	fx.userRepo.EXPECT().FindByEmail(ctx, email).Return(user, nil)
	fx.userRepo.EXPECT().FindByUsername(ctx, username).Return(nil, repository.ErrUserNotFound)
	fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
	fx.userRepo.EXPECT().Save(ctx, user).Return(nil)

	view, err := fx.service.UpdateProfile(ctx, user.ID, user.ID.String(), input)

	require.NoError(t, err)
	assert.Equal(t, "annie", view.Username)
}

func TestAccountService_UpdateProfile_Conflicts(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	callerID := uuid.New()
	email := "bob@example.com"
	username := "bob"
	input := &usecase.UpdateProfileInput{Email: &email, Username: &username}

	fx.validator.EXPECT().Validate(input).Return(nil)
	fx.userRepo.EXPECT().FindByEmail(ctx, email).Return(existingUser(uuid.New()), nil)
	fx.userRepo.EXPECT().FindByUsername(ctx, username).Return(existingUser(uuid.New()), nil)

	view, err := fx.service.UpdateProfile(ctx, callerID, callerID.String(), input)

	require.Error(t, err)
	assert.Nil(t, view)
	assert.Equal(t, []string{"Email already exists", "Username already exists"}, messagesOf(t, err))
	fx.userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAccountService_UpdateProfile_StorageRejection(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	user := existingUser(uuid.New())
	username := "bob"
	input := &usecase.UpdateProfileInput{Username: &username}

	fx.validator.EXPECT().Validate(input).Return(nil)
	fx.userRepo.EXPECT().FindByUsername(ctx, username).Return(nil, repository.ErrUserNotFound)
	fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
	fx.userRepo.EXPECT().Save(ctx, user).Return(domainerrors.ErrDuplicateResource.WithMessage("Username already exists"))

	view, err := fx.service.UpdateProfile(ctx, user.ID, user.ID.String(), input)

	require.Error(t, err)
	assert.Nil(t, view)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPCode())
	assert.Equal(t, "Username already exists", appErr.Message())
}

func TestAccountService_ChangePassword_Success(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	user := existingUser(uuid.New())
	oldFingerprint := service.PasswordFingerprint(user.PasswordHash)
	input := &usecase.ChangePasswordInput{Password: "newsecret", ConfirmPassword: "newsecret"}

	fx.validator.EXPECT().Validate(input).Return(nil)
	fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
	fx.hasher.EXPECT().Hash(ctx, "newsecret").Return("new_hash", nil)
	fx.userRepo.EXPECT().
		Save(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(_ context.Context, saved *entity.User) {
			assert.Equal(t, "new_hash", saved.PasswordHash)
		}).
		Return(nil)
	fx.tokenService.EXPECT().
		Issue(ctx, user.ID, service.PasswordFingerprint("new_hash"), usecase.PasswordChangeTokenTTL).
		Return("fresh.jwt.token", nil)

	output, err := fx.service.ChangePassword(ctx, user.ID, user.ID.String(), input)

	require.NoError(t, err)
	assert.Equal(t, &usecase.TokenOutput{Success: true, Token: "Bearer fresh.jwt.token"}, output)
	assert.NotEqual(t, oldFingerprint, service.PasswordFingerprint(user.PasswordHash))
}

func TestAccountService_ChangePassword_NotOwner(t *testing.T) {
	fx := createTestAccountService(t)
	input := &usecase.ChangePasswordInput{Password: "newsecret", ConfirmPassword: "newsecret"}

	output, err := fx.service.ChangePassword(context.Background(), uuid.New(), uuid.NewString(), input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.Equal(t, []string{"You can only update your own password."}, messagesOf(t, err))
	fx.hasher.AssertNotCalled(t, "Hash", mock.Anything, mock.Anything)
}

func TestAccountService_ChangePassword_MissingIdentity(t *testing.T) {
	fx := createTestAccountService(t)
	input := &usecase.ChangePasswordInput{Password: "newsecret", ConfirmPassword: "newsecret"}

	output, err := fx.service.ChangePassword(context.Background(), uuid.Nil, uuid.NewString(), input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrAuthorizationFailed))

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Bad auth provided.", appErr.Message())
}

func TestAccountService_ChangePassword_SaveFailure(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	user := existingUser(uuid.New())
	input := &usecase.ChangePasswordInput{Password: "newsecret", ConfirmPassword: "newsecret"}

	fx.validator.EXPECT().Validate(input).Return(nil)
	fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
	fx.hasher.EXPECT().Hash(ctx, "newsecret").Return("new_hash", nil)
	fx.userRepo.EXPECT().Save(ctx, user).Return(domainerrors.NewDatabaseExecuteError(errors.New("connection reset"), "failed to save user"))

	output, err := fx.service.ChangePassword(ctx, user.ID, user.ID.String(), input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, domainerrors.IsUnexpected(err))
	fx.tokenService.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
