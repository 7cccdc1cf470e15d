// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"accounts/config"
	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/repository"
	"accounts/internal/errors"
	"accounts/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"
)

const retryBaseDelay = 50 * time.Millisecond

// userRepository implements the repository.UserRepository interface using GORM.
type userRepository struct {
	db         *gorm.DB
	timeout    time.Duration
	maxRetries uint64
}

// NewUserRepository is the constructor for userRepository.
// Every call is bounded by store.timeout; reads are retried up to store.maxRetries times
// on transient failures.
func NewUserRepository(db *gorm.DB, cfg *config.Config) repository.UserRepository {
	repo := &userRepository{db: db}
	if cfg != nil && cfg.Store != nil {
		repo.timeout = cfg.Store.Timeout
		if cfg.Store.MaxRetries > 0 {
			repo.maxRetries = uint64(cfg.Store.MaxRetries)
		}
	}

	return repo
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return repo.findOne(ctx, "failed to find user by id", "id = ?", id)
}

// FindByEmail retrieves a single user by their email address. The match is exact.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.findOne(ctx, "failed to find user by email", "email = ?", email)
}

// FindByUsername retrieves a single user by their username. The match is exact.
func (repo *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return repo.findOne(ctx, "failed to find user by username", "username = ?", username)
}

// Create inserts a new user. The ID is assigned here when the caller left it empty,
// and the stored timestamps are copied back onto user.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	if err := validateForWrite(user); err != nil {
		return err
	}

	if user.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to generate user id")
		}
		user.ID = id
	}

	userM := fromUserDomain(user)

	callCtx, cancel := repo.withTimeout(ctx)
	defer cancel()

	if err := repo.db.WithContext(callCtx).Create(userM).Error; err != nil {
		return translateWriteError(ctx, err, "failed to create user")
	}

	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Save overwrites every mutable field of an existing user and refreshes UpdatedAt.
// It is never retried.
func (repo *userRepository) Save(ctx context.Context, user *entity.User) error {
	if err := validateForWrite(user); err != nil {
		return err
	}

	userM := fromUserDomain(user)

	callCtx, cancel := repo.withTimeout(ctx)
	defer cancel()

	result := repo.db.WithContext(callCtx).
		Select("*").
		Omit("id", "created_at").
		Updates(userM)
	if result.Error != nil {
		return translateWriteError(ctx, result.Error, "failed to save user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	user.UpdatedAt = userM.UpdatedAt

	return nil
}

func (repo *userRepository) findOne(ctx context.Context, details, cond string, arg any) (*entity.User, error) {
	var userM model.UserModel

	err := retry.Do(ctx, retry.WithMaxRetries(repo.maxRetries, retry.NewExponential(retryBaseDelay)), func(ctx context.Context) error {
		callCtx, cancel := repo.withTimeout(ctx)
		defer cancel()

		err := repo.db.WithContext(callCtx).Where(cond, arg).Take(&userM).Error
		if err != nil && isTransient(ctx, err) {
			return retry.RetryableError(err)
		}

		return err
	})
	if err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		if isTransient(ctx, err) {
			return nil, domainerrors.NewRetryableDatabaseError(err, details)
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, details)
	}

	return toUserDomain(&userM), nil
}

func (repo *userRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if repo.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, repo.timeout)
}

// validateForWrite rejects users missing the fields the users table requires.
func validateForWrite(user *entity.User) error {
	if user == nil {
		return domainerrors.ErrValidationFailed.WithMessage("Missing required user information")
	}

	acc := domainerrors.NewAccumulator()
	if user.Email == "" {
		acc.Add("Email is required")
	}
	if user.Username == "" {
		acc.Add("Username is required")
	}
	if user.PasswordHash == "" {
		acc.Add("Password is required")
	}

	return acc.Err(domainerrors.ErrValidationFailed)
}

// --- Mappers ---

func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:           data.ID,
		Email:        data.Email,
		Username:     data.Username,
		PasswordHash: data.PasswordHash,
		Color:        data.Color,
		ImageURL:     data.ImageURL,
		Roles:        entity.RolesFromStrings(data.Roles),
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:           data.ID,
		Email:        data.Email,
		Username:     data.Username,
		PasswordHash: data.PasswordHash,
		Color:        data.Color,
		ImageURL:     data.ImageURL,
		Roles:        data.Roles.ToStrings(),
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
