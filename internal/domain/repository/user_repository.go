// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"accounts/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository is the user directory. Lookups return ErrUserNotFound when nothing matches.
//
// Email and username uniqueness is enforced by the store itself; Create and Save report a
// rejected duplicate as domainerrors.ErrDuplicateResource.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByUsername retrieves a single user by their username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// Create persists a new user, filling in its ID and timestamps.
	Create(ctx context.Context, user *entity.User) error

	// Save writes every field of an existing user and refreshes UpdatedAt.
	Save(ctx context.Context, user *entity.User) error
}
