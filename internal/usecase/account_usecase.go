// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"accounts/internal/domain/entity"

	"github.com/google/uuid"
)

// Token lifetimes.
const (
	LoginTokenTTL          = 604800 * time.Second
	PasswordChangeTokenTTL = 172800 * time.Second

	// BearerPrefix is prepended to every issued token.
	BearerPrefix = "Bearer "

	// RegisteredMessage is the body returned after a successful registration.
	RegisteredMessage = "Success! User created"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=2,max=30"`
	Password string `json:"password" validate:"required,min=6,max=30,maxbytes=72"`
	Color    string `json:"color" validate:"omitempty,max=32"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileInput carries a partial profile update. Nil or empty fields are left untouched.
type UpdateProfileInput struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Username *string `json:"username" validate:"omitempty,min=2,max=30"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,url"`
	Color    *string `json:"color" validate:"omitempty,max=32"`
}

// ChangePasswordInput defines the data required to replace a password.
type ChangePasswordInput struct {
	Password        string `json:"password" validate:"required,min=6,max=30,maxbytes=72"`
	ConfirmPassword string `json:"password2" validate:"required,eqfield=Password"`
}

// --- Output DTOs ---

// LoginOutput returns the bearer token and the public profile after a successful login.
type LoginOutput struct {
	Success bool             `json:"success"`
	Token   string           `json:"token"`
	User    *entity.UserView `json:"user"`
}

// TokenOutput returns a freshly issued bearer token.
type TokenOutput struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// AccountUsecase defines the account workflows: registration, login, profile read and update,
// and password change. callerID is the identity established by the authentication middleware;
// targetID is the raw identifier the request asks to modify.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) error
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	GetProfile(ctx context.Context, callerID uuid.UUID) (*entity.UserView, error)
	UpdateProfile(ctx context.Context, callerID uuid.UUID, targetID string, input *UpdateProfileInput) (*entity.UserView, error)
	ChangePassword(ctx context.Context, callerID uuid.UUID, targetID string, input *ChangePasswordInput) (*TokenOutput, error)
}
