// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account. Email and Username are each unique across all users.
type User struct {
	ID           uuid.UUID // Assigned on creation, never changes.
	Email        string    // Login identifier.
	Username     string    // Public handle.
	PasswordHash string    // Salted bcrypt hash; the plaintext is never stored.
	Color        string    // Display colour chosen by the user.
	ImageURL     string    // Optional avatar URL.
	Roles        Roles     // Role tags, empty by default.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserView is the public projection of a User; it never carries the password hash.
type UserView struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Roles     []string  `json:"roles"`
	ImageURL  string    `json:"imageUrl"`
	Color     string    `json:"color"`
	ID        uuid.UUID `json:"_id"`
}

// View builds the public projection of the user.
func (u *User) View() *UserView {
	return &UserView{
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		Roles:     u.Roles.ToStrings(),
		ImageURL:  u.ImageURL,
		Color:     u.Color,
		ID:        u.ID,
	}
}
