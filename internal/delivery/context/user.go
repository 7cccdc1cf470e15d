package context

import (
	"accounts/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// KeyUser is the key for the authenticated user in echo.Context.
	KeyUser ContextKey = "user"

	// KeyUserID is the key for the authenticated user's ID in echo.Context.
	KeyUserID ContextKey = "userID"
)

// SetUser stores the authenticated user in echo.Context.
func SetUser(c echo.Context, user *entity.User) {
	c.Set(string(KeyUser), user)
	c.Set(string(KeyUserID), user.ID)
}

// GetUser returns the authenticated user, or nil when the request is anonymous.
func GetUser(c echo.Context) *entity.User {
	user, _ := c.Get(string(KeyUser)).(*entity.User)

	return user
}

// GetUserID returns the authenticated user's ID, or uuid.Nil when the request is anonymous.
func GetUserID(c echo.Context) uuid.UUID {
	id, _ := c.Get(string(KeyUserID)).(uuid.UUID)

	return id
}
