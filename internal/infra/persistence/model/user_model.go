package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. The unique indexes on email and username are the
// authoritative guard against duplicate accounts.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email"`
	Username     string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_users_username"`
	PasswordHash string    `gorm:"column:password;type:varchar(255);not null"`
	Color        string    `gorm:"type:varchar(32)"`
	ImageURL     string    `gorm:"column:image_url;type:text"`
	Roles        []string  `gorm:"type:text;serializer:json"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
