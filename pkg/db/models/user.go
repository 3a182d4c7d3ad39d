package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hayyerp/pos-backend/pkg/enums"
)

// User is an operator account. Passwords are stored as argon2id hashes,
// never in clear text.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:text;primaryKey"`
	Name         string         `gorm:"column:name;not null"`
	Username     string         `gorm:"column:username;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Email        string         `gorm:"column:email;not null"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null"`
	Active       bool           `gorm:"column:active;not null;default:true"`
	LastLogin    *time.Time     `gorm:"column:last_login"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
