package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products for navigation and reporting.
type Category struct {
	ID          uuid.UUID `gorm:"column:id;type:text;primaryKey"`
	Name        string    `gorm:"column:name;not null;uniqueIndex"`
	Description string    `gorm:"column:description"`
	Active      bool      `gorm:"column:active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
