package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is a vendor referenced by purchases.
type Supplier struct {
	ID        uuid.UUID `gorm:"column:id;type:text;primaryKey"`
	Name      string    `gorm:"column:name;not null;index"`
	Email     string    `gorm:"column:email"`
	Phone     string    `gorm:"column:phone;index"`
	Address   string    `gorm:"column:address"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
