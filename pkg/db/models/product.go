package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a stocked item. Stock is only mutated by sale and purchase
// finalization; CategoryName is denormalized from the category at write time.
type Product struct {
	ID            uuid.UUID `gorm:"column:id;type:text;primaryKey"`
	Name          string    `gorm:"column:name;not null;index"`
	Price         float64   `gorm:"column:price;not null"`
	Stock         int       `gorm:"column:stock;not null;default:0"`
	CategoryID    uuid.UUID `gorm:"column:category_id;type:text;not null;index"`
	CategoryName  string    `gorm:"column:category_name;not null"`
	Barcode       string    `gorm:"column:barcode;not null;uniqueIndex"`
	LowStockAlert int       `gorm:"column:low_stock_alert;not null;default:0"`
	Active        bool      `gorm:"column:active;not null;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
