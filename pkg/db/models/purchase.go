package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hayyerp/pos-backend/pkg/enums"
)

// Purchase is a finalized supplier order. Like a sale it is written once as
// a unit with its items and stock increments.
type Purchase struct {
	ID           uuid.UUID         `gorm:"column:id;type:text;primaryKey"`
	SupplierID   uuid.UUID         `gorm:"column:supplier_id;type:text;not null;index"`
	SupplierName string            `gorm:"column:supplier_name;not null"`
	Items        []PurchaseItem    `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
	Subtotal     float64           `gorm:"column:subtotal;not null"`
	Tax          float64           `gorm:"column:tax;not null"`
	Total        float64           `gorm:"column:total;not null"`
	Status       enums.OrderStatus `gorm:"column:status;type:text;not null;index"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// PurchaseItem is one line of a purchase.
type PurchaseItem struct {
	ID          uuid.UUID `gorm:"column:id;type:text;primaryKey"`
	PurchaseID  uuid.UUID `gorm:"column:purchase_id;type:text;not null;index"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:text;not null;index"`
	ProductName string    `gorm:"column:product_name;not null"`
	Quantity    int       `gorm:"column:quantity;not null"`
	Price       float64   `gorm:"column:price;not null"`
	Total       float64   `gorm:"column:total;not null"`
	Position    int       `gorm:"column:position;not null"`
}
