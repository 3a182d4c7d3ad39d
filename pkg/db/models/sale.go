package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hayyerp/pos-backend/pkg/enums"
)

// Sale is a finalized checkout. It is written once, as a unit with its
// items and the matching stock decrements, and afterwards only the status
// may change (pending → completed|cancelled).
type Sale struct {
	ID            uuid.UUID           `gorm:"column:id;type:text;primaryKey"`
	CustomerID    *uuid.UUID          `gorm:"column:customer_id;type:text;index"`
	CustomerName  string              `gorm:"column:customer_name;not null"`
	Items         []SaleItem          `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Subtotal      float64             `gorm:"column:subtotal;not null"`
	Tax           float64             `gorm:"column:tax;not null"`
	Discount      float64             `gorm:"column:discount;not null"`
	Total         float64             `gorm:"column:total;not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	Status        enums.OrderStatus   `gorm:"column:status;type:text;not null;index"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// SaleItem is one line of a sale. ProductName and Price are snapshots taken
// at sale time; Position preserves the order lines were rung up in.
type SaleItem struct {
	ID          uuid.UUID `gorm:"column:id;type:text;primaryKey"`
	SaleID      uuid.UUID `gorm:"column:sale_id;type:text;not null;index"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:text;not null;index"`
	ProductName string    `gorm:"column:product_name;not null"`
	Quantity    int       `gorm:"column:quantity;not null"`
	Price       float64   `gorm:"column:price;not null"`
	Total       float64   `gorm:"column:total;not null"`
	Position    int       `gorm:"column:position;not null"`
}
