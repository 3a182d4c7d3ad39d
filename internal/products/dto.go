package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/hayyerp/pos-backend/pkg/db/models"
)

// ProductDTO exposes product data in API responses. LowStock flags items
// at or below their alert threshold.
type ProductDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Stock         int       `json:"stock"`
	CategoryID    uuid.UUID `json:"category_id"`
	CategoryName  string    `json:"category_name"`
	Barcode       string    `json:"barcode"`
	LowStockAlert int       `json:"low_stock_alert"`
	LowStock      bool      `json:"low_stock"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FromModel maps the persisted product into a DTO.
func FromModel(m *models.Product) *ProductDTO {
	if m == nil {
		return nil
	}
	return &ProductDTO{
		ID:            m.ID,
		Name:          m.Name,
		Price:         m.Price,
		Stock:         m.Stock,
		CategoryID:    m.CategoryID,
		CategoryName:  m.CategoryName,
		Barcode:       m.Barcode,
		LowStockAlert: m.LowStockAlert,
		LowStock:      m.Stock <= m.LowStockAlert,
		Active:        m.Active,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromModels maps a slice of products into DTOs.
func FromModels(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
