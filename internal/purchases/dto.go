package purchases

import (
	"time"

	"github.com/google/uuid"

	"github.com/hayyerp/pos-backend/pkg/db/models"
	"github.com/hayyerp/pos-backend/pkg/enums"
)

// PurchaseItemDTO exposes one purchase line with its unit cost snapshot.
type PurchaseItemDTO struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	Total       float64   `json:"total"`
}

// PurchaseDTO exposes a finalized supplier order in API responses.
type PurchaseDTO struct {
	ID           uuid.UUID         `json:"id"`
	SupplierID   uuid.UUID         `json:"supplier_id"`
	SupplierName string            `json:"supplier_name"`
	Items        []PurchaseItemDTO `json:"items"`
	Subtotal     float64           `json:"subtotal"`
	Tax          float64           `json:"tax"`
	Total        float64           `json:"total"`
	Status       enums.OrderStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// FromModel maps the persisted purchase into a DTO.
func FromModel(m *models.Purchase) *PurchaseDTO {
	if m == nil {
		return nil
	}
	items := make([]PurchaseItemDTO, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, PurchaseItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       item.Total,
		})
	}
	return &PurchaseDTO{
		ID:           m.ID,
		SupplierID:   m.SupplierID,
		SupplierName: m.SupplierName,
		Items:        items,
		Subtotal:     m.Subtotal,
		Tax:          m.Tax,
		Total:        m.Total,
		Status:       m.Status,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromModels maps a slice of purchases into DTOs.
func FromModels(rows []models.Purchase) []PurchaseDTO {
	out := make([]PurchaseDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
