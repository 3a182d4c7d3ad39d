package settings

import (
	"time"

	"github.com/hayyerp/pos-backend/pkg/db/models"
)

// SettingsDTO exposes the store settings singleton in API responses.
type SettingsDTO struct {
	CompanyName    string    `json:"company_name"`
	Address        string    `json:"address,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Email          string    `json:"email,omitempty"`
	TaxRate        float64   `json:"tax_rate"`
	Currency       string    `json:"currency"`
	CurrencySymbol string    `json:"currency_symbol"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FromModel maps the persisted settings row into a DTO.
func FromModel(m *models.Settings) *SettingsDTO {
	if m == nil {
		return nil
	}
	return &SettingsDTO{
		CompanyName:    m.CompanyName,
		Address:        m.Address,
		Phone:          m.Phone,
		Email:          m.Email,
		TaxRate:        m.TaxRate,
		Currency:       m.Currency,
		CurrencySymbol: m.CurrencySymbol,
		UpdatedAt:      m.UpdatedAt,
	}
}
