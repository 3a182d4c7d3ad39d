package models

import "time"

// SettingsID is the fixed key of the settings singleton row.
const SettingsID = 1

// Settings is a singleton (id = 1) created during seeding. Every invoice
// and report computation reads it.
type Settings struct {
	ID             int       `gorm:"column:id;primaryKey"`
	CompanyName    string    `gorm:"column:company_name;not null"`
	Address        string    `gorm:"column:address"`
	Phone          string    `gorm:"column:phone"`
	Email          string    `gorm:"column:email"`
	TaxRate        float64   `gorm:"column:tax_rate;not null"`
	Currency       string    `gorm:"column:currency;not null"`
	CurrencySymbol string    `gorm:"column:currency_symbol;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
