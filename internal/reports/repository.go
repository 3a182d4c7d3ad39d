package reports

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hayyerp/pos-backend/pkg/db/models"
)

// Repository runs the read-only aggregate queries behind the dashboard.
// Everything is recomputed on demand; with a single-tenant local store the
// tables stay small enough that no materialized views are needed.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) count(ctx context.Context, model any) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// CountProducts reports the number of product rows.
func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Product{})
}

// CountSales reports the number of sale rows.
func (r *Repository) CountSales(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Sale{})
}

// CountCustomers reports the number of customer rows.
func (r *Repository) CountCustomers(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Customer{})
}

// CountSuppliers reports the number of supplier rows.
func (r *Repository) CountSuppliers(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Supplier{})
}

// CountLowStock reports products at or below their low-stock threshold.
func (r *Repository) CountLowStock(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("stock <= low_stock_alert").Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// RevenueTotal sums Sale.total over every sale.
func (r *Repository) RevenueTotal(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Sale{}).
		Select("COALESCE(SUM(total), 0)").Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// PurchasesTotal sums Purchase.total over every purchase.
func (r *Repository) PurchasesTotal(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Purchase{}).
		Select("COALESCE(SUM(total), 0)").Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// ItemQuantity is one sale line reduced to its name and unit count, in the
// order lines were originally rung up across sales.
type ItemQuantity struct {
	ProductName string
	Quantity    int
}

// SaleItemQuantities streams every sale line in sale-then-position order,
// which lets the service break top-product ties by first encounter.
func (r *Repository) SaleItemQuantities(ctx context.Context) ([]ItemQuantity, error) {
	var out []ItemQuantity
	err := r.db.WithContext(ctx).Model(&models.SaleItem{}).
		Select("sale_items.product_name, sale_items.quantity").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Order("sales.created_at, sales.id, sale_items.position").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SalePoint is a sale reduced to the fields the trend series needs.
type SalePoint struct {
	CreatedAt time.Time
	Total     float64
}

// SalesSince returns (createdAt, total) for every sale at or after the
// cutoff.
func (r *Repository) SalesSince(ctx context.Context, cutoff time.Time) ([]SalePoint, error) {
	var out []SalePoint
	err := r.db.WithContext(ctx).Model(&models.Sale{}).
		Select("created_at, total").
		Where("created_at >= ?", cutoff).
		Order("created_at").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
