// Package reports computes the dashboard aggregates: entity counts,
// revenue and profit totals, top sellers and time-bucketed sale trends.
package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hayyerp/pos-backend/pkg/enums"
	pkgerrors "github.com/hayyerp/pos-backend/pkg/errors"
)

// topProductLimit is how many sellers the dashboard shows.
const topProductLimit = 5

// TopProduct is one entry of the best-seller ranking.
type TopProduct struct {
	ProductName string `json:"product_name"`
	Units       int    `json:"units"`
	Rank        int    `json:"rank"`
}

// TrendPoint is one bucket of the sale trend, oldest first.
type TrendPoint struct {
	Start time.Time `json:"start"`
	Total float64   `json:"total"`
}

// Stats is the full dashboard payload.
type Stats struct {
	TotalProducts    int64        `json:"total_products"`
	TotalSales       int64        `json:"total_sales"`
	TotalCustomers   int64        `json:"total_customers"`
	TotalSuppliers   int64        `json:"total_suppliers"`
	LowStockProducts int64        `json:"low_stock_products"`
	Revenue          float64      `json:"revenue"`
	PurchasesTotal   float64      `json:"purchases_total"`
	Profit           float64      `json:"profit"`
	TopProducts      []TopProduct `json:"top_products"`
	Window           string       `json:"window"`
	Trend            []TrendPoint `json:"trend"`
}

// Service exposes the dashboard aggregation.
type Service interface {
	DashboardStats(ctx context.Context, window enums.TrendWindow) (*Stats, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs a report service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("report repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) DashboardStats(ctx context.Context, window enums.TrendWindow) (*Stats, error) {
	if !window.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown trend window").
			WithDetails(map[string]string{"window": "must be daily, weekly or monthly"})
	}

	stats := &Stats{Window: window.String()}

	var err error
	if stats.TotalProducts, err = s.repo.CountProducts(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: count products")
	}
	if stats.TotalSales, err = s.repo.CountSales(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: count sales")
	}
	if stats.TotalCustomers, err = s.repo.CountCustomers(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: count customers")
	}
	if stats.TotalSuppliers, err = s.repo.CountSuppliers(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: count suppliers")
	}
	if stats.LowStockProducts, err = s.repo.CountLowStock(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: count low stock")
	}
	if stats.Revenue, err = s.repo.RevenueTotal(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: sum revenue")
	}
	if stats.PurchasesTotal, err = s.repo.PurchasesTotal(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: sum purchases")
	}
	// Simplified margin: revenue minus everything spent on stock, not a
	// per-item cost-of-goods calculation.
	stats.Profit = stats.Revenue - stats.PurchasesTotal

	items, err := s.repo.SaleItemQuantities(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: load sale items")
	}
	stats.TopProducts = rankTopProducts(items, topProductLimit)

	now := s.now()
	buckets, width := WindowShape(window)
	cutoff := now.Add(-time.Duration(buckets) * width)
	points, err := s.repo.SalesSince(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: load trend sales")
	}
	stats.Trend = buildTrend(window, now, points)

	return stats, nil
}

// rankTopProducts aggregates units per product name and returns the top
// sellers. Ties keep the product that was first sold ahead, which a stable
// sort over first-encounter order gives for free.
func rankTopProducts(items []ItemQuantity, limit int) []TopProduct {
	units := map[string]int{}
	order := make([]string, 0, len(items))
	for _, item := range items {
		if _, seen := units[item.ProductName]; !seen {
			order = append(order, item.ProductName)
		}
		units[item.ProductName] += item.Quantity
	}

	ranked := make([]TopProduct, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, TopProduct{ProductName: name, Units: units[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Units > ranked[j].Units
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// buildTrend folds sales into fixed, zero-filled buckets, oldest first.
func buildTrend(window enums.TrendWindow, now time.Time, points []SalePoint) []TrendPoint {
	buckets, width := WindowShape(window)

	trend := make([]TrendPoint, buckets)
	for i := range trend {
		// Slot 0 is the oldest bucket; its start sits a full window back.
		trend[i].Start = now.Add(-time.Duration(buckets-i) * width)
	}
	for _, point := range points {
		index, ok := BucketOf(window, now, point.CreatedAt)
		if !ok {
			continue
		}
		// BucketOf counts backwards from now; flip it for display order.
		trend[buckets-1-index].Total += point.Total
	}
	return trend
}
