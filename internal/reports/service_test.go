package reports

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayyerp/pos-backend/pkg/config"
	"github.com/hayyerp/pos-backend/pkg/db"
	"github.com/hayyerp/pos-backend/pkg/db/models"
	"github.com/hayyerp/pos-backend/pkg/enums"
	pkgerrors "github.com/hayyerp/pos-backend/pkg/errors"
	"github.com/hayyerp/pos-backend/pkg/migrate"
)

func newTestClient(t *testing.T) *db.Client {
	t.Helper()
	ctx := context.Background()
	cfg := config.DBConfig{
		Path:          filepath.Join(t.TempDir(), "store.db"),
		BusyTimeoutMS: 500,
	}
	client, err := db.New(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.DB().DB()
	require.NoError(t, err)
	require.NoError(t, migrate.Up(ctx, sqlDB))
	return client
}

// insertSale writes a completed sale with one item per (name, quantity)
// pair, bypassing the transaction engine so tests control createdAt.
func insertSale(t *testing.T, client *db.Client, total float64, createdAt time.Time, lines ...ItemQuantity) {
	t.Helper()
	sale := &models.Sale{
		ID:            uuid.New(),
		CustomerName:  "Walk-in Customer",
		Subtotal:      total,
		Total:         total,
		PaymentMethod: enums.PaymentMethodCash,
		Status:        enums.OrderStatusCompleted,
		CreatedAt:     createdAt,
	}
	for i, line := range lines {
		sale.Items = append(sale.Items, models.SaleItem{
			ID:          uuid.New(),
			ProductID:   uuid.New(),
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Price:       1,
			Total:       float64(line.Quantity),
			Position:    i,
		})
	}
	require.NoError(t, client.DB().Create(sale).Error)
}

func TestDashboardStatsCountsAndTotals(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	category := &models.Category{ID: uuid.New(), Name: "Groceries", Active: true}
	require.NoError(t, client.DB().Create(category).Error)
	require.NoError(t, client.DB().Create(&models.Product{
		ID: uuid.New(), Name: "Scarce", Price: 1, Stock: 2, LowStockAlert: 5,
		CategoryID: category.ID, CategoryName: category.Name, Barcode: "89000000000005", Active: true,
	}).Error)
	require.NoError(t, client.DB().Create(&models.Customer{ID: uuid.New(), Name: "Asha"}).Error)

	supplier := &models.Supplier{ID: uuid.New(), Name: "Acme"}
	require.NoError(t, client.DB().Create(supplier).Error)
	require.NoError(t, client.DB().Create(&models.Purchase{
		ID: uuid.New(), SupplierID: supplier.ID, SupplierName: supplier.Name,
		Subtotal: 40, Total: 40, Status: enums.OrderStatusCompleted,
	}).Error)

	insertSale(t, client, 100, time.Now(), ItemQuantity{ProductName: "Scarce", Quantity: 1})

	service, err := NewService(NewRepository(client.DB()))
	require.NoError(t, err)

	stats, err := service.DashboardStats(ctx, enums.TrendWindowDaily)
	require.NoError(t, err)

	assert.EqualValues(t, 1, stats.TotalProducts)
	assert.EqualValues(t, 1, stats.TotalSales)
	assert.EqualValues(t, 1, stats.TotalCustomers)
	assert.EqualValues(t, 1, stats.TotalSuppliers)
	assert.EqualValues(t, 1, stats.LowStockProducts)
	assert.InDelta(t, 100, stats.Revenue, 1e-6)
	assert.InDelta(t, 40, stats.PurchasesTotal, 1e-6)
	assert.InDelta(t, 60, stats.Profit, 1e-6)
}

func TestDashboardStatsEmptyStore(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	service, err := NewService(NewRepository(client.DB()))
	require.NoError(t, err)

	stats, err := service.DashboardStats(ctx, enums.TrendWindowWeekly)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalSales)
	assert.Zero(t, stats.Revenue)
	assert.Empty(t, stats.TopProducts)
	assert.Len(t, stats.Trend, 7)
	for _, point := range stats.Trend {
		assert.Zero(t, point.Total)
	}
}

func TestDashboardStatsRejectsUnknownWindow(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	service, err := NewService(NewRepository(client.DB()))
	require.NoError(t, err)

	_, err = service.DashboardStats(ctx, enums.TrendWindow("yearly"))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestRankTopProducts(t *testing.T) {
	items := []ItemQuantity{
		{ProductName: "A", Quantity: 3},
		{ProductName: "B", Quantity: 5},
		{ProductName: "A", Quantity: 4},
		{ProductName: "C", Quantity: 5},
		{ProductName: "D", Quantity: 1},
		{ProductName: "E", Quantity: 1},
		{ProductName: "F", Quantity: 2},
	}
	ranked := rankTopProducts(items, 5)
	require.Len(t, ranked, 5)

	// A leads with 7 units; B and C tie at 5 and keep first-encounter order.
	assert.Equal(t, "A", ranked[0].ProductName)
	assert.Equal(t, 7, ranked[0].Units)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "B", ranked[1].ProductName)
	assert.Equal(t, "C", ranked[2].ProductName)
	assert.Equal(t, "F", ranked[3].ProductName)
	assert.Equal(t, "D", ranked[4].ProductName)
}

func TestTrendBucketsSalesOldestFirst(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	now := time.Now()
	// One sale two hours ago (newest bucket), one eleven hours ago, one
	// outside the daily window.
	insertSale(t, client, 10, now.Add(-2*time.Hour))
	insertSale(t, client, 20, now.Add(-11*time.Hour))
	insertSale(t, client, 999, now.Add(-25*time.Hour))

	service, err := NewService(NewRepository(client.DB()))
	require.NoError(t, err)

	stats, err := service.DashboardStats(ctx, enums.TrendWindowDaily)
	require.NoError(t, err)
	require.Len(t, stats.Trend, 8)

	var sum float64
	for _, point := range stats.Trend {
		sum += point.Total
	}
	assert.InDelta(t, 30, sum, 1e-6)

	// Newest bucket is last.
	assert.InDelta(t, 10, stats.Trend[7].Total, 1e-6)
	assert.InDelta(t, 20, stats.Trend[4].Total, 1e-6)
}
