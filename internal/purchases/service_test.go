package purchases

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayyerp/pos-backend/internal/products"
	"github.com/hayyerp/pos-backend/internal/settings"
	"github.com/hayyerp/pos-backend/internal/suppliers"
	"github.com/hayyerp/pos-backend/pkg/config"
	"github.com/hayyerp/pos-backend/pkg/db"
	"github.com/hayyerp/pos-backend/pkg/db/models"
	"github.com/hayyerp/pos-backend/pkg/enums"
	pkgerrors "github.com/hayyerp/pos-backend/pkg/errors"
	"github.com/hayyerp/pos-backend/pkg/migrate"
)

type fixture struct {
	client   *db.Client
	service  Service
	product  *models.Product
	supplier *models.Supplier
}

func newFixture(t *testing.T) *fixture {
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

	conn := client.DB()
	category := &models.Category{ID: uuid.New(), Name: "Groceries", Active: true}
	require.NoError(t, conn.Create(category).Error)

	product := &models.Product{
		ID:           uuid.New(),
		Name:         "Basmati Rice",
		Price:        10.00,
		Stock:        5,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Barcode:      "89000000000005",
		Active:       true,
	}
	require.NoError(t, conn.Create(product).Error)

	supplier := &models.Supplier{ID: uuid.New(), Name: "Acme Traders"}
	require.NoError(t, conn.Create(supplier).Error)

	require.NoError(t, conn.Create(&models.Settings{
		ID:             models.SettingsID,
		CompanyName:    "Test Shop",
		TaxRate:        18,
		Currency:       "INR",
		CurrencySymbol: "₹",
	}).Error)

	settingsService, err := settings.NewService(settings.NewRepository(conn))
	require.NoError(t, err)

	service, err := NewService(
		client,
		NewRepository(conn),
		products.NewRepository(conn),
		suppliers.NewRepository(conn),
		settingsService,
		nil,
	)
	require.NoError(t, err)

	return &fixture{client: client, service: service, product: product, supplier: supplier}
}

func TestFinalizeIncrementsStockAndPrices(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	purchase, err := fx.service.Finalize(ctx, FinalizeInput{
		SupplierID: fx.supplier.ID,
		Lines:      []Line{{ProductID: fx.product.ID, Quantity: 20, Price: 6.00}},
	})
	require.NoError(t, err)

	assert.InDelta(t, 120.00, purchase.Subtotal, 1e-6)
	assert.InDelta(t, 21.60, purchase.Tax, 1e-6)
	assert.InDelta(t, 141.60, purchase.Total, 1e-6)
	assert.Equal(t, enums.OrderStatusCompleted, purchase.Status)
	assert.Equal(t, "Acme Traders", purchase.SupplierName)

	var stored models.Product
	require.NoError(t, fx.client.DB().First(&stored, "id = ?", fx.product.ID).Error)
	assert.Equal(t, 25, stored.Stock)

	loaded, err := fx.service.Get(ctx, purchase.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 20, loaded.Items[0].Quantity)
	assert.InDelta(t, 6.00, loaded.Items[0].Price, 1e-6)
}

func TestFinalizeNeverRejectsForQuantity(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	// Incoming stock has no upper bound.
	_, err := fx.service.Finalize(ctx, FinalizeInput{
		SupplierID: fx.supplier.ID,
		Lines:      []Line{{ProductID: fx.product.ID, Quantity: 100000, Price: 0.01}},
	})
	require.NoError(t, err)
}

func TestFinalizeUnknownSupplier(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	_, err := fx.service.Finalize(ctx, FinalizeInput{
		SupplierID: uuid.New(),
		Lines:      []Line{{ProductID: fx.product.ID, Quantity: 1, Price: 1.00}},
	})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestFinalizeUnknownProductRollsBack(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	_, err := fx.service.Finalize(ctx, FinalizeInput{
		SupplierID: fx.supplier.ID,
		Lines: []Line{
			{ProductID: fx.product.ID, Quantity: 10, Price: 2.00},
			{ProductID: uuid.New(), Quantity: 1, Price: 1.00},
		},
	})
	require.Error(t, err)

	var stored models.Product
	require.NoError(t, fx.client.DB().First(&stored, "id = ?", fx.product.ID).Error)
	assert.Equal(t, 5, stored.Stock)

	var count int64
	require.NoError(t, fx.client.DB().Model(&models.Purchase{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFinalizeValidatesInput(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	_, err := fx.service.Finalize(ctx, FinalizeInput{SupplierID: fx.supplier.ID})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = fx.service.Finalize(ctx, FinalizeInput{
		SupplierID: fx.supplier.ID,
		Lines:      []Line{{ProductID: fx.product.ID, Quantity: -1, Price: 1.00}},
	})
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
