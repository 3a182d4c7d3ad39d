package sales

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayyerp/pos-backend/internal/customers"
	"github.com/hayyerp/pos-backend/internal/products"
	"github.com/hayyerp/pos-backend/internal/settings"
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

type fixture struct {
	client  *db.Client
	service Service
	product *models.Product
}

func newFixture(t *testing.T, price float64, stock int) *fixture {
	t.Helper()
	client := newTestClient(t)
	conn := client.DB()

	category := &models.Category{ID: uuid.New(), Name: "Groceries", Active: true}
	require.NoError(t, conn.Create(category).Error)

	product := &models.Product{
		ID:           uuid.New(),
		Name:         "Basmati Rice",
		Price:        price,
		Stock:        stock,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Barcode:      "89000000000005",
		Active:       true,
	}
	require.NoError(t, conn.Create(product).Error)

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
		customers.NewRepository(conn),
		settingsService,
		nil,
	)
	require.NoError(t, err)

	return &fixture{client: client, service: service, product: product}
}

func TestFinalizeComputesTotalsAndDecrementsStock(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, 10.00, 10)

	sale, err := fx.service.Finalize(ctx, FinalizeInput{
		Lines:         []Line{{ProductID: fx.product.ID, Quantity: 2}},
		PaymentMethod: enums.PaymentMethodCash,
	})
	require.NoError(t, err)

	assert.InDelta(t, 20.00, sale.Subtotal, 1e-6)
	assert.InDelta(t, 3.60, sale.Tax, 1e-6)
	assert.InDelta(t, 0, sale.Discount, 1e-6)
	assert.InDelta(t, 23.60, sale.Total, 1e-6)
	assert.Equal(t, enums.OrderStatusCompleted, sale.Status)
	assert.Equal(t, "Walk-in Customer", sale.CustomerName)

	var stored models.Product
	require.NoError(t, fx.client.DB().First(&stored, "id = ?", fx.product.ID).Error)
	assert.Equal(t, 8, stored.Stock)

	loaded, err := fx.service.Get(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Basmati Rice", loaded.Items[0].ProductName)
	assert.Equal(t, 2, loaded.Items[0].Quantity)
	assert.Equal(t, 0, loaded.Items[0].Position)
}

func TestFinalizeRejectsOversellWithoutMutating(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, 10.00, 3)

	_, err := fx.service.Finalize(ctx, FinalizeInput{
		Lines:         []Line{{ProductID: fx.product.ID, Quantity: 5}},
		PaymentMethod: enums.PaymentMethodCash,
	})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeOutOfStock, typed.Code())

	var stored models.Product
	require.NoError(t, fx.client.DB().First(&stored, "id = ?", fx.product.ID).Error)
	assert.Equal(t, 3, stored.Stock)

	var saleCount int64
	require.NoError(t, fx.client.DB().Model(&models.Sale{}).Count(&saleCount).Error)
	assert.Zero(t, saleCount)
}

func TestFinalizeClampsDiscountToSubtotal(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, 10.00, 10)

	sale, err := fx.service.Finalize(ctx, FinalizeInput{
		Lines:         []Line{{ProductID: fx.product.ID, Quantity: 2}},
		Discount:      50.00,
		PaymentMethod: enums.PaymentMethodCard,
	})
	require.NoError(t, err)

	assert.InDelta(t, 20.00, sale.Discount, 1e-6)
	assert.InDelta(t, 0, sale.Tax, 1e-6)
	assert.InDelta(t, 0, sale.Total, 1e-6)
}

func TestFinalizeAppliesPriceOverride(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, 10.00, 10)

	override := 7.50
	sale, err := fx.service.Finalize(ctx, FinalizeInput{
		Lines:         []Line{{ProductID: fx.product.ID, Quantity: 2, Price: &override}},
		PaymentMethod: enums.PaymentMethodCash,
	})
	require.NoError(t, err)

	assert.InDelta(t, 15.00, sale.Subtotal, 1e-6)
	require.Len(t, sale.Items, 1)
	assert.InDelta(t, 7.50, sale.Items[0].Price, 1e-6)
}

func TestFinalizeUnknownProduct(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, 10.00, 10)

	_, err := fx.service.Finalize(ctx, FinalizeInput{
		Lines:         []Line{{ProductID: uuid.New(), Quantity: 1}},
		PaymentMethod: enums.PaymentMethodCash,
	})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestFinalizeSnapshotsCustomerName(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, 5.00, 10)

	customer := &models.Customer{ID: uuid.New(), Name: "Asha"}
	require.NoError(t, fx.client.DB().Create(customer).Error)

	sale, err := fx.service.Finalize(ctx, FinalizeInput{
		CustomerID:    &customer.ID,
		Lines:         []Line{{ProductID: fx.product.ID, Quantity: 1}},
		PaymentMethod: enums.PaymentMethodBank,
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha", sale.CustomerName)
}

func TestFinalizeValidatesInput(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, 10.00, 10)

	cases := []struct {
		name  string
		input FinalizeInput
	}{
		{"no lines", FinalizeInput{PaymentMethod: enums.PaymentMethodCash}},
		{"zero quantity", FinalizeInput{
			Lines:         []Line{{ProductID: fx.product.ID, Quantity: 0}},
			PaymentMethod: enums.PaymentMethodCash,
		}},
		{"bad payment method", FinalizeInput{
			Lines:         []Line{{ProductID: fx.product.ID, Quantity: 1}},
			PaymentMethod: enums.PaymentMethod("cheque"),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.service.Finalize(ctx, tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, 10.00, 10)

	sale, err := fx.service.Finalize(ctx, FinalizeInput{
		Lines:         []Line{{ProductID: fx.product.ID, Quantity: 1}},
		PaymentMethod: enums.PaymentMethodCash,
	})
	require.NoError(t, err)

	// Finalized sales are completed; completed is terminal.
	_, err = fx.service.UpdateStatus(ctx, sale.ID, enums.OrderStatusCancelled)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	// A pending sale may complete.
	require.NoError(t, fx.client.DB().Model(&models.Sale{}).
		Where("id = ?", sale.ID).
		Update("status", enums.OrderStatusPending).Error)
	updated, err := fx.service.UpdateStatus(ctx, sale.ID, enums.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, updated.Status)
}

func TestListFiltersByStatusAndTime(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, 10.00, 100)

	for i := 0; i < 3; i++ {
		_, err := fx.service.Finalize(ctx, FinalizeInput{
			Lines:         []Line{{ProductID: fx.product.ID, Quantity: 1}},
			PaymentMethod: enums.PaymentMethodCash,
		})
		require.NoError(t, err)
	}

	all, err := fx.service.List(ctx, ListFilter{Status: enums.OrderStatusCompleted})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	future := time.Now().Add(time.Hour)
	none, err := fx.service.List(ctx, ListFilter{From: &future})
	require.NoError(t, err)
	assert.Empty(t, none)

	limited, err := fx.service.List(ctx, ListFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
