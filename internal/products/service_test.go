package products

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayyerp/pos-backend/internal/barcode"
	"github.com/hayyerp/pos-backend/internal/categories"
	"github.com/hayyerp/pos-backend/pkg/config"
	"github.com/hayyerp/pos-backend/pkg/db"
	"github.com/hayyerp/pos-backend/pkg/db/models"
	pkgerrors "github.com/hayyerp/pos-backend/pkg/errors"
	"github.com/hayyerp/pos-backend/pkg/migrate"
)

func newTestService(t *testing.T) (Service, *models.Category, *db.Client) {
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

	category := &models.Category{ID: uuid.New(), Name: "Groceries", Active: true}
	require.NoError(t, client.DB().Create(category).Error)

	generator, err := barcode.NewGenerator("890")
	require.NoError(t, err)

	service, err := NewService(NewRepository(client.DB()), categories.NewRepository(client.DB()), generator, nil)
	require.NoError(t, err)
	return service, category, client
}

func TestCreateGeneratesBarcode(t *testing.T) {
	ctx := context.Background()
	service, category, _ := newTestService(t)

	created, err := service.Create(ctx, CreateInput{
		Name:       "Basmati Rice",
		Price:      10.00,
		Stock:      5,
		CategoryID: category.ID,
		Active:     true,
	})
	require.NoError(t, err)
	assert.Len(t, created.Barcode, barcode.TotalLen)
	assert.True(t, barcode.Valid(created.Barcode))
	assert.Equal(t, "Groceries", created.CategoryName)

	byCode, err := service.GetByBarcode(ctx, created.Barcode)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byCode.ID)
}

func TestCreateRejectsBadChecksum(t *testing.T) {
	ctx := context.Background()
	service, category, _ := newTestService(t)

	_, err := service.Create(ctx, CreateInput{
		Name:       "Basmati Rice",
		Price:      10.00,
		CategoryID: category.ID,
		Barcode:    "89000000000006", // wrong check digit
		Active:     true,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateUnknownCategory(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(t)

	_, err := service.Create(ctx, CreateInput{
		Name:       "Orphan",
		Price:      1.00,
		CategoryID: uuid.New(),
		Active:     true,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreateDuplicateBarcode(t *testing.T) {
	ctx := context.Background()
	service, category, _ := newTestService(t)

	first, err := service.Create(ctx, CreateInput{
		Name:       "First",
		Price:      1.00,
		CategoryID: category.ID,
		Active:     true,
	})
	require.NoError(t, err)

	_, err = service.Create(ctx, CreateInput{
		Name:       "Second",
		Price:      2.00,
		CategoryID: category.ID,
		Barcode:    first.Barcode,
		Active:     true,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestUpdateDoesNotTouchStock(t *testing.T) {
	ctx := context.Background()
	service, category, _ := newTestService(t)

	created, err := service.Create(ctx, CreateInput{
		Name:       "Basmati Rice",
		Price:      10.00,
		Stock:      7,
		CategoryID: category.ID,
		Active:     true,
	})
	require.NoError(t, err)

	newName := "Premium Basmati"
	newPrice := 12.50
	updated, err := service.Update(ctx, created.ID, UpdateInput{Name: &newName, Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, "Premium Basmati", updated.Name)
	assert.InDelta(t, 12.50, updated.Price, 1e-6)
	assert.Equal(t, 7, updated.Stock)
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	service, category, client := newTestService(t)

	_, err := service.Create(ctx, CreateInput{
		Name: "Plenty", Price: 1, Stock: 50, CategoryID: category.ID, LowStockAlert: 5, Active: true,
	})
	require.NoError(t, err)
	low, err := service.Create(ctx, CreateInput{
		Name: "Scarce", Price: 1, Stock: 2, CategoryID: category.ID, LowStockAlert: 5, Active: true,
	})
	require.NoError(t, err)

	other := &models.Category{ID: uuid.New(), Name: "Clothing", Active: true}
	require.NoError(t, client.DB().Create(other).Error)
	_, err = service.Create(ctx, CreateInput{
		Name: "Shirt", Price: 9, Stock: 3, CategoryID: other.ID, Active: false,
	})
	require.NoError(t, err)

	all, err := service.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	grocery, err := service.List(ctx, ListFilter{CategoryID: category.ID})
	require.NoError(t, err)
	assert.Len(t, grocery, 2)

	lowStock, err := service.List(ctx, ListFilter{LowStockOnly: true})
	require.NoError(t, err)
	require.Len(t, lowStock, 1)
	assert.Equal(t, low.ID, lowStock[0].ID)

	active, err := service.List(ctx, ListFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestGenerateBarcodeIsUniqueAndValid(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(t)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, err := service.GenerateBarcode(ctx)
		require.NoError(t, err)
		assert.True(t, barcode.Valid(code))
		assert.False(t, seen[code])
		seen[code] = true
	}
}
