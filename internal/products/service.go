package products

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hayyerp/pos-backend/internal/barcode"
	"github.com/hayyerp/pos-backend/pkg/db"
	"github.com/hayyerp/pos-backend/pkg/db/models"
	pkgerrors "github.com/hayyerp/pos-backend/pkg/errors"
	"github.com/hayyerp/pos-backend/pkg/metrics"
)

// barcodeAttempts bounds the collision retry loop. With 10^10 random
// suffixes per prefix, more than a couple of collisions means something is
// wrong with the store, not with luck.
const barcodeAttempts = 5

// Service exposes product management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByBarcode(ctx context.Context, code string) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter) ([]models.Product, error)
	GenerateBarcode(ctx context.Context) (string, error)
}

// CreateInput holds the payload to create a product.
type CreateInput struct {
	Name          string
	Price         float64
	Stock         int
	CategoryID    uuid.UUID
	Barcode       string // empty means "generate one"
	LowStockAlert int
	Active        bool
}

// UpdateInput holds optional mutation values for a product. Stock is
// deliberately absent: stock moves only through sale and purchase
// finalization.
type UpdateInput struct {
	Name          *string
	Price         *float64
	CategoryID    *uuid.UUID
	Barcode       *string
	LowStockAlert *int
	Active        *bool
}

type categoryLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type service struct {
	repo       *Repository
	categories categoryLoader
	generator  *barcode.Generator
	metrics    *metrics.StoreMetrics
}

// NewService constructs a product service instance.
func NewService(repo *Repository, categories categoryLoader, generator *barcode.Generator, storeMetrics *metrics.StoreMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category loader required")
	}
	if generator == nil {
		return nil, fmt.Errorf("barcode generator required")
	}
	return &service{
		repo:       repo,
		categories: categories,
		generator:  generator,
		metrics:    storeMetrics,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Product, error) {
	if details := validateCreate(input); len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(details)
	}

	category, err := s.resolveCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	code := input.Barcode
	if code == "" {
		code, err = s.GenerateBarcode(ctx)
		if err != nil {
			return nil, err
		}
	} else if !barcode.Valid(code) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode failed checksum validation").
			WithDetails(map[string]string{"barcode": "invalid check digit"})
	}

	product := &models.Product{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(input.Name),
		Price:         input.Price,
		Stock:         input.Stock,
		CategoryID:    category.ID,
		CategoryName:  category.Name,
		Barcode:       code,
		LowStockAlert: input.LowStockAlert,
		Active:        input.Active,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "products.barcode") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "barcode already in use").
				WithDetails(map[string]string{"barcode": code})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: insert product")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty").
				WithDetails(map[string]string{"name": "cannot be empty"})
		}
		product.Name = name
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive").
				WithDetails(map[string]string{"price": "must be greater than zero"})
		}
		product.Price = *input.Price
	}
	if input.CategoryID != nil {
		category, err := s.resolveCategory(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = category.ID
		product.CategoryName = category.Name
	}
	if input.Barcode != nil {
		if !barcode.Valid(*input.Barcode) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode failed checksum validation").
				WithDetails(map[string]string{"barcode": "invalid check digit"})
		}
		product.Barcode = *input.Barcode
	}
	if input.LowStockAlert != nil {
		if *input.LowStockAlert < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "low stock alert cannot be negative").
				WithDetails(map[string]string{"lowStockAlert": "cannot be negative"})
		}
		product.LowStockAlert = *input.LowStockAlert
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	product.UpdatedAt = time.Now()

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "products.barcode") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "barcode already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: update product")
	}
	return updated, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: load product")
	}
	return product, nil
}

func (s *service) GetByBarcode(ctx context.Context, code string) (*models.Product, error) {
	product, err := s.repo.FindByBarcode(ctx, code)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: load product by barcode")
	}
	return product, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product is referenced by sales or purchases")
		}
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: delete product")
	}
	return nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	out, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: list products")
	}
	return out, nil
}

// GenerateBarcode mints a barcode that no existing product carries,
// retrying with a fresh random suffix on collision.
func (s *service) GenerateBarcode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < barcodeAttempts; attempt++ {
		code, err := s.generator.Generate()
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating barcode")
		}
		taken, err := s.repo.BarcodeExists(ctx, code)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: check barcode uniqueness")
		}
		if !taken {
			return code, nil
		}
		s.metrics.IncBarcodeRetry()
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "could not generate a unique barcode")
}

func (s *service) resolveCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required").
			WithDetails(map[string]string{"categoryId": "is required"})
	}
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist").
				WithDetails(map[string]string{"categoryId": "unresolved reference"})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: load category")
	}
	return category, nil
}

func validateCreate(input CreateInput) map[string]string {
	details := map[string]string{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "is required"
	}
	if input.Price <= 0 {
		details["price"] = "must be greater than zero"
	}
	if input.Stock < 0 {
		details["stock"] = "cannot be negative"
	}
	if input.LowStockAlert < 0 {
		details["lowStockAlert"] = "cannot be negative"
	}
	return details
}
