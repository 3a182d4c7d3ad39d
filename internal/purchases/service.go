// Package purchases implements supplier order finalization: the one code
// path that increments product stock.
package purchases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hayyerp/pos-backend/internal/products"
	"github.com/hayyerp/pos-backend/pkg/db"
	"github.com/hayyerp/pos-backend/pkg/db/models"
	"github.com/hayyerp/pos-backend/pkg/enums"
	pkgerrors "github.com/hayyerp/pos-backend/pkg/errors"
	"github.com/hayyerp/pos-backend/pkg/metrics"
)

// Line is one requested purchase line. Price is the unit cost paid to the
// supplier, independent from the product's selling price.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
	Price     float64
}

// FinalizeInput is the supplier order payload.
type FinalizeInput struct {
	SupplierID uuid.UUID
	Lines      []Line
}

// Service exposes purchase finalization and lookup operations.
type Service interface {
	Finalize(ctx context.Context, input FinalizeInput) (*models.Purchase, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Purchase, error)
	List(ctx context.Context, filter ListFilter) ([]models.Purchase, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*models.Purchase, error)
}

type settingsProvider interface {
	Get(ctx context.Context) (*models.Settings, error)
}

type supplierLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
}

type service struct {
	client    *db.Client
	repo      *Repository
	products  *products.Repository
	suppliers supplierLoader
	settings  settingsProvider
	metrics   *metrics.StoreMetrics
	now       func() time.Time

	mu sync.Mutex
}

// NewService constructs a purchase service instance.
func NewService(client *db.Client, repo *Repository, productRepo *products.Repository, suppliers supplierLoader, settings settingsProvider, storeMetrics *metrics.StoreMetrics) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("purchase repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if suppliers == nil {
		return nil, fmt.Errorf("supplier loader required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings provider required")
	}
	return &service{
		client:    client,
		repo:      repo,
		products:  productRepo,
		suppliers: suppliers,
		settings:  settings,
		metrics:   storeMetrics,
		now:       time.Now,
	}, nil
}

// Finalize validates every line, prices the order, and writes the purchase,
// its items and the matching stock increments inside one transaction.
// Incoming stock never rejects for quantity; only unknown references abort.
func (s *service) Finalize(ctx context.Context, input FinalizeInput) (*models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if details := validateFinalize(input); len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid purchase").WithDetails(details)
	}

	supplier, err := s.suppliers.FindByID(ctx, input.SupplierID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: load supplier")
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.PurchaseItem, 0, len(input.Lines))
	subtotal := decimal.Zero
	for i, line := range input.Lines {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
					WithDetails(map[string]any{"product_id": line.ProductID, "line": i})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: load product")
		}

		price := decimal.NewFromFloat(line.Price)
		lineTotal := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		items = append(items, models.PurchaseItem{
			ID:          uuid.New(),
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			Price:       line.Price,
			Total:       lineTotal.Round(2).InexactFloat64(),
			Position:    i,
		})
	}

	tax := subtotal.Mul(decimal.NewFromFloat(cfg.TaxRate)).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Add(tax).Round(2)

	purchase := &models.Purchase{
		ID:           uuid.New(),
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		Items:        items,
		Subtotal:     subtotal.Round(2).InexactFloat64(),
		Tax:          tax.InexactFloat64(),
		Total:        total.InexactFloat64(),
		Status:       enums.OrderStatusCompleted,
		CreatedAt:    s.now(),
	}

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, purchase); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: insert purchase")
		}
		txProducts := s.products.WithTx(tx)
		for _, item := range purchase.Items {
			ok, err := txProducts.IncrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: increment stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product disappeared during finalization").
					WithDetails(map[string]any{"product_id": item.ProductID})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncPurchaseFinalized()
	return purchase, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: load purchase")
	}
	return purchase, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Purchase, error) {
	out, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: list purchases")
	}
	return out, nil
}

// UpdateStatus moves a purchase through its lifecycle. Only pending
// purchases may change state, and only to completed or cancelled.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*models.Purchase, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status").
			WithDetails(map[string]string{"status": "must be pending, completed or cancelled"})
	}

	purchase, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !purchase.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("cannot move purchase from %s to %s", purchase.Status, next))
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: update purchase status")
	}
	purchase.Status = next
	return purchase, nil
}

func validateFinalize(input FinalizeInput) map[string]string {
	details := map[string]string{}
	if input.SupplierID == uuid.Nil {
		details["supplier_id"] = "is required"
	}
	if len(input.Lines) == 0 {
		details["lines"] = "at least one line is required"
	}
	for i, line := range input.Lines {
		if line.Quantity <= 0 {
			details[fmt.Sprintf("lines[%d].quantity", i)] = "must be positive"
		}
		if line.ProductID == uuid.Nil {
			details[fmt.Sprintf("lines[%d].product_id", i)] = "is required"
		}
		if line.Price < 0 {
			details[fmt.Sprintf("lines[%d].price", i)] = "cannot be negative"
		}
	}
	return details
}
