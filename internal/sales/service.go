// Package sales implements checkout finalization: the one code path that
// may decrement product stock.
package sales

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

// walkInCustomer is the denormalized name used when a sale carries no
// customer reference.
const walkInCustomer = "Walk-in Customer"

// Line is one requested checkout line. Price, when set, overrides the
// product's list price for this sale only.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
	Price     *float64
}

// FinalizeInput is the checkout payload. Discount is an absolute amount,
// clamped to [0, subtotal] before tax is applied.
type FinalizeInput struct {
	CustomerID    *uuid.UUID
	Lines         []Line
	Discount      float64
	PaymentMethod enums.PaymentMethod
}

// Service exposes sale finalization and lookup operations.
type Service interface {
	Finalize(ctx context.Context, input FinalizeInput) (*models.Sale, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	List(ctx context.Context, filter ListFilter) ([]models.Sale, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*models.Sale, error)
}

type settingsProvider interface {
	Get(ctx context.Context) (*models.Settings, error)
}

type customerLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type service struct {
	client    *db.Client
	repo      *Repository
	products  *products.Repository
	customers customerLoader
	settings  settingsProvider
	metrics   *metrics.StoreMetrics
	now       func() time.Time

	// Serializes finalization. sqlite already allows a single writer, but
	// the validate-then-write sequence spans several statements and the
	// mutex keeps two checkouts from interleaving them.
	mu sync.Mutex
}

// NewService constructs a sale service instance.
func NewService(client *db.Client, repo *Repository, productRepo *products.Repository, customers customerLoader, settings settingsProvider, storeMetrics *metrics.StoreMetrics) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("sale repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer loader required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings provider required")
	}
	return &service{
		client:    client,
		repo:      repo,
		products:  productRepo,
		customers: customers,
		settings:  settings,
		metrics:   storeMetrics,
		now:       time.Now,
	}, nil
}

// Finalize validates every line, prices the cart, and then writes the sale,
// its items and the matching stock decrements inside one transaction. Any
// failure rolls the whole write back; stock never moves for a sale that was
// not recorded.
func (s *service) Finalize(ctx context.Context, input FinalizeInput) (*models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if details := validateFinalize(input); len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sale").WithDetails(details)
	}

	customerName := walkInCustomer
	if input.CustomerID != nil {
		customer, err := s.customers.FindByID(ctx, *input.CustomerID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: load customer")
		}
		customerName = customer.Name
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	// Validation pass: every line must reference a known product with
	// enough stock before anything is written.
	items := make([]models.SaleItem, 0, len(input.Lines))
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
		if product.Stock < line.Quantity {
			s.metrics.IncOutOfStock()
			return nil, pkgerrors.New(pkgerrors.CodeOutOfStock, fmt.Sprintf("insufficient stock for %s", product.Name)).
				WithDetails(map[string]any{
					"product_id": product.ID,
					"requested":  line.Quantity,
					"available":  product.Stock,
				})
		}

		unitPrice := product.Price
		if line.Price != nil {
			unitPrice = *line.Price
		}
		price := decimal.NewFromFloat(unitPrice)
		lineTotal := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		items = append(items, models.SaleItem{
			ID:          uuid.New(),
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			Price:       unitPrice,
			Total:       lineTotal.Round(2).InexactFloat64(),
			Position:    i,
		})
	}

	discount := decimal.NewFromFloat(input.Discount)
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(decimal.NewFromFloat(cfg.TaxRate)).Div(decimal.NewFromInt(100)).Round(2)
	total := taxable.Add(tax).Round(2)

	sale := &models.Sale{
		ID:            uuid.New(),
		CustomerID:    input.CustomerID,
		CustomerName:  customerName,
		Items:         items,
		Subtotal:      subtotal.Round(2).InexactFloat64(),
		Tax:           tax.InexactFloat64(),
		Discount:      discount.Round(2).InexactFloat64(),
		Total:         total.InexactFloat64(),
		PaymentMethod: input.PaymentMethod,
		Status:        enums.OrderStatusCompleted,
		CreatedAt:     s.now(),
	}

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: insert sale")
		}
		txProducts := s.products.WithTx(tx)
		for _, item := range sale.Items {
			ok, err := txProducts.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: decrement stock")
			}
			if !ok {
				// Guarded update found less stock than the validation
				// pass did; abort the whole sale.
				s.metrics.IncOutOfStock()
				return pkgerrors.New(pkgerrors.CodeOutOfStock, fmt.Sprintf("insufficient stock for %s", item.ProductName)).
					WithDetails(map[string]any{
						"product_id": item.ProductID,
						"requested":  item.Quantity,
					})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncSaleFinalized()
	return sale, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: load sale")
	}
	return sale, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Sale, error) {
	out, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: list sales")
	}
	return out, nil
}

// UpdateStatus moves a sale through its lifecycle. Only pending sales may
// change state, and only to completed or cancelled.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*models.Sale, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status").
			WithDetails(map[string]string{"status": "must be pending, completed or cancelled"})
	}

	sale, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sale.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("cannot move sale from %s to %s", sale.Status, next))
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: update sale status")
	}
	sale.Status = next
	return sale, nil
}

func validateFinalize(input FinalizeInput) map[string]string {
	details := map[string]string{}
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
		if line.Price != nil && *line.Price < 0 {
			details[fmt.Sprintf("lines[%d].price", i)] = "cannot be negative"
		}
	}
	if !input.PaymentMethod.IsValid() {
		details["payment_method"] = "must be cash, card or bank"
	}
	return details
}
