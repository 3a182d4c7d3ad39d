// Package customers manages buyer records referenced by sales.
package customers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hayyerp/pos-backend/pkg/db"
	"github.com/hayyerp/pos-backend/pkg/db/models"
	pkgerrors "github.com/hayyerp/pos-backend/pkg/errors"
)

// Repository persists customers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new customer row.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// Update saves an existing customer row.
func (r *Repository) Update(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Save(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// FindByID loads a customer by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// Delete removes a customer by ID. Deleting a missing ID is not an error.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Customer{}).Error
}

// List returns all customers in insertion order.
func (r *Repository) List(ctx context.Context) ([]models.Customer, error) {
	var out []models.Customer
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Count reports the number of customer rows.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Service exposes customer management operations.
type Service interface {
	Create(ctx context.Context, input Input) (*models.Customer, error)
	Update(ctx context.Context, id uuid.UUID, input Input) (*models.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.Customer, error)
}

// Input holds the full customer payload; updates replace every field.
type Input struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

type service struct {
	repo *Repository
}

// NewService constructs a customer service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input Input) (*models.Customer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required").
			WithDetails(map[string]string{"name": "is required"})
	}
	customer := &models.Customer{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(input.Name),
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
	}
	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: insert customer")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input Input) (*models.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required").
			WithDetails(map[string]string{"name": "is required"})
	}
	customer.Name = strings.TrimSpace(input.Name)
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.Address = input.Address
	customer.UpdatedAt = time.Now()

	updated, err := s.repo.Update(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: update customer")
	}
	return updated, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: load customer")
	}
	return customer, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "customer is referenced by sales")
		}
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: delete customer")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]models.Customer, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: list customers")
	}
	return out, nil
}
