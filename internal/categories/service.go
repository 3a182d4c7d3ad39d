package categories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hayyerp/pos-backend/pkg/db"
	"github.com/hayyerp/pos-backend/pkg/db/models"
	pkgerrors "github.com/hayyerp/pos-backend/pkg/errors"
)

// Service exposes category management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, activeOnly bool) ([]models.Category, error)
}

// CreateInput holds the payload to create a category.
type CreateInput struct {
	Name        string
	Description string
	Active      bool
}

// UpdateInput holds optional mutation values for a category.
type UpdateInput struct {
	Name        *string
	Description *string
	Active      *bool
}

type service struct {
	repo *Repository
}

// NewService constructs a category service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required").
			WithDetails(map[string]string{"name": "is required"})
	}

	category := &models.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: input.Description,
		Active:      input.Active,
	}
	created, err := s.repo.Create(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err, "categories.name") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: insert category")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name cannot be empty").
				WithDetails(map[string]string{"name": "cannot be empty"})
		}
		category.Name = name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Active != nil {
		category.Active = *input.Active
	}
	category.UpdatedAt = time.Now()

	updated, err := s.repo.Update(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err, "categories.name") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: update category")
	}
	return updated, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: load category")
	}
	return category, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "category is referenced by products")
		}
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: delete category")
	}
	return nil
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	out, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: list categories")
	}
	return out, nil
}
