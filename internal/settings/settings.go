// Package settings serves the store-wide configuration singleton.
package settings

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/hayyerp/pos-backend/pkg/db"
	"github.com/hayyerp/pos-backend/pkg/db/models"
	pkgerrors "github.com/hayyerp/pos-backend/pkg/errors"
)

// cacheTTL bounds how stale a cached settings row may get before the next
// read goes back to the store. Updates invalidate immediately, so the TTL
// only matters when another process touches the database file.
const cacheTTL = 30 * time.Second

// Repository persists the settings singleton row.
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

// Find loads the singleton row.
func (r *Repository) Find(ctx context.Context) (*models.Settings, error) {
	var row models.Settings
	if err := r.db.WithContext(ctx).First(&row, "id = ?", models.SettingsID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Save upserts the singleton row, forcing the fixed primary key.
func (r *Repository) Save(ctx context.Context, row *models.Settings) (*models.Settings, error) {
	row.ID = models.SettingsID
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Input carries the full settings payload; an update replaces every field.
type Input struct {
	CompanyName    string
	Address        string
	Phone          string
	Email          string
	TaxRate        float64
	Currency       string
	CurrencySymbol string
}

// Service exposes reads and updates of the settings singleton.
type Service interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, input Input) (*models.Settings, error)
}

type service struct {
	repo *Repository

	mu       sync.Mutex
	cached   *models.Settings
	cachedAt time.Time
}

// NewService constructs a settings service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context) (*models.Settings, error) {
	s.mu.Lock()
	if s.cached != nil && time.Since(s.cachedAt) < cacheTTL {
		row := *s.cached
		s.mu.Unlock()
		return &row, nil
	}
	s.mu.Unlock()

	row, err := s.repo.Find(ctx)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "settings not initialized")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: load settings")
	}

	s.mu.Lock()
	s.cached = row
	s.cachedAt = time.Now()
	s.mu.Unlock()

	copied := *row
	return &copied, nil
}

func (s *service) Update(ctx context.Context, input Input) (*models.Settings, error) {
	if details := validate(input); len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid settings").WithDetails(details)
	}

	current, err := s.repo.Find(ctx)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "settings not initialized")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: load settings")
	}

	current.CompanyName = strings.TrimSpace(input.CompanyName)
	current.Address = input.Address
	current.Phone = input.Phone
	current.Email = input.Email
	current.TaxRate = input.TaxRate
	current.Currency = strings.TrimSpace(input.Currency)
	current.CurrencySymbol = input.CurrencySymbol
	current.UpdatedAt = time.Now()

	saved, err := s.repo.Save(ctx, current)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: save settings")
	}

	s.mu.Lock()
	s.cached = saved
	s.cachedAt = time.Now()
	s.mu.Unlock()

	copied := *saved
	return &copied, nil
}

func validate(input Input) map[string]string {
	details := map[string]string{}
	if strings.TrimSpace(input.CompanyName) == "" {
		details["company_name"] = "is required"
	}
	if input.TaxRate < 0 || input.TaxRate > 100 {
		details["tax_rate"] = "must be between 0 and 100"
	}
	if strings.TrimSpace(input.Currency) == "" {
		details["currency"] = "is required"
	}
	return details
}
