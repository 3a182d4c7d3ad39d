// Package seed performs first-run initialization of an empty store.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hayyerp/pos-backend/internal/categories"
	"github.com/hayyerp/pos-backend/internal/settings"
	"github.com/hayyerp/pos-backend/internal/users"
	"github.com/hayyerp/pos-backend/pkg/config"
	"github.com/hayyerp/pos-backend/pkg/db"
	"github.com/hayyerp/pos-backend/pkg/db/models"
	"github.com/hayyerp/pos-backend/pkg/enums"
	pkgerrors "github.com/hayyerp/pos-backend/pkg/errors"
	"github.com/hayyerp/pos-backend/pkg/logger"
	"github.com/hayyerp/pos-backend/pkg/security"
)

// Store-wide defaults written on first run. Values match the shop the
// system was originally built for; everything is editable afterwards
// through the settings endpoint.
const (
	defaultCompanyName = "HAYY ERP"
	defaultTaxRate     = 18.0
	defaultCurrency    = "INR"
	defaultSymbol      = "₹"
)

// starterCategories are created on first run so the first product can be
// filed somewhere.
var starterCategories = []string{
	"Electronics",
	"Clothing",
	"Groceries",
	"Stationery",
	"Home Appliances",
}

// Seeder initializes an empty store with an admin account, the settings
// singleton and starter categories.
type Seeder struct {
	client      *db.Client
	users       *users.Repository
	settings    *settings.Repository
	categories  *categories.Repository
	passwordCfg config.PasswordConfig
	seedCfg     config.SeedConfig
	logg        *logger.Logger
}

// New constructs a seeder.
func New(client *db.Client, userRepo *users.Repository, settingsRepo *settings.Repository, categoryRepo *categories.Repository, passwordCfg config.PasswordConfig, seedCfg config.SeedConfig, logg *logger.Logger) (*Seeder, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if userRepo == nil || settingsRepo == nil || categoryRepo == nil {
		return nil, fmt.Errorf("seed repositories required")
	}
	return &Seeder{
		client:      client,
		users:       userRepo,
		settings:    settingsRepo,
		categories:  categoryRepo,
		passwordCfg: passwordCfg,
		seedCfg:     seedCfg,
		logg:        logg,
	}, nil
}

// Run seeds the store if and only if no user exists yet. It is safe to call
// on every startup: a populated store is left untouched, and a failed seed
// rolls back completely so the next run starts from the same empty state.
func (s *Seeder) Run(ctx context.Context) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: count users")
	}
	if count > 0 {
		return nil
	}

	hash, err := security.HashPassword(s.seedCfg.AdminPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash admin password")
	}

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		admin := &models.User{
			ID:           uuid.New(),
			Name:         "Administrator",
			Username:     s.seedCfg.AdminUsername,
			PasswordHash: hash,
			Email:        s.seedCfg.AdminEmail,
			Role:         enums.UserRoleAdmin,
			Active:       true,
		}
		if _, err := s.users.WithTx(tx).Create(ctx, admin); err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}

		defaults := &models.Settings{
			ID:             models.SettingsID,
			CompanyName:    defaultCompanyName,
			TaxRate:        defaultTaxRate,
			Currency:       defaultCurrency,
			CurrencySymbol: defaultSymbol,
		}
		if _, err := s.settings.WithTx(tx).Save(ctx, defaults); err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}

		for _, name := range starterCategories {
			category := &models.Category{
				ID:          uuid.New(),
				Name:        name,
				Description: fmt.Sprintf("%s category", name),
				Active:      true,
			}
			if _, err := s.categories.WithTx(tx).Create(ctx, category); err != nil {
				return fmt.Errorf("seed category %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "seeding store")
	}

	if s.logg != nil {
		s.logg.Info(ctx, "store seeded with admin account and starter data")
	}
	return nil
}
