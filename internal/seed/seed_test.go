package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayyerp/pos-backend/internal/categories"
	"github.com/hayyerp/pos-backend/internal/settings"
	"github.com/hayyerp/pos-backend/internal/users"
	"github.com/hayyerp/pos-backend/pkg/config"
	"github.com/hayyerp/pos-backend/pkg/db"
	"github.com/hayyerp/pos-backend/pkg/db/models"
	"github.com/hayyerp/pos-backend/pkg/enums"
	"github.com/hayyerp/pos-backend/pkg/migrate"
	"github.com/hayyerp/pos-backend/pkg/security"
)

var fastArgon = config.PasswordConfig{
	ArgonMemoryKB:    8,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     8,
	ArgonKeyLen:      16,
}

var seedCfg = config.SeedConfig{
	AdminUsername: "admin",
	AdminPassword: "admin123",
	AdminEmail:    "admin@example.com",
}

func newSeeder(t *testing.T) (*Seeder, *db.Client) {
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

	seeder, err := New(
		client,
		users.NewRepository(client.DB()),
		settings.NewRepository(client.DB()),
		categories.NewRepository(client.DB()),
		fastArgon,
		seedCfg,
		nil,
	)
	require.NoError(t, err)
	return seeder, client
}

func TestRunSeedsEmptyStore(t *testing.T) {
	ctx := context.Background()
	seeder, client := newSeeder(t)

	require.NoError(t, seeder.Run(ctx))

	var admin models.User
	require.NoError(t, client.DB().First(&admin, "username = ?", "admin").Error)
	assert.Equal(t, enums.UserRoleAdmin, admin.Role)
	assert.True(t, admin.Active)

	ok, err := security.VerifyPassword("admin123", admin.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	var cfg models.Settings
	require.NoError(t, client.DB().First(&cfg, "id = ?", models.SettingsID).Error)
	assert.Equal(t, "HAYY ERP", cfg.CompanyName)
	assert.InDelta(t, 18.0, cfg.TaxRate, 1e-6)
	assert.Equal(t, "INR", cfg.Currency)
	assert.Equal(t, "₹", cfg.CurrencySymbol)

	var names []string
	require.NoError(t, client.DB().Model(&models.Category{}).
		Order("created_at, id").Pluck("name", &names).Error)
	assert.Equal(t, []string{"Electronics", "Clothing", "Groceries", "Stationery", "Home Appliances"}, names)
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	seeder, client := newSeeder(t)

	require.NoError(t, seeder.Run(ctx))
	require.NoError(t, seeder.Run(ctx))

	var userCount, categoryCount int64
	require.NoError(t, client.DB().Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, client.DB().Model(&models.Category{}).Count(&categoryCount).Error)
	assert.EqualValues(t, 1, userCount)
	assert.EqualValues(t, 5, categoryCount)
}

func TestRunSkipsPopulatedStore(t *testing.T) {
	ctx := context.Background()
	seeder, client := newSeeder(t)

	// A store with any user at all is considered initialized.
	existing := &models.User{
		ID:           uuid.New(),
		Name:         "Existing",
		Username:     "existing",
		PasswordHash: "$argon2id$v=19$m=8,t=1,p=1$AAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAA",
		Role:         enums.UserRoleManager,
		Active:       true,
	}
	require.NoError(t, client.DB().Create(existing).Error)

	require.NoError(t, seeder.Run(ctx))

	var settingsCount int64
	require.NoError(t, client.DB().Model(&models.Settings{}).Count(&settingsCount).Error)
	assert.Zero(t, settingsCount)
}
