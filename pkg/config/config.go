package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "HAYY"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	Password PasswordConfig
	Barcode  BarcodeConfig
	Seed     SeedConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Barcode.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HAYY_APP_ENV" default:"dev"`
	Port         string `envconfig:"HAYY_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"HAYY_LOG_LEVEL" default:"info"`
	LogConsole   bool   `envconfig:"HAYY_LOG_CONSOLE" default:"false"`
	LogWarnStack bool   `envconfig:"HAYY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	// Path is the sqlite database file. The store is a single local file;
	// ":memory:" is accepted for throwaway instances.
	Path string `envconfig:"HAYY_DB_PATH" default:"hayyerp.db"`
	// BusyTimeoutMS is passed to sqlite so concurrent readers wait for the
	// single writer instead of failing immediately.
	BusyTimeoutMS int `envconfig:"HAYY_DB_BUSY_TIMEOUT_MS" default:"5000"`
	// RecreateOnMismatch allows dropping and rebuilding the store when its
	// schema version is ahead of what this binary understands.
	RecreateOnMismatch bool `envconfig:"HAYY_DB_RECREATE_ON_MISMATCH" default:"true"`
}

type JWTConfig struct {
	Secret     string `envconfig:"HAYY_JWT_SECRET" default:"dev-only-secret"`
	TTLMinutes int    `envconfig:"HAYY_JWT_TTL_MINUTES" default:"480"`
	Issuer     string `envconfig:"HAYY_JWT_ISSUER" default:"hayyerp"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"HAYY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"HAYY_ARGON_TIME" default:"1"`
	ArgonParallelism int `envconfig:"HAYY_ARGON_PARALLELISM" default:"4"`
	ArgonSaltLen     int `envconfig:"HAYY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"HAYY_ARGON_KEY_LEN" default:"32"`
}

type BarcodeConfig struct {
	// Prefix is the fixed business prefix that leads every generated
	// barcode. Exactly three decimal digits.
	Prefix string `envconfig:"HAYY_BARCODE_PREFIX" default:"890"`
}

func (b BarcodeConfig) validate() error {
	if len(b.Prefix) != 3 {
		return fmt.Errorf("barcode prefix must be exactly 3 digits, got %q", b.Prefix)
	}
	for _, r := range b.Prefix {
		if r < '0' || r > '9' {
			return fmt.Errorf("barcode prefix must be numeric, got %q", b.Prefix)
		}
	}
	return nil
}

type SeedConfig struct {
	AdminUsername string `envconfig:"HAYY_SEED_ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"HAYY_SEED_ADMIN_PASSWORD" default:"admin123"`
	AdminEmail    string `envconfig:"HAYY_SEED_ADMIN_EMAIL" default:"admin@example.com"`
}
