package db

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hayyerp/pos-backend/pkg/config"
	"github.com/hayyerp/pos-backend/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Client wraps the shared GORM connection to the embedded sqlite store.
// One client is constructed at startup and injected into every component
// that needs persistence; there is no package-level singleton.
type Client struct {
	conn *gorm.DB
	path string
}

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New opens the sqlite store at cfg.Path, creating the file on first run.
func New(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*Client, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	dsn := DSN(cfg)

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite store: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}
	// sqlite allows a single writer; a second pooled connection only buys
	// lock contention.
	sqlDB.SetMaxOpenConns(1)

	if logg != nil {
		logg.Info(ctx, "sqlite store opened")
	}

	return &Client{conn: conn, path: cfg.Path}, nil
}

// DSN renders the sqlite connection string with the pragmas the store
// depends on (foreign keys enforced, writers waited on, WAL journaling).
func DSN(cfg config.DBConfig) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=%d&_journal_mode=WAL",
		cfg.Path, cfg.BusyTimeoutMS)
}

// DB returns the underlying GORM connection.
func (c *Client) DB() *gorm.DB {
	return c.conn
}

// Path returns the backing file path.
func (c *Client) Path() string {
	return c.path
}

// Ping verifies the datasource is reachable.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the underlying connection.
func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Destroy closes the client and removes the backing file. This is the
// recovery path for an unrecoverable schema mismatch; callers must log a
// warning before invoking it.
func (c *Client) Destroy() error {
	if err := c.Close(); err != nil {
		return err
	}
	if c.path == "" || c.path == ":memory:" {
		return nil
	}
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(c.path + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing store file: %w", err)
		}
	}
	return nil
}

// WithTx executes fn inside a transaction, rolling back on error/panic.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := c.conn.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
