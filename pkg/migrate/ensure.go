package migrate

import (
	"context"
	"fmt"

	"github.com/hayyerp/pos-backend/pkg/config"
	"github.com/hayyerp/pos-backend/pkg/db"
	"github.com/hayyerp/pos-backend/pkg/logger"
)

// EnsureSchema brings an opened store to the binary's schema version.
//
// A store written by a NEWER binary (db version ahead of what we ship) is an
// unrecoverable mismatch: when cfg.RecreateOnMismatch is set the store file
// is destroyed and rebuilt from scratch — the only sanctioned data-loss
// path, always logged as a warning — otherwise the mismatch is returned as
// an error. The returned client replaces the one passed in; callers must
// use it for all further access.
func EnsureSchema(ctx context.Context, cfg config.DBConfig, logg *logger.Logger, client *db.Client) (*db.Client, error) {
	sqlDB, err := client.DB().DB()
	if err != nil {
		return nil, fmt.Errorf("extracting sql.DB: %w", err)
	}

	binaryVersion, err := BinaryVersion()
	if err != nil {
		return nil, err
	}
	storeVersion, err := DBVersion(sqlDB)
	if err != nil {
		return nil, err
	}

	if storeVersion > binaryVersion {
		if !cfg.RecreateOnMismatch {
			return nil, fmt.Errorf("store schema version %d is ahead of binary version %d", storeVersion, binaryVersion)
		}

		mismatchCtx := logg.WithFields(ctx, map[string]any{
			"store_version":  storeVersion,
			"binary_version": binaryVersion,
			"path":           client.Path(),
		})
		logg.Warn(mismatchCtx, "store schema is ahead of this binary; recreating store, existing data will be lost")

		if err := client.Destroy(); err != nil {
			return nil, fmt.Errorf("destroying mismatched store: %w", err)
		}
		client, err = db.New(ctx, cfg, logg)
		if err != nil {
			return nil, fmt.Errorf("reopening store: %w", err)
		}
		sqlDB, err = client.DB().DB()
		if err != nil {
			return nil, fmt.Errorf("extracting sql.DB: %w", err)
		}
	}

	if storeVersion != binaryVersion {
		versionCtx := logg.WithFields(ctx, map[string]any{
			"store_version":  storeVersion,
			"binary_version": binaryVersion,
		})
		logg.Info(versionCtx, "running schema migrations")
	}

	if err := Up(ctx, sqlDB); err != nil {
		return nil, err
	}
	return client, nil
}
