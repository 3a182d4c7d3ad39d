package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hayyerp/pos-backend/internal/barcode"
	"github.com/hayyerp/pos-backend/internal/categories"
	"github.com/hayyerp/pos-backend/internal/seed"
	"github.com/hayyerp/pos-backend/internal/settings"
	"github.com/hayyerp/pos-backend/internal/users"
	"github.com/hayyerp/pos-backend/pkg/config"
	"github.com/hayyerp/pos-backend/pkg/db"
	"github.com/hayyerp/pos-backend/pkg/logger"
	"github.com/hayyerp/pos-backend/pkg/migrate"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "posctl",
		Short:         "Operate the point-of-sale store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newSeedCommand())
	cmd.AddCommand(newBarcodeCommand())
	return cmd
}

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the store schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, client *db.Client, logg *logger.Logger) error {
				sqlDB, err := client.DB().DB()
				if err != nil {
					return fmt.Errorf("extracting sql.DB: %w", err)
				}
				if err := migrate.Up(ctx, sqlDB); err != nil {
					return err
				}
				fmt.Println("store schema is up to date")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, client *db.Client, logg *logger.Logger) error {
				sqlDB, err := client.DB().DB()
				if err != nil {
					return fmt.Errorf("extracting sql.DB: %w", err)
				}
				return migrate.Status(ctx, sqlDB)
			})
		},
	})

	return cmd
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed an empty store with the admin account and starter data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, client *db.Client, logg *logger.Logger) error {
				client, err := migrate.EnsureSchema(ctx, cfg.DB, logg, client)
				if err != nil {
					return err
				}
				seeder, err := seed.New(
					client,
					users.NewRepository(client.DB()),
					settings.NewRepository(client.DB()),
					categories.NewRepository(client.DB()),
					cfg.Password,
					cfg.Seed,
					logg,
				)
				if err != nil {
					return err
				}
				return seeder.Run(ctx)
			})
		},
	}
}

func newBarcodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "barcode",
		Short: "Barcode utilities",
	}

	var count int
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Print freshly generated barcodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			generator, err := barcode.NewGenerator(cfg.Barcode.Prefix)
			if err != nil {
				return err
			}
			for i := 0; i < count; i++ {
				code, err := generator.Generate()
				if err != nil {
					return err
				}
				fmt.Println(code)
			}
			return nil
		},
	}
	generate.Flags().IntVarP(&count, "count", "n", 1, "number of codes to generate")
	cmd.AddCommand(generate)

	return cmd
}

func withStore(ctx context.Context, fn func(context.Context, *config.Config, *db.Client, *logger.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logg := logger.New(logger.Options{
		ServiceName: "posctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Console:     true,
	})

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer client.Close()

	return fn(ctx, cfg, client, logg)
}
