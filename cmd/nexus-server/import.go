package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/healthnexus/nexus/internal/config"
	"github.com/healthnexus/nexus/internal/importer"
	"github.com/healthnexus/nexus/internal/platform/blobstore"
	"github.com/healthnexus/nexus/internal/platform/db"
	"github.com/healthnexus/nexus/internal/platform/redisstore"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a FHIR bundle into the record store",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")
			dbPath, _ := cmd.Flags().GetString("db")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.DatabaseDriver = db.DriverSQLite
				cfg.DatabasePath = dbPath
			}

			resolver := &blobstore.Resolver{
				Local: blobstore.NewFileStore(),
				S3: blobstore.S3Opener(blobstore.S3Config{
					Region:    cfg.AWSRegion,
					Endpoint:  cfg.S3Endpoint,
					PathStyle: cfg.S3PathStyle,
				}),
			}
			return runImport(cmd.Context(), cfg, newLogger(cfg), resolver, source, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("source", importer.DefaultSource, "bundle to import: path, -, file://, s3://bucket/key")
	cmd.Flags().String("db", "", "SQLite file to import into (overrides DATABASE_PATH)")
	return cmd
}

func runImport(ctx context.Context, cfg *config.Config, logger zerolog.Logger, resolver *blobstore.Resolver, source string, out io.Writer) error {
	rc, err := resolver.Open(ctx, source)
	if err != nil {
		return err
	}
	defer rc.Close()

	conn, err := db.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN())
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := db.EnsureSchema(ctx, conn, cfg.DatabaseDriver); err != nil {
		return err
	}

	im := importer.New(conn, logger)
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		key := "import:" + storeName(cfg)
		im.WithLock(func(ctx context.Context) (func(context.Context) error, error) {
			return rdb.Lock(ctx, key, cfg.ImportLockTTL, 3)
		})
	}

	summary, err := im.Import(ctx, rc)
	if err != nil {
		return fmt.Errorf("import %s: %w", source, err)
	}
	fmt.Fprintln(out, summary.Line(storeName(cfg)))
	return nil
}
