package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/healthnexus/nexus/internal/config"
	"github.com/healthnexus/nexus/internal/domain/insight"
	"github.com/healthnexus/nexus/internal/domain/observation"
	"github.com/healthnexus/nexus/internal/platform/db"
	"github.com/healthnexus/nexus/internal/platform/inference"
	"github.com/healthnexus/nexus/internal/platform/middleware"
	"github.com/healthnexus/nexus/internal/platform/openapi"
	"github.com/healthnexus/nexus/internal/platform/redisstore"
	"github.com/healthnexus/nexus/internal/platform/telemetry"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:           "nexus-server",
		Short:         "Health Nexus insight service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(schemaCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the insight API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg, newLogger(cfg))
		},
	}
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the record store tables without importing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			conn, err := db.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN())
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := db.EnsureSchema(ctx, conn, cfg.DatabaseDriver); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema ready in %s.\n", storeName(cfg))
			return nil
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && level != zerolog.NoLevel {
		logger = logger.Level(level)
	}
	return logger
}

// storeName is what the import summary reports as the target database.
func storeName(cfg *config.Config) string {
	if cfg.DatabaseDriver == db.DriverPostgres {
		return "postgres"
	}
	return cfg.DatabasePath
}

func runServer(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	conn, err := db.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer conn.Close()
	if err := db.EnsureSchema(ctx, conn, cfg.DatabaseDriver); err != nil {
		return err
	}
	logger.Info().Str("driver", cfg.DatabaseDriver).Msg("connected to database")

	var kv inference.KV
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		if err := rdb.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable, insight cache will miss until it recovers")
		}
		kv = rdb
	}

	metrics := telemetry.NewMetrics()
	metrics.WatchDB("records", conn)

	interp, err := buildInterpreter(cfg, logger, metrics, kv)
	if err != nil {
		return err
	}

	e := newServer(cfg, logger, conn, interp, metrics)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("model_provider", cfg.ModelProvider).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

// buildInterpreter assembles the model call chain:
// client -> guard -> cache (when Redis is configured) -> metrics.
func buildInterpreter(cfg *config.Config, logger zerolog.Logger, metrics *telemetry.Metrics, kv inference.KV) (inference.Interpreter, error) {
	var (
		interp  inference.Interpreter
		version string
	)
	switch cfg.ModelProvider {
	case config.ProviderStatic:
		interp = inference.Static{Text: cfg.StaticInsight}
		version = "static"
	default:
		prompt, err := inference.LoadPrompt(cfg.PromptFile)
		if err != nil {
			return nil, err
		}
		client, err := inference.NewChatClient(inference.ChatConfig{
			Endpoint:    cfg.ModelEndpoint,
			APIVersion:  cfg.ModelAPIVersion,
			Model:       cfg.ModelName,
			Token:       cfg.ModelAPIToken,
			Temperature: cfg.ModelTemperature,
			TopP:        cfg.ModelTopP,
		}, prompt, &http.Client{})
		if err != nil {
			return nil, fmt.Errorf("model client: %w", err)
		}
		interp = inference.NewGuard(client, inference.GuardConfig{
			Timeout:       cfg.ModelTimeout,
			MaxConcurrent: cfg.ModelMaxConcurrent,
			MaxRetries:    cfg.ModelMaxRetries,
			Backoff:       cfg.ModelRetryBackoff,
		})
		version = client.PromptVersion()
	}

	if kv != nil {
		interp = inference.NewCache(interp, kv, cfg.InsightCacheTTL, version, logger)
	}
	if metrics != nil {
		interp = inference.Instrument(interp, metrics)
	}
	return interp, nil
}

func newServer(cfg *config.Config, logger zerolog.Logger, conn *sql.DB, interp inference.Interpreter, metrics *telemetry.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(metrics.Middleware())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, middleware.RequestIDHeader},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/db", db.HealthHandler(conn))
	e.GET("/metrics", metrics.Handler())

	svc := insight.NewService(observation.NewService(observation.NewRepoSQL(conn)), interp, logger)
	insight.NewHandler(svc).RegisterRoutes(e)

	openapi.NewGenerator("Health Nexus AI Backend", version).
		Add(insight.Operations(), insight.Schemas()).
		RegisterRoutes(e)

	return e
}
