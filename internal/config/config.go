package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/healthnexus/nexus/internal/platform/db"
	"github.com/healthnexus/nexus/internal/platform/inference"
)

// Model providers.
const (
	ProviderAzure  = "azure"
	ProviderStatic = "static"
)

type Config struct {
	Port           string        `mapstructure:"PORT"`
	Env            string        `mapstructure:"ENV"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	DatabaseDriver string        `mapstructure:"DATABASE_DRIVER"`
	DatabasePath   string        `mapstructure:"DATABASE_PATH"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	BodyLimit      string        `mapstructure:"BODY_LIMIT"`

	ModelProvider      string        `mapstructure:"MODEL_PROVIDER"`
	ModelEndpoint      string        `mapstructure:"MODEL_ENDPOINT"`
	ModelAPIVersion    string        `mapstructure:"MODEL_API_VERSION"`
	ModelName          string        `mapstructure:"MODEL_NAME"`
	ModelAPIToken      string        `mapstructure:"MODEL_API_TOKEN"`
	ModelTemperature   float64       `mapstructure:"MODEL_TEMPERATURE"`
	ModelTopP          float64       `mapstructure:"MODEL_TOP_P"`
	ModelTimeout       time.Duration `mapstructure:"MODEL_TIMEOUT"`
	ModelMaxConcurrent int64         `mapstructure:"MODEL_MAX_CONCURRENT"`
	ModelMaxRetries    int           `mapstructure:"MODEL_MAX_RETRIES"`
	ModelRetryBackoff  time.Duration `mapstructure:"MODEL_RETRY_BACKOFF"`
	PromptFile         string        `mapstructure:"PROMPT_FILE"`
	StaticInsight      string        `mapstructure:"STATIC_INSIGHT"`

	RedisURL        string        `mapstructure:"REDIS_URL"`
	InsightCacheTTL time.Duration `mapstructure:"INSIGHT_CACHE_TTL"`
	ImportLockTTL   time.Duration `mapstructure:"IMPORT_LOCK_TTL"`

	AWSRegion   string `mapstructure:"AWS_REGION"`
	S3Endpoint  string `mapstructure:"S3_ENDPOINT"`
	S3PathStyle bool   `mapstructure:"S3_PATH_STYLE"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL",
	"DATABASE_DRIVER", "DATABASE_PATH", "DATABASE_URL",
	"CORS_ORIGINS", "REQUEST_TIMEOUT", "BODY_LIMIT",
	"MODEL_PROVIDER", "MODEL_ENDPOINT", "MODEL_API_VERSION", "MODEL_NAME",
	"MODEL_TEMPERATURE", "MODEL_TOP_P", "MODEL_TIMEOUT", "MODEL_MAX_CONCURRENT",
	"MODEL_MAX_RETRIES", "MODEL_RETRY_BACKOFF", "PROMPT_FILE", "STATIC_INSIGHT",
	"REDIS_URL", "INSIGHT_CACHE_TTL", "IMPORT_LOCK_TTL",
	"AWS_REGION", "S3_ENDPOINT", "S3_PATH_STYLE",
}

// Load reads configuration from the environment and an optional .env file
// in the working directory.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_DRIVER", db.DriverSQLite)
	v.SetDefault("DATABASE_PATH", db.DefaultPath)
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("REQUEST_TIMEOUT", "90s")
	v.SetDefault("BODY_LIMIT", "2M")
	v.SetDefault("MODEL_PROVIDER", ProviderAzure)
	v.SetDefault("MODEL_ENDPOINT", inference.DefaultEndpoint)
	v.SetDefault("MODEL_API_VERSION", inference.DefaultAPIVersion)
	v.SetDefault("MODEL_NAME", inference.DefaultModel)
	v.SetDefault("MODEL_TEMPERATURE", 1.0)
	v.SetDefault("MODEL_TOP_P", 1.0)
	v.SetDefault("MODEL_TIMEOUT", "60s")
	v.SetDefault("MODEL_MAX_CONCURRENT", 4)
	v.SetDefault("MODEL_MAX_RETRIES", 0)
	v.SetDefault("MODEL_RETRY_BACKOFF", "500ms")
	v.SetDefault("STATIC_INSIGHT", "Genome insights are disabled in this environment.")
	v.SetDefault("INSIGHT_CACHE_TTL", "24h")
	v.SetDefault("IMPORT_LOCK_TTL", "5m")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}
	// GitHub Models accepts a GitHub token as the bearer credential.
	_ = v.BindEnv("MODEL_API_TOKEN", "MODEL_API_TOKEN", "GITHUB_TOKEN")

	// .env is optional.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// DatabaseDSN is the file path for SQLite and the connection URL otherwise.
func (c *Config) DatabaseDSN() string {
	if c.DatabaseDriver == db.DriverPostgres {
		return c.DatabaseURL
	}
	return c.DatabasePath
}

// Validate checks settings shared by every command. The model token is
// checked when the chat client is built, so import and schema runs do not
// need one.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case db.DriverSQLite:
	case db.DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DATABASE_DRIVER is %q", db.DriverPostgres)
		}
	default:
		return fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", db.DriverSQLite, db.DriverPostgres, c.DatabaseDriver)
	}

	switch c.ModelProvider {
	case ProviderAzure, ProviderStatic:
	default:
		return fmt.Errorf("MODEL_PROVIDER must be %q or %q, got %q", ProviderAzure, ProviderStatic, c.ModelProvider)
	}

	if c.ModelMaxConcurrent < 1 {
		return fmt.Errorf("MODEL_MAX_CONCURRENT must be at least 1, got %d", c.ModelMaxConcurrent)
	}
	if c.ModelMaxRetries < 0 {
		return fmt.Errorf("MODEL_MAX_RETRIES must not be negative, got %d", c.ModelMaxRetries)
	}
	if c.ModelTimeout < 0 || c.RequestTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if c.RedisURL != "" && c.ImportLockTTL <= 0 {
		return fmt.Errorf("IMPORT_LOCK_TTL must be positive when REDIS_URL is set")
	}
	return nil
}
