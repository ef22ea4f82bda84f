package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Log      LogConfig      `mapstructure:"log"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
}

type RESTConfig struct {
	BaseURL string        `mapstructure:"base_url"` // overrides the environment's URL when set
	Timeout time.Duration `mapstructure:"timeout"`
}

type WSConfig struct {
	URL       string   `mapstructure:"url"`
	Timeframe string   `mapstructure:"timeframe"` // candle timeframe, e.g. "1m"
	Symbols   []string `mapstructure:"symbols"`   // empty means every listed symbol
}

// LogConfig defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
	MaxSizeMB   int    `mapstructure:"max_size_mb"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAgeDays  int    `mapstructure:"max_age_days"`
}

// ArchiveConfig drives the trade archiver.
type ArchiveConfig struct {
	Symbols     []string `mapstructure:"symbols"`
	Concurrency int      `mapstructure:"concurrency"`
	LimitTrades int      `mapstructure:"limit_trades"`
	Storage     string   `mapstructure:"storage"` // "memory" or "postgres"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("gemini.environment", "sandbox")
	v.SetDefault("gemini.rest.timeout", 30*time.Second)
	v.SetDefault("gemini.ws.timeframe", "1m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.environment", "dev")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 7)

	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.timezone", "UTC")

	v.SetDefault("archive.concurrency", 5)
	v.SetDefault("archive.limit_trades", 500)
	v.SetDefault("archive.storage", "memory")
}

// LoadFrom reads configuration from the YAML file at path, overridden by
// environment variables (GEMINI_API_KEY overrides gemini.api_key). A .env
// file in the working directory is loaded into the environment first when
// present. An empty path skips the file and uses defaults plus environment.
func LoadFrom(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// Support environment variables with dot notation (e.g., GEMINI_WS_URL)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load finds config.yaml next to the binary (or the package under go test)
// and exits on failure.
func Load() *Config {
	cfg, err := LoadFrom(defaultPath())
	if err != nil {
		log.Fatalf("%v", err)
	}
	return cfg
}

func defaultPath() string {
	ex, _ := os.Executable()
	var dir string
	if strings.Contains(ex, "go-build") {
		pwd, _ := os.Getwd()
		dir = filepath.Join(pwd, "../../config")
	} else {
		dir = filepath.Join(filepath.Dir(ex), "../config")
	}
	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// bindEnv registers keys that have no default, so AutomaticEnv sees them
// during Unmarshal.
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"gemini.api_key",
		"gemini.api_secret",
		"gemini.api_key_param",
		"gemini.api_secret_param",
		"gemini.rest.base_url",
		"gemini.ws.url",
		"log.output_file",
		"postgres.host",
		"postgres.user",
		"postgres.password",
		"postgres.dbname",
	} {
		_ = v.BindEnv(key)
	}
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Gemini.Environment {
	case "production", "sandbox":
	default:
		return fmt.Errorf("invalid gemini.environment %q: want production or sandbox", c.Gemini.Environment)
	}
	switch c.Archive.Storage {
	case "memory", "postgres":
	default:
		return fmt.Errorf("invalid archive.storage %q: want memory or postgres", c.Archive.Storage)
	}
	if c.Archive.Concurrency < 1 {
		return fmt.Errorf("archive.concurrency must be positive, got %d", c.Archive.Concurrency)
	}
	return nil
}
