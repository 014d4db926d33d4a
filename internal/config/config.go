package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidConfig               = errors.New("invalid configuration")
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string   `mapstructure:"env"`          // current application environment (local, dev, production etc)
	TelegramAPIToken string   `mapstructure:"-"`            // Telegram API token loaded from environment
	CatalogPath      string   `mapstructure:"catalog_path"` // optional JSON file overriding the built-in rules and mistakes
	Telegram         Telegram `mapstructure:"telegram"`
	Quiz             Quiz     `mapstructure:"quiz"`
	Metrics          Metrics  `mapstructure:"metrics"`
	DB               DB       `mapstructure:"database"` // database configuration section
}

// Metrics configures the Prometheus endpoint.
type Metrics struct {
	Addr string `mapstructure:"addr"` // listen address of /metrics; empty disables the endpoint
}

// Telegram contains bot polling options.
type Telegram struct {
	Debug         bool `mapstructure:"debug"`
	UpdateTimeout int  `mapstructure:"update_timeout"` // long polling timeout in seconds
}

// Quiz contains quiz session tuning.
type Quiz struct {
	SessionLength int           `mapstructure:"session_length"` // questions per run
	AdvanceDelay  time.Duration `mapstructure:"advance_delay"`  // pause between feedback and the next question
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`       // sessions untouched for longer are evicted
	SweepSchedule string        `mapstructure:"sweep_schedule"` // cron schedule of the idle session sweep
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// IsProduction reports whether the app runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from .env, config files and environment variables.
// Config files are looked up in ./config unless configDir is given.
func Load(configDir string) (*Config, error) {
	// Values from .env never override variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configDir == "" {
		configDir = "./config"
	}
	v.AddConfigPath(configDir)

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("catalog_path", "")
	v.SetDefault("telegram.debug", false)
	v.SetDefault("telegram.update_timeout", 60)
	v.SetDefault("quiz.session_length", 10)
	v.SetDefault("quiz.advance_delay", "2s")
	v.SetDefault("quiz.idle_ttl", "24h")
	v.SetDefault("quiz.sweep_schedule", "@every 10m")
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Quiz.SessionLength <= 0:
		return fmt.Errorf("%w: quiz.session_length must be positive", ErrInvalidConfig)
	case c.Quiz.AdvanceDelay < 0:
		return fmt.Errorf("%w: quiz.advance_delay must not be negative", ErrInvalidConfig)
	case c.Quiz.IdleTTL <= 0:
		return fmt.Errorf("%w: quiz.idle_ttl must be positive", ErrInvalidConfig)
	case c.Quiz.SweepSchedule == "":
		return fmt.Errorf("%w: quiz.sweep_schedule is empty", ErrInvalidConfig)
	case c.Telegram.UpdateTimeout < 0:
		return fmt.Errorf("%w: telegram.update_timeout must not be negative", ErrInvalidConfig)
	case c.DB.MaxConnections <= 0:
		return fmt.Errorf("%w: database.max_connections must be positive", ErrInvalidConfig)
	}
	return nil
}
