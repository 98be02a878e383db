package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "TODOS_"

// Config is read from TODOS_<SECTION>_<KEY> variables, e.g.
// TODOS_SERVER_PORT -> server.port.
type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Logging   LoggingConfig   `koanf:"logging"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
}

type AppConfig struct {
	Name        string `koanf:"name" validate:"required"`
	Version     string `koanf:"version" validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=development test production"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required,numeric"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	EnforceHTTPS bool          `koanf:"enforce_https"`
	CORSOrigins  []string      `koanf:"cors_origins"`
}

type DatabaseConfig struct {
	Driver          string        `koanf:"driver" validate:"required,oneof=sqlite postgres"`
	DSN             string        `koanf:"dsn" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

type TelemetryConfig struct {
	Enabled      bool   `koanf:"enabled"`
	OTLPEndpoint string `koanf:"otlp_endpoint" validate:"required_if=Enabled true"`
	MetricsPort  string `koanf:"metrics_port" validate:"required,numeric"`
}

type LoggingConfig struct {
	Level   string `koanf:"level" validate:"oneof=debug info warn error"`
	LokiURL string `koanf:"loki_url" validate:"omitempty,url"`
}

type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Requests int           `koanf:"requests" validate:"required_if=Enabled true,gte=0"`
	Window   time.Duration `koanf:"window" validate:"required_if=Enabled true"`
}

func GetDefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "todos",
			Version:     "dev",
			Environment: "development",
		},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			CORSOrigins:  []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			DSN:             "todos.db",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: "localhost:4317",
			MetricsPort:  "9091",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 60,
			Window:   time.Minute,
		},
	}
}

// Load returns the defaults overridden by the environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := GetDefaultConfig()

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// envKey turns TODOS_SERVER_READ_TIMEOUT into server.read_timeout.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// listKeys are read as comma separated values.
var listKeys = map[string]bool{
	"server.cors_origins": true,
}

func envValue(s, v string) (string, any) {
	key := envKey(s)
	if !listKeys[key] {
		return key, v
	}

	values := make([]string, 0)
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			values = append(values, item)
		}
	}

	return key, values
}

// Validate checks cfg and joins every failure into one readable error.
func Validate(cfg *Config) error {
	validate := validator.New()

	locale := en.New()
	trans, _ := ut.New(locale, locale).GetTranslator("en")

	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return err
	}

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s: %s", fieldErr.Namespace(), fieldErr.Translate(trans)))
	}

	return fmt.Errorf("invalid config: %s", strings.Join(messages, "; "))
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
