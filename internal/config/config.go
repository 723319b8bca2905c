// Package config loads snipbox settings from defaults, an optional YAML file,
// a .env file and SNIPBOX_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "SNIPBOX"

// DevJWTSecret is the development default; serve warns when it is in use.
const DevJWTSecret = "snipbox-dev-secret-change-me"

// Config holds every snipbox setting.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      string        `mapstructure:"db"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Log     LogConfig     `mapstructure:"log"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Analyze AnalyzeConfig `mapstructure:"analyze"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr    string `mapstructure:"addr" validate:"required"`
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

// AuthConfig configures accounts and tokens.
type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret" validate:"required"`
	TokenTTL   time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
	BcryptCost int           `mapstructure:"bcrypt_cost" validate:"min=4,max=31"`
	RateLimit  float64       `mapstructure:"rate_limit" validate:"gte=0"` // requests per second per IP, 0 disables
	RateBurst  int           `mapstructure:"rate_burst" validate:"gte=0"`
}

// LogConfig configures slog output.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

// TracingConfig toggles OpenTelemetry tracing.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// AnalyzeConfig configures live analysis.
type AnalyzeConfig struct {
	Debounce time.Duration `mapstructure:"debounce" validate:"gt=0"`
}

// SetDefaults registers every key with its default so environment
// variables are seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("db", "")
	v.SetDefault("auth.jwt_secret", DevJWTSecret)
	v.SetDefault("auth.token_ttl", 7*24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("auth.rate_limit", 1.0)
	v.SetDefault("auth.rate_burst", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("analyze.debounce", 500*time.Millisecond)
}

// Load reads configuration into v and returns the validated result.
// cfgFile names an explicit config file; when empty, snipbox.yaml is looked
// up in the working directory and is optional.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("snipbox")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks cfg for out-of-range values.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// UsesDevSecret reports whether the development token secret is configured.
func (c Config) UsesDevSecret() bool {
	return c.Auth.JWTSecret == DevJWTSecret
}
