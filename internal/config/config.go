// Package config loads and validates app config from env and an
// optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// RefreshTTL is the refresh credential lifetime (e.g. "168h"). The
	// lifecycle clamps it into [5m, 8760h] at issue time regardless.
	RefreshTTL string `mapstructure:"REFRESH_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31) for credential
	// secrets; default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// RequireDeviceID rejects issue/rotate/revoke requests without a
	// device id at the caller boundary. Forced on when Env is
	// production.
	RequireDeviceID bool `mapstructure:"REQUIRE_DEVICE_ID"`
	// Env is the application environment (e.g. "development",
	// "production").
	Env string `mapstructure:"APP_ENV"`
	// OTLPEndpoint is the OTLP gRPC collector endpoint (e.g.
	// http://localhost:4317). Empty disables export.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// RetentionWindow is how long retired sessions are kept past expiry
	// for audit and replay detection before the sweeper deletes them
	// (e.g. "720h").
	RetentionWindow string `mapstructure:"RETENTION_WINDOW"`
}

// Load reads .env (if present), then builds and validates Config from
// the environment via Viper. Missing .env is ignored (e.g. in CI). Env
// vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REFRESH_TTL", "168h") // 7d
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("REQUIRE_DEVICE_ID", false)
	v.SetDefault("APP_ENV", "")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("RETENTION_WINDOW", "720h") // 30d

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	if cfg.Env == "production" {
		cfg.RequireDeviceID = true
	}

	return &cfg, nil
}

// RefreshLifetime parses RefreshTTL as a time.Duration. Returns 168h if
// unset or invalid.
func (c *Config) RefreshLifetime() time.Duration {
	d, err := time.ParseDuration(c.RefreshTTL)
	if err != nil || d <= 0 {
		return 168 * time.Hour
	}
	return d
}

// Retention parses RetentionWindow as a time.Duration. Returns 720h if
// unset or invalid.
func (c *Config) Retention() time.Duration {
	d, err := time.ParseDuration(c.RetentionWindow)
	if err != nil || d <= 0 {
		return 720 * time.Hour
	}
	return d
}
