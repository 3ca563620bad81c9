// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Storage backends.
const (
	StorageBadger   = "badger"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds every setting of the blog API.
type Config struct {
	Addr            string        `env:"BLOG_ADDR"             envDefault:":8080"       validate:"required"`
	Storage         string        `env:"BLOG_STORAGE"          envDefault:"badger"      validate:"oneof=badger sqlite postgres memory"`
	DBPath          string        `env:"BLOG_DB_PATH"          envDefault:"data/badger"`
	DatabaseURL     string        `env:"BLOG_DATABASE_URL"     validate:"required_if=Storage sqlite,required_if=Storage postgres"`
	LogLevel        string        `env:"BLOG_LOG_LEVEL"        envDefault:"info"        validate:"oneof=debug info warn error"`
	LogFormat       string        `env:"BLOG_LOG_FORMAT"       envDefault:"json"        validate:"oneof=json text"`
	ShutdownTimeout time.Duration `env:"BLOG_SHUTDOWN_TIMEOUT" envDefault:"10s"         validate:"gt=0"`
	BcryptCost      int           `env:"BLOG_BCRYPT_COST"      validate:"omitempty,min=4,max=31"`

	// AdminUser and AdminPassword seed an account when serve starts. They are
	// the only way to log in with the memory storage.
	AdminUser     string `env:"BLOG_ADMIN_USER"     validate:"omitempty,max=150"`
	AdminPassword string `env:"BLOG_ADMIN_PASSWORD" validate:"required_with=AdminUser"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values, including ones overridden by flags after Load.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
