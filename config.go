package residue

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/RobRuana/residue/logger"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Config holds the connection settings consumed by Open. The koanf tags map
// environment variables via FromEnv, the validate tags enforce that Open
// fails fast before any connection attempt.
type Config struct {
	Driver string `koanf:"driver" validate:"required,oneof=postgres mysql sqlite"`
	DSN    string `koanf:"dsn" validate:"required"`

	// TablePrefix and SingularTable feed the naming convention attached
	// to the base's schema.
	TablePrefix   string `koanf:"table_prefix"`
	SingularTable bool   `koanf:"singular_table"`

	// Connection pool tuning, passed through to database/sql. Zero values
	// leave the driver defaults in place. Durations are seconds.
	MaxOpenConns    int `koanf:"max_open_conns"`
	MaxIdleConns    int `koanf:"max_idle_conns"`
	ConnMaxLifetime int `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime int `koanf:"conn_max_idle_time"`

	// Logger is optional; when LogType is empty Open falls back to a
	// console logger at warning level.
	Logger logger.Settings `koanf:"logger" validate:"-"`
}

// FromEnv loads a Config from environment variables carrying the given
// prefix, reading a .env file first when one exists. Nested keys use a
// double underscore, e.g. RESIDUE_LOGGER__LOG_LEVEL maps to
// Config.Logger.LogLevel.
func FromEnv(prefix string) (Config, error) {
	// A missing .env file is not an error, the process env still applies.
	_ = godotenv.Load()

	k := koanf.New(".")
	err := k.Load(env.Provider(prefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, prefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the config is well formed. Failures wrap ErrConfig.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}

	if c.Logger.LogType != "" {
		if err := c.Logger.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrConfig, err)
		}
	}

	return nil
}
