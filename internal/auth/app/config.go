package app

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store driver names accepted in STORE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	Env       string `envconfig:"APP_ENV" default:"dev"`
	Port      int    `envconfig:"PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// SessionSecret is the shared HS256 signing secret. Every instance of
	// the service must be started with the same value.
	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	Issuer        string        `envconfig:"SESSION_ISSUER" default:"storefront-auth"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"168h"`
	ResetTokenTTL time.Duration `envconfig:"RESET_TOKEN_TTL" default:"1h"`

	// StoreDriver selects the relational backend: sqlite, mysql or postgres.
	StoreDriver string `envconfig:"STORE_DRIVER" default:"sqlite"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"storefront.db"`
	// MySQLDSN must include parseTime=true.
	MySQLDSN    string `envconfig:"MYSQL_DSN"`
	PostgresDSN string `envconfig:"POSTGRES_DSN"`

	ShutdownGracePeriod time.Duration `envconfig:"SHUTDOWN_GRACE_PERIOD" default:"10s"`
}

// LoadConfig reads configuration from the environment and validates the
// cross-field constraints envconfig can't express.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}

	if len(cfg.SessionSecret) < 32 {
		return Config{}, fmt.Errorf("SESSION_SECRET must be at least 32 bytes, got %d", len(cfg.SessionSecret))
	}

	switch cfg.StoreDriver {
	case DriverSQLite:
	case DriverMySQL:
		if cfg.MySQLDSN == "" {
			return Config{}, fmt.Errorf("STORE_DRIVER=mysql requires MYSQL_DSN")
		}
	case DriverPostgres:
		if cfg.PostgresDSN == "" {
			return Config{}, fmt.Errorf("STORE_DRIVER=postgres requires POSTGRES_DSN")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}
