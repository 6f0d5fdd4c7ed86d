package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	// StorageBackend selects where dossiers, services and users live.
	StorageBackend string `env:"STORAGE_BACKEND, default=memory"`

	Dossier    DossierConfig
	Bootstrap  BootstrapConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	AMQP       AMQPConfig
	Dispatcher DispatcherConfig
}

type DossierConfig struct {
	// StrictNotFound makes update/delete of an unknown id an error instead of a no-op.
	StrictNotFound bool   `env:"DOSSIER_STRICT_NOT_FOUND, default=false"`
	DeleteMode     string `env:"DOSSIER_DELETE_MODE,      default=tombstone"`
}

// BootstrapConfig describes the first admin account, created when no
// account with that email exists.
type BootstrapConfig struct {
	AdminEmail    string   `env:"BOOTSTRAP_ADMIN_EMAIL"`
	AdminPassword string   `env:"BOOTSTRAP_ADMIN_PASSWORD"`
	AdminServices []string `env:"BOOTSTRAP_ADMIN_SERVICES, default=CT-01"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=dossier_tracking"`
}

type RedisConfig struct {
	Enabled bool   `env:"REDIS_ENABLED, default=false"`
	Addr    string `env:"REDIS_ADDR,    default=localhost:6379"`
	DB      int    `env:"REDIS_DB,      default=0"`
}

// AMQPConfig enables the RabbitMQ event sink when URL is set.
type AMQPConfig struct {
	URL   string `env:"AMQP_URL"`
	Queue string `env:"AMQP_QUEUE, default=dossier.events"`
}

type DispatcherConfig struct {
	Workers int `env:"DISPATCHER_WORKERS, default=4"`
}

// IsDevelopment reports whether human-friendly logs should be used.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Validate rejects missing secrets and unknown enum values.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL))
	}
	switch c.StorageBackend {
	case BackendMemory, BackendMongo:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be %s or %s, got %q", BackendMemory, BackendMongo, c.StorageBackend))
	}
	switch c.Dossier.DeleteMode {
	case "tombstone", "hard":
	default:
		errs = append(errs, fmt.Errorf("DOSSIER_DELETE_MODE must be tombstone or hard, got %q", c.Dossier.DeleteMode))
	}
	if (c.Bootstrap.AdminEmail == "") != (c.Bootstrap.AdminPassword == "") {
		errs = append(errs, errors.New("BOOTSTRAP_ADMIN_EMAIL and BOOTSTRAP_ADMIN_PASSWORD must be set together"))
	}
	if c.Dispatcher.Workers < 1 {
		errs = append(errs, fmt.Errorf("DISPATCHER_WORKERS must be at least 1, got %d", c.Dispatcher.Workers))
	}
	return errors.Join(errs...)
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads and validates configuration from l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
