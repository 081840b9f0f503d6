package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=10000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth    AuthConfig
	Storage StorageConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	MPesa   MPesaConfig
	SMS     SMSConfig
}

type AuthConfig struct {
	JWTSecret    string        `env:"JWT_SECRET"`
	TokenTTL     time.Duration `env:"TOKEN_TTL, default=720h"`
	BootstrapKey string        `env:"BOOTSTRAP_KEY"`

	DefaultOfficerPassword string `env:"DEFAULT_OFFICER_PASSWORD, default=officer123"`
	DefaultClientPassword  string `env:"DEFAULT_CLIENT_PASSWORD"`
}

type StorageConfig struct {
	// Driver selects the repository backend: file, mongo or memory.
	Driver  string `env:"STORAGE_DRIVER, default=file"`
	DataDir string `env:"DATA_DIR,       default=data"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=adaste_loans"`
}

// RedisConfig enables callback de-duplication when Addr is set.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type MPesaConfig struct {
	BaseURL     string `env:"MPESA_BASE_URL, default=https://sandbox.safaricom.co.ke/mpesa"`
	Shortcode   string `env:"MPESA_SHORTCODE"`
	Passkey     string `env:"MPESA_PASSKEY"`
	Token       string `env:"MPESA_TOKEN"`
	CallbackURL string `env:"CALLBACK_URL"`
}

type SMSConfig struct {
	BaseURL  string `env:"AT_BASE_URL,  default=https://api.africastalking.com/version1/messaging"`
	Username string `env:"AT_USERNAME"`
	APIKey   string `env:"AT_APIKEY"`
	SenderID string `env:"AT_SENDER_ID, default=ADASTE"`
	Workers  int    `env:"SMS_WORKERS,  default=2"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration from l and validates it.
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

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.Storage.Driver {
	case "file", "mongo", "memory":
	default:
		return fmt.Errorf("STORAGE_DRIVER must be file, mongo or memory, got %q", c.Storage.Driver)
	}
	if c.SMS.Workers < 1 {
		return fmt.Errorf("SMS_WORKERS must be at least 1")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
