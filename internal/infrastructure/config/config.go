package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string        `env:"PORT, default=5000"`
	Env        string        `env:"ENV, default=development"`
	LogLevel   string        `env:"LOG_LEVEL, default=info"`
	JWTSecret  string        `env:"JWT_SECRET, required"`
	TokenTTL   time.Duration `env:"TOKEN_TTL, default=1h"`
	CORSOrigin []string      `env:"CORS_ORIGIN, default=*"`

	// StoreDriver selects the document store: mongo or memory.
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Storage StorageConfig
	Server  ServerConfig
	Limits  LimitsConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB, default=hastakala"`
}

// RedisConfig backs token revocation on logout. Disabled by default, in
// which case tokens stay valid until they expire.
type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED, default=false"`
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type StorageConfig struct {
	// Driver selects the content store: local or s3.
	Driver    string `env:"STORAGE_DRIVER, default=local"`
	UploadDir string `env:"UPLOAD_DIR, default=./uploads"`

	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3Region       string `env:"S3_REGION, default=us-east-1"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3AccessKey    string `env:"S3_ACCESS_KEY"`
	S3SecretKey    string `env:"S3_SECRET_KEY"`
	S3UsePathStyle bool   `env:"S3_USE_PATH_STYLE, default=true"`
}

type ServerConfig struct {
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT, default=30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT, default=30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT, default=120s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT, default=15s"`
}

type LimitsConfig struct {
	// LoginRate is requests per second per client IP on /auth/login and /auth/register.
	LoginRate     float64 `env:"LOGIN_RATE_LIMIT, default=5"`
	LoginBurst    int     `env:"LOGIN_RATE_BURST, default=10"`
	NotifyWorkers int     `env:"NOTIFY_WORKERS, default=4"`
}

// IsDevelopment reports whether the service runs locally.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from l and validates the driver choices.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case "mongo", "memory":
	default:
		return fmt.Errorf("load config: STORE_DRIVER must be mongo or memory, got %q", c.StoreDriver)
	}
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("load config: S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("load config: STORAGE_DRIVER must be local or s3, got %q", c.Storage.Driver)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("load config: TOKEN_TTL must be positive")
	}
	return nil
}
