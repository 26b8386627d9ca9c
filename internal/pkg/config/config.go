package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Token     TokenConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Mongo     MongoConfig
	S3        S3Config
	RateLimit RateLimitConfig
}

type TokenConfig struct {
	Secret    string        `env:"JWT_SECRET,    required"`
	Algorithm string        `env:"JWT_ALGORITHM, required"`
	TTL       time.Duration `env:"JWT_TTL,       default=900s"`
	// Revocation enables /auth/logout and the denylist check. Needs Redis.
	Revocation bool `env:"TOKEN_REVOCATION, default=false"`
}

type PostgresConfig struct {
	URL          string        `env:"DATABASE_URL,        required"`
	MaxOpenConns int           `env:"DB_MAX_OPEN_CONNS,   default=20"`
	MaxIdleConns int           `env:"DB_MAX_IDLE_CONNS,   default=20"`
	ConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME, default=30m"`
	AutoMigrate  bool          `env:"DB_AUTO_MIGRATE,     default=true"`
}

// RedisConfig is optional; an empty Addr disables every Redis-backed feature.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// MongoConfig is optional; an empty URI disables the audit trail.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=todo_list"`
	Workers  int    `env:"AUDIT_WORKERS, default=2"`
}

type S3Config struct {
	Bucket           string        `env:"S3_BUCKET,         default=todo-list"`
	Region           string        `env:"S3_REGION,         default=us-east-1"`
	Endpoint         string        `env:"S3_ENDPOINT"`
	AccessKey        string        `env:"S3_ACCESS_KEY"`
	SecretKey        string        `env:"S3_SECRET_KEY"`
	AttachmentURLTTL time.Duration `env:"ATTACHMENT_URL_TTL, default=744h"`
}

type RateLimitConfig struct {
	AuthPerMinute float64 `env:"AUTH_RATE_PER_MINUTE, default=20"`
	AuthBurst     int     `env:"AUTH_RATE_BURST,      default=5"`
	// TrustedProxies lists CIDRs whose X-Forwarded-For is honoured. Empty
	// means the socket peer is the client.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// IsDevelopment reports whether human-friendly output should be used.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Load reads an optional .env file and then the process environment.
// Missing required settings are returned as an error; callers treat it as fatal.
func Load(ctx context.Context, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Token.Revocation && cfg.Redis.Addr == "" {
		return nil, errors.New("config: TOKEN_REVOCATION requires REDIS_ADDR")
	}
	return &cfg, nil
}
