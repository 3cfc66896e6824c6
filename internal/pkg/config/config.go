package config

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret is the base64-encoded HMAC signing secret. Required.
	JWTSecret string `env:"JWT_SECRET, required"`
	// JWTTTLMillis is the token lifetime in milliseconds.
	JWTTTLMillis int64 `env:"JWT_TTL_MS, default=86400000"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Upload UploadConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=sweetshop"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type UploadConfig struct {
	Dir string `env:"UPLOAD_DIR, default=uploads"`
	// BaseURL is the public prefix under which uploaded files are served.
	BaseURL string `env:"PUBLIC_BASE_URL, default=http://localhost:8080"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// SigningSecret decodes the base64 JWT secret into raw key bytes.
func (c *Config) SigningSecret() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(c.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("config: JWT_SECRET is not valid base64: %w", err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("config: JWT_SECRET decodes to an empty key")
	}
	return key, nil
}
