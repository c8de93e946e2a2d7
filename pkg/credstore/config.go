package credstore

import (
	"context"
	"fmt"
	"time"
)

// Config holds credential store configuration.
type Config struct {
	// TTL applies to every artifact write (default: 7 days)
	TTL time.Duration `env:"CREDSTORE_TTL" envDefault:"168h"`

	// Backend selects the store implementation: memory, file or redis
	Backend string `env:"CREDSTORE_BACKEND" envDefault:"memory"`

	// FilePath and FileSecret configure the encrypted file backend
	FilePath   string `env:"CREDSTORE_FILE_PATH" envDefault:""`
	FileSecret string `env:"CREDSTORE_FILE_SECRET" envDefault:""`

	// RedisURL and RedisPrefix configure the shared redis backend
	RedisURL    string `env:"CREDSTORE_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisPrefix string `env:"CREDSTORE_REDIS_PREFIX" envDefault:""`
}

// DefaultConfig returns default credential store configuration.
func DefaultConfig() Config {
	return Config{
		TTL:      7 * 24 * time.Hour,
		Backend:  "memory",
		RedisURL: "redis://localhost:6379/0",
	}
}

// NewFromConfig creates a Manager with the backend named by the config.
func NewFromConfig(ctx context.Context, cfg Config, opts ...Option) (*Manager, error) {
	var (
		store Store
		err   error
	)

	switch cfg.Backend {
	case "", "memory":
		store = NewMemoryStore()
	case "file":
		store, err = NewFileStore(cfg.FilePath, cfg.FileSecret)
	case "redis":
		store, err = NewRedisStoreFromURL(ctx, cfg.RedisURL, cfg.RedisPrefix)
	default:
		err = fmt.Errorf("credstore: unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	configOpts := append([]Option{WithConfig(cfg)}, opts...)
	return New(store, configOpts...), nil
}
