package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"

	PrimalityTrial       = "trial"
	PrimalityMillerRabin = "miller-rabin"
)

type Config struct {
	Env  string `env:"ENV,default=development"`
	Port string `env:"PORT,default=8080"`

	StoreBackend string `env:"STORE_BACKEND,default=memory"`
	RedisURL     string `env:"REDIS_URL,default=localhost:6379"`
	RedisPass    string `env:"REDIS_PASS"`
	RedisDB      int    `env:"REDIS_DB,default=0"`

	// DatabaseURL enables the Postgres draw audit sink when set.
	DatabaseURL string `env:"DATABASE_URL"`

	JWTSecret  string        `env:"JWT_SECRET"`
	JWTTTL     time.Duration `env:"JWT_TTL,default=24h"`
	AdminToken string        `env:"ADMIN_TOKEN"`

	Primality         string `env:"PRIMALITY,default=miller-rabin"`
	MillerRabinRounds int    `env:"MILLER_RABIN_ROUNDS,default=5"`

	GenesisUnix  int64         `env:"GENESIS_UNIX,default=1700000000"`
	SlotDuration time.Duration `env:"SLOT_DURATION,default=400ms"`

	AllowAirdrop  bool `env:"ALLOW_AIRDROP,default=false"`
	DrawRateLimit int  `env:"DRAW_RATE_LIMIT,default=60"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("invalid STORE_BACKEND: %s", c.StoreBackend)
	}
	switch c.Primality {
	case PrimalityTrial, PrimalityMillerRabin:
	default:
		return fmt.Errorf("invalid PRIMALITY: %s", c.Primality)
	}
	if c.MillerRabinRounds < 1 {
		return fmt.Errorf("MILLER_RABIN_ROUNDS must be at least 1, got %d", c.MillerRabinRounds)
	}
	if c.SlotDuration <= 0 {
		return fmt.Errorf("SLOT_DURATION must be positive, got %s", c.SlotDuration)
	}
	if c.Env == "production" && c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	return nil
}

func (c *Config) Genesis() time.Time {
	return time.Unix(c.GenesisUnix, 0)
}
